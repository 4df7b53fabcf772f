package http

import "github.com/gin-gonic/gin"

// Register registers the draft routes
func (h *Handler) Register(rg *gin.RouterGroup) {
	g := rg.Group("", forwardAuthorization())

	g.GET("/options", h.Options)
	g.POST("/drafts", h.Open)
	g.POST("/projects/:project_id/drafts", h.OpenForEdit)

	g.GET("/drafts/:id", h.Get)
	g.DELETE("/drafts/:id", h.Cancel)
	g.PATCH("/drafts/:id/fields", h.SetField)
	g.POST("/drafts/:id/validate", h.Validate)
	g.PUT("/drafts/:id/upload", h.Upload)
	g.DELETE("/drafts/:id/upload", h.DeleteUpload)

	g.POST("/drafts/:id/canvas/:section/items", h.AddNote)
	g.PATCH("/drafts/:id/canvas/:section/items/:item_id", h.EditNote)
	g.DELETE("/drafts/:id/canvas/:section/items/:item_id", h.RemoveNote)
	g.POST("/drafts/:id/canvas/:section/reorder", h.ReorderNotes)
	g.PUT("/drafts/:id/canvas/:section/layout", h.SetLayout)

	g.POST("/drafts/:id/submit", h.Submit)
}
