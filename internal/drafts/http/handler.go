package http

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gate2way/gate2way-backend/internal/drafts/canvas"
	"github.com/gate2way/gate2way-backend/internal/drafts/domain"
	"github.com/gate2way/gate2way-backend/internal/drafts/service"
	"github.com/gate2way/gate2way-backend/internal/gateway"
)

// Handler exposes draft sessions over HTTP.
type Handler struct {
	manager        *service.Manager
	maxUploadBytes int64
}

// NewHandler creates a handler. maxUploadBytes bounds attachment uploads.
func NewHandler(manager *service.Manager, maxUploadBytes int64) *Handler {
	return &Handler{manager: manager, maxUploadBytes: maxUploadBytes}
}

// forwardAuthorization hands the caller's Authorization header to the remote
// API client through the request context.
func forwardAuthorization() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h := c.GetHeader("Authorization"); h != "" {
			c.Request = c.Request.WithContext(gateway.WithAuthorization(c.Request.Context(), h))
		}
		c.Next()
	}
}

// Options returns the program and incentive selector lists.
func (h *Handler) Options(c *gin.Context) {
	opts, err := h.manager.Options(c.Request.Context())
	if err != nil {
		writeError(c, "list_options", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "options": opts})
}

// Open starts a create-mode draft.
func (h *Handler) Open(c *gin.Context) {
	v, err := h.manager.Open(c.Request.Context())
	if err != nil {
		writeError(c, "open_draft", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "draft": v})
}

// OpenForEdit starts a draft seeded from an existing project.
func (h *Handler) OpenForEdit(c *gin.Context) {
	projectID, err := strconv.Atoi(c.Param("project_id"))
	if err != nil || projectID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid project id"})
		return
	}
	v, err := h.manager.OpenForEdit(c.Request.Context(), projectID)
	if err != nil {
		writeError(c, "open_draft", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "draft": v})
}

func (h *Handler) Get(c *gin.Context) {
	v, err := h.manager.View(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "view_draft", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "draft": v})
}

func (h *Handler) Cancel(c *gin.Context) {
	if err := h.manager.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, "cancel_draft", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) SetField(c *gin.Context) {
	var body setFieldRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	v, err := h.manager.SetField(c.Request.Context(), c.Param("id"), body.Field, body.Value)
	if err != nil {
		writeError(c, "set_field", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "draft": v})
}

// Validate runs every rule and returns the draft with all its errors.
func (h *Handler) Validate(c *gin.Context) {
	v, err := h.manager.Validate(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "validate_draft", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": len(v.Errors) == 0, "draft": v})
}

// Upload attaches the multipart "file" part to the draft.
func (h *Handler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "file is required"})
		return
	}
	if h.maxUploadBytes > 0 && fh.Size > h.maxUploadBytes {
		writeError(c, "attach_upload", domain.ErrUploadTooLarge)
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "cannot read file"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "cannot read file"})
		return
	}

	v, err := h.manager.AttachUpload(c.Request.Context(), c.Param("id"), fh.Filename, fh.Header.Get("Content-Type"), data)
	if err != nil {
		writeError(c, "attach_upload", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "draft": v})
}

func (h *Handler) DeleteUpload(c *gin.Context) {
	v, err := h.manager.DetachUpload(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "detach_upload", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "draft": v})
}

// AddNote appends a note to a canvas section.
func (h *Handler) AddNote(c *gin.Context) {
	var body noteRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	item, v, err := h.manager.AddNote(c.Request.Context(), c.Param("id"), c.Param("section"), body.Content)
	if err != nil {
		writeError(c, "add_note", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "item": item, "draft": v})
}

func (h *Handler) EditNote(c *gin.Context) {
	var body noteRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	v, err := h.manager.EditNote(c.Request.Context(), c.Param("id"), c.Param("section"), c.Param("item_id"), body.Content)
	if err != nil {
		writeError(c, "edit_note", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "draft": v})
}

func (h *Handler) RemoveNote(c *gin.Context) {
	v, err := h.manager.RemoveNote(c.Request.Context(), c.Param("id"), c.Param("section"), c.Param("item_id"))
	if err != nil {
		writeError(c, "remove_note", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "draft": v})
}

func (h *Handler) ReorderNotes(c *gin.Context) {
	var body reorderRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "from and to are required"})
		return
	}
	v, err := h.manager.ReorderNotes(c.Request.Context(), c.Param("id"), c.Param("section"), *body.From, *body.To)
	if err != nil {
		writeError(c, "reorder_notes", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "draft": v})
}

func (h *Handler) SetLayout(c *gin.Context) {
	var body canvas.Layout
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	v, err := h.manager.SetLayout(c.Request.Context(), c.Param("id"), c.Param("section"), body)
	if err != nil {
		writeError(c, "set_layout", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "draft": v})
}

// Submit sends the draft to the remote API. On success the draft is gone and
// the stored project is returned.
func (h *Handler) Submit(c *gin.Context) {
	project, err := h.manager.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "submit_draft", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": project})
}
