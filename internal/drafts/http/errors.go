package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gate2way/gate2way-backend/internal/drafts/canvas"
	"github.com/gate2way/gate2way-backend/internal/drafts/domain"
	"github.com/gate2way/gate2way-backend/internal/drafts/service"
	"github.com/gate2way/gate2way-backend/internal/gateway"
	"github.com/gate2way/gate2way-backend/internal/logging"
)

// writeError translates service errors into the JSON error envelope.
func writeError(c *gin.Context, operation string, err error) {
	var (
		invalid *domain.ValidationFailedError
		failed  *domain.SubmissionError
		status  *gateway.StatusError
	)

	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"ok": false, "errors": invalid.Errors})
	case errors.As(err, &failed):
		if failed.Kind == domain.KindPermission {
			c.JSON(http.StatusForbidden, gin.H{"ok": false, "root_error": failed.Message})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": failed.Message})
	case errors.Is(err, domain.ErrSubmitInFlight):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, canvas.ErrUnknownSection),
		errors.Is(err, canvas.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, canvas.ErrEmptyContent),
		errors.Is(err, canvas.ErrSectionFull),
		errors.Is(err, canvas.ErrIndexOutOfRange),
		errors.Is(err, canvas.ErrInvalidLayout):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrUnknownField):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrUploadTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, service.ErrOptionsUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": domain.RemoteFailureMessage})
	case errors.As(err, &status):
		writeRemoteStatus(c, status)
	default:
		logging.NewLogger(c.Request.Context()).LogError(operation, err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
	}
}

// writeRemoteStatus answers for a failed read against the remote API.
func writeRemoteStatus(c *gin.Context, status *gateway.StatusError) {
	switch status.StatusCode {
	case http.StatusNotFound:
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
	case http.StatusForbidden:
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "root_error": domain.PermissionDeniedMessage})
	case http.StatusUnauthorized:
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "not authenticated"})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": domain.RemoteFailureMessage})
	}
}
