package httperr

import (
	"log/slog"
	"net/http"

	"tour-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status  int    `json:"-"`
	Success bool   `json:"success"`
	Message string `json:"message"`
	Detail  any    `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		err = errs.New(msg)
	}

	resp := Response{Status: status, Message: msg, Detail: detail}

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// Abort maps err by its kind. Classified errors carry a message safe to
// show the caller; anything else is reported as an internal error.
func Abort(c *gin.Context, err error) {
	kind := errs.KindOf(err)
	status := StatusFor(kind)

	msg := err.Error()
	if kind == errs.KindInternal {
		slog.Error("unhandled error",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err.Error(),
			"stack", errs.ExtractStackLines(err, 12))
		msg = "Internal server error"
	}

	AbortWithError(c, status, err, msg, nil)
}

func StatusFor(kind errs.Kind) int {
	switch kind {
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindForbidden:
		return http.StatusForbidden
	case errs.KindUnauthenticated:
		return http.StatusUnauthorized
	case errs.KindInvalidInput, errs.KindConflict, errs.KindPreconditionFailed:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
