package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/hummingbird-backend/internal/platform/apierr"
)

type ErrorBody struct {
	Error string `json:"error"`
}

type MessageBody struct {
	Message string `json:"message"`
}

// StatusBody is the envelope of the MCQ endpoint.
type StatusBody struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// Writer renders handler results. Errors go out in-band with HTTP 200 unless StatusCodes is
// set, in which case the status carried by the apierr is used. The body is the same either way.
type Writer struct {
	StatusCodes bool
}

func NewWriter(statusCodes bool) *Writer {
	return &Writer{StatusCodes: statusCodes}
}

func (w *Writer) OK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// Error renders err as {error}. Server-side failures show only their code; the full error is
// attached to the gin context for the access log.
func (w *Writer) Error(c *gin.Context, err error) {
	c.JSON(w.status(err), ErrorBody{Error: w.message(c, err)})
}

// StatusError renders err in the {status:"error", message} envelope.
func (w *Writer) StatusError(c *gin.Context, err error) {
	c.JSON(w.status(err), StatusBody{Status: "error", Message: w.message(c, err)})
}

// Raw writes an already encoded JSON body.
func (w *Writer) Raw(c *gin.Context, body []byte) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

func (w *Writer) status(err error) int {
	if w == nil || !w.StatusCodes {
		return http.StatusOK
	}
	e := apierr.As(err)
	if e == nil || e.Status == 0 {
		return http.StatusInternalServerError
	}
	return e.Status
}

func (w *Writer) message(c *gin.Context, err error) string {
	if err == nil {
		return "unknown error"
	}
	_ = c.Error(err)
	return apierr.As(err).Public()
}
