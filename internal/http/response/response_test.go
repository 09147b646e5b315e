package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/yungbote/hummingbird-backend/internal/platform/apierr"
)

func render(w *Writer, fn func(*Writer, *gin.Context)) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	fn(w, c)
	return rec
}

func TestErrorInBandByDefault(t *testing.T) {
	rec := render(NewWriter(false), func(w *Writer, c *gin.Context) {
		w.Error(c, apierr.NotFound("phase"))
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"error":"phase not found"}`, rec.Body.String())
}

func TestErrorWithStatusCodes(t *testing.T) {
	w := NewWriter(true)

	rec := render(w, func(w *Writer, c *gin.Context) { w.Error(c, apierr.Upstream("store_failed", errors.New("down"))) })
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"store failed"}`, rec.Body.String())

	rec = render(w, func(w *Writer, c *gin.Context) { w.StatusError(c, apierr.BadRequest("invalid_request", "missing p_student_id")) })
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"status":"error","message":"missing p_student_id"}`, rec.Body.String())

	rec = render(w, func(w *Writer, c *gin.Context) { w.Error(c, errors.New("boom")) })
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
}

func TestErrorHidesStoreDetail(t *testing.T) {
	var logged string
	rec := render(NewWriter(false), func(w *Writer, c *gin.Context) {
		detail := fmt.Errorf("store: %w", errors.New(`rpc get_phase_content: sqlstate 42883: function does not exist`))
		w.Error(c, apierr.Upstream("store_failed", detail))
		logged = c.Errors.String()
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"error":"store failed"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "sqlstate")
	assert.Contains(t, logged, "get_phase_content")
}
