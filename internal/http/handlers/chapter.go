package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/hummingbird-backend/internal/http/middleware"
	"github.com/yungbote/hummingbird-backend/internal/http/response"
	"github.com/yungbote/hummingbird-backend/internal/platform/apierr"
	"github.com/yungbote/hummingbird-backend/internal/platform/dbctx"
	"github.com/yungbote/hummingbird-backend/internal/platform/idempotency"
	"github.com/yungbote/hummingbird-backend/internal/platform/logger"
	"github.com/yungbote/hummingbird-backend/internal/services"
)

const headerIdempotencyKey = "Idempotency-Key"

var ErrRequestInProgress = apierr.New(http.StatusConflict, "request_in_progress", errors.New("request already in progress"))

type chapterRequest struct {
	Intent    string `json:"intent"`
	UserID    string `json:"user_id"`
	ChapterID string `json:"chapter_id"`
	IsCorrect *bool  `json:"is_correct"`
	Question  string `json:"question"`
}

type ChapterHandler struct {
	log         *logger.Logger
	progression services.ProgressionService
	doubts      services.DoubtService
	idem        idempotency.Store
	resp        *response.Writer
}

func NewChapterHandler(
	baseLog *logger.Logger,
	progression services.ProgressionService,
	doubts services.DoubtService,
	idem idempotency.Store,
	resp *response.Writer,
) *ChapterHandler {
	if idem == nil {
		idem = idempotency.NewNoopStore()
	}
	return &ChapterHandler{
		log:         baseLog.With("handler", "ChapterHandler"),
		progression: progression,
		doubts:      doubts,
		idem:        idem,
		resp:        resp,
	}
}

// POST /adaptive_chapter
// body: { "intent": "start" | "resume" | "get_phase" | "next" | "chat" | "ask_doubt", "user_id": "...", "chapter_id": "...", "is_correct": bool?, "question": "..." }
func (h *ChapterHandler) Dispatch(c *gin.Context) {
	var req chapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.resp.Error(c, errInvalidJSON)
		return
	}
	intent := strings.ToLower(strings.TrimSpace(req.Intent))
	c.Set(middleware.LogKeyIntent, intent)
	c.Set(middleware.LogKeyUserID, req.UserID)

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	switch intent {
	case "start", "resume", "get_phase":
		cr, err := parseChapterRequest(req)
		if err != nil {
			h.resp.Error(c, err)
			return
		}
		out, err := h.progression.Start(dbc, cr)
		h.render(c, out, err)
	case "next":
		cr, err := parseChapterRequest(req)
		if err != nil {
			h.resp.Error(c, err)
			return
		}
		h.next(c, dbc, cr)
	case "chat", "ask_doubt":
		h.ask(c, dbc, req)
	case "":
		h.resp.Error(c, apierr.BadRequest("invalid_request", "missing intent"))
	default:
		h.resp.Error(c, apierr.BadRequest("invalid_request", "unknown intent %q", req.Intent))
	}
}

// next runs at most once per Idempotency-Key; a retried key replays the stored response.
func (h *ChapterHandler) next(c *gin.Context, dbc dbctx.Context, cr services.ChapterRequest) {
	key := strings.TrimSpace(c.GetHeader(headerIdempotencyKey))
	if key == "" {
		out, err := h.progression.Next(dbc, cr)
		h.render(c, out, err)
		return
	}

	idemKey := idempotency.NextKey(cr.StudentID.String(), cr.ChapterID.String(), key)
	// Completing or releasing the key must survive a client disconnect.
	bg := context.WithoutCancel(c.Request.Context())

	res, err := h.idem.Reserve(c.Request.Context(), idemKey)
	if err != nil {
		h.log.Warn("Idempotency reserve failed, running without replay", "error", err)
		out, err := h.progression.Next(dbc, cr)
		h.render(c, out, err)
		return
	}
	switch res.State {
	case idempotency.Replay:
		h.resp.Raw(c, res.Payload)
		return
	case idempotency.Pending:
		h.resp.Error(c, ErrRequestInProgress)
		return
	}

	out, err := h.progression.Next(dbc, cr)
	if err != nil {
		if relErr := h.idem.Release(bg, idemKey); relErr != nil {
			h.log.Warn("Idempotency release failed", "error", relErr)
		}
		h.resp.Error(c, err)
		return
	}
	body, err := json.Marshal(out)
	if err != nil {
		_ = h.idem.Release(bg, idemKey)
		h.resp.Error(c, err)
		return
	}
	if err := h.idem.Complete(bg, idemKey, body); err != nil {
		h.log.Warn("Idempotency complete failed", "error", err)
	}
	h.resp.Raw(c, body)
}

func (h *ChapterHandler) ask(c *gin.Context, dbc dbctx.Context, req chapterRequest) {
	studentID, err := requireUUID("user_id", req.UserID)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	chapterID, err := requireUUID("chapter_id", req.ChapterID)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	out, err := h.doubts.Ask(dbc, services.DoubtRequest{
		StudentID: studentID,
		ChapterID: chapterID,
		Question:  req.Question,
	})
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.OK(c, out)
}

func (h *ChapterHandler) render(c *gin.Context, out *services.ChapterResult, err error) {
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	if out.Completed() {
		h.resp.OK(c, response.MessageBody{Message: out.Message})
		return
	}
	h.resp.OK(c, out)
}

func parseChapterRequest(req chapterRequest) (services.ChapterRequest, error) {
	studentID, err := requireUUID("user_id", req.UserID)
	if err != nil {
		return services.ChapterRequest{}, err
	}
	chapterID, err := requireUUID("chapter_id", req.ChapterID)
	if err != nil {
		return services.ChapterRequest{}, err
	}
	return services.ChapterRequest{StudentID: studentID, ChapterID: chapterID, IsCorrect: req.IsCorrect}, nil
}
