package handlers

import (
	"encoding/json"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/hummingbird-backend/internal/http/middleware"
	"github.com/yungbote/hummingbird-backend/internal/http/response"
	"github.com/yungbote/hummingbird-backend/internal/platform/dbctx"
	"github.com/yungbote/hummingbird-backend/internal/services"
)

type mentorRequest struct {
	UserID      string          `json:"user_id"`
	StudentName string          `json:"student_name"`
	ChapterID   string          `json:"chapter_id"`
	Question    string          `json:"question"`
	BlockID     string          `json:"block_id"`
	PhaseJSON   json.RawMessage `json:"phase_json"`
}

type MentorHandler struct {
	mentor services.MentorService
	resp   *response.Writer
}

func NewMentorHandler(mentor services.MentorService, resp *response.Writer) *MentorHandler {
	return &MentorHandler{mentor: mentor, resp: resp}
}

// POST /mentor_chat
// body: { "user_id": "...", "student_name": "...", "chapter_id": "...", "question": "...", "block_id": "..."?, "phase_json": {...}? }
func (h *MentorHandler) Chat(c *gin.Context) {
	var req mentorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.resp.Error(c, errInvalidJSON)
		return
	}
	c.Set(middleware.LogKeyUserID, req.UserID)

	// A missing user id is reported by the service together with a missing question.
	userID := uuid.Nil
	if strings.TrimSpace(req.UserID) != "" {
		id, err := parseUUID("user_id", strings.TrimSpace(req.UserID))
		if err != nil {
			h.resp.Error(c, err)
			return
		}
		userID = id
	}
	chapterID, err := optionalUUID("chapter_id", req.ChapterID)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	blockID, err := optionalUUID("block_id", req.BlockID)
	if err != nil {
		h.resp.Error(c, err)
		return
	}

	out, err := h.mentor.Chat(dbctx.Context{Ctx: c.Request.Context()}, services.MentorRequest{
		UserID:      userID,
		StudentName: req.StudentName,
		ChapterID:   chapterID,
		Question:    req.Question,
		BlockID:     blockID,
		PhaseJSON:   req.PhaseJSON,
	})
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.OK(c, out)
}
