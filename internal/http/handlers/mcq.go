package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/hummingbird-backend/internal/http/response"
	types "github.com/yungbote/hummingbird-backend/internal/domain"
	"github.com/yungbote/hummingbird-backend/internal/platform/apierr"
	"github.com/yungbote/hummingbird-backend/internal/platform/dbctx"
	"github.com/yungbote/hummingbird-backend/internal/services"
)

type mcqRequest struct {
	StudentID      string `json:"p_student_id"`
	McqID          string `json:"p_mcq_uuid"`
	SelectedOption string `json:"p_selected_option"`
	CorrectAnswer  string `json:"p_correct_answer"`
	IsCorrect      *bool  `json:"p_is_correct"`
	ChapterID      string `json:"p_chapter_id"`
	ReactOrder     *int   `json:"p_react_order"`
}

type McqHandler struct {
	mcqs services.McqService
	resp *response.Writer
}

func NewMcqHandler(mcqs services.McqService, resp *response.Writer) *McqHandler {
	return &McqHandler{mcqs: mcqs, resp: resp}
}

// POST /submit_mcq_answer
// details carries the upserted rows.
func (h *McqHandler) Submit(c *gin.Context) {
	var req mcqRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.resp.StatusError(c, errInvalidJSON)
		return
	}
	answer, err := parseMcqRequest(req)
	if err != nil {
		h.resp.StatusError(c, err)
		return
	}
	row, err := h.mcqs.Submit(dbctx.Context{Ctx: c.Request.Context()}, answer)
	if err != nil {
		h.resp.StatusError(c, err)
		return
	}
	h.resp.OK(c, response.StatusBody{Status: "success", Details: []*types.McqAttempt{row}})
}

func parseMcqRequest(req mcqRequest) (services.McqAnswer, error) {
	studentID, err := requireUUID("p_student_id", req.StudentID)
	if err != nil {
		return services.McqAnswer{}, err
	}
	mcqID, err := requireUUID("p_mcq_uuid", req.McqID)
	if err != nil {
		return services.McqAnswer{}, err
	}
	if req.IsCorrect == nil {
		return services.McqAnswer{}, apierr.BadRequest("invalid_request", "missing p_is_correct")
	}
	chapterID, err := optionalUUID("p_chapter_id", req.ChapterID)
	if err != nil {
		return services.McqAnswer{}, err
	}
	return services.McqAnswer{
		StudentID:      studentID,
		McqID:          mcqID,
		SelectedOption: req.SelectedOption,
		CorrectAnswer:  req.CorrectAnswer,
		IsCorrect:      *req.IsCorrect,
		ChapterID:      chapterID,
		ReactOrder:     req.ReactOrder,
	}, nil
}
