package services

import (
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/hummingbird-backend/internal/data/repos"
	types "github.com/yungbote/hummingbird-backend/internal/domain"
	"github.com/yungbote/hummingbird-backend/internal/platform/apierr"
	"github.com/yungbote/hummingbird-backend/internal/platform/dbctx"
	"github.com/yungbote/hummingbird-backend/internal/platform/logger"
)

type McqAnswer struct {
	StudentID      uuid.UUID
	McqID          uuid.UUID
	SelectedOption string
	CorrectAnswer  string
	IsCorrect      bool
	ChapterID      *uuid.UUID
	ReactOrder     *int
}

type McqService interface {
	// Submit records an answer; resubmitting the same question overwrites the earlier answer.
	Submit(dbc dbctx.Context, answer McqAnswer) (*types.McqAttempt, error)
}

type mcqService struct {
	log      *logger.Logger
	attempts repos.McqAttemptRepo
}

func NewMcqService(baseLog *logger.Logger, attemptRepo repos.McqAttemptRepo) McqService {
	return &mcqService{log: baseLog.With("service", "McqService"), attempts: attemptRepo}
}

func (s *mcqService) Submit(dbc dbctx.Context, answer McqAnswer) (*types.McqAttempt, error) {
	if answer.StudentID == uuid.Nil {
		return nil, apierr.BadRequest("invalid_request", "missing p_student_id")
	}
	if answer.McqID == uuid.Nil {
		return nil, apierr.BadRequest("invalid_request", "missing p_mcq_uuid")
	}
	selected := strings.TrimSpace(answer.SelectedOption)
	if selected == "" {
		return nil, apierr.BadRequest("invalid_request", "missing p_selected_option")
	}
	if answer.ReactOrder != nil && *answer.ReactOrder < 0 {
		return nil, apierr.BadRequest("invalid_request", "p_react_order must be non-negative")
	}

	row, err := s.attempts.Upsert(dbc, &types.McqAttempt{
		StudentID:      answer.StudentID,
		McqID:          answer.McqID,
		SelectedOption: selected,
		CorrectAnswer:  strings.TrimSpace(answer.CorrectAnswer),
		IsCorrect:      answer.IsCorrect,
		ChapterID:      answer.ChapterID,
		ReactOrder:     answer.ReactOrder,
	})
	if err != nil {
		return nil, storeFailed(err)
	}
	s.log.Info("MCQ attempt upserted", "student_id", answer.StudentID, "mcq_uuid", answer.McqID, "is_correct", answer.IsCorrect)
	return row, nil
}
