package services

import (
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/hummingbird-backend/internal/data/repos"
	types "github.com/yungbote/hummingbird-backend/internal/domain"
	"github.com/yungbote/hummingbird-backend/internal/modules/prompts"
	"github.com/yungbote/hummingbird-backend/internal/platform/apierr"
	"github.com/yungbote/hummingbird-backend/internal/platform/dbctx"
	"github.com/yungbote/hummingbird-backend/internal/platform/logger"
	"github.com/yungbote/hummingbird-backend/internal/platform/openai"
)

type DoubtRequest struct {
	StudentID uuid.UUID
	ChapterID uuid.UUID
	Question  string
}

type DoubtResult struct {
	Reply string `json:"reply"`
}

type DoubtService interface {
	// Ask answers a freeform question with one generation call and records the exchange.
	Ask(dbc dbctx.Context, req DoubtRequest) (*DoubtResult, error)
}

type doubtService struct {
	log     *logger.Logger
	llm     openai.Client
	prompts *prompts.Catalog
	doubts  repos.DoubtLogRepo
}

func NewDoubtService(baseLog *logger.Logger, llm openai.Client, catalog *prompts.Catalog, doubtRepo repos.DoubtLogRepo) DoubtService {
	return &doubtService{
		log:     baseLog.With("service", "DoubtService"),
		llm:     llm,
		prompts: catalog,
		doubts:  doubtRepo,
	}
}

func (s *doubtService) Ask(dbc dbctx.Context, req DoubtRequest) (*DoubtResult, error) {
	question := strings.TrimSpace(req.Question)
	if req.StudentID == uuid.Nil || question == "" {
		return nil, apierr.BadRequest("invalid_request", "missing user_id or question")
	}

	msgs := []types.Message{
		systemMessage(s.prompts.System(prompts.Doubt)),
		userMessage(question),
	}
	out, err := s.llm.Chat(dbc.Ctx, toChatMessages(msgs))
	if err != nil {
		return nil, generationFailed(err)
	}

	if req.ChapterID != uuid.Nil && s.doubts != nil {
		row := &types.DoubtLog{
			StudentID:  req.StudentID,
			ChapterID:  req.ChapterID,
			Question:   question,
			Answer:     out.Text,
			Model:      out.Model,
			TokensUsed: out.TotalTokens,
		}
		if err := s.doubts.Create(dbc, row); err != nil {
			s.log.Warn("Doubt log insert failed", "student_id", req.StudentID, "chapter_id", req.ChapterID, "error", err)
		}
	}
	return &DoubtResult{Reply: out.Text}, nil
}
