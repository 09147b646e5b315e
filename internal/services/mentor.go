package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/hummingbird-backend/internal/data/repos"
	types "github.com/yungbote/hummingbird-backend/internal/domain"
	"github.com/yungbote/hummingbird-backend/internal/domain/mentor"
	"github.com/yungbote/hummingbird-backend/internal/modules/prompts"
	"github.com/yungbote/hummingbird-backend/internal/platform/apierr"
	"github.com/yungbote/hummingbird-backend/internal/platform/dbctx"
	"github.com/yungbote/hummingbird-backend/internal/platform/logger"
	"github.com/yungbote/hummingbird-backend/internal/platform/openai"
)

const defaultStudentName = "Student"

var ErrConversationNotFound = apierr.NotFound("conversation")

type MentorRequest struct {
	UserID      uuid.UUID
	StudentName string
	ChapterID   *uuid.UUID
	Question    string
	// BlockID continues an existing conversation; nil starts a new one.
	BlockID   *uuid.UUID
	PhaseJSON json.RawMessage
}

type MentorResult struct {
	Reply   string `json:"reply"`
	BlockID string `json:"block_id"`
	Status  string `json:"status"`
}

type MentorService interface {
	Chat(dbc dbctx.Context, req MentorRequest) (*MentorResult, error)
}

type mentorService struct {
	log     *logger.Logger
	llm     openai.Client
	prompts *prompts.Catalog
	logs    repos.ConversationLogRepo
}

func NewMentorService(baseLog *logger.Logger, llm openai.Client, catalog *prompts.Catalog, logRepo repos.ConversationLogRepo) MentorService {
	return &mentorService{
		log:     baseLog.With("service", "MentorService"),
		llm:     llm,
		prompts: catalog,
		logs:    logRepo,
	}
}

func (s *mentorService) Chat(dbc dbctx.Context, req MentorRequest) (*MentorResult, error) {
	req.Question = strings.TrimSpace(req.Question)
	if req.UserID == uuid.Nil || req.Question == "" {
		return nil, apierr.BadRequest("invalid_request", "Missing user_id or question")
	}
	if strings.TrimSpace(req.StudentName) == "" {
		req.StudentName = defaultStudentName
	}
	if req.BlockID == nil || *req.BlockID == uuid.Nil {
		return s.open(dbc, req)
	}
	return s.continueBlock(dbc, req, *req.BlockID)
}

func (s *mentorService) open(dbc dbctx.Context, req MentorRequest) (*MentorResult, error) {
	phaseCtx, err := phaseContext(req.PhaseJSON)
	if err != nil {
		return nil, err
	}
	blockID := uuid.New()
	msgs := []types.Message{
		systemMessage(s.prompts.System(prompts.Mentor)),
		userMessage("Student Name: " + req.StudentName),
		userMessage("Context JSON: " + string(phaseCtx)),
		userMessage("Question: " + req.Question),
	}

	out, err := s.llm.Chat(dbc.Ctx, toChatMessages(msgs))
	if err != nil {
		return nil, generationFailed(err)
	}
	msgs = append(msgs, assistantMessage(out.Text))

	transcript, err := mentor.EncodeTranscript(msgs)
	if err != nil {
		return nil, fmt.Errorf("encode transcript: %w", err)
	}
	row := &types.ConversationLog{
		UserID:       req.UserID,
		StudentName:  req.StudentName,
		ChapterID:    req.ChapterID,
		BlockID:      blockID,
		Prompt:       req.Question,
		Response:     out.Text,
		PhaseContext: datatypes.JSON(phaseCtx),
		Messages:     transcript,
		TokensUsed:   out.TotalTokens,
	}
	if _, err := s.logs.Create(dbc, row); err != nil {
		return nil, storeFailed(err)
	}
	s.log.Info("Opened mentor block", "user_id", req.UserID, "block_id", blockID)
	return &MentorResult{Reply: out.Text, BlockID: blockID.String(), Status: "success"}, nil
}

func (s *mentorService) continueBlock(dbc dbctx.Context, req MentorRequest, blockID uuid.UUID) (*MentorResult, error) {
	latest, err := s.logs.LatestByBlockID(dbc, blockID)
	if err != nil {
		return nil, storeFailed(err)
	}
	if latest == nil {
		return nil, ErrConversationNotFound
	}

	msgs := latest.Transcript()
	msgs = append(msgs, userMessage(req.Question))

	out, err := s.llm.Chat(dbc.Ctx, toChatMessages(msgs))
	if err != nil {
		return nil, generationFailed(err)
	}
	msgs = append(msgs, assistantMessage(out.Text))

	transcript, err := mentor.EncodeTranscript(msgs)
	if err != nil {
		return nil, fmt.Errorf("encode transcript: %w", err)
	}
	if _, err := s.logs.UpdateByBlockID(dbc, blockID, repos.ConversationTurn{
		Prompt:     req.Question,
		Response:   out.Text,
		Messages:   transcript,
		TokensUsed: out.TotalTokens,
	}); err != nil {
		return nil, storeFailed(err)
	}
	return &MentorResult{Reply: out.Text, BlockID: blockID.String(), Status: "success"}, nil
}

// phaseContext compacts the caller's phase JSON, defaulting to an empty object.
func phaseContext(raw json.RawMessage) ([]byte, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return nil, apierr.BadRequest("invalid_request", "invalid phase_json: %v", err)
	}
	return buf.Bytes(), nil
}
