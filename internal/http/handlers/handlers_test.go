package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/hummingbird-backend/internal/domain"
	"github.com/yungbote/hummingbird-backend/internal/http/response"
	"github.com/yungbote/hummingbird-backend/internal/platform/apierr"
	"github.com/yungbote/hummingbird-backend/internal/platform/dbctx"
	"github.com/yungbote/hummingbird-backend/internal/platform/idempotency"
	"github.com/yungbote/hummingbird-backend/internal/platform/logger"
	"github.com/yungbote/hummingbird-backend/internal/services"
)

type fakeProgression struct {
	starts, nexts int
	last          services.ChapterRequest
	result        *services.ChapterResult
	err           error
}

func (f *fakeProgression) Start(_ dbctx.Context, req services.ChapterRequest) (*services.ChapterResult, error) {
	f.starts++
	f.last = req
	return f.result, f.err
}

func (f *fakeProgression) Next(_ dbctx.Context, req services.ChapterRequest) (*services.ChapterResult, error) {
	f.nexts++
	f.last = req
	return f.result, f.err
}

type fakeDoubts struct {
	last services.DoubtRequest
	err  error
}

func (f *fakeDoubts) Ask(_ dbctx.Context, req services.DoubtRequest) (*services.DoubtResult, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &services.DoubtResult{Reply: "answer to " + req.Question}, nil
}

type fakeMentor struct {
	last services.MentorRequest
	err  error
}

func (f *fakeMentor) Chat(_ dbctx.Context, req services.MentorRequest) (*services.MentorResult, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	block := uuid.New()
	if req.BlockID != nil {
		block = *req.BlockID
	}
	return &services.MentorResult{Reply: "hi", BlockID: block.String(), Status: "success"}, nil
}

type fakeMcqs struct {
	last services.McqAnswer
	err  error
}

func (f *fakeMcqs) Submit(_ dbctx.Context, a services.McqAnswer) (*types.McqAttempt, error) {
	f.last = a
	if f.err != nil {
		return nil, f.err
	}
	return &types.McqAttempt{ID: uuid.New(), StudentID: a.StudentID, McqID: a.McqID, SelectedOption: a.SelectedOption, IsCorrect: a.IsCorrect}, nil
}

type memoryIdem struct {
	values   map[string][]byte
	released int
}

func newMemoryIdem() *memoryIdem { return &memoryIdem{values: map[string][]byte{}} }

func (m *memoryIdem) Reserve(_ context.Context, key string) (idempotency.Reservation, error) {
	v, ok := m.values[key]
	switch {
	case !ok:
		m.values[key] = []byte("pending")
		return idempotency.Reservation{State: idempotency.Acquired}, nil
	case string(v) == "pending":
		return idempotency.Reservation{State: idempotency.Pending}, nil
	default:
		return idempotency.Reservation{State: idempotency.Replay, Payload: v}, nil
	}
}

func (m *memoryIdem) Complete(_ context.Context, key string, payload []byte) error {
	m.values[key] = payload
	return nil
}

func (m *memoryIdem) Release(_ context.Context, key string) error {
	m.released++
	delete(m.values, key)
	return nil
}

func serve(t *testing.T, h gin.HandlerFunc, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/x", h)
	req := httptest.NewRequest(http.MethodPost, "/x", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func chapterBody(t *testing.T, fields map[string]any) string {
	t.Helper()
	b, err := json.Marshal(fields)
	require.NoError(t, err)
	return string(b)
}

func phaseResult() *services.ChapterResult {
	return &services.ChapterResult{
		Type:     "concept",
		Data:     map[string]json.RawMessage{"title": json.RawMessage(`"Xylem"`)},
		Messages: []string{"Starting concept"},
	}
}

func TestChapterStartIntents(t *testing.T) {
	for _, intent := range []string{"start", "resume", "get_phase", " START "} {
		prog := &fakeProgression{result: phaseResult()}
		h := NewChapterHandler(logger.Nop(), prog, &fakeDoubts{}, nil, response.NewWriter(false))
		userID, chapterID := uuid.New(), uuid.New()

		rec := serve(t, h.Dispatch, chapterBody(t, map[string]any{"intent": intent, "user_id": userID, "chapter_id": chapterID}), nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"type":"concept","data":{"title":"Xylem"},"messages":["Starting concept"]}`, rec.Body.String())
		assert.Equal(t, 1, prog.starts, intent)
		assert.Equal(t, userID, prog.last.StudentID)
		assert.Equal(t, chapterID, prog.last.ChapterID)
	}
}

func TestChapterCompletedMessage(t *testing.T) {
	prog := &fakeProgression{result: &services.ChapterResult{Message: services.ChapterCompletedMessage}}
	h := NewChapterHandler(logger.Nop(), prog, &fakeDoubts{}, nil, response.NewWriter(false))

	rec := serve(t, h.Dispatch, chapterBody(t, map[string]any{"intent": "next", "user_id": uuid.New(), "chapter_id": uuid.New(), "is_correct": true}), nil)
	assert.JSONEq(t, `{"message":"chapter completed"}`, rec.Body.String())
	require.NotNil(t, prog.last.IsCorrect)
	assert.True(t, *prog.last.IsCorrect)
}

func TestChapterErrorsInBand(t *testing.T) {
	prog := &fakeProgression{err: apierr.NotFound("chapter pointer")}
	h := NewChapterHandler(logger.Nop(), prog, &fakeDoubts{}, nil, response.NewWriter(false))

	rec := serve(t, h.Dispatch, chapterBody(t, map[string]any{"intent": "next", "user_id": uuid.New(), "chapter_id": uuid.New()}), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"error":"chapter pointer not found"}`, rec.Body.String())

	rec = serve(t, h.Dispatch, `{not json`, nil)
	assert.JSONEq(t, `{"error":"Invalid JSON payload"}`, rec.Body.String())

	rec = serve(t, h.Dispatch, chapterBody(t, map[string]any{"intent": "dance", "user_id": uuid.New(), "chapter_id": uuid.New()}), nil)
	assert.JSONEq(t, `{"error":"unknown intent \"dance\""}`, rec.Body.String())

	rec = serve(t, h.Dispatch, chapterBody(t, map[string]any{"intent": "start", "chapter_id": uuid.New()}), nil)
	assert.JSONEq(t, `{"error":"missing user_id"}`, rec.Body.String())

	rec = serve(t, h.Dispatch, chapterBody(t, map[string]any{"intent": "start", "user_id": "nope", "chapter_id": uuid.New()}), nil)
	assert.JSONEq(t, `{"error":"invalid user_id"}`, rec.Body.String())
	assert.Equal(t, 0, prog.starts)
}

func TestChapterStatusCodeMode(t *testing.T) {
	prog := &fakeProgression{err: apierr.Upstream("store_failed", errors.New("store: down"))}
	h := NewChapterHandler(logger.Nop(), prog, &fakeDoubts{}, nil, response.NewWriter(true))

	rec := serve(t, h.Dispatch, chapterBody(t, map[string]any{"intent": "start", "user_id": uuid.New(), "chapter_id": uuid.New()}), nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"store failed"}`, rec.Body.String())
}

func TestChapterAskDoubt(t *testing.T) {
	doubts := &fakeDoubts{}
	h := NewChapterHandler(logger.Nop(), &fakeProgression{}, doubts, nil, response.NewWriter(false))

	for _, intent := range []string{"chat", "ask_doubt"} {
		rec := serve(t, h.Dispatch, chapterBody(t, map[string]any{"intent": intent, "user_id": uuid.New(), "chapter_id": uuid.New(), "question": "why"}), nil)
		assert.JSONEq(t, `{"reply":"answer to why"}`, rec.Body.String())
	}
	assert.Equal(t, "why", doubts.last.Question)
}

func TestChapterNextReplaysIdempotencyKey(t *testing.T) {
	prog := &fakeProgression{result: phaseResult()}
	idem := newMemoryIdem()
	h := NewChapterHandler(logger.Nop(), prog, &fakeDoubts{}, idem, response.NewWriter(false))
	body := chapterBody(t, map[string]any{"intent": "next", "user_id": uuid.New(), "chapter_id": uuid.New()})
	headers := map[string]string{headerIdempotencyKey: "retry-1"}

	first := serve(t, h.Dispatch, body, headers)
	prog.result = &services.ChapterResult{Message: services.ChapterCompletedMessage}
	second := serve(t, h.Dispatch, body, headers)

	assert.Equal(t, 1, prog.nexts)
	assert.Equal(t, first.Body.String(), second.Body.String())

	third := serve(t, h.Dispatch, body, map[string]string{headerIdempotencyKey: "retry-2"})
	assert.Equal(t, 2, prog.nexts)
	assert.JSONEq(t, `{"message":"chapter completed"}`, third.Body.String())
}

func TestChapterNextPendingAndRelease(t *testing.T) {
	prog := &fakeProgression{err: apierr.Upstream("store_failed", errors.New("down"))}
	idem := newMemoryIdem()
	h := NewChapterHandler(logger.Nop(), prog, &fakeDoubts{}, idem, response.NewWriter(false))
	userID, chapterID := uuid.New(), uuid.New()
	body := chapterBody(t, map[string]any{"intent": "next", "user_id": userID, "chapter_id": chapterID})
	headers := map[string]string{headerIdempotencyKey: "k"}

	rec := serve(t, h.Dispatch, body, headers)
	assert.JSONEq(t, `{"error":"store failed"}`, rec.Body.String())
	assert.Equal(t, 1, idem.released)

	idem.values[idempotency.NextKey(userID.String(), chapterID.String(), "k")] = []byte("pending")
	rec = serve(t, h.Dispatch, body, headers)
	assert.JSONEq(t, `{"error":"request already in progress"}`, rec.Body.String())
	assert.Equal(t, 1, prog.nexts)
}

func TestMcqSubmit(t *testing.T) {
	mcqs := &fakeMcqs{}
	h := NewMcqHandler(mcqs, response.NewWriter(false))
	studentID, mcqID, chapterID := uuid.New(), uuid.New(), uuid.New()

	rec := serve(t, h.Submit, chapterBody(t, map[string]any{
		"p_student_id":      studentID,
		"p_mcq_uuid":        mcqID,
		"p_selected_option": "B",
		"p_correct_answer":  "B",
		"p_is_correct":      true,
		"p_chapter_id":      chapterID,
		"p_react_order":     2,
	}), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Status  string             `json:"status"`
		Details []types.McqAttempt `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "success", out.Status)
	require.Len(t, out.Details, 1)
	assert.Equal(t, mcqID, out.Details[0].McqID)
	require.NotNil(t, mcqs.last.ChapterID)
	assert.Equal(t, chapterID, *mcqs.last.ChapterID)
	assert.Equal(t, 2, *mcqs.last.ReactOrder)
}

func TestMcqSubmitErrors(t *testing.T) {
	h := NewMcqHandler(&fakeMcqs{err: apierr.Upstream("store_failed", errors.New("store: down"))}, response.NewWriter(false))

	rec := serve(t, h.Submit, chapterBody(t, map[string]any{"p_mcq_uuid": uuid.New()}), nil)
	assert.JSONEq(t, `{"status":"error","message":"missing p_student_id"}`, rec.Body.String())

	rec = serve(t, h.Submit, chapterBody(t, map[string]any{"p_student_id": uuid.New(), "p_mcq_uuid": uuid.New(), "p_selected_option": "A", "p_is_correct": false}), nil)
	assert.JSONEq(t, `{"status":"error","message":"store failed"}`, rec.Body.String())
}

func TestMcqSubmitRequiresIsCorrect(t *testing.T) {
	mcqs := &fakeMcqs{}
	h := NewMcqHandler(mcqs, response.NewWriter(true))

	rec := serve(t, h.Submit, chapterBody(t, map[string]any{"p_student_id": uuid.New(), "p_mcq_uuid": uuid.New(), "p_selected_option": "A"}), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"status":"error","message":"missing p_is_correct"}`, rec.Body.String())
	assert.Equal(t, uuid.Nil, mcqs.last.StudentID, "service not called")

	rec = serve(t, h.Submit, chapterBody(t, map[string]any{"p_student_id": uuid.New(), "p_mcq_uuid": uuid.New(), "p_selected_option": "A", "p_is_correct": false}), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, mcqs.last.IsCorrect)
}

func TestMentorChat(t *testing.T) {
	mentor := &fakeMentor{}
	h := NewMentorHandler(mentor, response.NewWriter(false))
	userID, blockID := uuid.New(), uuid.New()

	rec := serve(t, h.Chat, chapterBody(t, map[string]any{
		"user_id":      userID,
		"student_name": "Manu",
		"question":     "what?",
		"block_id":     blockID,
		"phase_json":   map[string]any{"topic": "xylem"},
	}), nil)
	assert.JSONEq(t, `{"reply":"hi","block_id":"`+blockID.String()+`","status":"success"}`, rec.Body.String())
	assert.Equal(t, userID, mentor.last.UserID)
	assert.Nil(t, mentor.last.ChapterID)
	assert.JSONEq(t, `{"topic":"xylem"}`, string(mentor.last.PhaseJSON))
}

func TestMentorChatErrors(t *testing.T) {
	mentor := &fakeMentor{err: apierr.BadRequest("invalid_request", "Missing user_id or question")}
	h := NewMentorHandler(mentor, response.NewWriter(false))

	rec := serve(t, h.Chat, `{"question":""}`, nil)
	assert.JSONEq(t, `{"error":"Missing user_id or question"}`, rec.Body.String())
	assert.Equal(t, uuid.Nil, mentor.last.UserID)

	rec = serve(t, h.Chat, chapterBody(t, map[string]any{"user_id": uuid.New(), "question": "q", "block_id": "b-1"}), nil)
	assert.JSONEq(t, `{"error":"invalid block_id"}`, rec.Body.String())

	rec = serve(t, h.Chat, `[`, nil)
	assert.JSONEq(t, `{"error":"Invalid JSON payload"}`, rec.Body.String())
}
