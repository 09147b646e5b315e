package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/hummingbird-backend/internal/platform/apierr"
	"github.com/yungbote/hummingbird-backend/internal/platform/dbctx"
	"github.com/yungbote/hummingbird-backend/internal/platform/logger"
)

func TestMcqSubmitLastWriteWins(t *testing.T) {
	attempts := &fakeMcqAttempts{}
	svc := NewMcqService(logger.Nop(), attempts)
	dbc := dbctx.Context{Ctx: context.Background()}
	studentID, mcqID := uuid.New(), uuid.New()

	first, err := svc.Submit(dbc, McqAnswer{StudentID: studentID, McqID: mcqID, SelectedOption: "A", CorrectAnswer: "C"})
	require.NoError(t, err)
	assert.False(t, first.IsCorrect)

	order := 4
	second, err := svc.Submit(dbc, McqAnswer{StudentID: studentID, McqID: mcqID, SelectedOption: " C ", CorrectAnswer: "C", IsCorrect: true, ReactOrder: &order})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "C", second.SelectedOption)
	assert.True(t, second.IsCorrect)

	stored := attempts.rows[pointerKey{studentID, mcqID}]
	require.NotNil(t, stored)
	assert.Equal(t, 4, *stored.ReactOrder)
}

func TestMcqSubmitValidation(t *testing.T) {
	svc := NewMcqService(logger.Nop(), &fakeMcqAttempts{})
	dbc := dbctx.Context{Ctx: context.Background()}
	negative := -1

	cases := []struct {
		name   string
		answer McqAnswer
	}{
		{"missing student", McqAnswer{McqID: uuid.New(), SelectedOption: "A"}},
		{"missing mcq", McqAnswer{StudentID: uuid.New(), SelectedOption: "A"}},
		{"missing option", McqAnswer{StudentID: uuid.New(), McqID: uuid.New(), SelectedOption: " "}},
		{"negative order", McqAnswer{StudentID: uuid.New(), McqID: uuid.New(), SelectedOption: "A", ReactOrder: &negative}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Submit(dbc, tc.answer)
			require.Error(t, err)
			assert.Equal(t, "invalid_request", apierr.As(err).Code)
		})
	}
}

func TestMcqSubmitStoreFailure(t *testing.T) {
	svc := NewMcqService(logger.Nop(), &fakeMcqAttempts{err: errStoreDown})
	_, err := svc.Submit(dbctx.Context{Ctx: context.Background()}, McqAnswer{StudentID: uuid.New(), McqID: uuid.New(), SelectedOption: "A"})
	require.Error(t, err)
	assert.Equal(t, "store_failed", apierr.As(err).Code)
	assert.ErrorIs(t, err, errStoreDown)
}
