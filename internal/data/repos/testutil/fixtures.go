package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SeedPhase inserts one chapter_phase row and returns its id.
func SeedPhase(tb testing.TB, ctx context.Context, tx *gorm.DB, chapterID uuid.UUID, position int, phaseType string, content string) uuid.UUID {
	tb.Helper()
	return seedPhase(tb, ctx, tx, chapterID, position, phaseType, content, false)
}

// SeedRemedialPhase inserts a phase that is only reachable after an incorrect answer.
func SeedRemedialPhase(tb testing.TB, ctx context.Context, tx *gorm.DB, chapterID uuid.UUID, position int, phaseType string, content string) uuid.UUID {
	tb.Helper()
	return seedPhase(tb, ctx, tx, chapterID, position, phaseType, content, true)
}

func seedPhase(tb testing.TB, ctx context.Context, tx *gorm.DB, chapterID uuid.UUID, position int, phaseType string, content string, remedial bool) uuid.UUID {
	tb.Helper()
	id := uuid.New()
	if err := tx.WithContext(ctx).Exec(
		`INSERT INTO chapter_phase (phase_id, chapter_id, position, phase_type, content, remedial) VALUES (?, ?, ?, ?, ?::jsonb, ?)`,
		id, chapterID, position, phaseType, content, remedial,
	).Error; err != nil {
		tb.Fatalf("seed phase: %v", err)
	}
	return id
}

func PtrInt(v int) *int { return &v }

func PtrBool(v bool) *bool { return &v }
