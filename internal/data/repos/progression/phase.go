package progression

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/hummingbird-backend/internal/data/rpc"
	types "github.com/yungbote/hummingbird-backend/internal/domain"
	"github.com/yungbote/hummingbird-backend/internal/platform/dbctx"
	"github.com/yungbote/hummingbird-backend/internal/platform/logger"
)

type PhaseRepo interface {
	// Get returns the phase at position when isCompleted is false (the first phase when position
	// is nil) and its successor when isCompleted is true. A nil phase means there is none.
	Get(dbc dbctx.Context, chapterID uuid.UUID, position *int, isCompleted bool, isCorrect *bool) (*types.Phase, error)
}

type phaseRepo struct {
	rpc *rpc.Caller
	log *logger.Logger
}

func NewPhaseRepo(db *gorm.DB, baseLog *logger.Logger) PhaseRepo {
	log := baseLog.With("repo", "PhaseRepo")
	return &phaseRepo{rpc: rpc.New(db, log), log: log}
}

func (r *phaseRepo) Get(dbc dbctx.Context, chapterID uuid.UUID, position *int, isCompleted bool, isCorrect *bool) (*types.Phase, error) {
	if chapterID == uuid.Nil {
		return nil, nil
	}
	row, err := rpc.First[types.Phase](r.rpc, dbc, "get_phase_content",
		rpc.A("p_chapter_id", chapterID),
		rpc.A("p_position", position),
		rpc.A("p_is_completed", isCompleted),
		rpc.A("p_is_correct", isCorrect),
	)
	if err != nil || row == nil {
		return nil, err
	}
	if row.PhaseID == uuid.Nil {
		return nil, nil
	}
	return row, nil
}
