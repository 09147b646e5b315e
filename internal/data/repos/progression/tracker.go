package progression

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/hummingbird-backend/internal/data/rpc"
	types "github.com/yungbote/hummingbird-backend/internal/domain"
	"github.com/yungbote/hummingbird-backend/internal/platform/dbctx"
	"github.com/yungbote/hummingbird-backend/internal/platform/logger"
)

type TrackerRepo interface {
	Get(dbc dbctx.Context, studentID, phaseID uuid.UUID) (*types.LocalTracker, error)
	// Upsert creates the tracker. withMeta sends the cached content snapshot; without it the
	// stored snapshot is kept.
	Upsert(dbc dbctx.Context, t *types.LocalTracker, withMeta bool) error
	// Advance moves the cursor one item in the store and returns the updated row; nil when
	// the tracker does not exist. A completed tracker is returned unchanged.
	Advance(dbc dbctx.Context, studentID, phaseID uuid.UUID) (*types.LocalTracker, error)
}

type trackerRepo struct {
	rpc *rpc.Caller
	log *logger.Logger
}

func NewTrackerRepo(db *gorm.DB, baseLog *logger.Logger) TrackerRepo {
	log := baseLog.With("repo", "TrackerRepo")
	return &trackerRepo{rpc: rpc.New(db, log), log: log}
}

func (r *trackerRepo) Get(dbc dbctx.Context, studentID, phaseID uuid.UUID) (*types.LocalTracker, error) {
	if studentID == uuid.Nil || phaseID == uuid.Nil {
		return nil, nil
	}
	return rpc.First[types.LocalTracker](r.rpc, dbc, "get_local_tracker_status",
		rpc.A("p_student_id", studentID),
		rpc.A("p_phase_id", phaseID),
	)
}

func (r *trackerRepo) Upsert(dbc dbctx.Context, t *types.LocalTracker, withMeta bool) error {
	if t == nil {
		return nil
	}
	var meta any
	if withMeta && len(t.CachedMeta) > 0 {
		meta = t.CachedMeta
	}
	return r.rpc.Exec(dbc, "update_local_tracker_status",
		rpc.A("p_student_id", t.StudentID),
		rpc.A("p_phase_id", t.PhaseID),
		rpc.A("p_chapter_id", t.ChapterID),
		rpc.A("p_phase_type", t.PhaseType.String()),
		rpc.A("p_tracker_type", string(t.TrackerType)),
		rpc.A("p_current_index", t.CurrentIndex),
		rpc.A("p_total_items", t.TotalItems),
		rpc.A("p_meta", meta),
		rpc.A("p_is_completed", t.IsCompleted),
	)
}

func (r *trackerRepo) Advance(dbc dbctx.Context, studentID, phaseID uuid.UUID) (*types.LocalTracker, error) {
	if studentID == uuid.Nil || phaseID == uuid.Nil {
		return nil, nil
	}
	return rpc.First[types.LocalTracker](r.rpc, dbc, "advance_local_tracker_status",
		rpc.A("p_student_id", studentID),
		rpc.A("p_phase_id", phaseID),
	)
}
