package assessment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/hummingbird-backend/internal/domain"
	"github.com/yungbote/hummingbird-backend/internal/platform/dbctx"
	"github.com/yungbote/hummingbird-backend/internal/platform/logger"
)

type McqAttemptRepo interface {
	// Upsert stores the attempt keyed by (student_id, mcq_uuid); a resubmission overwrites the
	// previous answer. The stored row is returned.
	Upsert(dbc dbctx.Context, row *types.McqAttempt) (*types.McqAttempt, error)
}

type mcqAttemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMcqAttemptRepo(db *gorm.DB, baseLog *logger.Logger) McqAttemptRepo {
	return &mcqAttemptRepo{db: db, log: baseLog.With("repo", "McqAttemptRepo")}
}

func (r *mcqAttemptRepo) Upsert(dbc dbctx.Context, row *types.McqAttempt) (*types.McqAttempt, error) {
	if row == nil || row.StudentID == uuid.Nil || row.McqID == uuid.Nil {
		return nil, fmt.Errorf("missing student_id or mcq_uuid")
	}
	now := time.Now().UTC()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now

	err := dbc.DB(r.db).
		Clauses(
			clause.OnConflict{
				Columns: []clause.Column{{Name: "student_id"}, {Name: "mcq_uuid"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"selected_option",
					"correct_answer",
					"is_correct",
					"chapter_id",
					"react_order",
					"updated_at",
				}),
			},
			clause.Returning{},
		).
		Create(row).Error
	if err != nil {
		return nil, err
	}
	return row, nil
}
