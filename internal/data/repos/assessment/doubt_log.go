package assessment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/hummingbird-backend/internal/domain"
	"github.com/yungbote/hummingbird-backend/internal/platform/dbctx"
	"github.com/yungbote/hummingbird-backend/internal/platform/logger"
)

type DoubtLogRepo interface {
	Create(dbc dbctx.Context, row *types.DoubtLog) error
}

type doubtLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDoubtLogRepo(db *gorm.DB, baseLog *logger.Logger) DoubtLogRepo {
	return &doubtLogRepo{db: db, log: baseLog.With("repo", "DoubtLogRepo")}
}

func (r *doubtLogRepo) Create(dbc dbctx.Context, row *types.DoubtLog) error {
	if row == nil || row.StudentID == uuid.Nil || row.ChapterID == uuid.Nil {
		return fmt.Errorf("missing student_id or chapter_id")
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return dbc.DB(r.db).Create(row).Error
}
