package progression

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/hummingbird-backend/internal/data/rpc"
	types "github.com/yungbote/hummingbird-backend/internal/domain"
	"github.com/yungbote/hummingbird-backend/internal/platform/dbctx"
	"github.com/yungbote/hummingbird-backend/internal/platform/logger"
)

type PointerRepo interface {
	Get(dbc dbctx.Context, studentID, chapterID uuid.UUID) (*types.ChapterPointer, error)
	Update(dbc dbctx.Context, studentID, chapterID uuid.UUID, position int) error
	Complete(dbc dbctx.Context, studentID, chapterID uuid.UUID, position int, isCorrect *bool) error
}

type pointerRepo struct {
	rpc *rpc.Caller
	log *logger.Logger
}

func NewPointerRepo(db *gorm.DB, baseLog *logger.Logger) PointerRepo {
	log := baseLog.With("repo", "PointerRepo")
	return &pointerRepo{rpc: rpc.New(db, log), log: log}
}

func (r *pointerRepo) Get(dbc dbctx.Context, studentID, chapterID uuid.UUID) (*types.ChapterPointer, error) {
	if studentID == uuid.Nil || chapterID == uuid.Nil {
		return nil, nil
	}
	row, err := rpc.First[types.ChapterPointer](r.rpc, dbc, "get_pointer_status",
		rpc.A("p_student_id", studentID),
		rpc.A("p_chapter_id", chapterID),
	)
	if err != nil || row == nil {
		return nil, err
	}
	row.StudentID = studentID
	row.ChapterID = chapterID
	return row, nil
}

func (r *pointerRepo) Update(dbc dbctx.Context, studentID, chapterID uuid.UUID, position int) error {
	return r.rpc.Exec(dbc, "update_pointer_status",
		rpc.A("p_student_id", studentID),
		rpc.A("p_chapter_id", chapterID),
		rpc.A("p_position", position),
	)
}

func (r *pointerRepo) Complete(dbc dbctx.Context, studentID, chapterID uuid.UUID, position int, isCorrect *bool) error {
	return r.rpc.Exec(dbc, "complete_pointer_status",
		rpc.A("p_student_id", studentID),
		rpc.A("p_chapter_id", chapterID),
		rpc.A("p_position", position),
		rpc.A("p_is_correct", isCorrect),
	)
}
