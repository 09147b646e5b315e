package progression

import "github.com/google/uuid"

// ChapterPointer is the durable macro cursor for one (student, chapter).
// A nil Position means the student has not been placed on any phase yet.
type ChapterPointer struct {
	StudentID   uuid.UUID `gorm:"-" json:"student_id"`
	ChapterID   uuid.UUID `gorm:"-" json:"chapter_id"`
	Position    *int      `gorm:"column:position" json:"position"`
	IsCompleted bool      `gorm:"column:is_completed" json:"is_completed"`
}

// At reports whether the pointer already sits on position.
func (p *ChapterPointer) At(position int) bool {
	return p != nil && p.Position != nil && *p.Position == position
}
