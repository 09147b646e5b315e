package assessment

import (
	"time"

	"github.com/google/uuid"
)

// DoubtLog is the audit record of one ask_doubt exchange.
type DoubtLog struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudentID  uuid.UUID `gorm:"type:uuid;column:student_id;not null;index:idx_doubt_student_chapter,priority:1" json:"student_id"`
	ChapterID  uuid.UUID `gorm:"type:uuid;column:chapter_id;not null;index:idx_doubt_student_chapter,priority:2" json:"chapter_id"`
	Question   string    `gorm:"column:question;type:text;not null" json:"question"`
	Answer     string    `gorm:"column:answer;type:text;not null" json:"answer"`
	Model      string    `gorm:"column:model" json:"model,omitempty"`
	TokensUsed *int      `gorm:"column:tokens_used" json:"tokens_used,omitempty"`
	CreatedAt  time.Time `gorm:"not null;default:now();index" json:"created_at"`
}

func (DoubtLog) TableName() string { return "student_doubt_log" }
