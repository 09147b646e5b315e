package assessment

import (
	"time"

	"github.com/google/uuid"
)

// McqAttempt is the latest answer a student gave to one MCQ; (student_id, mcq_uuid) is unique
// and resubmission overwrites the row.
type McqAttempt struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudentID      uuid.UUID  `gorm:"type:uuid;column:student_id;not null;uniqueIndex:idx_student_mcq,priority:1" json:"student_id"`
	McqID          uuid.UUID  `gorm:"type:uuid;column:mcq_uuid;not null;uniqueIndex:idx_student_mcq,priority:2" json:"mcq_uuid"`
	SelectedOption string     `gorm:"column:selected_option;not null;default:''" json:"selected_option"`
	CorrectAnswer  string     `gorm:"column:correct_answer;not null;default:''" json:"correct_answer"`
	IsCorrect      bool       `gorm:"column:is_correct;not null" json:"is_correct"`
	ChapterID      *uuid.UUID `gorm:"type:uuid;column:chapter_id;index" json:"chapter_id,omitempty"`
	ReactOrder     *int       `gorm:"column:react_order" json:"react_order,omitempty"`
	CreatedAt      time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (McqAttempt) TableName() string { return "student_mcq_attempts" }
