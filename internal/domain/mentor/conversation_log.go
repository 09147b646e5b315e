package mentor

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ConversationLog stores one mentor-chat block. Messages holds the full role-tagged
// transcript that is replayed to the generation service on every turn.
type ConversationLog struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	StudentName  string         `gorm:"column:student_name;not null;default:'Student'" json:"student_name"`
	ChapterID    *uuid.UUID     `gorm:"type:uuid;column:chapter_id;index" json:"chapter_id,omitempty"`
	BlockID      uuid.UUID      `gorm:"type:uuid;column:block_id;not null;index" json:"block_id"`
	Prompt       string         `gorm:"column:prompt;type:text;not null;default:''" json:"prompt"`
	Response     string         `gorm:"column:response;type:text;not null;default:''" json:"response"`
	PhaseContext datatypes.JSON `gorm:"type:jsonb;column:phase_context;not null;default:'{}'" json:"phase_context,omitempty"`
	Messages     datatypes.JSON `gorm:"type:jsonb;column:messages;not null;default:'[]'" json:"messages"`
	TokensUsed   *int           `gorm:"column:tokens_used" json:"tokens_used,omitempty"`
	CreatedAt    time.Time      `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now();index" json:"updated_at"`
}

func (ConversationLog) TableName() string { return "student_conversation_log" }

// Transcript decodes the stored messages. A column that does not hold a list yields an
// empty transcript.
func (c *ConversationLog) Transcript() []Message {
	if c == nil || len(c.Messages) == 0 {
		return []Message{}
	}
	var out []Message
	if err := json.Unmarshal(c.Messages, &out); err != nil || out == nil {
		return []Message{}
	}
	return out
}

func EncodeTranscript(msgs []Message) (datatypes.JSON, error) {
	if msgs == nil {
		msgs = []Message{}
	}
	b, err := json.Marshal(msgs)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
