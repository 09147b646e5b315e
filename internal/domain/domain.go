package domain

import (
	"github.com/yungbote/hummingbird-backend/internal/domain/assessment"
	"github.com/yungbote/hummingbird-backend/internal/domain/mentor"
	"github.com/yungbote/hummingbird-backend/internal/domain/progression"
)

type CanonicalType = progression.CanonicalType
type TrackerType = progression.TrackerType
type ChapterPointer = progression.ChapterPointer
type LocalTracker = progression.LocalTracker
type Phase = progression.Phase
type Content = progression.Content
type Progress = progression.Progress

type ConversationLog = mentor.ConversationLog
type Message = mentor.Message
type Role = mentor.Role

type McqAttempt = assessment.McqAttempt
type DoubtLog = assessment.DoubtLog

// AutoMigrated lists the tables owned by gorm models. Pointer, tracker and phase tables are
// created by the SQL migrations together with their procedures.
func AutoMigrated() []any {
	return []any{
		&ConversationLog{},
		&McqAttempt{},
		&DoubtLog{},
	}
}
