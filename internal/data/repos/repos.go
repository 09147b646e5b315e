package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/hummingbird-backend/internal/data/repos/assessment"
	"github.com/yungbote/hummingbird-backend/internal/data/repos/mentor"
	"github.com/yungbote/hummingbird-backend/internal/data/repos/progression"
	"github.com/yungbote/hummingbird-backend/internal/platform/logger"
)

type PointerRepo = progression.PointerRepo
type PhaseRepo = progression.PhaseRepo
type TrackerRepo = progression.TrackerRepo

type ConversationLogRepo = mentor.ConversationLogRepo
type ConversationTurn = mentor.Turn

type McqAttemptRepo = assessment.McqAttemptRepo
type DoubtLogRepo = assessment.DoubtLogRepo

func NewPointerRepo(db *gorm.DB, log *logger.Logger) PointerRepo {
	return progression.NewPointerRepo(db, log)
}

func NewPhaseRepo(db *gorm.DB, log *logger.Logger) PhaseRepo {
	return progression.NewPhaseRepo(db, log)
}

func NewTrackerRepo(db *gorm.DB, log *logger.Logger) TrackerRepo {
	return progression.NewTrackerRepo(db, log)
}

func NewConversationLogRepo(db *gorm.DB, log *logger.Logger) ConversationLogRepo {
	return mentor.NewConversationLogRepo(db, log)
}

func NewMcqAttemptRepo(db *gorm.DB, log *logger.Logger) McqAttemptRepo {
	return assessment.NewMcqAttemptRepo(db, log)
}

func NewDoubtLogRepo(db *gorm.DB, log *logger.Logger) DoubtLogRepo {
	return assessment.NewDoubtLogRepo(db, log)
}
