package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/hummingbird-backend/internal/data/repos"
	"github.com/yungbote/hummingbird-backend/internal/platform/logger"
)

type Repos struct {
	Pointer         repos.PointerRepo
	Phase           repos.PhaseRepo
	Tracker         repos.TrackerRepo
	ConversationLog repos.ConversationLogRepo
	McqAttempt      repos.McqAttemptRepo
	DoubtLog        repos.DoubtLogRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Pointer:         repos.NewPointerRepo(db, log),
		Phase:           repos.NewPhaseRepo(db, log),
		Tracker:         repos.NewTrackerRepo(db, log),
		ConversationLog: repos.NewConversationLogRepo(db, log),
		McqAttempt:      repos.NewMcqAttemptRepo(db, log),
		DoubtLog:        repos.NewDoubtLogRepo(db, log),
	}
}
