package app

import (
	"github.com/yungbote/hummingbird-backend/internal/platform/logger"
	"github.com/yungbote/hummingbird-backend/internal/services"
)

type Services struct {
	Progression services.ProgressionService
	Doubt       services.DoubtService
	Mentor      services.MentorService
	Mcq         services.McqService
}

func wireServices(log *logger.Logger, clients Clients, reposet Repos) Services {
	log.Info("Wiring services...")
	return Services{
		Progression: services.NewProgressionService(log, reposet.Pointer, reposet.Phase, reposet.Tracker),
		Doubt:       services.NewDoubtService(log, clients.OpenAI, clients.Prompts, reposet.DoubtLog),
		Mentor:      services.NewMentorService(log, clients.OpenAI, clients.Prompts, reposet.ConversationLog),
		Mcq:         services.NewMcqService(log, reposet.McqAttempt),
	}
}
