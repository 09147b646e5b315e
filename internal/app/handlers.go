package app

import (
	httpH "github.com/yungbote/hummingbird-backend/internal/http/handlers"
	"github.com/yungbote/hummingbird-backend/internal/http/response"
	"github.com/yungbote/hummingbird-backend/internal/platform/logger"
)

type Handlers struct {
	Health  *httpH.HealthHandler
	Chapter *httpH.ChapterHandler
	Mcq     *httpH.McqHandler
	Mentor  *httpH.MentorHandler
}

func wireHandlers(log *logger.Logger, cfg Config, clients Clients, serviceset Services) Handlers {
	resp := response.NewWriter(cfg.HTTP.ErrorStatus)
	return Handlers{
		Health:  httpH.NewHealthHandler(),
		Chapter: httpH.NewChapterHandler(log, serviceset.Progression, serviceset.Doubt, clients.Idempotency, resp),
		Mcq:     httpH.NewMcqHandler(serviceset.Mcq, resp),
		Mentor:  httpH.NewMentorHandler(serviceset.Mentor, resp),
	}
}
