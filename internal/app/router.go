package app

import (
	httpserver "github.com/yungbote/hummingbird-backend/internal/http"
	"github.com/yungbote/hummingbird-backend/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg Config, handlerset Handlers) *httpserver.Server {
	return httpserver.NewServer(cfg.HTTP.Addr(), httpserver.RouterConfig{
		Log:            log,
		ServiceName:    cfg.OTel.ServiceName,
		CORSOrigins:    cfg.HTTP.CORSOrigins,
		HealthHandler:  handlerset.Health,
		ChapterHandler: handlerset.Chapter,
		McqHandler:     handlerset.Mcq,
		MentorHandler:  handlerset.Mentor,
	})
}
