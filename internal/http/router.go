package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/hummingbird-backend/internal/http/handlers"
	httpMW "github.com/yungbote/hummingbird-backend/internal/http/middleware"
	"github.com/yungbote/hummingbird-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string

	HealthHandler  *httpH.HealthHandler
	ChapterHandler *httpH.ChapterHandler
	McqHandler     *httpH.McqHandler
	MentorHandler  *httpH.MentorHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "hummingbird"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/", cfg.HealthHandler.Root)
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	// Adaptive chapter
	if cfg.ChapterHandler != nil {
		r.POST("/adaptive_chapter", cfg.ChapterHandler.Dispatch)
	}

	// Assessment
	if cfg.McqHandler != nil {
		r.POST("/submit_mcq_answer", cfg.McqHandler.Submit)
	}

	// Mentor
	if cfg.MentorHandler != nil {
		r.POST("/mentor_chat", cfg.MentorHandler.Chat)
	}

	return r
}
