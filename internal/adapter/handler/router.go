package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/podscribe-team/podscribe/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg        *config.Config
	transcript *Transcript
	chat       *Chat
	insights   *Insights
	session    *Session
	authMW     echo.MiddlewareFunc
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, transcript *Transcript, chat *Chat, insights *Insights, session *Session, authMW echo.MiddlewareFunc) *Router {
	return &Router{
		cfg:        cfg,
		transcript: transcript,
		chat:       chat,
		insights:   insights,
		session:    session,
		authMW:     authMW,
	}
}

// Setup configures all application routes. The auth middleware guards
// everything under /v1; the health check stays open.
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)

	v1 := e.Group("/v1", rt.authMW)

	rt.setupTranscriptRoutes(v1)
	rt.setupChatRoutes(v1)
	rt.setupInsightRoutes(v1)
	rt.setupSessionRoutes(v1)
}

func (rt *Router) setupTranscriptRoutes(g *echo.Group) {
	transcriptGroup := g.Group("/transcripts")

	transcriptGroup.POST("", rt.transcript.Start)
	transcriptGroup.GET("/jobs/:id", rt.transcript.JobStatus)
	transcriptGroup.GET("/current", rt.transcript.Current)

	g.GET("/search", rt.transcript.Search)
}

func (rt *Router) setupChatRoutes(g *echo.Group) {
	chatGroup := g.Group("/chat")

	chatGroup.POST("", rt.chat.Message)
	chatGroup.POST("/enter", rt.chat.Enter)
	chatGroup.POST("/exit", rt.chat.Exit)
}

func (rt *Router) setupInsightRoutes(g *echo.Group) {
	insightGroup := g.Group("/insights")

	insightGroup.POST("", rt.insights.Generate)
	insightGroup.GET("", rt.insights.Get)

	g.POST("/upload", rt.insights.Upload)
}

func (rt *Router) setupSessionRoutes(g *echo.Group) {
	sessionGroup := g.Group("/session")

	sessionGroup.GET("", rt.session.Status)
	sessionGroup.DELETE("", rt.session.Clear)

	noteGroup := g.Group("/notes")
	noteGroup.POST("", rt.session.AddNote)
	noteGroup.GET("", rt.session.ListNotes)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
