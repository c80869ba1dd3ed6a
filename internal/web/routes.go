package web

import (
	"phototagger/internal/ai"
	"phototagger/internal/web/handlers"
)

func (s *Server) setupRoutes(provider ai.Provider) {
	groupHandler := handlers.NewGroupHandler(s.config.Grouping.Threshold)
	processHandler := handlers.NewProcessHandler(provider)

	// Health check
	s.router.Get("/api/health", handlers.HealthCheck)

	// Compute endpoints
	s.router.Post("/api/compute/phash-group", groupHandler.Group)
	s.router.Post("/api/upload", processHandler.Upload)
}
