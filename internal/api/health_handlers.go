package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status string `json:"status" doc:"Overall status: healthy or unhealthy"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Status int
	Body   HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	if s.db != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		if err := s.db.Ping(pingCtx); err != nil {
			s.logger.Error("Health check failed", "error", err)
			return &HealthOutput{
				Status: http.StatusServiceUnavailable,
				Body:   HealthResponse{Status: "unhealthy"},
			}, nil
		}
	}

	return &HealthOutput{
		Status: http.StatusOK,
		Body:   HealthResponse{Status: "healthy"},
	}, nil
}
