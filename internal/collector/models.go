package collector

import (
	"time"

	"github.com/san-kum/stageshow/internal/storage"
)

// ApiResponse is the envelope for every reply.
type ApiResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type PingRequest struct {
	Number string `json:"number" binding:"required"`
}

type PingResponse struct {
	ID string `json:"id"`
}

type HealthResponse struct {
	Version     string        `json:"version"`
	Uptime      time.Duration `json:"uptime"`
	Submissions int           `json:"submissions"`
}

type SubmissionsResponse struct {
	Total       int                  `json:"total"`
	Submissions []storage.Submission `json:"submissions"`
}

type PurgeResponse struct {
	Purged int `json:"purged"`
}
