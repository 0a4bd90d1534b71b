package controllers

import (
	"github.com/datallboy/reelscout/internal/domain"
)

type DownloadRequest struct {
	MagnetLink string `json:"magnetLink" validate:"required"`
	MovieTitle string `json:"movieTitle" validate:"required"`
	Quality    string `json:"quality" validate:"required,oneof=4K 1080p 720p 480p Download"`
}

type DownloadResponse struct {
	Message    string `json:"message"`
	DownloadID string `json:"downloadId"`
}

type HealthResponse struct {
	Status    string   `json:"status"`
	Providers []string `json:"providers"`
}

type HistoryResponse struct {
	Jobs []domain.JobRecord `json:"jobs"`
}
