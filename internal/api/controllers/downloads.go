package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v5"

	"github.com/datallboy/reelscout/internal/app"
	"github.com/datallboy/reelscout/internal/domain"
	"github.com/datallboy/reelscout/internal/service"
)

type DownloadsController struct {
	App      *app.Context
	Validate *validator.Validate
}

// Start kicks off a simulated download and answers before any progress is made.
func (ctrl *DownloadsController) Start(c *echo.Context) error {
	var req DownloadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Error: err.Error()})
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Missing magnetLink, movieTitle, or quality", Error: err.Error()})
	}

	id, err := ctrl.App.Service.StartDownload(c.Request().Context(), service.DownloadRequest{
		Magnet:  req.MagnetLink,
		Title:   req.MovieTitle,
		Quality: domain.Quality(req.Quality),
	})
	if err != nil {
		return writeError(c, "Error starting download", err)
	}

	return c.JSON(http.StatusOK, DownloadResponse{Message: "Download initiated", DownloadID: id})
}

func (ctrl *DownloadsController) List(c *echo.Context) error {
	return c.JSON(http.StatusOK, ctrl.App.Service.Downloads(c.Request().Context()))
}

func (ctrl *DownloadsController) Get(c *echo.Context) error {
	job, err := ctrl.App.Service.Job(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, "Download not found", err)
	}
	return c.JSON(http.StatusOK, job)
}

func (ctrl *DownloadsController) History(c *echo.Context) error {
	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "limit must be a number", Error: err.Error()})
		}
		limit = n
	}

	jobs, err := ctrl.App.Service.History(c.Request().Context(), limit)
	if err != nil {
		return writeError(c, "Error reading history", err)
	}
	return c.JSON(http.StatusOK, HistoryResponse{Jobs: jobs})
}

func (ctrl *DownloadsController) Health(c *echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Providers: ctrl.App.Manager.Providers()})
}
