package controllers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/datallboy/reelscout/internal/app"
	"github.com/datallboy/reelscout/internal/domain"
)

type SourcesController struct {
	App *app.Context
}

// Sources resolves the movie title and returns the aggregated candidates.
func (ctrl *SourcesController) Sources(c *echo.Context) error {
	sources, err := ctrl.App.Service.SourcesForMovie(c.Request().Context(), c.Param("movieId"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Message: "Movie title not found."})
		}
		return writeError(c, "Error fetching movie title", err)
	}
	return c.JSON(http.StatusOK, sources)
}
