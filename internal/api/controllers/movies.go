package controllers

import (
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/datallboy/reelscout/internal/app"
)

type MoviesController struct {
	App *app.Context
}

func (ctrl *MoviesController) Recent(c *echo.Context) error {
	movies, err := ctrl.App.Service.RecentMovies(c.Request().Context())
	if err != nil {
		return writeError(c, "Error fetching recent movies", err)
	}
	return c.JSON(http.StatusOK, movies)
}

func (ctrl *MoviesController) Popular(c *echo.Context) error {
	movies, err := ctrl.App.Service.PopularMovies(c.Request().Context())
	if err != nil {
		return writeError(c, "Error fetching popular movies", err)
	}
	return c.JSON(http.StatusOK, movies)
}

func (ctrl *MoviesController) Search(c *echo.Context) error {
	query := c.QueryParam("query")
	if query == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Query parameter is required"})
	}

	movies, err := ctrl.App.Service.SearchMovies(c.Request().Context(), query)
	if err != nil {
		return writeError(c, "Error searching movies", err)
	}
	return c.JSON(http.StatusOK, movies)
}
