package api

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"

	"github.com/datallboy/reelscout/internal/api/controllers"
	"github.com/datallboy/reelscout/internal/app"
)

func RegisterRoutes(e *echo.Echo, app *app.Context) {

	e.Use(middleware.Recover())

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	// Middleware: Request Logger
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c *echo.Context, v middleware.RequestLoggerValues) error {
			app.Logger.Info("%s %s | %d | %s | %s", v.Method, v.URI, v.Status, v.Latency, v.RequestID)
			return nil
		},
	}))

	// Browser clients run on another origin
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
	}))

	moviesCtrl := &controllers.MoviesController{App: app}
	sourcesCtrl := &controllers.SourcesController{App: app}
	downloadsCtrl := &controllers.DownloadsController{App: app, Validate: validator.New()}
	torznabCtrl := &controllers.TorznabController{App: app}

	// Same routes at the root and under /api, older clients use the prefix
	for _, g := range []*echo.Group{e.Group(""), e.Group("/api")} {
		g.GET("/recent-movies", moviesCtrl.Recent)
		g.GET("/popular-movies", moviesCtrl.Popular)
		g.GET("/search", moviesCtrl.Search)
		g.GET("/sources/:movieId", sourcesCtrl.Sources)

		g.POST("/download", downloadsCtrl.Start)
		g.GET("/downloaded-movies", downloadsCtrl.List)
		g.GET("/downloads/:id", downloadsCtrl.Get)
		g.GET("/history", downloadsCtrl.History)
		g.GET("/health", downloadsCtrl.Health)
	}

	// Torznab feed for Prowlarr/Radarr
	e.GET("/torznab/api", torznabCtrl.Handle)

	// Finished artifacts, matching the filePath values in job views
	e.Static(app.Config.Download.PublicPrefix, app.Config.Download.OutDir)
}
