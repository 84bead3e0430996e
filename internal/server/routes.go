package server

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.Use(NewEchoLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil))))
	e.Use(middleware.Recover())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	e.GET("/api/health", s.healthHandler)

	var listingGroup = e.Group("/api/v1/listings")
	listingGroup.GET("", s.ListListings)
	listingGroup.POST("", s.CreateListing, s.AuthMiddleware)
	listingGroup.GET("/:id", s.GetListingByID)

	listingGroup.GET("/:id/photos", s.ListListingPhotos)
	listingGroup.POST("/:id/photos", s.UploadListingPhoto, s.AuthMiddleware)
	listingGroup.PUT("/:id/photos/:photoId/primary", s.SetPrimaryListingPhoto, s.AuthMiddleware)
	listingGroup.DELETE("/:id/photos/:photoId", s.DeleteListingPhoto, s.AuthMiddleware)

	return e
}

func (s *Server) healthHandler(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, s.server.Health())
}
