// Package http exposes the application over a versioned REST API.
package http

import (
	"github.com/gin-gonic/gin"

	"vetpoint/backend/internal/identity"
)

type RouterConfig struct {
	Tokens         *identity.Tokens
	Auth           *AuthHandler
	Pets           *PetsHandler
	Directory      *DirectoryHandler
	Appointments   *AppointmentsHandler
	Devices        *DevicesHandler
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter wires every handler under /api/v1. Browse endpoints are
// public; everything that acts on behalf of a user sits behind the auth
// middleware.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.RateLimitRPS > 0 {
		r.Use(RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	}

	api := r.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/register", cfg.Auth.Register)
		auth.POST("/login", cfg.Auth.Login)
		auth.POST("/provider", cfg.Auth.LoginWithProvider)
	}

	api.GET("/clinics", cfg.Directory.ListClinics)
	api.GET("/clinics/:id", cfg.Directory.GetClinic)
	api.GET("/veterinarians", cfg.Directory.ListVeterinarians)
	api.GET("/veterinarians/:id", cfg.Directory.GetVeterinarian)
	api.GET("/appointments/availability", cfg.Appointments.Availability)

	protected := api.Group("/")
	protected.Use(Auth(cfg.Tokens))
	{
		protected.POST("/auth/logout", cfg.Auth.Logout)
		protected.GET("/profile", cfg.Auth.Profile)
		protected.PUT("/profile", cfg.Auth.UpdateProfile)

		protected.POST("/pets", cfg.Pets.Create)
		protected.GET("/pets", cfg.Pets.List)
		protected.GET("/pets/:id", cfg.Pets.Get)
		protected.PUT("/pets/:id", cfg.Pets.Update)
		protected.DELETE("/pets/:id", cfg.Pets.Delete)

		protected.POST("/clinics", cfg.Directory.CreateClinic)
		protected.GET("/clinics/:id/appointments", cfg.Appointments.ListForClinic)
		protected.POST("/veterinarians", cfg.Directory.BecomeVeterinarian)
		protected.PUT("/veterinarians/:id", cfg.Directory.UpdateVeterinarian)

		protected.POST("/appointments", cfg.Appointments.Create)
		protected.GET("/appointments", cfg.Appointments.ListMine)
		protected.GET("/appointments/incoming", cfg.Appointments.ListIncoming)
		protected.GET("/appointments/:id", cfg.Appointments.Get)
		protected.PATCH("/appointments/:id/status", cfg.Appointments.Transition)
		protected.POST("/appointments/:id/cancel", cfg.Appointments.Cancel)
		protected.PUT("/appointments/:id", cfg.Appointments.Update)
		protected.DELETE("/appointments/:id", cfg.Appointments.Delete)

		protected.PUT("/devices", cfg.Devices.Register)
	}

	return r
}
