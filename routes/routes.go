package routes

import (
	"net/http"
	"time"

	"transporterp/handlers"
	"transporterp/middlewares"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handlers struct {
	Trips    *handlers.TripHandler
	PDF      *handlers.PDFHandler
	Masters  *handlers.MasterHandler
	Payments *handlers.PaymentHistoryHandler
	Reports  *handlers.ReportHandler
	Expenses *handlers.ExpenseHandler
	Users    *handlers.UserHandler
}

type Options struct {
	CORSOrigins    []string
	RequestTimeout time.Duration
	JWTSecret      string
}

// SetupRoutes builds the router. Everything except /health and
// /auth/login requires a valid token.
func SetupRoutes(h Handlers, opts Options) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(handlers.RecoverWrapper)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(opts.RequestTimeout))
	}

	r.Get("/health", handlers.Health)
	r.Post("/auth/login", h.Users.Login)

	r.Group(func(r chi.Router) {
		r.Use(middlewares.Authenticate(opts.JWTSecret))

		// Trip routes
		r.Route("/trips", func(r chi.Router) {
			r.Get("/", h.Trips.ListTrips)
			r.Post("/", h.Trips.CreateTrip)
			r.Get("/{id}", h.Trips.GetTrip)
			r.Put("/{id}", h.Trips.UpdateTrip)
			r.Delete("/{id}", h.Trips.DeleteTrip)
			r.Post("/{id}/restore", h.Trips.RestoreTrip)
			r.With(middlewares.AdminOnly).Delete("/{id}/permanent", h.Trips.PermanentDeleteTrip)
			r.Post("/{id}/pod", h.Trips.UploadPOD)
			r.Get("/{id}/pod/file", h.Trips.PODFile)
			r.Post("/{id}/print-metadata", h.Trips.PrintMetadata)
		})

		// Printing
		r.Post("/print/generate", h.PDF.GenerateSlips)

		// Master data
		r.Route("/masters", func(r chi.Router) {
			r.Get("/parties", h.Masters.SearchParties)
			r.Get("/parties/{id}", h.Masters.GetParty)
			r.Get("/motor-owners", h.Masters.SearchMotorOwners)
			r.Get("/motor-owners/{id}", h.Masters.GetMotorOwner)
			r.Get("/own-vehicles", h.Masters.ListOwnVehicles)
			r.With(middlewares.AdminOnly).Post("/own-vehicles", h.Masters.AddOwnVehicle)
		})

		// Ledger
		r.Get("/payment-history", h.Payments.List)
		r.Get("/payment-history/export", h.Payments.Export)

		// Reports & dashboard
		r.Get("/reports/trips", h.Reports.TripsReport)
		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/", h.Reports.Dashboard)
			r.Get("/summary", h.Reports.Summary)
			r.Get("/profit-trend", h.Reports.ProfitTrend)
			r.Get("/trip-volume", h.Reports.TripVolume)
		})

		// Expenses
		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", h.Expenses.List)
			r.Post("/", h.Expenses.Create)
			r.Put("/{id}", h.Expenses.Update)
		})

		// Admin
		r.Route("/admin", func(r chi.Router) {
			r.Use(middlewares.AdminOnly)
			r.Get("/users", h.Users.ListUsers)
			r.Post("/users", h.Users.CreateUser)
		})
	})

	return r
}
