package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spendtrack/spendtrack-be/internal/api/handlers"
	"github.com/spendtrack/spendtrack-be/internal/auth"
	"github.com/spendtrack/spendtrack-be/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(userService services.UserServiceProvider, expenseService services.ExpenseServiceProvider, jwtSecret []byte, corsOrigin string) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{corsOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, jwtSecret)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	userHandler := handlers.NewUserHandler(userService)

	requireAuth := auth.JWTMiddleware(jwtSecret)

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/me", authHandler.GetMe)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			// Expense records, scoped to the authenticated owner
			r.Route("/expenses", func(r chi.Router) {
				r.Get("/", expenseHandler.List)
				r.Post("/", expenseHandler.Create)
				r.Get("/export", expenseHandler.Export)
				r.Get("/total", expenseHandler.Total)
				r.Get("/monthly", expenseHandler.MonthlySummary)
				r.Get("/category", expenseHandler.CategoryStats)
				r.Route("/{id}", func(r chi.Router) {
					r.Put("/", expenseHandler.Update)
					r.Delete("/", expenseHandler.Delete)
				})
			})

			// Account directory, admin only
			r.Route("/users", func(r chi.Router) {
				r.Use(auth.AdminOnly)
				r.Get("/stats", userHandler.Stats)
				r.Get("/", userHandler.List)
				r.Post("/", userHandler.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", userHandler.Get)
					r.Put("/", userHandler.Update)
					r.Delete("/", userHandler.Delete)
				})
			})
		})
	})

	return r
}
