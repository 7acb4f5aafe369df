package api

import (
	"github.com/abhinav-rajesh/BOOKSHELF/internal/api/handlers"
	"github.com/abhinav-rajesh/BOOKSHELF/internal/auth"
	"github.com/abhinav-rajesh/BOOKSHELF/internal/services"
	"github.com/abhinav-rajesh/BOOKSHELF/internal/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	hub *websocket.Hub,
	userService services.UserServiceProvider,
	bookService services.BookServiceProvider,
	reviewService services.ReviewServiceProvider,
	recommendationService services.RecommendationServiceProvider,
	eventService services.EventServiceProvider,
	allowedOrigin string,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{allowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, eventService)
	bookHandler := handlers.NewBookHandler(bookService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	recommendationHandler := handlers.NewRecommendationHandler(recommendationService)
	eventHandler := handlers.NewEventHandler(eventService)
	wsHandler := handlers.NewWebSocketHandler(hub)

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		// Live activity feed
		r.Get("/ws", wsHandler.Serve)
		r.Get("/ws/books/{id}", wsHandler.Serve)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", userHandler.Register)
			r.Post("/login", userHandler.Login)
			r.Post("/logout", userHandler.Logout)

			r.Group(func(r chi.Router) {
				r.Use(auth.JWTMiddleware())
				r.Get("/me", userHandler.GetMe)
				r.Post("/password", userHandler.ChangePassword)
			})
		})

		r.Route("/books", func(r chi.Router) {
			r.Get("/", bookHandler.GetAll)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", bookHandler.Get)
				r.Get("/reviews", reviewHandler.GetForBook)

				r.Group(func(r chi.Router) {
					r.Use(auth.JWTMiddleware())
					r.Put("/review", reviewHandler.Upsert)
				})
			})

			r.Group(func(r chi.Router) {
				r.Use(auth.JWTMiddleware())
				r.Post("/", bookHandler.Create)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.JWTMiddleware())
			r.Get("/recommendations", recommendationHandler.GetForUser)
		})

		r.Get("/events/recent", eventHandler.GetRecent)
	})

	return r
}
