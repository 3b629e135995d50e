package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/FindHome-mobile/FindHome-Backend/internal/api/handlers"
	"github.com/FindHome-mobile/FindHome-Backend/internal/config"
	"github.com/FindHome-mobile/FindHome-Backend/internal/metrics"
	"github.com/FindHome-mobile/FindHome-Backend/internal/middleware"
	"github.com/FindHome-mobile/FindHome-Backend/internal/models"
	"github.com/FindHome-mobile/FindHome-Backend/internal/services"
)

type Services struct {
	Users         *services.UserService
	Listings      *services.ListingService
	Favorites     *services.FavoriteService
	Messages      *services.MessageService
	OwnerRequests *services.OwnerRequestService
}

// maxBody bounds a request carrying the largest allowed set of images.
func maxBody(cfg config.Config) int64 {
	images := int64(cfg.MaxImages)
	if images < 1 {
		images = 1
	}
	return cfg.MaxUploadMB<<20*images + 1<<20
}

func NewRouter(cfg config.Config, log *slog.Logger, svc Services) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.RequestLogger(log), middleware.HTTPMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))

	limit := maxBody(cfg)
	authH := handlers.NewAuthHandler(svc.Users, limit)
	userH := handlers.NewUserHandler(svc.Users, limit)
	listingH := handlers.NewListingHandler(svc.Listings, limit)
	favH := handlers.NewFavoriteHandler(svc.Favorites)
	msgH := handlers.NewMessageHandler(svc.Messages)
	reqH := handlers.NewOwnerRequestHandler(svc.OwnerRequests, svc.Users)

	am := middleware.NewAuthMiddleware(svc.Users, svc.Users.Tokens())

	r.Route("/api", func(r chi.Router) {
		r.Use(am.Identify)

		r.Route("/utilisateurs", func(r chi.Router) {
			r.Post("/login", authH.Login)
			r.Post("/register", authH.Register)
			r.Post("/forgot-password", authH.ForgotPassword)
			if svc.Users.Tokens() != nil {
				r.Post("/refresh", authH.Refresh)
			}

			r.Get("/", userH.List)
			r.Get("/proprietaires", userH.ListOwners)
			r.Get("/{id}", userH.Get)
			r.Put("/{id}", userH.Update)
			r.Delete("/{id}", userH.Delete)
			r.Put("/{id}/profile", userH.UpdateProfile)
			r.Put("/{id}/password", userH.ChangePassword)
			r.Post("/{id}/change-password", userH.ChangePassword)
		})

		r.Route("/annonces", func(r chi.Router) {
			r.Get("/", listingH.Search)
			r.Get("/stats", listingH.Stats)
			r.Get("/{id}", listingH.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireActor)
				r.Post("/proprietaire", listingH.CreateOwn)
				r.Get("/proprietaire/{ownerID}", listingH.ListByOwner)
				r.Put("/{id}", listingH.Update)
				r.Patch("/{id}/status", listingH.UpdateStatus)
				r.Delete("/{id}", listingH.Delete)
				r.Post("/", listingH.Create)
			})
		})

		r.Route("/favoris", func(r chi.Router) {
			r.Post("/add", favH.Add)
			r.Delete("/{clientID}/{listingID}", favH.Remove)
			r.Get("/client/{clientID}", favH.ListByClient)
			r.Get("/check/{clientID}/{listingID}", favH.Check)
			r.Get("/count/{clientID}", favH.Count)
		})

		r.Route("/messages", func(r chi.Router) {
			r.Post("/", msgH.Create)
			r.With(middleware.RequireRole(models.RoleAdmin)).Get("/", msgH.List)
		})

		r.Route("/demandes-proprietaire", func(r chi.Router) {
			r.Post("/", reqH.Create)
			r.Get("/", reqH.List)
			r.Get("/utilisateur/{userID}", reqH.LatestForUser)
			r.Get("/{id}", reqH.Get)
			r.Post("/{id}/approve", reqH.Approve)
			r.Post("/{id}/reject", reqH.Reject)
		})
	})

	return r
}
