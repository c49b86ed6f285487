package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"driftline/internal/handler"
	"driftline/internal/httputil"
	authmw "driftline/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler       *handler.AuthHandler
	UserHandler       *handler.UserHandler
	FollowHandler     *handler.FollowHandler
	PostHandler       *handler.PostHandler
	CommentHandler    *handler.CommentHandler
	EngagementHandler *handler.EngagementHandler
	FeedHandler       *handler.FeedHandler
	AdminHandler      *handler.AdminHandler
	JWTSecret         string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Public routes - no authentication required
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
		r.Post("/refresh", cfg.AuthHandler.Refresh)
		r.Post("/logout", cfg.AuthHandler.Logout)
	})

	// Public read endpoints
	r.Get("/users/nickname/{nickname}", cfg.UserHandler.GetUserByNickname)
	r.Get("/users/{id}", cfg.UserHandler.GetUser)
	r.Get("/users/{id}/followers", cfg.FollowHandler.GetFollowers)
	r.Get("/users/{id}/following", cfg.FollowHandler.GetFollowing)
	r.Get("/users/{id}/posts", cfg.PostHandler.ListByAuthor)
	r.Get("/posts/{id}", cfg.PostHandler.Get)
	r.Get("/comments/{id}", cfg.CommentHandler.Get)

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.AuthMiddleware(cfg.JWTSecret))

		r.Get("/me", cfg.AuthHandler.Me)
		r.Patch("/users/{id}", cfg.UserHandler.UpdateProfile)
		r.Delete("/users/{id}", cfg.UserHandler.DeleteAccount)

		r.Post("/users/{id}/follow", cfg.FollowHandler.Follow)
		r.Get("/users/{id}/follow", cfg.FollowHandler.IsFollowing)
		r.Delete("/users/{id}/follow", cfg.FollowHandler.Unfollow)

		r.Get("/feed", cfg.FeedHandler.GetFeed)

		r.Post("/posts", cfg.PostHandler.Create)
		r.Delete("/posts/{id}", cfg.PostHandler.Delete)

		r.Post("/comments", cfg.CommentHandler.Create)
		r.Delete("/comments/{id}", cfg.CommentHandler.Delete)

		r.Post("/likes", cfg.EngagementHandler.Like)
		r.Delete("/likes/{id}", cfg.EngagementHandler.Unlike)

		r.Post("/admin/recount", cfg.AdminHandler.Recount)
	})

	return r
}
