package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"devshare/internal/handler"
	"devshare/internal/httputil"
	authmw "devshare/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	UserHandler           *handler.UserHandler
	FollowHandler         *handler.FollowHandler
	BlockHandler          *handler.BlockHandler
	SnippetHandler        *handler.SnippetHandler
	DocumentHandler       *handler.DocumentHandler
	InteractionHandler    *handler.InteractionHandler
	CommentHandler        *handler.CommentHandler
	RecommendationHandler *handler.RecommendationHandler
	NotificationHandler   *handler.NotificationHandler
	AdminHandler          *handler.AdminHandler

	JWTSecret string
	Users     authmw.UserProvisioner
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

	optionalAuth := authmw.OptionalAuthMiddleware(cfg.JWTSecret, cfg.Users)
	requireAuth := authmw.AuthMiddleware(cfg.JWTSecret, cfg.Users)

	// Public reads with optional authentication. Visibility narrows for
	// anonymous viewers; recommendations degrade to empty lists.
	r.Group(func(r chi.Router) {
		r.Use(optionalAuth)

		r.Get("/recommendations", cfg.RecommendationHandler.Get)

		r.Route("/users", func(r chi.Router) {
			r.Get("/search", cfg.UserHandler.Search)
			r.Get("/{id}", cfg.UserHandler.GetProfile)
			r.Get("/{id}/followers", cfg.FollowHandler.GetFollowers)
			r.Get("/{id}/following", cfg.FollowHandler.GetFollowing)
			r.Get("/{id}/snippets", cfg.SnippetHandler.ListByAuthor)
			r.Get("/{id}/documents", cfg.DocumentHandler.ListByAuthor)
		})

		r.Get("/snippets/{id}", cfg.SnippetHandler.Get)
		r.Get("/documents/{id}", cfg.DocumentHandler.Get)
		r.Get("/{kind}/{id}/comments", cfg.CommentHandler.ListByItem)
	})

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)

		// Current user endpoints
		r.Get("/me", cfg.UserHandler.GetMe)
		r.Patch("/me", cfg.UserHandler.UpdateMe)
		r.Get("/me/saved/snippets", cfg.InteractionHandler.ListSavedSnippets)
		r.Get("/me/saved/documents", cfg.InteractionHandler.ListSavedDocuments)
		r.Get("/me/blocked", cfg.BlockHandler.ListBlocked)

		// Social graph mutations
		r.Post("/users/{id}/follow", cfg.FollowHandler.Follow)
		r.Delete("/users/{id}/follow", cfg.FollowHandler.Unfollow)
		r.Post("/users/{id}/block", cfg.BlockHandler.Block)
		r.Delete("/users/{id}/block", cfg.BlockHandler.Unblock)

		// Content mutations
		r.Post("/snippets", cfg.SnippetHandler.Create)
		r.Patch("/snippets/{id}", cfg.SnippetHandler.Update)
		r.Delete("/snippets/{id}", cfg.SnippetHandler.Delete)
		r.Post("/documents", cfg.DocumentHandler.Create)
		r.Patch("/documents/{id}", cfg.DocumentHandler.Update)
		r.Delete("/documents/{id}", cfg.DocumentHandler.Delete)

		// Like/save toggles; {kind} is snippet|document, validated in the
		// handler.
		r.Post("/{kind}/{id}/like", cfg.InteractionHandler.Like)
		r.Delete("/{kind}/{id}/like", cfg.InteractionHandler.Unlike)
		r.Post("/{kind}/{id}/save", cfg.InteractionHandler.Save)
		r.Delete("/{kind}/{id}/save", cfg.InteractionHandler.Unsave)

		// Comments
		r.Post("/{kind}/{id}/comments", cfg.CommentHandler.Create)
		r.Delete("/comments/{id}", cfg.CommentHandler.Delete)

		// Notifications
		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", cfg.NotificationHandler.List)
			r.Get("/unread-count", cfg.NotificationHandler.UnreadCount)
			r.Post("/read", cfg.NotificationHandler.MarkRead)
			r.Post("/read-all", cfg.NotificationHandler.MarkAllRead)
		})

		// Admin moderation
		r.Route("/admin", func(r chi.Router) {
			r.Use(authmw.RequireAdmin)
			r.Put("/users/{id}/suspension", cfg.AdminHandler.SetSuspended)
			r.Put("/users/{id}/role", cfg.AdminHandler.SetRole)
		})
	})

	return r
}
