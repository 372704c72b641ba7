package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/minhchau-creator/blogger.com/internal/api/handlers/post"
	"github.com/minhchau-creator/blogger.com/internal/api/middleware"
	"github.com/minhchau-creator/blogger.com/internal/core/posts"
)

// RegisterPostRoutes registers feed, search, tag and post authoring endpoints
func RegisterPostRoutes(r chi.Router, service posts.Service, authMiddleware *middleware.AuthMiddleware) {
	h := post.NewHandler(service)

	// Public feeds
	r.Post("/latest-blogs", h.HandleLatest)
	r.Post("/all-latest-blogs-count", h.HandleCountLatest)
	r.Get("/trending-blogs", h.HandleTrending)
	r.Post("/search-blogs-by-tags", h.HandleSearchByTags)
	r.Post("/search-blogs-by-tags-count", h.HandleCountByTags)
	r.Post("/search-blogs", h.HandleSearch)
	r.Post("/search-blogs-count", h.HandleCountSearch)
	r.Get("/all-tags", h.HandleAllTags)
	r.Get("/trending-tags", h.HandleTrendingTags)

	// Drafts are only readable with the author's token, so the caller is
	// resolved when present
	r.With(authMiddleware.OptionalAuth).Post("/get-blog", h.HandleGet)

	r.With(authMiddleware.RequireAuth).Post("/create-blog", h.HandleCreate)
	r.With(authMiddleware.RequireAuth).Post("/delete-blog", h.HandleDelete)
	r.With(authMiddleware.RequireAuth).Post("/user-written-blogs", h.HandleListByAuthor)
	r.With(authMiddleware.RequireAuth).Post("/user-written-blogs-count", h.HandleCountByAuthor)
}
