package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/minhchau-creator/blogger.com/internal/api/handlers/comments"
	"github.com/minhchau-creator/blogger.com/internal/api/handlers/like"
	"github.com/minhchau-creator/blogger.com/internal/api/middleware"
	commentsCore "github.com/minhchau-creator/blogger.com/internal/core/comments"
	"github.com/minhchau-creator/blogger.com/internal/core/likes"
)

// RegisterCommentRoutes registers the comment thread endpoints.
// Reading a thread is public; writing requires authentication.
func RegisterCommentRoutes(r chi.Router, service commentsCore.Service, authMiddleware *middleware.AuthMiddleware) {
	h := comments.NewHandler(service)

	r.Post("/get-blog-comments", h.HandleGetBlogComments)
	r.Post("/get-replies", h.HandleGetReplies)

	r.With(authMiddleware.RequireAuth).Post("/add-comment", h.HandleAdd)
	r.With(authMiddleware.RequireAuth).Post("/delete-comment", h.HandleDelete)
}

// RegisterLikeRoutes registers like endpoints
func RegisterLikeRoutes(r chi.Router, service likes.Service, authMiddleware *middleware.AuthMiddleware) {
	h := like.NewHandler(service)

	r.With(authMiddleware.RequireAuth).Post("/like-blog", h.HandleToggle)
	r.With(authMiddleware.RequireAuth).Post("/isliked-by-user", h.HandleIsLiked)
}
