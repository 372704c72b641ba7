// Package like serves post likes.
package like

import (
	"net/http"

	"github.com/minhchau-creator/blogger.com/internal/api/handlers"
	"github.com/minhchau-creator/blogger.com/internal/api/middleware"
	"github.com/minhchau-creator/blogger.com/internal/core/likes"
)

// Handler serves the like endpoints
type Handler struct {
	service likes.Service
}

// NewHandler creates a new like handler
func NewHandler(service likes.Service) *Handler {
	return &Handler{service: service}
}

type isLikedInput struct {
	PostID string `json:"_id" validate:"required,uuid"`
}

type isLikedOutput struct {
	Result bool `json:"result"`
}

// HandleToggle handles POST /like-blog
//
// Request body: { "_id": "<post id>", "islikedByUser": false }
// islikedByUser is the state the client saw; the like moves away from it.
// Response: { "liked_by_user": true }
func (h *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	var req likes.ToggleLikeRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.service.ToggleLike(r.Context(), middleware.GetUserID(r), req.PostID, req.CurrentlyLiked)
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, result)
}

// HandleIsLiked handles POST /isliked-by-user
func (h *Handler) HandleIsLiked(w http.ResponseWriter, r *http.Request) {
	var input isLikedInput
	if !handlers.DecodeJSON(w, r, &input) {
		return
	}

	liked, err := h.service.IsLiked(r.Context(), middleware.GetUserID(r), input.PostID)
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, isLikedOutput{Result: liked})
}
