// Package comments serves the comment thread of a post: adding comments and
// replies, paging through them and soft-deleting them.
package comments

import (
	"net/http"

	"github.com/minhchau-creator/blogger.com/internal/api/handlers"
	"github.com/minhchau-creator/blogger.com/internal/api/middleware"
	"github.com/minhchau-creator/blogger.com/internal/core/comments"
)

// Handler serves the comment endpoints
type Handler struct {
	service comments.Service
}

// NewHandler creates a new comment handler
func NewHandler(service comments.Service) *Handler {
	return &Handler{service: service}
}

type blogCommentsInput struct {
	BlogID string `json:"blog_id" validate:"required,uuid"`
	Skip   int    `json:"skip" validate:"min=0"`
}

type repliesInput struct {
	CommentID string `json:"_id" validate:"required,uuid"`
	Skip      int    `json:"skip" validate:"min=0"`
	Depth     int    `json:"depth" validate:"min=0"`
}

type repliesOutput struct {
	Replies []*comments.CommentView `json:"replies"`
}

type deleteInput struct {
	CommentID string `json:"_id" validate:"required,uuid"`
}

type statusOutput struct {
	Status string `json:"status"`
}

// HandleAdd handles POST /add-comment
//
// Request body: { "_id": "<post id>", "comment": "...", "replying_to": "<comment id>", "notification_id": "..." }
// replying_to and notification_id are only sent for replies.
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	// 1. Parse and validate the body
	var req comments.AddCommentRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	// 2. The caller is the commenter
	result, err := h.service.AddComment(r.Context(), middleware.GetUserID(r), req)
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}

	// 3. Echo the stored comment
	handlers.WriteJSON(w, http.StatusOK, result)
}

// HandleGetBlogComments handles POST /get-blog-comments
// The response is a bare array of top-level comments, newest first.
func (h *Handler) HandleGetBlogComments(w http.ResponseWriter, r *http.Request) {
	var input blogCommentsInput
	if !handlers.DecodeJSON(w, r, &input) {
		return
	}

	list, err := h.service.FetchTopLevelComments(r.Context(), input.BlogID, input.Skip, 0)
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}
	if list == nil {
		list = []*comments.CommentView{}
	}
	handlers.WriteJSON(w, http.StatusOK, list)
}

// HandleGetReplies handles POST /get-replies
// depth is the depth of the comment whose replies are loaded.
func (h *Handler) HandleGetReplies(w http.ResponseWriter, r *http.Request) {
	var input repliesInput
	if !handlers.DecodeJSON(w, r, &input) {
		return
	}

	replies, err := h.service.FetchReplies(r.Context(), input.CommentID, input.Skip, 0, input.Depth)
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}
	if replies == nil {
		replies = []*comments.CommentView{}
	}
	handlers.WriteJSON(w, http.StatusOK, repliesOutput{Replies: replies})
}

// HandleDelete handles POST /delete-comment
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	var input deleteInput
	if !handlers.DecodeJSON(w, r, &input) {
		return
	}

	if err := h.service.DeleteComment(r.Context(), input.CommentID, middleware.GetUserID(r)); err != nil {
		handlers.HandleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, statusOutput{Status: "done"})
}
