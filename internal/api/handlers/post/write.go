package post

import (
	"net/http"

	"github.com/minhchau-creator/blogger.com/internal/api/handlers"
	"github.com/minhchau-creator/blogger.com/internal/api/middleware"
	"github.com/minhchau-creator/blogger.com/internal/core/posts"
)

type blogOutput struct {
	Blog *posts.PostView `json:"blog"`
}

type statusOutput struct {
	Status string `json:"status"`
}

// HandleCreate handles POST /create-blog
// With "id" set the caller's existing post is updated instead.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req posts.CreatePostRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.CreatePost(r.Context(), middleware.GetUserID(r), req)
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, resp)
}

// HandleGet handles POST /get-blog
// Anonymous readers are allowed; drafts need the author's token.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	var req posts.GetPostRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	blog, err := h.service.GetPost(r.Context(), middleware.GetUserID(r), req)
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, blogOutput{Blog: blog})
}

// HandleDelete handles POST /delete-blog
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	var req posts.DeletePostRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	if err := h.service.DeletePost(r.Context(), middleware.GetUserID(r), req.BlogID); err != nil {
		handlers.HandleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, statusOutput{Status: "done"})
}

// HandleListByAuthor handles POST /user-written-blogs
func (h *Handler) HandleListByAuthor(w http.ResponseWriter, r *http.Request) {
	var req posts.AuthorPostsRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	blogs, err := h.service.ListByAuthor(r.Context(), middleware.GetUserID(r), req)
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}
	writeBlogs(w, blogs)
}

// HandleCountByAuthor handles POST /user-written-blogs-count
func (h *Handler) HandleCountByAuthor(w http.ResponseWriter, r *http.Request) {
	var req posts.AuthorPostsRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	count, err := h.service.CountByAuthor(r.Context(), middleware.GetUserID(r), req)
	writeCount(w, count, err)
}
