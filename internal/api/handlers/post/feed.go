// Package post serves blog posts: writing, reading, feeds, search and tags.
package post

import (
	"net/http"

	"github.com/minhchau-creator/blogger.com/internal/api/handlers"
	"github.com/minhchau-creator/blogger.com/internal/core/posts"
)

// Handler serves the post endpoints
type Handler struct {
	service posts.Service
}

// NewHandler creates a new post handler
func NewHandler(service posts.Service) *Handler {
	return &Handler{service: service}
}

type blogsOutput struct {
	Blogs []*posts.PostView `json:"blogs"`
}

type countOutput struct {
	TotalDocs int `json:"totalDocs"`
}

type tagsOutput struct {
	Tags []posts.TagCount `json:"tags"`
}

type tagsCountInput struct {
	Tags []string `json:"tags"`
}

func writeBlogs(w http.ResponseWriter, blogs []*posts.PostView) {
	if blogs == nil {
		blogs = []*posts.PostView{}
	}
	handlers.WriteJSON(w, http.StatusOK, blogsOutput{Blogs: blogs})
}

func writeCount(w http.ResponseWriter, count int, err error) {
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, countOutput{TotalDocs: count})
}

// HandleLatest handles POST /latest-blogs
// Request body: { "page": 1, "sort_by": "latest|likes|comments", "dateFrom": "...", "dateTo": "..." }
func (h *Handler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	var req posts.FeedRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	blogs, err := h.service.Latest(r.Context(), req)
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}
	writeBlogs(w, blogs)
}

// HandleCountLatest handles POST /all-latest-blogs-count
func (h *Handler) HandleCountLatest(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.CountLatest(r.Context())
	writeCount(w, count, err)
}

// HandleTrending handles GET /trending-blogs
func (h *Handler) HandleTrending(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.service.Trending(r.Context())
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}
	writeBlogs(w, blogs)
}

// HandleSearchByTags handles POST /search-blogs-by-tags
func (h *Handler) HandleSearchByTags(w http.ResponseWriter, r *http.Request) {
	var req posts.FeedRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	blogs, err := h.service.SearchByTags(r.Context(), req)
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}
	writeBlogs(w, blogs)
}

// HandleCountByTags handles POST /search-blogs-by-tags-count
func (h *Handler) HandleCountByTags(w http.ResponseWriter, r *http.Request) {
	var input tagsCountInput
	if !handlers.DecodeJSON(w, r, &input) {
		return
	}

	count, err := h.service.CountByTags(r.Context(), input.Tags)
	writeCount(w, count, err)
}

// HandleSearch handles POST /search-blogs
// Exactly one of tag, query or author selects the posts, tried in that order.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var req posts.SearchRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	blogs, err := h.service.Search(r.Context(), req)
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}
	writeBlogs(w, blogs)
}

// HandleCountSearch handles POST /search-blogs-count
func (h *Handler) HandleCountSearch(w http.ResponseWriter, r *http.Request) {
	var req posts.SearchRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	count, err := h.service.CountSearch(r.Context(), req)
	writeCount(w, count, err)
}

// HandleAllTags handles GET /all-tags
func (h *Handler) HandleAllTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.service.AllTags(r.Context())
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, tagsOutput{Tags: tags})
}

// HandleTrendingTags handles GET /trending-tags
func (h *Handler) HandleTrendingTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.service.TrendingTags(r.Context())
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, tagsOutput{Tags: tags})
}
