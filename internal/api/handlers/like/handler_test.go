package like

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/minhchau-creator/blogger.com/internal/api/middleware"
	"github.com/minhchau-creator/blogger.com/internal/core/likes"
)

const postID = "6f1c2d9e-5a4b-4c3d-8e7f-1a2b3c4d5e6f"

// MockLikeService is a mock implementation of likes.Service
type MockLikeService struct {
	mock.Mock
}

func (m *MockLikeService) ToggleLike(ctx context.Context, userID, postID string, currentlyLiked bool) (*likes.ToggleResult, error) {
	args := m.Called(ctx, userID, postID, currentlyLiked)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*likes.ToggleResult), args.Error(1)
}

func (m *MockLikeService) IsLiked(ctx context.Context, userID, postID string) (bool, error) {
	args := m.Called(ctx, userID, postID)
	return args.Bool(0), args.Error(1)
}

func post(handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.SetTestUserID(req.Context(), "user-1"))
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestHandleToggle(t *testing.T) {
	tests := []struct {
		name           string
		currentlyLiked bool
		want           string
	}{
		{name: "like", currentlyLiked: false, want: `{"liked_by_user":true}`},
		{name: "unlike", currentlyLiked: true, want: `{"liked_by_user":false}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockLikeService)
			h := NewHandler(svc)
			svc.On("ToggleLike", mock.Anything, "user-1", postID, tt.currentlyLiked).
				Return(&likes.ToggleResult{Liked: !tt.currentlyLiked}, nil)

			body := `{"_id":"` + postID + `","islikedByUser":false}`
			if tt.currentlyLiked {
				body = `{"_id":"` + postID + `","islikedByUser":true}`
			}
			w := post(h.HandleToggle, body)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, tt.want, w.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

func TestHandleToggle_PostNotFound(t *testing.T) {
	svc := new(MockLikeService)
	h := NewHandler(svc)
	svc.On("ToggleLike", mock.Anything, "user-1", postID, false).Return(nil, likes.ErrPostNotFound)

	w := post(h.HandleToggle, `{"_id":"`+postID+`"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleToggle_MissingPost(t *testing.T) {
	svc := new(MockLikeService)
	h := NewHandler(svc)

	w := post(h.HandleToggle, `{"islikedByUser":true}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "_id is required")
	svc.AssertNotCalled(t, "ToggleLike")
}

func TestHandleIsLiked(t *testing.T) {
	svc := new(MockLikeService)
	h := NewHandler(svc)
	svc.On("IsLiked", mock.Anything, "user-1", postID).Return(true, nil)

	w := post(h.HandleIsLiked, `{"_id":"`+postID+`"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"result":true}`, w.Body.String())
}
