package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/MitchellAV/mern-logging-app/internal/middleware"
	"github.com/MitchellAV/mern-logging-app/internal/models"
	"github.com/MitchellAV/mern-logging-app/internal/service"
)

// PostService defines the interface for post operations required by the
// PostHandler.
type PostService interface {
	CreatePost(ctx context.Context, userID, postType string, score float64, visibility models.Visibility) (*models.Post, error)
	PublicPosts(ctx context.Context) ([]models.Post, error)
	PostsByUser(ctx context.Context, userID string) ([]models.Post, error)
}

// PostHandler handles HTTP requests for creating and listing posts.
type PostHandler struct {
	PostService PostService
	Logger      *zap.Logger
}

// CreatePostRequest represents the JSON payload for post creation.
type CreatePostRequest struct {
	Type       string            `json:"type"`
	Score      float64           `json:"score"`
	Visibility models.Visibility `json:"visibility"`
}

// Create handles POST /posts. The owner is the authenticated caller from the
// session cookie.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := h.PostService.CreatePost(r.Context(), userID, req.Type, req.Score, req.Visibility)
	if errors.Is(err, service.ErrInvalidPost) {
		writeMsg(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.Logger.Error("create post failed", zap.Error(err))
		http.Error(w, "Error in Saving", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// Public handles GET /posts, listing every public post.
func (h *PostHandler) Public(w http.ResponseWriter, r *http.Request) {
	posts, err := h.PostService.PublicPosts(r.Context())
	if err != nil {
		h.Logger.Error("list public posts failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	writeJSON(w, http.StatusOK, posts)
}

// Mine handles GET /posts/mine, listing the caller's posts regardless of
// visibility.
func (h *PostHandler) Mine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	posts, err := h.PostService.PostsByUser(r.Context(), userID)
	if err != nil {
		h.Logger.Error("list own posts failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	writeJSON(w, http.StatusOK, posts)
}
