package service

import (
	"context"
	"fmt"

	"github.com/MitchellAV/mern-logging-app/internal/models"
)

// PostRepository defines the persistence operations required by the post
// service.
type PostRepository interface {
	Create(ctx context.Context, userID, postType string, score float64, visibility models.Visibility) (*models.Post, error)
	ListPublic(ctx context.Context) ([]models.Post, error)
	ListByUser(ctx context.Context, userID string) ([]models.Post, error)
}

// PostService implements post creation and listing.
type PostService struct {
	repo PostRepository
}

// NewPostService constructs the service using the provided repository.
func NewPostService(repo PostRepository) *PostService {
	return &PostService{repo: repo}
}

// CreatePost stores a new post for userID. An empty visibility defaults to
// private; an empty type or unknown visibility yields ErrInvalidPost.
func (s *PostService) CreatePost(ctx context.Context, userID, postType string, score float64, visibility models.Visibility) (*models.Post, error) {
	if postType == "" {
		return nil, fmt.Errorf("%w: type is required", ErrInvalidPost)
	}
	if visibility == "" {
		visibility = models.VisibilityPrivate
	}
	if !visibility.Valid() {
		return nil, fmt.Errorf("%w: unknown visibility %q", ErrInvalidPost, visibility)
	}

	post, err := s.repo.Create(ctx, userID, postType, score, visibility)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// PublicPosts returns every public post.
func (s *PostService) PublicPosts(ctx context.Context) ([]models.Post, error) {
	return s.repo.ListPublic(ctx)
}

// PostsByUser returns every post owned by userID, regardless of visibility.
func (s *PostService) PostsByUser(ctx context.Context, userID string) ([]models.Post, error) {
	return s.repo.ListByUser(ctx, userID)
}
