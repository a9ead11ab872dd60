package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/MitchellAV/mern-logging-app/internal/models"
)

const pgForeignKeyViolation = "23503"

// PostgresPostRepository implements post persistence on PostgreSQL.
type PostgresPostRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresPostRepository creates a repository over the given connection.
func NewPostgresPostRepository(db *sql.DB) *PostgresPostRepository {
	return &PostgresPostRepository{DB: db}
}

// Create inserts a post owned by userID. A foreign-key rejection (owner no
// longer exists) is returned as ErrNotFound.
func (r *PostgresPostRepository) Create(ctx context.Context, userID, postType string, score float64, visibility models.Visibility) (*models.Post, error) {
	post := &models.Post{
		ID:         uuid.NewString(),
		UserID:     userID,
		Type:       postType,
		Score:      score,
		Visibility: visibility,
	}
	err := r.DB.QueryRowContext(
		ctx,
		`INSERT INTO posts (id, user_id, type, score, visibility) VALUES ($1, $2, $3, $4, $5) RETURNING created_at`,
		post.ID, post.UserID, post.Type, post.Score, string(post.Visibility),
	).Scan(&post.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgForeignKeyViolation {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return post, nil
}

func scanPosts(rows *sql.Rows) ([]models.Post, error) {
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var post models.Post
		if err := rows.Scan(&post.ID, &post.UserID, &post.Type, &post.Score, &post.Visibility, &post.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, nil
}

// ListPublic returns all public posts, newest first.
func (r *PostgresPostRepository) ListPublic(ctx context.Context) ([]models.Post, error) {
	rows, err := r.DB.QueryContext(
		ctx,
		`SELECT id, user_id, type, score, visibility, created_at FROM posts WHERE visibility = 'public' ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list public posts: %w", err)
	}
	return scanPosts(rows)
}

// ListByUser returns every post owned by userID, newest first.
func (r *PostgresPostRepository) ListByUser(ctx context.Context, userID string) ([]models.Post, error) {
	rows, err := r.DB.QueryContext(
		ctx,
		`SELECT id, user_id, type, score, visibility, created_at FROM posts WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list posts by user: %w", err)
	}
	return scanPosts(rows)
}
