package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/avolkov/siteblog/internal/model"
)

var _ model.PostStore = (*PostRepository)(nil)

type PostRepository struct {
	db *Connection
}

func NewPostRepository(db *Connection) *PostRepository {
	return &PostRepository{
		db: db,
	}
}

const postColumns = `id, title, content, images, author_id, site_id, created_at, updated_at`

func (r *PostRepository) Create(ctx context.Context, post model.Post) (model.Post, error) {
	query := `INSERT INTO posts (id, title, content, images, author_id, site_id, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
			  RETURNING ` + postColumns

	savedPost, err := scanPost(r.db.QueryRow(ctx, query,
		post.ID, post.Title, post.Content, post.Images, post.AuthorID, post.SiteID,
	))
	if err != nil {
		if translated := translateConstraintError(err); translated != err {
			return model.Post{}, translated
		}
		return model.Post{}, fmt.Errorf("failed to create post: %w", err)
	}

	return savedPost, nil
}

func (r *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Post{}, model.ErrNotFound
		}
		return model.Post{}, fmt.Errorf("failed to get post by id: %w", err)
	}

	return post, nil
}

// ListBySite returns the site's posts in default order, oldest first.
func (r *PostRepository) ListBySite(ctx context.Context, siteID uuid.UUID) ([]model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE site_id = $1 ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, siteID)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts by site: %w", err)
	}
	defer rows.Close()

	return collectPosts(rows)
}

func (r *PostRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE author_id = $1 ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts by author: %w", err)
	}
	defer rows.Close()

	return collectPosts(rows)
}

func (r *PostRepository) Update(ctx context.Context, post model.Post) (model.Post, error) {
	query := `UPDATE posts SET title = $2, content = $3, images = $4, updated_at = NOW()
			  WHERE id = $1
			  RETURNING ` + postColumns

	savedPost, err := scanPost(r.db.QueryRow(ctx, query,
		post.ID, post.Title, post.Content, post.Images,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Post{}, model.ErrNotFound
		}
		return model.Post{}, fmt.Errorf("failed to update post: %w", err)
	}

	return savedPost, nil
}

func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM posts WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	return nil
}

func scanPost(row pgx.Row) (model.Post, error) {
	var post model.Post
	err := row.Scan(
		&post.ID, &post.Title, &post.Content, &post.Images, &post.AuthorID, &post.SiteID,
		&post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		return model.Post{}, err
	}
	return post, nil
}

func collectPosts(rows pgx.Rows) ([]model.Post, error) {
	posts := make([]model.Post, 0)
	for rows.Next() {
		var post model.Post
		err := rows.Scan(
			&post.ID, &post.Title, &post.Content, &post.Images, &post.AuthorID, &post.SiteID,
			&post.CreatedAt, &post.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read posts: %w", err)
	}

	return posts, nil
}
