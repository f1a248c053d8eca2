package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"

	"github.com/google/uuid"

	"github.com/avolkov/siteblog/internal/logger"
	"github.com/avolkov/siteblog/internal/model"
)

// Post implements blog post operations on top of the post store and the
// image object storage. Mutations are restricted to the post's author.
type Post struct {
	postStore model.PostStore
	userStore model.UserStore
	storage   model.Storage
	logger    *logger.Logger
}

func NewPost(
	postStore model.PostStore,
	userStore model.UserStore,
	storage model.Storage,
	logger *logger.Logger,
) *Post {
	return &Post{
		postStore: postStore,
		userStore: userStore,
		storage:   storage,
		logger:    logger,
	}
}

// CreatePostParams carries the inputs of CreatePost.
type CreatePostParams struct {
	Title    string
	Content  string
	AuthorID uuid.UUID
}

func (s *Post) CreatePost(ctx context.Context, params CreatePostParams) (model.Post, error) {
	if params.Title == "" {
		return model.Post{}, model.NewValidationError("title", errors.New("title is required"))
	}
	if params.Content == "" {
		return model.Post{}, model.NewValidationError("content", errors.New("content is required"))
	}

	author, err := s.userStore.GetByID(ctx, params.AuthorID)
	if err != nil {
		return model.Post{}, fmt.Errorf("failed to get author: %w", err)
	}

	post, err := s.postStore.Create(ctx, model.Post{
		ID:       uuid.New(),
		Title:    params.Title,
		Content:  params.Content,
		AuthorID: author.ID,
		SiteID:   author.SiteID,
	})
	if err != nil {
		return model.Post{}, fmt.Errorf("failed to create post: %w", err)
	}

	s.logger.Info("post created", "post_id", post.ID, "author_id", author.ID)

	return post, nil
}

func (s *Post) GetPost(ctx context.Context, id uuid.UUID) (model.Post, error) {
	return s.postStore.GetByID(ctx, id)
}

// ListSitePosts returns a site's posts in default order, oldest first.
func (s *Post) ListSitePosts(ctx context.Context, siteID uuid.UUID) ([]model.Post, error) {
	return s.postStore.ListBySite(ctx, siteID)
}

// UpdatePostParams carries the inputs of UpdatePost.
type UpdatePostParams struct {
	PostID   uuid.UUID
	AuthorID uuid.UUID
	Title    string
	Content  string
}

func (s *Post) UpdatePost(ctx context.Context, params UpdatePostParams) (model.Post, error) {
	if params.Title == "" {
		return model.Post{}, model.NewValidationError("title", errors.New("title is required"))
	}
	if params.Content == "" {
		return model.Post{}, model.NewValidationError("content", errors.New("content is required"))
	}

	post, err := s.ownedPost(ctx, params.PostID, params.AuthorID)
	if err != nil {
		return model.Post{}, err
	}

	post.Title = params.Title
	post.Content = params.Content

	updated, err := s.postStore.Update(ctx, post)
	if err != nil {
		return model.Post{}, fmt.Errorf("failed to update post: %w", err)
	}

	return updated, nil
}

func (s *Post) DeletePost(ctx context.Context, postID, authorID uuid.UUID) error {
	if _, err := s.ownedPost(ctx, postID, authorID); err != nil {
		return err
	}

	if err := s.postStore.Delete(ctx, postID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	return nil
}

// AttachImage uploads an image for the post and records its URL. When the
// post update fails after the upload, the uploaded object is removed again
// so the bucket holds no unreferenced images.
func (s *Post) AttachImage(ctx context.Context, postID, authorID uuid.UUID, name string, reader io.Reader) (model.Post, error) {
	post, err := s.ownedPost(ctx, postID, authorID)
	if err != nil {
		return model.Post{}, err
	}

	key := fmt.Sprintf("posts/%s/%s", postID, path.Base(name))
	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := s.storage.Upload(ctx, key, reader, contentType); err != nil {
		return model.Post{}, fmt.Errorf("failed to upload image: %w", err)
	}

	post.Images = s.storage.URL(key)

	updated, err := s.postStore.Update(ctx, post)
	if err != nil {
		if deleteErr := s.storage.Delete(ctx, key); deleteErr != nil {
			s.logger.Error("failed to remove image after post update failure",
				"post_id", postID,
				"key", key,
				"error", deleteErr.Error())
		}
		return model.Post{}, fmt.Errorf("failed to update post with image: %w", err)
	}

	s.logger.Info("image attached", "post_id", postID, "key", key)

	return updated, nil
}

func (s *Post) ownedPost(ctx context.Context, postID, authorID uuid.UUID) (model.Post, error) {
	post, err := s.postStore.GetByID(ctx, postID)
	if err != nil {
		return model.Post{}, fmt.Errorf("failed to get post: %w", err)
	}

	if post.AuthorID != authorID {
		return model.Post{}, model.ErrPermissionDenied
	}

	return post, nil
}
