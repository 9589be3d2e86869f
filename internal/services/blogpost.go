package services

import (
	"context"

	"github.com/microblog/apiserver/types"
)

// BlogpostRepository defines persistence operations for blogposts.
type BlogpostRepository interface {
	List(ctx context.Context) ([]types.Blogpost, error)
	Get(ctx context.Context, id int) (types.Blogpost, error)
	Create(ctx context.Context, post types.Blogpost) (types.Blogpost, error)
	Update(ctx context.Context, post types.Blogpost) (types.Blogpost, error)
	Delete(ctx context.Context, id int) error
}

// BlogpostService encapsulates blogpost use-cases.
type BlogpostService struct {
	repo BlogpostRepository
}

func NewBlogpostService(repo BlogpostRepository) *BlogpostService {
	return &BlogpostService{repo: repo}
}

func (s *BlogpostService) List(ctx context.Context) ([]types.Blogpost, error) {
	return s.repo.List(ctx)
}

func (s *BlogpostService) Get(ctx context.Context, id int) (types.Blogpost, error) {
	return s.repo.Get(ctx, id)
}

func (s *BlogpostService) Create(ctx context.Context, post types.Blogpost) (types.Blogpost, error) {
	return s.repo.Create(ctx, post)
}

func (s *BlogpostService) Update(ctx context.Context, post types.Blogpost) (types.Blogpost, error) {
	return s.repo.Update(ctx, post)
}

func (s *BlogpostService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
