package services

import (
	"errors"

	"bijou/internal/models"
	"bijou/internal/repositories"
)

var ErrCategoryNotFound = errors.New("category not found")

type CategoryService struct {
	Repo repositories.CategoryRepository
}

func NewCategoryService(repo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{Repo: repo}
}

func (s *CategoryService) Create(c *models.Category) error {
	return s.Repo.Create(c)
}

func (s *CategoryService) GetBySlug(slug string) (*models.Category, error) {
	c, err := s.Repo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCategoryNotFound
	}
	return c, nil
}

func (s *CategoryService) List(activeOnly bool) ([]*models.Category, error) {
	return s.Repo.List(activeOnly)
}

func (s *CategoryService) Update(c *models.Category) error {
	return s.Repo.Update(c)
}

func (s *CategoryService) Delete(id int) error {
	return s.Repo.Delete(id)
}
