package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"herbal-store/internal/model"
	"herbal-store/internal/repository"
	"herbal-store/internal/util"
	"herbal-store/pkg/apierror"
)

type CategoryService struct {
	categories *repository.CategoryRepository
}

func NewCategoryService(categories *repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.categories.List(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id string) (model.Category, error) {
	if !isUUID(id) {
		return model.Category{}, model.ErrCategoryNotFound
	}
	return s.categories.FindByID(ctx, id)
}

func (s *CategoryService) Create(ctx context.Context, req model.CategoryRequest) (model.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return model.Category{}, apierror.New("BAD_REQUEST", "Category name is required", "name", http.StatusBadRequest)
	}

	now := time.Now().UTC()
	category := model.Category{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        util.Slugify(name),
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return model.Category{}, err
	}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, req model.CategoryRequest) (model.Category, error) {
	if !isUUID(id) {
		return model.Category{}, model.ErrCategoryNotFound
	}

	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return model.Category{}, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return model.Category{}, apierror.New("BAD_REQUEST", "Category name is required", "name", http.StatusBadRequest)
	}

	category.Name = name
	category.Slug = util.Slugify(name)
	category.Description = strings.TrimSpace(req.Description)
	category.UpdatedAt = time.Now().UTC()

	if err := s.categories.Update(ctx, category); err != nil {
		return model.Category{}, err
	}
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return model.ErrCategoryNotFound
	}
	return s.categories.Delete(ctx, id)
}
