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

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type ProductService struct {
	products *repository.ProductRepository
}

func NewProductService(products *repository.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

// List normalizes the filter (page floor 1, limit capped) before hitting the
// repository, and returns pagination meta alongside the page.
func (s *ProductService) List(ctx context.Context, f model.ProductFilter) ([]model.Product, *model.Meta, error) {
	f.Page, f.Limit = NormalizePage(f.Page, f.Limit)

	switch f.Sort {
	case "name", "price", "newest", "":
	default:
		return nil, nil, apierror.New("BAD_REQUEST", "Unknown sort order", f.Sort, http.StatusBadRequest)
	}

	products, total, err := s.products.List(ctx, f)
	if err != nil {
		return nil, nil, err
	}
	return products, model.NewMeta(f.Page, f.Limit, total), nil
}

func (s *ProductService) Get(ctx context.Context, idOrSlug string) (model.Product, error) {
	return s.products.FindByIDOrSlug(ctx, idOrSlug)
}

func (s *ProductService) Create(ctx context.Context, req model.ProductRequest) (model.Product, error) {
	if err := validateProduct(req); err != nil {
		return model.Product{}, err
	}

	now := time.Now().UTC()
	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}

	product := model.Product{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Slug:        util.Slugify(req.Name),
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		ImageURL:    strings.TrimSpace(req.ImageURL),
		CategoryID:  req.CategoryID,
		InStock:     inStock,
		Featured:    req.Featured,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.products.Create(ctx, product); err != nil {
		return model.Product{}, err
	}
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, id string, req model.ProductRequest) (model.Product, error) {
	product, err := s.products.FindByIDOrSlug(ctx, id)
	if err != nil {
		return model.Product{}, err
	}

	if err := validateProduct(req); err != nil {
		return model.Product{}, err
	}

	product.Name = strings.TrimSpace(req.Name)
	product.Slug = util.Slugify(req.Name)
	product.Description = strings.TrimSpace(req.Description)
	product.Price = req.Price
	product.ImageURL = strings.TrimSpace(req.ImageURL)
	product.CategoryID = req.CategoryID
	if req.InStock != nil {
		product.InStock = *req.InStock
	}
	product.Featured = req.Featured
	product.UpdatedAt = time.Now().UTC()

	if err := s.products.Update(ctx, product); err != nil {
		return model.Product{}, err
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return model.ErrProductNotFound
	}
	return s.products.Delete(ctx, id)
}

func validateProduct(req model.ProductRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return apierror.New("BAD_REQUEST", "Product name is required", "name", http.StatusBadRequest)
	}
	if req.Price <= 0 {
		return apierror.New("BAD_REQUEST", "Product price must be positive", "price", http.StatusBadRequest)
	}
	return nil
}

// isUUID guards id path parameters before they reach a uuid-typed column;
// a malformed id reads as "no such row", not as a database cast error.
func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// NormalizePage clamps pagination input to sane bounds.
func NormalizePage(page int, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}
