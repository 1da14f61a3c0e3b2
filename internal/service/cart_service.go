package service

import (
	"context"
	"math"
	"net/http"

	"herbal-store/internal/model"
	"herbal-store/pkg/apierror"
)

// CartStore persists cart lines. Implemented by repository.CartRepository.
type CartStore interface {
	ListForUser(ctx context.Context, userID string) ([]model.CartLine, error)
	AddItem(ctx context.Context, userID string, productID string, quantity int) error
	SetQuantity(ctx context.Context, userID string, productID string, quantity int) error
	RemoveItem(ctx context.Context, userID string, productID string) error
	Clear(ctx context.Context, userID string) error
}

// ProductFinder is the slice of product lookup the cart needs.
// Implemented by repository.ProductRepository.
type ProductFinder interface {
	FindByIDOrSlug(ctx context.Context, idOrSlug string) (model.Product, error)
}

type CartService struct {
	carts    CartStore
	products ProductFinder
}

func NewCartService(carts CartStore, products ProductFinder) *CartService {
	return &CartService{carts: carts, products: products}
}

func (s *CartService) Get(ctx context.Context, userID string) (model.Cart, error) {
	lines, err := s.carts.ListForUser(ctx, userID)
	if err != nil {
		return model.Cart{}, err
	}
	return buildCart(lines), nil
}

// AddItem upserts a line: adding a product already in the cart bumps its
// quantity. The product may be referenced by id or slug; the stored line
// always carries the resolved id.
func (s *CartService) AddItem(ctx context.Context, userID string, productID string, quantity int) (model.Cart, error) {
	if quantity < 1 {
		return model.Cart{}, apierror.New("BAD_REQUEST", "Quantity must be at least 1", "quantity", http.StatusBadRequest)
	}

	product, err := s.products.FindByIDOrSlug(ctx, productID)
	if err != nil {
		return model.Cart{}, err
	}

	if err := s.carts.AddItem(ctx, userID, product.ID, quantity); err != nil {
		return model.Cart{}, err
	}
	return s.Get(ctx, userID)
}

// SetQuantity overwrites a line's quantity; zero removes the line.
func (s *CartService) SetQuantity(ctx context.Context, userID string, productID string, quantity int) (model.Cart, error) {
	if quantity < 0 {
		return model.Cart{}, apierror.New("BAD_REQUEST", "Quantity cannot be negative", "quantity", http.StatusBadRequest)
	}
	if !isUUID(productID) {
		return model.Cart{}, model.ErrCartItemNotFound
	}

	var err error
	if quantity == 0 {
		err = s.carts.RemoveItem(ctx, userID, productID)
	} else {
		err = s.carts.SetQuantity(ctx, userID, productID, quantity)
	}
	if err != nil {
		return model.Cart{}, err
	}
	return s.Get(ctx, userID)
}

// RemoveItem is idempotent; a malformed id names a line that cannot exist,
// which is the same as removing an absent one.
func (s *CartService) RemoveItem(ctx context.Context, userID string, productID string) (model.Cart, error) {
	if isUUID(productID) {
		if err := s.carts.RemoveItem(ctx, userID, productID); err != nil {
			return model.Cart{}, err
		}
	}
	return s.Get(ctx, userID)
}

func (s *CartService) Clear(ctx context.Context, userID string) error {
	return s.carts.Clear(ctx, userID)
}

// buildCart derives subtotals and the cart total from the stored lines.
// Pure function; money rounds to cents.
func buildCart(lines []model.CartLine) model.Cart {
	cart := model.Cart{Items: make([]model.CartLine, 0, len(lines))}

	for _, line := range lines {
		line.Subtotal = roundCents(line.Price * float64(line.Quantity))
		cart.Items = append(cart.Items, line)
		cart.ItemCount += line.Quantity
		cart.Total += line.Subtotal
	}

	cart.Total = roundCents(cart.Total)
	return cart
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
