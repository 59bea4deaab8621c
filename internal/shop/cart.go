package shop

import (
	"context"

	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/api"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/models"
)

// CartService manages the current user's cart. Every mutation returns the
// updated cart.
type CartService struct {
	res *api.Resource[models.Cart]
}

// NewCartService creates a cart service.
func NewCartService(client *api.Client) *CartService {
	return &CartService{res: api.NewResource[models.Cart](client, "cart/")}
}

func (s *CartService) Get(ctx context.Context) (*models.Cart, error) {
	var cart models.Cart
	if err := s.res.Client().Get(ctx, s.res.Path(), nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *CartService) Add(ctx context.Context, in models.AddToCartRequest) (*models.Cart, error) {
	if err := models.Validate(&in); err != nil {
		return nil, err
	}
	var cart models.Cart
	if err := s.res.Client().Post(ctx, s.res.Path("add"), in, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *CartService) UpdateItem(ctx context.Context, itemID int64, in models.UpdateCartItemRequest) (*models.Cart, error) {
	if err := models.Validate(&in); err != nil {
		return nil, err
	}
	var cart models.Cart
	if err := s.res.Client().Patch(ctx, s.itemPath(itemID), in, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// RemoveItem deletes one line. Unlike most deletes, the backend answers
// with the updated cart.
func (s *CartService) RemoveItem(ctx context.Context, itemID int64) (*models.Cart, error) {
	var cart models.Cart
	if err := s.res.Client().Delete(ctx, s.itemPath(itemID), &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *CartService) Clear(ctx context.Context) error {
	return s.res.Client().Delete(ctx, s.res.Path("clear"), nil)
}

func (s *CartService) itemPath(itemID int64) string {
	return s.res.Path("items", formatID(itemID))
}
