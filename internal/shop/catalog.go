package shop

import (
	"context"
	"net/http"

	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/api"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/models"
)

// ProductService manages the catalog.
type ProductService struct {
	res *api.Resource[models.Product]
}

// NewProductService creates a product service.
func NewProductService(client *api.Client) *ProductService {
	return &ProductService{res: api.NewResource[models.Product](client, "products/")}
}

// List returns one page of products. filter may be nil.
func (s *ProductService) List(ctx context.Context, filter *models.ProductFilter) (*api.Page[models.Product], error) {
	return s.res.List(ctx, filter)
}

// ListAll returns every product matching filter.
func (s *ProductService) ListAll(ctx context.Context, filter *models.ProductFilter) ([]models.Product, error) {
	return s.res.ListAll(ctx, filter)
}

func (s *ProductService) Get(ctx context.Context, id int64) (*models.Product, error) {
	return s.res.Get(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	if err := models.Validate(&in); err != nil {
		return nil, err
	}
	return s.res.Create(ctx, in)
}

func (s *ProductService) Update(ctx context.Context, id int64, in models.ProductUpdate) (*models.Product, error) {
	if err := models.Validate(&in); err != nil {
		return nil, err
	}
	return s.res.Update(ctx, id, in)
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	return s.res.Delete(ctx, id)
}

// Reviews lists the reviews of one product.
func (s *ProductService) Reviews(ctx context.Context, productID int64) (*api.Page[models.Review], error) {
	return api.PerformAction[api.Page[models.Review]](ctx, s.res, productID, "reviews", nil, http.MethodGet)
}

// ReviewService writes product reviews. Listing is per product, see
// ProductService.Reviews.
type ReviewService struct {
	res *api.Resource[models.Review]
}

// NewReviewService creates a review service.
func NewReviewService(client *api.Client) *ReviewService {
	return &ReviewService{res: api.NewResource[models.Review](client, "reviews/")}
}

func (s *ReviewService) Create(ctx context.Context, in models.CreateReviewRequest) (*models.Review, error) {
	if err := models.Validate(&in); err != nil {
		return nil, err
	}
	return s.res.Create(ctx, in)
}

func (s *ReviewService) Update(ctx context.Context, id int64, in models.ReviewUpdate) (*models.Review, error) {
	if err := models.Validate(&in); err != nil {
		return nil, err
	}
	return s.res.Update(ctx, id, in)
}

func (s *ReviewService) Delete(ctx context.Context, id int64) error {
	return s.res.Delete(ctx, id)
}
