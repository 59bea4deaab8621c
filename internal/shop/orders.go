package shop

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/api"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/models"
)

// OrderService manages catalog orders.
type OrderService struct {
	res *api.Resource[models.Order]
}

// NewOrderService creates an order service.
func NewOrderService(client *api.Client) *OrderService {
	return &OrderService{res: api.NewResource[models.Order](client, "orders/")}
}

func (s *OrderService) List(ctx context.Context, opts *models.ListOptions) (*api.Page[models.Order], error) {
	return s.res.List(ctx, opts)
}

func (s *OrderService) Get(ctx context.Context, id int64) (*models.Order, error) {
	return s.res.Get(ctx, id)
}

func (s *OrderService) Create(ctx context.Context, in models.CreateOrderRequest) (*models.Order, error) {
	if err := models.Validate(&in); err != nil {
		return nil, err
	}
	return s.res.Create(ctx, in)
}

// Cancel asks the backend to cancel an order and returns its new state.
func (s *OrderService) Cancel(ctx context.Context, id int64) (*models.Order, error) {
	return api.PerformAction[models.Order](ctx, s.res, id, "cancel", nil, http.MethodPatch)
}

// CustomOrderService manages made-to-order requests.
type CustomOrderService struct {
	res *api.Resource[models.CustomOrder]
}

// NewCustomOrderService creates a custom order service.
func NewCustomOrderService(client *api.Client) *CustomOrderService {
	return &CustomOrderService{res: api.NewResource[models.CustomOrder](client, "custom-orders/")}
}

func (s *CustomOrderService) List(ctx context.Context, opts *models.ListOptions) (*api.Page[models.CustomOrder], error) {
	return s.res.List(ctx, opts)
}

func (s *CustomOrderService) Get(ctx context.Context, id int64) (*models.CustomOrder, error) {
	return s.res.Get(ctx, id)
}

// Create submits the request as multipart/form-data. Attachments are sent
// as attachments[0], attachments[1], ...
func (s *CustomOrderService) Create(ctx context.Context, in models.CreateCustomOrderRequest) (*models.CustomOrder, error) {
	if err := models.Validate(&in); err != nil {
		return nil, err
	}

	form := api.NewMultipart().
		Field("title", in.Title).
		Field("description", in.Description).
		Field("budget_min", in.BudgetMin.String()).
		Field("budget_max", in.BudgetMax.String()).
		Field("deadline", in.Deadline)
	for i, a := range in.Attachments {
		form.File("attachments["+strconv.Itoa(i)+"]", a.Filename, a.ContentType, a.Content)
	}
	return s.res.Create(ctx, form)
}

// PaymentService records payments against orders.
type PaymentService struct {
	res *api.Resource[models.Payment]
}

// NewPaymentService creates a payment service.
func NewPaymentService(client *api.Client) *PaymentService {
	return &PaymentService{res: api.NewResource[models.Payment](client, "payments/")}
}

func (s *PaymentService) List(ctx context.Context, opts *models.ListOptions) (*api.Page[models.Payment], error) {
	return s.res.List(ctx, opts)
}

func (s *PaymentService) Get(ctx context.Context, id int64) (*models.Payment, error) {
	return s.res.Get(ctx, id)
}

func (s *PaymentService) Create(ctx context.Context, in models.PaymentRequest) (*models.Payment, error) {
	if err := models.Validate(&in); err != nil {
		return nil, err
	}
	return s.res.Create(ctx, in)
}
