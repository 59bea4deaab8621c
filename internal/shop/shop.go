// Package shop implements the storefront services on top of the API client
// and composes them into a Storefront.
package shop

import (
	"context"
	"log/slog"

	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/api"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/models"
)

// Option customizes a Storefront.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for best-effort failures.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Storefront groups one instance of every service. It is built once by the
// hosting application and passed to whatever needs it.
type Storefront struct {
	Auth          *AuthService
	Products      *ProductService
	Cart          *CartService
	Orders        *OrderService
	CustomOrders  *CustomOrderService
	Payments      *PaymentService
	Reviews       *ReviewService
	Notifications *NotificationService
	Search        *SearchService
	Dashboard     *DashboardService
	Addresses     *AddressService
	Uploads       *UploadService

	client *api.Client
}

// New builds a Storefront over client. session must be the store client
// was created with.
func New(client *api.Client, session Session, opts ...Option) *Storefront {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	return &Storefront{
		Auth:          NewAuthService(client, session, o.logger),
		Products:      NewProductService(client),
		Cart:          NewCartService(client),
		Orders:        NewOrderService(client),
		CustomOrders:  NewCustomOrderService(client),
		Payments:      NewPaymentService(client),
		Reviews:       NewReviewService(client),
		Notifications: NewNotificationService(client),
		Search:        NewSearchService(client),
		Dashboard:     NewDashboardService(client),
		Addresses:     NewAddressService(client),
		Uploads:       NewUploadService(client),
		client:        client,
	}
}

// Client returns the underlying API client.
func (s *Storefront) Client() *api.Client {
	return s.client
}

// Auth

func (s *Storefront) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	return s.Auth.Login(ctx, req)
}

func (s *Storefront) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	return s.Auth.Register(ctx, req)
}

func (s *Storefront) Logout(ctx context.Context) error {
	return s.Auth.Logout(ctx)
}

func (s *Storefront) RefreshToken(ctx context.Context) (string, error) {
	return s.Auth.Refresh(ctx)
}

func (s *Storefront) IsAuthenticated() bool {
	return s.Auth.IsAuthenticated()
}

func (s *Storefront) CurrentUser() (*models.User, bool) {
	return s.Auth.CurrentUser()
}

func (s *Storefront) Me(ctx context.Context) (*models.User, error) {
	return s.Auth.Me(ctx)
}

// Products

func (s *Storefront) GetProducts(ctx context.Context, filter *models.ProductFilter) (*api.Page[models.Product], error) {
	return s.Products.List(ctx, filter)
}

func (s *Storefront) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	return s.Products.Get(ctx, id)
}

func (s *Storefront) CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	return s.Products.Create(ctx, in)
}

func (s *Storefront) UpdateProduct(ctx context.Context, id int64, in models.ProductUpdate) (*models.Product, error) {
	return s.Products.Update(ctx, id, in)
}

func (s *Storefront) DeleteProduct(ctx context.Context, id int64) error {
	return s.Products.Delete(ctx, id)
}

func (s *Storefront) GetProductReviews(ctx context.Context, productID int64) (*api.Page[models.Review], error) {
	return s.Products.Reviews(ctx, productID)
}

// Cart

func (s *Storefront) GetCart(ctx context.Context) (*models.Cart, error) {
	return s.Cart.Get(ctx)
}

func (s *Storefront) AddToCart(ctx context.Context, in models.AddToCartRequest) (*models.Cart, error) {
	return s.Cart.Add(ctx, in)
}

func (s *Storefront) UpdateCartItem(ctx context.Context, itemID int64, in models.UpdateCartItemRequest) (*models.Cart, error) {
	return s.Cart.UpdateItem(ctx, itemID, in)
}

func (s *Storefront) RemoveFromCart(ctx context.Context, itemID int64) (*models.Cart, error) {
	return s.Cart.RemoveItem(ctx, itemID)
}

func (s *Storefront) ClearCart(ctx context.Context) error {
	return s.Cart.Clear(ctx)
}

// Orders

func (s *Storefront) GetOrders(ctx context.Context, opts *models.ListOptions) (*api.Page[models.Order], error) {
	return s.Orders.List(ctx, opts)
}

func (s *Storefront) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	return s.Orders.Get(ctx, id)
}

func (s *Storefront) CreateOrder(ctx context.Context, in models.CreateOrderRequest) (*models.Order, error) {
	return s.Orders.Create(ctx, in)
}

func (s *Storefront) CancelOrder(ctx context.Context, id int64) (*models.Order, error) {
	return s.Orders.Cancel(ctx, id)
}

func (s *Storefront) GetCustomOrders(ctx context.Context, opts *models.ListOptions) (*api.Page[models.CustomOrder], error) {
	return s.CustomOrders.List(ctx, opts)
}

func (s *Storefront) GetCustomOrder(ctx context.Context, id int64) (*models.CustomOrder, error) {
	return s.CustomOrders.Get(ctx, id)
}

func (s *Storefront) CreateCustomOrder(ctx context.Context, in models.CreateCustomOrderRequest) (*models.CustomOrder, error) {
	return s.CustomOrders.Create(ctx, in)
}

// Payments

func (s *Storefront) GetPayments(ctx context.Context, opts *models.ListOptions) (*api.Page[models.Payment], error) {
	return s.Payments.List(ctx, opts)
}

func (s *Storefront) GetPayment(ctx context.Context, id int64) (*models.Payment, error) {
	return s.Payments.Get(ctx, id)
}

func (s *Storefront) CreatePayment(ctx context.Context, in models.PaymentRequest) (*models.Payment, error) {
	return s.Payments.Create(ctx, in)
}

// Reviews

func (s *Storefront) CreateReview(ctx context.Context, in models.CreateReviewRequest) (*models.Review, error) {
	return s.Reviews.Create(ctx, in)
}

func (s *Storefront) UpdateReview(ctx context.Context, id int64, in models.ReviewUpdate) (*models.Review, error) {
	return s.Reviews.Update(ctx, id, in)
}

func (s *Storefront) DeleteReview(ctx context.Context, id int64) error {
	return s.Reviews.Delete(ctx, id)
}

// Notifications

func (s *Storefront) GetNotifications(ctx context.Context, opts *models.ListOptions) (*api.Page[models.Notification], error) {
	return s.Notifications.List(ctx, opts)
}

func (s *Storefront) MarkNotificationAsRead(ctx context.Context, id int64) (*models.Notification, error) {
	return s.Notifications.MarkRead(ctx, id)
}

func (s *Storefront) MarkAllNotificationsAsRead(ctx context.Context) error {
	return s.Notifications.MarkAllRead(ctx)
}

// Search, dashboard, addresses, uploads

func (s *Storefront) SearchProducts(ctx context.Context, params *models.SearchParams) (*models.SearchResult, error) {
	return s.Search.Search(ctx, params)
}

func (s *Storefront) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	return s.Dashboard.Stats(ctx)
}

func (s *Storefront) GetAddresses(ctx context.Context) ([]models.Address, error) {
	return s.Addresses.List(ctx)
}

func (s *Storefront) CreateAddress(ctx context.Context, in models.CreateAddressRequest) (*models.Address, error) {
	return s.Addresses.Create(ctx, in)
}

func (s *Storefront) UpdateAddress(ctx context.Context, id int64, in models.AddressUpdate) (*models.Address, error) {
	return s.Addresses.Update(ctx, id, in)
}

func (s *Storefront) DeleteAddress(ctx context.Context, id int64) error {
	return s.Addresses.Delete(ctx, id)
}

func (s *Storefront) UploadFile(ctx context.Context, file models.Attachment, path string) (*models.UploadResult, error) {
	return s.Uploads.Upload(ctx, file, path)
}
