package shop

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/api"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/models"
)

// NotificationService reads and acknowledges notifications.
type NotificationService struct {
	res *api.Resource[models.Notification]
}

// NewNotificationService creates a notification service.
func NewNotificationService(client *api.Client) *NotificationService {
	return &NotificationService{res: api.NewResource[models.Notification](client, "notifications/")}
}

func (s *NotificationService) List(ctx context.Context, opts *models.ListOptions) (*api.Page[models.Notification], error) {
	return s.res.List(ctx, opts)
}

// MarkRead marks one notification as read and returns it.
func (s *NotificationService) MarkRead(ctx context.Context, id int64) (*models.Notification, error) {
	return api.PerformAction[models.Notification](ctx, s.res, id, "read", nil, http.MethodPatch)
}

// MarkAllRead marks every notification as read.
func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	return s.res.CollectionAction(ctx, "mark-all-read", nil, http.MethodPatch, nil)
}

// AddressService manages saved shipping addresses.
type AddressService struct {
	res *api.Resource[models.Address]
}

// NewAddressService creates an address service.
func NewAddressService(client *api.Client) *AddressService {
	return &AddressService{res: api.NewResource[models.Address](client, "addresses/")}
}

// List returns every saved address. The endpoint is not paginated.
func (s *AddressService) List(ctx context.Context) ([]models.Address, error) {
	page, err := s.res.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}

func (s *AddressService) Create(ctx context.Context, in models.CreateAddressRequest) (*models.Address, error) {
	if err := models.Validate(&in); err != nil {
		return nil, err
	}
	return s.res.Create(ctx, in)
}

func (s *AddressService) Update(ctx context.Context, id int64, in models.AddressUpdate) (*models.Address, error) {
	if err := models.Validate(&in); err != nil {
		return nil, err
	}
	return s.res.Update(ctx, id, in)
}

func (s *AddressService) Delete(ctx context.Context, id int64) error {
	return s.res.Delete(ctx, id)
}

// SearchService runs catalog searches.
type SearchService struct {
	client *api.Client
}

// NewSearchService creates a search service.
func NewSearchService(client *api.Client) *SearchService {
	return &SearchService{client: client}
}

func (s *SearchService) Search(ctx context.Context, params *models.SearchParams) (*models.SearchResult, error) {
	var out models.SearchResult
	if err := s.client.Get(ctx, "search/", params.Values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DashboardService reads store statistics.
type DashboardService struct {
	client *api.Client
}

// NewDashboardService creates a dashboard service.
func NewDashboardService(client *api.Client) *DashboardService {
	return &DashboardService{client: client}
}

func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var out models.DashboardStats
	if err := s.client.Get(ctx, "dashboard/stats/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadService stores files on the backend.
type UploadService struct {
	client *api.Client
}

// NewUploadService creates an upload service.
func NewUploadService(client *api.Client) *UploadService {
	return &UploadService{client: client}
}

// Upload sends file as multipart field "file". path is optional and tells
// the backend where to store it.
func (s *UploadService) Upload(ctx context.Context, file models.Attachment, path string) (*models.UploadResult, error) {
	if file.Content == nil {
		return nil, api.NewValidationError(map[string][]string{"file": {"This field is required"}})
	}

	form := api.NewMultipart().File("file", file.Filename, file.ContentType, file.Content)
	if path != "" {
		form.Field("path", path)
	}

	var out models.UploadResult
	if err := s.client.Post(ctx, "upload/", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
