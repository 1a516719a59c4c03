package service

import (
	"context"
	"strings"

	"github.com/spec-kit/community-directory/internal/domain"
	"github.com/spec-kit/community-directory/internal/repository"
)

// CatalogDependencies bundles the read side repositories.
type CatalogDependencies struct {
	Businesses   repository.BusinessRepository
	Jobs         repository.JobRepository
	Events       repository.EventRepository
	News         repository.NewsRepository
	Charities    repository.CharityRepository
	Users        repository.UserRepository
	Interactions *InteractionService
}

// CatalogService serves the published directory.
type CatalogService struct {
	deps CatalogDependencies
}

// NewCatalogService constructs the service.
func NewCatalogService(deps CatalogDependencies) *CatalogService {
	return &CatalogService{deps: deps}
}

// ListBusinesses returns paid listings first, then verified, then by name.
func (s *CatalogService) ListBusinesses(ctx context.Context, filter repository.CatalogFilter) ([]domain.Business, error) {
	return s.deps.Businesses.List(ctx, normalizeFilter(filter))
}

// GetBusiness loads a listing by slug and counts a view.
func (s *CatalogService) GetBusiness(ctx context.Context, slug string) (*domain.Business, error) {
	business, err := s.deps.Businesses.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		return nil, err
	}
	s.deps.Interactions.RecordView(ctx, domain.EntityBusiness, business.ID)
	return business, nil
}

// ListJobs returns featured jobs first.
func (s *CatalogService) ListJobs(ctx context.Context, filter repository.CatalogFilter) ([]domain.Job, error) {
	return s.deps.Jobs.List(ctx, normalizeFilter(filter))
}

// GetJob loads a job and counts a view.
func (s *CatalogService) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	job, err := s.deps.Jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.deps.Interactions.RecordView(ctx, domain.EntityJob, job.ID)
	return job, nil
}

// ListEvents returns featured events first.
func (s *CatalogService) ListEvents(ctx context.Context, filter repository.CatalogFilter) ([]domain.Event, error) {
	return s.deps.Events.List(ctx, normalizeFilter(filter))
}

// GetEvent loads an event and counts a view.
func (s *CatalogService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	event, err := s.deps.Events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.deps.Interactions.RecordView(ctx, domain.EntityEvent, event.ID)
	return event, nil
}

func (s *CatalogService) ListNews(ctx context.Context, filter repository.CatalogFilter) ([]domain.NewsArticle, error) {
	return s.deps.News.List(ctx, normalizeFilter(filter))
}

func (s *CatalogService) ListCharities(ctx context.Context, filter repository.CatalogFilter) ([]domain.Charity, error) {
	return s.deps.Charities.List(ctx, normalizeFilter(filter))
}

// ListOwned returns the businesses the user manages.
func (s *CatalogService) ListOwned(ctx context.Context, userID string) ([]domain.Business, error) {
	return s.deps.Businesses.ListByOwner(ctx, userID)
}

// ListClients returns accounts with their plan for the admin clients page.
func (s *CatalogService) ListClients(ctx context.Context, limit, offset int) ([]domain.User, error) {
	return s.deps.Users.List(ctx, limit, offset)
}

func normalizeFilter(filter repository.CatalogFilter) repository.CatalogFilter {
	filter.Category = strings.TrimSpace(filter.Category)
	filter.Area = strings.TrimSpace(filter.Area)
	filter.Query = strings.TrimSpace(filter.Query)
	return filter
}
