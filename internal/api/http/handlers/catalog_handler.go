package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/community-directory/internal/api/dto"
	"github.com/spec-kit/community-directory/internal/service"
)

// CatalogHandler serves the published directory.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalogService}
}

// ListBusinesses GET /businesses.
func (h *CatalogHandler) ListBusinesses(c *fiber.Ctx) error {
	businesses, err := h.catalog.ListBusinesses(c.UserContext(), catalogFilter(c))
	if err != nil {
		return err
	}
	items := make([]dto.BusinessResponse, 0, len(businesses))
	for i := range businesses {
		items = append(items, dto.NewBusinessResponse(&businesses[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetBusiness GET /businesses/:slug.
func (h *CatalogHandler) GetBusiness(c *fiber.Ctx) error {
	business, err := h.catalog.GetBusiness(c.UserContext(), c.Params("slug"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBusinessResponse(business)})
}

// ListJobs GET /jobs.
func (h *CatalogHandler) ListJobs(c *fiber.Ctx) error {
	jobs, err := h.catalog.ListJobs(c.UserContext(), catalogFilter(c))
	if err != nil {
		return err
	}
	items := make([]dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		items = append(items, dto.NewJobResponse(&jobs[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetJob GET /jobs/:id.
func (h *CatalogHandler) GetJob(c *fiber.Ctx) error {
	job, err := h.catalog.GetJob(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewJobResponse(job)})
}

// ListEvents GET /events.
func (h *CatalogHandler) ListEvents(c *fiber.Ctx) error {
	list, err := h.catalog.ListEvents(c.UserContext(), catalogFilter(c))
	if err != nil {
		return err
	}
	items := make([]dto.EventResponse, 0, len(list))
	for i := range list {
		items = append(items, dto.NewEventResponse(&list[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetEvent GET /events/:id.
func (h *CatalogHandler) GetEvent(c *fiber.Ctx) error {
	event, err := h.catalog.GetEvent(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEventResponse(event)})
}

// ListNews GET /news.
func (h *CatalogHandler) ListNews(c *fiber.Ctx) error {
	articles, err := h.catalog.ListNews(c.UserContext(), catalogFilter(c))
	if err != nil {
		return err
	}
	items := make([]dto.NewsResponse, 0, len(articles))
	for i := range articles {
		items = append(items, dto.NewNewsResponse(&articles[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListCharities GET /charities.
func (h *CatalogHandler) ListCharities(c *fiber.Ctx) error {
	charities, err := h.catalog.ListCharities(c.UserContext(), catalogFilter(c))
	if err != nil {
		return err
	}
	items := make([]dto.CharityResponse, 0, len(charities))
	for i := range charities {
		items = append(items, dto.NewCharityResponse(&charities[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// MyListings GET /my/listings.
func (h *CatalogHandler) MyListings(c *fiber.Ctx) error {
	user, err := principalUser(c)
	if err != nil {
		return err
	}
	businesses, err := h.catalog.ListOwned(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	items := make([]dto.BusinessResponse, 0, len(businesses))
	for i := range businesses {
		items = append(items, dto.NewBusinessResponse(&businesses[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
