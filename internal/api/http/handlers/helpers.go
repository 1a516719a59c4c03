package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/community-directory/internal/repository"
	apperrors "github.com/spec-kit/community-directory/pkg/util/errorutil"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	return nil
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

// pagination reads page and page_size, clamping the page size.
func pagination(c *fiber.Ctx) (limit, offset int) {
	page := parseInt(c.Query("page"), 1)
	limit = parseInt(c.Query("page_size"), defaultPageSize)
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return limit, (page - 1) * limit
}

func catalogFilter(c *fiber.Ctx) repository.CatalogFilter {
	limit, offset := pagination(c)
	return repository.CatalogFilter{
		Category: c.Query("category"),
		Area:     c.Query("area"),
		Query:    c.Query("q"),
		Limit:    limit,
		Offset:   offset,
	}
}
