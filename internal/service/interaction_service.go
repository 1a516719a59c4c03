package service

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/community-directory/internal/domain"
	"github.com/spec-kit/community-directory/internal/observability"
	"github.com/spec-kit/community-directory/internal/repository"
)

// LinkTypeContact marks a business redirect as a contact click.
const LinkTypeContact = "contact"

var fallbackPaths = map[domain.EntityKind]string{
	domain.EntityBusiness: "/businesses",
	domain.EntityJob:      "/jobs",
	domain.EntityEvent:    "/events",
}

// InteractionService records analytics and resolves tracked outbound links.
// Recording is best effort: a failed write never blocks the visitor.
type InteractionService struct {
	interactions repository.InteractionRepository
	metrics      *observability.Metrics
	logger       *zap.Logger
}

// NewInteractionService constructs the service.
func NewInteractionService(interactions repository.InteractionRepository, metrics *observability.Metrics, logger *zap.Logger) *InteractionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InteractionService{interactions: interactions, metrics: metrics, logger: logger}
}

// ParseEntityKind maps the path segment of a redirect onto an entity kind.
func ParseEntityKind(raw string) (domain.EntityKind, bool) {
	kind := domain.EntityKind(raw)
	_, ok := fallbackPaths[kind]
	return kind, ok
}

// Redirect returns the location for GET /go/{kind}/{id}. A malformed id or a
// target outside the allow-list yields the kind's listing page and records
// nothing; otherwise exactly one interaction is recorded and target returned.
func (s *InteractionService) Redirect(ctx context.Context, kind domain.EntityKind, id, target, linkType string) string {
	fallback, ok := fallbackPaths[kind]
	if !ok {
		return "/"
	}
	if validateID(id) != nil || !AllowedRedirectTarget(kind, target) {
		return fallback
	}

	interactionKind := domain.InteractionClick
	if kind == domain.EntityBusiness {
		interactionKind = domain.InteractionWebsiteClick
		if linkType == LinkTypeContact {
			interactionKind = domain.InteractionContactClick
		}
	}
	s.Record(ctx, kind, id, interactionKind)
	return target
}

// RecordView logs a detail page view.
func (s *InteractionService) RecordView(ctx context.Context, kind domain.EntityKind, id string) {
	s.Record(ctx, kind, id, domain.InteractionView)
}

// Record appends one interaction, logging rather than returning failures.
func (s *InteractionService) Record(ctx context.Context, kind domain.EntityKind, id string, interactionKind domain.InteractionKind) {
	err := s.interactions.Record(ctx, &domain.Interaction{
		EntityKind: kind,
		EntityID:   id,
		Kind:       interactionKind,
	})
	if err != nil {
		s.logger.Warn("failed to record interaction",
			zap.String("entity_kind", string(kind)),
			zap.String("entity_id", id),
			zap.String("kind", string(interactionKind)),
			zap.Error(err))
		return
	}
	s.metrics.RecordInteraction(string(kind), string(interactionKind))
}

// Stats returns interaction counts for one entity.
func (s *InteractionService) Stats(ctx context.Context, kind domain.EntityKind, id string) (map[domain.InteractionKind]int64, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return s.interactions.CountByEntity(ctx, kind, id)
}

// AllowedRedirectTarget accepts absolute http(s) URLs for every kind, and
// mailto: and tel: links for businesses.
func AllowedRedirectTarget(kind domain.EntityKind, target string) bool {
	target = strings.TrimSpace(target)
	if target == "" {
		return false
	}
	u, err := url.Parse(target)
	if err != nil {
		return false
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u.Host != ""
	case "mailto", "tel":
		return kind == domain.EntityBusiness && u.Opaque != ""
	default:
		return false
	}
}
