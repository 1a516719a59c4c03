package dto

import (
	"time"

	"github.com/spec-kit/community-directory/internal/domain"
)

// BusinessResponse is a published listing.
type BusinessResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Phone       *string   `json:"phone,omitempty"`
	Email       *string   `json:"email,omitempty"`
	Website     *string   `json:"website,omitempty"`
	Address     string    `json:"address"`
	Postcode    string    `json:"postcode"`
	Area        string    `json:"area"`
	Verified    bool      `json:"verified"`
	Featured    bool      `json:"featured"`
	Claimed     bool      `json:"claimed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewBusinessResponse(b *domain.Business) BusinessResponse {
	return BusinessResponse{
		ID:          b.ID,
		Name:        b.Name,
		Slug:        b.Slug,
		Summary:     b.Summary,
		Description: b.Description,
		Category:    b.Category,
		Phone:       b.Phone,
		Email:       b.Email,
		Website:     b.Website,
		Address:     b.Address,
		Postcode:    b.Postcode,
		Area:        b.Area,
		Verified:    b.Verified,
		Featured:    b.Featured(),
		Claimed:     b.OwnerUserID != nil,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// JobResponse is a published vacancy.
type JobResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Company    string    `json:"company"`
	Summary    string    `json:"summary"`
	Type       string    `json:"type"`
	Salary     *string   `json:"salary,omitempty"`
	Location   string    `json:"location"`
	ApplyURL   *string   `json:"applyUrl,omitempty"`
	BusinessID *string   `json:"businessId,omitempty"`
	Featured   bool      `json:"featured"`
	CreatedAt  time.Time `json:"createdAt"`
}

func NewJobResponse(j *domain.Job) JobResponse {
	return JobResponse{
		ID:         j.ID,
		Title:      j.Title,
		Company:    j.Company,
		Summary:    j.Summary,
		Type:       j.Type,
		Salary:     j.Salary,
		Location:   j.Location,
		ApplyURL:   j.ApplyURL,
		BusinessID: j.BusinessID,
		Featured:   j.Featured(),
		CreatedAt:  j.CreatedAt,
	}
}

// EventResponse is a published event.
type EventResponse struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Summary    string     `json:"summary"`
	Venue      string     `json:"venue"`
	Area       string     `json:"area"`
	StartsAt   time.Time  `json:"startsAt"`
	EndsAt     *time.Time `json:"endsAt,omitempty"`
	Price      *string    `json:"price,omitempty"`
	BookingURL *string    `json:"bookingUrl,omitempty"`
	BusinessID *string    `json:"businessId,omitempty"`
	Featured   bool       `json:"featured"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func NewEventResponse(e *domain.Event) EventResponse {
	return EventResponse{
		ID:         e.ID,
		Title:      e.Title,
		Summary:    e.Summary,
		Venue:      e.Venue,
		Area:       e.Area,
		StartsAt:   e.StartsAt,
		EndsAt:     e.EndsAt,
		Price:      e.Price,
		BookingURL: e.BookingURL,
		BusinessID: e.BusinessID,
		Featured:   e.Featured(),
		CreatedAt:  e.CreatedAt,
	}
}

// SubmissionAccepted acknowledges a stored submission awaiting review.
type SubmissionAccepted struct {
	ID     string                  `json:"id"`
	Kind   domain.RecordKind       `json:"kind"`
	Status domain.ModerationStatus `json:"status"`
}

// FlagRequest toggles a boolean admin flag such as featured or verified.
type FlagRequest struct {
	Value *bool `json:"value"`
}

// NewsResponse is a published story.
type NewsResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Body      string    `json:"body"`
	Source    string    `json:"source"`
	SourceURL *string   `json:"sourceUrl,omitempty"`
	Area      string    `json:"area"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewNewsResponse(n *domain.NewsArticle) NewsResponse {
	return NewsResponse{
		ID:        n.ID,
		Title:     n.Title,
		Summary:   n.Summary,
		Body:      n.Body,
		Source:    n.Source,
		SourceURL: n.SourceURL,
		Area:      n.Area,
		CreatedAt: n.CreatedAt,
	}
}

// CharityResponse is a published charity.
type CharityResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Summary   string    `json:"summary"`
	Mission   string    `json:"mission"`
	Area      string    `json:"area"`
	Website   *string   `json:"website,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewCharityResponse(c *domain.Charity) CharityResponse {
	return CharityResponse{
		ID:        c.ID,
		Name:      c.Name,
		Summary:   c.Summary,
		Mission:   c.Mission,
		Area:      c.Area,
		Website:   c.Website,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
	}
}
