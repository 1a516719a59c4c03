package domain

import "time"

// Job is a published vacancy.
type Job struct {
	ID               string    `db:"id"`
	Title            string    `db:"title"`
	Company          string    `db:"company"`
	Summary          string    `db:"summary"`
	Type             string    `db:"type"`
	Salary           *string   `db:"salary"`
	Location         string    `db:"location"`
	ApplyURL         *string   `db:"apply_url"`
	ManuallyFeatured bool      `db:"manually_featured"`
	BusinessID       *string   `db:"business_id"`
	OwnerTier        Tier      `db:"owner_tier"`
	CreatedAt        time.Time `db:"created_at"`
}

// Featured is true when an admin featured the job or the linked business is on a paid tier.
func (j *Job) Featured() bool {
	return j.ManuallyFeatured || j.OwnerTier.Paid()
}

// JobSubmission is a pending vacancy.
type JobSubmission struct {
	ID              string           `db:"id"`
	Title           string           `db:"title"`
	Company         string           `db:"company"`
	Summary         string           `db:"summary"`
	Type            string           `db:"type"`
	Salary          *string          `db:"salary"`
	Location        string           `db:"location"`
	ApplyURL        *string          `db:"apply_url"`
	ContactEmail    string           `db:"contact_email"`
	SubmitterUserID *string          `db:"submitter_user_id"`
	Status          ModerationStatus `db:"status"`
	CreatedAt       time.Time        `db:"created_at"`
}

func (s JobSubmission) RecordID() string                   { return s.ID }
func (s JobSubmission) ModerationStatus() ModerationStatus { return s.Status }

// Event is a published happening.
type Event struct {
	ID               string     `db:"id"`
	Title            string     `db:"title"`
	Summary          string     `db:"summary"`
	Venue            string     `db:"venue"`
	Area             string     `db:"area"`
	StartsAt         time.Time  `db:"starts_at"`
	EndsAt           *time.Time `db:"ends_at"`
	Price            *string    `db:"price"`
	BookingURL       *string    `db:"booking_url"`
	ManuallyFeatured bool       `db:"manually_featured"`
	BusinessID       *string    `db:"business_id"`
	OwnerTier        Tier       `db:"owner_tier"`
	CreatedAt        time.Time  `db:"created_at"`
}

// Featured mirrors Job.Featured.
func (e *Event) Featured() bool {
	return e.ManuallyFeatured || e.OwnerTier.Paid()
}

// EventSubmission is a pending event.
type EventSubmission struct {
	ID              string           `db:"id"`
	Title           string           `db:"title"`
	Summary         string           `db:"summary"`
	Venue           string           `db:"venue"`
	Area            string           `db:"area"`
	StartsAt        time.Time        `db:"starts_at"`
	EndsAt          *time.Time       `db:"ends_at"`
	Price           *string          `db:"price"`
	BookingURL      *string          `db:"booking_url"`
	ContactEmail    string           `db:"contact_email"`
	SubmitterUserID *string          `db:"submitter_user_id"`
	Status          ModerationStatus `db:"status"`
	CreatedAt       time.Time        `db:"created_at"`
}

func (s EventSubmission) RecordID() string                   { return s.ID }
func (s EventSubmission) ModerationStatus() ModerationStatus { return s.Status }

// NewsArticle is a published local story.
type NewsArticle struct {
	ID        string    `db:"id"`
	Title     string    `db:"title"`
	Summary   string    `db:"summary"`
	Body      string    `db:"body"`
	Source    string    `db:"source"`
	SourceURL *string   `db:"source_url"`
	Area      string    `db:"area"`
	CreatedAt time.Time `db:"created_at"`
}

// NewsSubmission is a pending story.
type NewsSubmission struct {
	ID              string           `db:"id"`
	Title           string           `db:"title"`
	Summary         string           `db:"summary"`
	Body            string           `db:"body"`
	Source          string           `db:"source"`
	SourceURL       *string          `db:"source_url"`
	Area            string           `db:"area"`
	ContactEmail    string           `db:"contact_email"`
	SubmitterUserID *string          `db:"submitter_user_id"`
	Status          ModerationStatus `db:"status"`
	CreatedAt       time.Time        `db:"created_at"`
}

func (s NewsSubmission) RecordID() string                   { return s.ID }
func (s NewsSubmission) ModerationStatus() ModerationStatus { return s.Status }

// Charity is a published local cause.
type Charity struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Summary   string    `db:"summary"`
	Mission   string    `db:"mission"`
	Area      string    `db:"area"`
	Website   *string   `db:"website"`
	Email     *string   `db:"email"`
	Phone     *string   `db:"phone"`
	CreatedAt time.Time `db:"created_at"`
}

// CharitySubmission is a pending charity.
type CharitySubmission struct {
	ID              string           `db:"id"`
	Name            string           `db:"name"`
	Summary         string           `db:"summary"`
	Mission         string           `db:"mission"`
	Area            string           `db:"area"`
	Website         *string          `db:"website"`
	Email           *string          `db:"email"`
	Phone           *string          `db:"phone"`
	ContactEmail    string           `db:"contact_email"`
	SubmitterUserID *string          `db:"submitter_user_id"`
	Status          ModerationStatus `db:"status"`
	CreatedAt       time.Time        `db:"created_at"`
}

func (s CharitySubmission) RecordID() string                   { return s.ID }
func (s CharitySubmission) ModerationStatus() ModerationStatus { return s.Status }
