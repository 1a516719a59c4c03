package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/community-directory/internal/domain"
	"github.com/spec-kit/community-directory/internal/events"
	"github.com/spec-kit/community-directory/internal/repository"
)

var errInjected = errors.New("injected failure")

// memStore is an in-memory database shared by the fake repositories. The
// fake transaction runner snapshots it and restores it on error.
type memStore struct {
	mu         sync.Mutex
	subs       map[string]map[string]any
	businesses map[string]domain.Business
	jobs       map[string]domain.Job
	events     map[string]domain.Event
	news       map[string]domain.NewsArticle
	charities  map[string]domain.Charity
	users      map[string]domain.User
	failOn     string
	clock      time.Time
}

func newMemStore() *memStore {
	return &memStore{
		subs:       map[string]map[string]any{},
		businesses: map[string]domain.Business{},
		jobs:       map[string]domain.Job{},
		events:     map[string]domain.Event{},
		news:       map[string]domain.NewsArticle{},
		charities:  map[string]domain.Charity{},
		users:      map[string]domain.User{},
		clock:      time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) fail(op string) error {
	if s.failOn == op {
		return errInjected
	}
	return nil
}

func (s *memStore) table(name string) map[string]any {
	t, ok := s.subs[name]
	if !ok {
		t = map[string]any{}
		s.subs[name] = t
	}
	return t
}

type memSnapshot struct {
	subs       map[string]map[string]any
	businesses map[string]domain.Business
	jobs       map[string]domain.Job
	events     map[string]domain.Event
	news       map[string]domain.NewsArticle
	charities  map[string]domain.Charity
	users      map[string]domain.User
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	subs := make(map[string]map[string]any, len(s.subs))
	for name, rows := range s.subs {
		subs[name] = copyMap(rows)
	}
	return memSnapshot{
		subs:       subs,
		businesses: copyMap(s.businesses),
		jobs:       copyMap(s.jobs),
		events:     copyMap(s.events),
		news:       copyMap(s.news),
		charities:  copyMap(s.charities),
		users:      copyMap(s.users),
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = snap.subs
	s.businesses = snap.businesses
	s.jobs = snap.jobs
	s.events = snap.events
	s.news = snap.news
	s.charities = snap.charities
	s.users = snap.users
}

func copyMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// fakeTx serializes transactions, standing in for the row lock.
type fakeTx struct {
	mu        sync.Mutex
	store     *memStore
	commits   int
	rollbacks int
}

func (f *fakeTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := f.store.snapshot()
	if err := fn(ctx); err != nil {
		f.store.restore(snap)
		f.rollbacks++
		return err
	}
	f.commits++
	return nil
}

type fakeSubmissions[T domain.Moderatable] struct {
	store     *memStore
	name      string
	setID     func(*T, string)
	setStatus func(*T, domain.ModerationStatus)
}

func (f *fakeSubmissions[T]) Create(_ context.Context, record *T) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if err := f.store.fail(f.name + ".create"); err != nil {
		return err
	}
	f.setID(record, uuid.NewString())
	f.setStatus(record, domain.StatusPending)
	f.store.table(f.name)[(*record).RecordID()] = *record
	return nil
}

func (f *fakeSubmissions[T]) GetForUpdate(_ context.Context, id string) (*T, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	row, ok := f.store.table(f.name)[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	record := row.(T)
	return &record, nil
}

func (f *fakeSubmissions[T]) Transition(_ context.Context, id string, to domain.ModerationStatus) (bool, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if err := f.store.fail(f.name + ".transition"); err != nil {
		return false, err
	}
	row, ok := f.store.table(f.name)[id]
	if !ok {
		return false, nil
	}
	record := row.(T)
	if record.ModerationStatus() != domain.StatusPending {
		return false, nil
	}
	f.setStatus(&record, to)
	f.store.table(f.name)[id] = record
	return true, nil
}

func (f *fakeSubmissions[T]) ListByStatus(_ context.Context, status domain.ModerationStatus, limit int) ([]T, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if err := f.store.fail(f.name + ".list"); err != nil {
		return nil, err
	}
	var out []T
	for _, row := range f.store.table(f.name) {
		record := row.(T)
		if record.ModerationStatus() == status {
			out = append(out, record)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordID() < out[j].RecordID() })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// seed stores a record as-is and returns its id.
func (f *fakeSubmissions[T]) seed(record T) string {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	f.store.table(f.name)[record.RecordID()] = record
	return record.RecordID()
}

func (f *fakeSubmissions[T]) get(id string) T {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return f.store.table(f.name)[id].(T)
}

func (f *fakeSubmissions[T]) count() int {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return len(f.store.table(f.name))
}

type fakeClaims struct {
	*fakeSubmissions[domain.BusinessClaimRequest]
}

func (f fakeClaims) HasPending(_ context.Context, businessID, userID string) (bool, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, row := range f.store.table(f.name) {
		claim := row.(domain.BusinessClaimRequest)
		if claim.BusinessID == businessID && claim.UserID == userID && claim.Status == domain.StatusPending {
			return true, nil
		}
	}
	return false, nil
}

type fakeBusinesses struct {
	store *memStore
}

func (f *fakeBusinesses) Create(_ context.Context, b *domain.Business) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if err := f.store.fail("businesses.create"); err != nil {
		return err
	}
	for _, existing := range f.store.businesses {
		if existing.Slug == b.Slug {
			return domain.ErrAlreadyExists
		}
	}
	b.ID = uuid.NewString()
	b.CreatedAt = f.store.tick()
	b.UpdatedAt = b.CreatedAt
	f.store.businesses[b.ID] = *b
	return nil
}

func (f *fakeBusinesses) GetByID(_ context.Context, id string) (*domain.Business, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	b, ok := f.store.businesses[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

func (f *fakeBusinesses) GetBySlug(_ context.Context, slug string) (*domain.Business, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, b := range f.store.businesses {
		if b.Slug == slug {
			return &b, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeBusinesses) FindIDByName(_ context.Context, name string) (*string, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var found *domain.Business
	for _, b := range f.store.businesses {
		if b.Name != name {
			continue
		}
		if found == nil || b.CreatedAt.Before(found.CreatedAt) {
			b := b
			found = &b
		}
	}
	if found == nil {
		return nil, nil
	}
	return &found.ID, nil
}

func (f *fakeBusinesses) ApplyEdit(_ context.Context, id string, edit domain.BusinessEdit) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	b, ok := f.store.businesses[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.Name, b.Summary, b.Description, b.Category = edit.Name, edit.Summary, edit.Description, edit.Category
	b.Phone, b.Email, b.Website = edit.Phone, edit.Email, edit.Website
	b.Address, b.Postcode, b.Area = edit.Address, edit.Postcode, edit.Area
	f.store.businesses[id] = b
	return nil
}

func (f *fakeBusinesses) SetOwner(_ context.Context, id, userID string) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	b, ok := f.store.businesses[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.OwnerUserID = &userID
	f.store.businesses[id] = b
	return nil
}

func (f *fakeBusinesses) SetVerified(_ context.Context, id string, verified bool) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	b, ok := f.store.businesses[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.Verified = verified
	f.store.businesses[id] = b
	return nil
}

func (f *fakeBusinesses) List(context.Context, repository.CatalogFilter) ([]domain.Business, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	out := make([]domain.Business, 0, len(f.store.businesses))
	for _, b := range f.store.businesses {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeBusinesses) ListByOwner(_ context.Context, userID string) ([]domain.Business, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []domain.Business
	for _, b := range f.store.businesses {
		if b.OwnerUserID != nil && *b.OwnerUserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

// seed stores a business directly and returns its id.
func (f *fakeBusinesses) seed(b domain.Business) string {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = f.store.tick()
	}
	f.store.businesses[b.ID] = b
	return b.ID
}

func (f *fakeBusinesses) all() []domain.Business {
	list, _ := f.List(context.Background(), repository.CatalogFilter{})
	return list
}

type fakeJobs struct {
	store *memStore
}

func (f *fakeJobs) Create(_ context.Context, job *domain.Job) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if err := f.store.fail("jobs.create"); err != nil {
		return err
	}
	job.ID = uuid.NewString()
	job.CreatedAt = f.store.tick()
	f.store.jobs[job.ID] = *job
	return nil
}

func (f *fakeJobs) GetByID(_ context.Context, id string) (*domain.Job, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	job, ok := f.store.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &job, nil
}

func (f *fakeJobs) SetFeatured(_ context.Context, id string, featured bool) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	job, ok := f.store.jobs[id]
	if !ok {
		return domain.ErrNotFound
	}
	job.ManuallyFeatured = featured
	f.store.jobs[id] = job
	return nil
}

func (f *fakeJobs) List(context.Context, repository.CatalogFilter) ([]domain.Job, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	out := make([]domain.Job, 0, len(f.store.jobs))
	for _, job := range f.store.jobs {
		out = append(out, job)
	}
	return out, nil
}

type fakeEvents struct {
	store *memStore
}

func (f *fakeEvents) Create(_ context.Context, event *domain.Event) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	event.ID = uuid.NewString()
	event.CreatedAt = f.store.tick()
	f.store.events[event.ID] = *event
	return nil
}

func (f *fakeEvents) GetByID(_ context.Context, id string) (*domain.Event, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	event, ok := f.store.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &event, nil
}

func (f *fakeEvents) SetFeatured(_ context.Context, id string, featured bool) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	event, ok := f.store.events[id]
	if !ok {
		return domain.ErrNotFound
	}
	event.ManuallyFeatured = featured
	f.store.events[id] = event
	return nil
}

func (f *fakeEvents) List(context.Context, repository.CatalogFilter) ([]domain.Event, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	out := make([]domain.Event, 0, len(f.store.events))
	for _, event := range f.store.events {
		out = append(out, event)
	}
	return out, nil
}

type fakeNews struct {
	store *memStore
}

func (f *fakeNews) Create(_ context.Context, article *domain.NewsArticle) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	article.ID = uuid.NewString()
	article.CreatedAt = f.store.tick()
	f.store.news[article.ID] = *article
	return nil
}

func (f *fakeNews) List(context.Context, repository.CatalogFilter) ([]domain.NewsArticle, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	out := make([]domain.NewsArticle, 0, len(f.store.news))
	for _, article := range f.store.news {
		out = append(out, article)
	}
	return out, nil
}

type fakeCharities struct {
	store *memStore
}

func (f *fakeCharities) Create(_ context.Context, charity *domain.Charity) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	charity.ID = uuid.NewString()
	charity.CreatedAt = f.store.tick()
	f.store.charities[charity.ID] = *charity
	return nil
}

func (f *fakeCharities) List(context.Context, repository.CatalogFilter) ([]domain.Charity, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	out := make([]domain.Charity, 0, len(f.store.charities))
	for _, charity := range f.store.charities {
		out = append(out, charity)
	}
	return out, nil
}

// fakeUsers implements the account lookups the services use. Unused methods
// fall through to the embedded nil interface.
type fakeUsers struct {
	repository.UserRepository
	store *memStore
}

func (f *fakeUsers) Create(_ context.Context, user *domain.User) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, existing := range f.store.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return domain.ErrAlreadyExists
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = f.store.tick()
	f.store.users[user.ID] = *user
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	user, ok := f.store.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, user := range f.store.users {
		if strings.EqualFold(user.Email, strings.TrimSpace(email)) {
			return &user, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUsers) FindIDByEmail(ctx context.Context, email string) (*string, error) {
	user, err := f.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user.ID, nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id, hash string) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	user, ok := f.store.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	user.PasswordHash = hash
	f.store.users[id] = user
	return nil
}

func (f *fakeUsers) SetCustomerID(_ context.Context, id, customerID string) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	user, ok := f.store.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	user.StripeCustomerID = &customerID
	f.store.users[id] = user
	return nil
}

func (f *fakeUsers) ApplyCheckout(_ context.Context, id string, update repository.CheckoutUpdate) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	user, ok := f.store.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	user.StripeCustomerID = &update.CustomerID
	user.StripeSubscriptionID = &update.SubscriptionID
	user.SubscriptionStatus = &update.Status
	user.Tier = update.Tier
	f.store.users[id] = user
	return nil
}

func (f *fakeUsers) ApplySubscriptionChange(_ context.Context, customerID string, update repository.SubscriptionUpdate) (bool, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for id, user := range f.store.users {
		if user.StripeCustomerID == nil || *user.StripeCustomerID != customerID {
			continue
		}
		user.StripeSubscriptionID = &update.SubscriptionID
		user.SubscriptionStatus = &update.Status
		if !update.Active {
			user.Tier = domain.TierFree
		}
		f.store.users[id] = user
		return true, nil
	}
	return false, nil
}

func (f *fakeUsers) seed(user domain.User) string {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = domain.RoleMember
	}
	if user.Tier == "" {
		user.Tier = domain.TierFree
	}
	f.store.users[user.ID] = user
	return user.ID
}

func (f *fakeUsers) get(id string) domain.User {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return f.store.users[id]
}

type fakeInteractions struct {
	mu      sync.Mutex
	records []domain.Interaction
	err     error
}

func (f *fakeInteractions) Record(_ context.Context, interaction *domain.Interaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, *interaction)
	return nil
}

func (f *fakeInteractions) CountByEntity(_ context.Context, kind domain.EntityKind, id string) (map[domain.InteractionKind]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[domain.InteractionKind]int64{}
	for _, r := range f.records {
		if r.EntityKind == kind && r.EntityID == id {
			counts[r.Kind]++
		}
	}
	return counts, nil
}

func (f *fakeInteractions) all() []domain.Interaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Interaction(nil), f.records...)
}

type fakePlanInterests struct {
	created []domain.PlanInterest
}

func (f *fakePlanInterests) Create(_ context.Context, interest *domain.PlanInterest) error {
	interest.ID = uuid.NewString()
	f.created = append(f.created, *interest)
	return nil
}

// recordingDispatcher captures published events.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) ofType(t events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []events.Event
	for _, e := range d.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// testEnv wires every service against one memStore.
type testEnv struct {
	store       *memStore
	tx          *fakeTx
	listings    *fakeSubmissions[domain.BusinessListingRequest]
	edits       *fakeSubmissions[domain.BusinessEditRequest]
	claims      fakeClaims
	jobSubs     *fakeSubmissions[domain.JobSubmission]
	eventSubs   *fakeSubmissions[domain.EventSubmission]
	newsSubs    *fakeSubmissions[domain.NewsSubmission]
	charitySubs *fakeSubmissions[domain.CharitySubmission]
	businesses  *fakeBusinesses
	jobs        *fakeJobs
	events      *fakeEvents
	news        *fakeNews
	charities   *fakeCharities
	users       *fakeUsers
	dispatcher  *recordingDispatcher
	plans       *fakePlanInterests
}

func newTestEnv() *testEnv {
	store := newMemStore()
	return &testEnv{
		store: store,
		tx:    &fakeTx{store: store},
		listings: &fakeSubmissions[domain.BusinessListingRequest]{store: store, name: "listings",
			setID:     func(r *domain.BusinessListingRequest, id string) { r.ID = id },
			setStatus: func(r *domain.BusinessListingRequest, s domain.ModerationStatus) { r.Status = s }},
		edits: &fakeSubmissions[domain.BusinessEditRequest]{store: store, name: "edits",
			setID:     func(r *domain.BusinessEditRequest, id string) { r.ID = id },
			setStatus: func(r *domain.BusinessEditRequest, s domain.ModerationStatus) { r.Status = s }},
		claims: fakeClaims{&fakeSubmissions[domain.BusinessClaimRequest]{store: store, name: "claims",
			setID:     func(r *domain.BusinessClaimRequest, id string) { r.ID = id },
			setStatus: func(r *domain.BusinessClaimRequest, s domain.ModerationStatus) { r.Status = s }}},
		jobSubs: &fakeSubmissions[domain.JobSubmission]{store: store, name: "jobs",
			setID:     func(r *domain.JobSubmission, id string) { r.ID = id },
			setStatus: func(r *domain.JobSubmission, s domain.ModerationStatus) { r.Status = s }},
		eventSubs: &fakeSubmissions[domain.EventSubmission]{store: store, name: "events",
			setID:     func(r *domain.EventSubmission, id string) { r.ID = id },
			setStatus: func(r *domain.EventSubmission, s domain.ModerationStatus) { r.Status = s }},
		newsSubs: &fakeSubmissions[domain.NewsSubmission]{store: store, name: "news",
			setID:     func(r *domain.NewsSubmission, id string) { r.ID = id },
			setStatus: func(r *domain.NewsSubmission, s domain.ModerationStatus) { r.Status = s }},
		charitySubs: &fakeSubmissions[domain.CharitySubmission]{store: store, name: "charities",
			setID:     func(r *domain.CharitySubmission, id string) { r.ID = id },
			setStatus: func(r *domain.CharitySubmission, s domain.ModerationStatus) { r.Status = s }},
		businesses: &fakeBusinesses{store: store},
		jobs:       &fakeJobs{store: store},
		events:     &fakeEvents{store: store},
		news:       &fakeNews{store: store},
		charities:  &fakeCharities{store: store},
		users:      &fakeUsers{store: store},
		dispatcher: &recordingDispatcher{},
		plans:      &fakePlanInterests{},
	}
}

func (e *testEnv) moderation() *ModerationService {
	return NewModerationService(ModerationDependencies{
		Tx:          e.tx,
		Listings:    e.listings,
		Edits:       e.edits,
		Claims:      e.claims,
		JobSubs:     e.jobSubs,
		EventSubs:   e.eventSubs,
		NewsSubs:    e.newsSubs,
		CharitySubs: e.charitySubs,
		Businesses:  e.businesses,
		Jobs:        e.jobs,
		Events:      e.events,
		News:        e.news,
		Charities:   e.charities,
		Users:       e.users,
		Dispatcher:  e.dispatcher,
	})
}

func (e *testEnv) submissions() *SubmissionService {
	return NewSubmissionService(SubmissionDependencies{
		Listings:      e.listings,
		Edits:         e.edits,
		Claims:        e.claims,
		JobSubs:       e.jobSubs,
		EventSubs:     e.eventSubs,
		NewsSubs:      e.newsSubs,
		CharitySubs:   e.charitySubs,
		Businesses:    e.businesses,
		PlanInterests: e.plans,
		Dispatcher:    e.dispatcher,
	})
}

func strPtr(s string) *string { return &s }
