package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/maro14/fauxdoorz/internal/auth"
	"github.com/maro14/fauxdoorz/internal/bookings/validator"
	propertieserrors "github.com/maro14/fauxdoorz/internal/properties/errors"
	"github.com/maro14/fauxdoorz/pkg/config"
	mongotx "github.com/maro14/fauxdoorz/pkg/db/mongo"
	apperrors "github.com/maro14/fauxdoorz/pkg/errors"
	"github.com/maro14/fauxdoorz/pkg/logger"
	"github.com/maro14/fauxdoorz/pkg/model"
)

const (
	testPropertyID = "507f1f77bcf86cd799439011"
	testGuestID    = "507f1f77bcf86cd799439012"
	testHostID     = "507f1f77bcf86cd799439013"
	testBookingID  = "507f1f77bcf86cd799439014"
	otherGuestID   = "507f1f77bcf86cd799439015"
)

// Mock booking repository. FindActiveOverlapping applies the same
// half-open filter the Mongo query uses, over an in-memory fixture list.
type mockBookingRepository struct {
	bookings         []*model.Booking
	createFunc       func(ctx context.Context, booking *model.Booking) error
	findByIDFunc     func(ctx context.Context, id string) (*model.Booking, error)
	capturedBooking  *model.Booking
	capturedUpdateID string
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	booking.ID = testBookingID
	m.capturedBooking = booking
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	return m.bookings, nil
}

func (m *mockBookingRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(m.bookings)), nil
}

func (m *mockBookingRepository) FindByUser(ctx context.Context, userID string, status string) ([]*model.Booking, error) {
	var out []*model.Booking
	for _, b := range m.bookings {
		if b.UserID == userID && (status == "" || b.Status == status) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockBookingRepository) FindByProperty(ctx context.Context, propertyID string, limit int, offset int64) ([]*model.Booking, error) {
	var out []*model.Booking
	for _, b := range m.bookings {
		if b.PropertyID == propertyID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockBookingRepository) CountByProperty(ctx context.Context, propertyID string) (int64, error) {
	out, _ := m.FindByProperty(ctx, propertyID, 0, 0)
	return int64(len(out)), nil
}

func (m *mockBookingRepository) FindActiveOverlapping(ctx context.Context, propertyID string, start, end time.Time) ([]*model.Booking, error) {
	var out []*model.Booking
	for _, b := range m.bookings {
		if b.PropertyID != propertyID {
			continue
		}
		if b.Status != config.BookingPending && b.Status != config.BookingConfirmed {
			continue
		}
		if b.StartDate.Before(end) && b.EndDate.After(start) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockBookingRepository) Update(ctx context.Context, id string, booking *model.Booking) (*mongo.UpdateResult, error) {
	m.capturedUpdateID = id
	m.capturedBooking = booking
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

type mockLockRepository struct {
	createFunc    func(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error)
	createdLocks  []string
	releasedLocks []string
}

func (m *mockLockRepository) Create(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, lock)
	}
	m.createdLocks = append(m.createdLocks, lock.ID)
	return lock, nil
}

func (m *mockLockRepository) Delete(ctx context.Context, lockID string) error {
	m.releasedLocks = append(m.releasedLocks, lockID)
	return nil
}

type mockPropertyRepository struct {
	properties map[string]*model.Property
}

func (m *mockPropertyRepository) Create(ctx context.Context, property *model.Property) error {
	return nil
}

func (m *mockPropertyRepository) FindByID(ctx context.Context, id string) (*model.Property, error) {
	if p, ok := m.properties[id]; ok {
		return p, nil
	}
	return nil, propertieserrors.ErrNotFound
}

func (m *mockPropertyRepository) Search(ctx context.Context, search *model.PropertySearch, limit int, offset int64) ([]*model.Property, error) {
	return nil, nil
}

func (m *mockPropertyRepository) CountSearch(ctx context.Context, search *model.PropertySearch) (int64, error) {
	return 0, nil
}

func (m *mockPropertyRepository) FindByOwner(ctx context.Context, ownerID string) ([]*model.Property, error) {
	return nil, nil
}

func (m *mockPropertyRepository) Update(ctx context.Context, id string, property *model.Property) (*mongo.UpdateResult, error) {
	return nil, nil
}

func (m *mockPropertyRepository) Delete(ctx context.Context, id string) error {
	return nil
}

func (m *mockPropertyRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

type mockEventPublisher struct {
	created   []string
	cancelled []string
	err       error
}

func (m *mockEventPublisher) BookingCreated(ctx context.Context, booking *model.Booking) error {
	m.created = append(m.created, booking.ID)
	return m.err
}

func (m *mockEventPublisher) BookingCancelled(ctx context.Context, booking *model.Booking) error {
	m.cancelled = append(m.cancelled, booking.ID)
	return m.err
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
	return &config.Config{
		Log:            log,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   5 * time.Second,
		BookingLockTTL: 10 * time.Second,
	}
}

func testProperty() *model.Property {
	return &model.Property{
		ID:            testPropertyID,
		Title:         "Cozy Beachfront Cottage",
		Location:      "Santa Cruz, California",
		PricePerNight: 175,
		MaxGuests:     4,
		OwnerID:       testHostID,
		Status:        config.PropertyAvailable,
	}
}

func newTestService(t *testing.T, repo *mockBookingRepository, locks *mockLockRepository, props *mockPropertyRepository, events *mockEventPublisher) BookingService {
	t.Helper()
	cfg := testConfig(t)
	return NewBookingService(repo, locks, props, validator.NewBookingValidator(cfg.Log), events, cfg)
}

func futureDate(daysAhead int) time.Time {
	return time.Now().UTC().AddDate(0, 0, daysAhead).Truncate(24 * time.Hour)
}

func guestSession() *auth.Session {
	return &auth.Session{UserID: testGuestID, Email: "guest@example.com", Role: config.RoleUser}
}

func TestCreate_Success(t *testing.T) {
	repo := &mockBookingRepository{}
	locks := &mockLockRepository{}
	props := &mockPropertyRepository{properties: map[string]*model.Property{testPropertyID: testProperty()}}
	events := &mockEventPublisher{}
	svc := newTestService(t, repo, locks, props, events)

	booking := &model.Booking{
		PropertyID: testPropertyID,
		StartDate:  futureDate(10),
		EndDate:    futureDate(13),
		GuestCount: 2,
	}

	created, err := svc.Create(context.Background(), guestSession(), booking)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created.Status != config.BookingPending {
		t.Errorf("expected status %q, got %q", config.BookingPending, created.Status)
	}
	if created.UserID != testGuestID {
		t.Errorf("expected user %s, got %s", testGuestID, created.UserID)
	}
	if created.TotalPrice != 525 {
		t.Errorf("expected total price 525 for 3 nights at 175, got %v", created.TotalPrice)
	}
	if len(locks.createdLocks) != 1 || locks.createdLocks[0] != "booking_lock_"+testPropertyID {
		t.Errorf("expected per-property lock, got %v", locks.createdLocks)
	}
	if len(locks.releasedLocks) != 1 {
		t.Errorf("expected lock released, got %v", locks.releasedLocks)
	}
	if len(events.created) != 1 {
		t.Errorf("expected one created event, got %d", len(events.created))
	}
}

func TestCreate_ClientStatusIgnored(t *testing.T) {
	repo := &mockBookingRepository{}
	props := &mockPropertyRepository{properties: map[string]*model.Property{testPropertyID: testProperty()}}
	svc := newTestService(t, repo, &mockLockRepository{}, props, &mockEventPublisher{})

	for _, status := range []string{config.BookingConfirmed, config.BookingCompleted, config.BookingCancelled} {
		booking := &model.Booking{
			PropertyID: testPropertyID,
			StartDate:  futureDate(10),
			EndDate:    futureDate(13),
			GuestCount: 2,
			Status:     status,
		}

		created, err := svc.Create(context.Background(), guestSession(), booking)
		if err != nil {
			t.Fatalf("unexpected error for submitted status %q: %v", status, err)
		}
		if created.Status != config.BookingPending {
			t.Errorf("submitted status %q must be ignored, got %q", status, created.Status)
		}
	}
}

func TestCreate_OverlapConflict(t *testing.T) {
	existing := &model.Booking{
		ID:         "507f1f77bcf86cd799439099",
		PropertyID: testPropertyID,
		UserID:     otherGuestID,
		StartDate:  futureDate(11),
		EndDate:    futureDate(14),
		Status:     config.BookingConfirmed,
	}
	repo := &mockBookingRepository{bookings: []*model.Booking{existing}}
	locks := &mockLockRepository{}
	props := &mockPropertyRepository{properties: map[string]*model.Property{testPropertyID: testProperty()}}
	svc := newTestService(t, repo, locks, props, &mockEventPublisher{})

	booking := &model.Booking{
		PropertyID: testPropertyID,
		StartDate:  futureDate(10),
		EndDate:    futureDate(12),
		GuestCount: 2,
	}

	_, err := svc.Create(context.Background(), guestSession(), booking)
	if err == nil {
		t.Fatal("expected conflict error, got nil")
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected code %s, got %s", apperrors.CodeConflict, appErr.Code)
	}
	if appErr.Details["conflictingBooking"] != existing.ID {
		t.Errorf("expected conflicting booking %s in details, got %v", existing.ID, appErr.Details)
	}
	if len(locks.releasedLocks) != 1 {
		t.Error("expected lock released even on conflict")
	}
}

func TestCreate_AdjacentBookingsAccepted(t *testing.T) {
	// Half-open intervals: a stay ending on day 12 does not collide with
	// one starting on day 12.
	existing := &model.Booking{
		ID:         "507f1f77bcf86cd799439099",
		PropertyID: testPropertyID,
		UserID:     otherGuestID,
		StartDate:  futureDate(8),
		EndDate:    futureDate(12),
		Status:     config.BookingConfirmed,
	}
	repo := &mockBookingRepository{bookings: []*model.Booking{existing}}
	props := &mockPropertyRepository{properties: map[string]*model.Property{testPropertyID: testProperty()}}
	svc := newTestService(t, repo, &mockLockRepository{}, props, &mockEventPublisher{})

	booking := &model.Booking{
		PropertyID: testPropertyID,
		StartDate:  futureDate(12),
		EndDate:    futureDate(15),
		GuestCount: 2,
	}

	if _, err := svc.Create(context.Background(), guestSession(), booking); err != nil {
		t.Fatalf("adjacent booking should be accepted, got: %v", err)
	}
}

func TestCreate_CancelledBookingDoesNotBlock(t *testing.T) {
	existing := &model.Booking{
		ID:         "507f1f77bcf86cd799439099",
		PropertyID: testPropertyID,
		UserID:     otherGuestID,
		StartDate:  futureDate(10),
		EndDate:    futureDate(14),
		Status:     config.BookingCancelled,
	}
	repo := &mockBookingRepository{bookings: []*model.Booking{existing}}
	props := &mockPropertyRepository{properties: map[string]*model.Property{testPropertyID: testProperty()}}
	svc := newTestService(t, repo, &mockLockRepository{}, props, &mockEventPublisher{})

	booking := &model.Booking{
		PropertyID: testPropertyID,
		StartDate:  futureDate(11),
		EndDate:    futureDate(13),
		GuestCount: 2,
	}

	if _, err := svc.Create(context.Background(), guestSession(), booking); err != nil {
		t.Fatalf("cancelled booking should not block the interval, got: %v", err)
	}
}

func TestCreate_PastStartDateRejected(t *testing.T) {
	props := &mockPropertyRepository{properties: map[string]*model.Property{testPropertyID: testProperty()}}
	svc := newTestService(t, &mockBookingRepository{}, &mockLockRepository{}, props, &mockEventPublisher{})

	booking := &model.Booking{
		PropertyID: testPropertyID,
		StartDate:  futureDate(-2),
		EndDate:    futureDate(3),
		GuestCount: 2,
	}

	_, err := svc.Create(context.Background(), guestSession(), booking)
	if err == nil {
		t.Fatal("expected validation error for past start date")
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreate_EndNotAfterStartRejected(t *testing.T) {
	props := &mockPropertyRepository{properties: map[string]*model.Property{testPropertyID: testProperty()}}
	svc := newTestService(t, &mockBookingRepository{}, &mockLockRepository{}, props, &mockEventPublisher{})

	day := futureDate(10)
	booking := &model.Booking{
		PropertyID: testPropertyID,
		StartDate:  day,
		EndDate:    day,
		GuestCount: 2,
	}

	_, err := svc.Create(context.Background(), guestSession(), booking)
	if err == nil {
		t.Fatal("expected validation error for zero-length stay")
	}
}

func TestCreate_GuestCountExceedsCapacity(t *testing.T) {
	props := &mockPropertyRepository{properties: map[string]*model.Property{testPropertyID: testProperty()}}
	svc := newTestService(t, &mockBookingRepository{}, &mockLockRepository{}, props, &mockEventPublisher{})

	booking := &model.Booking{
		PropertyID: testPropertyID,
		StartDate:  futureDate(10),
		EndDate:    futureDate(12),
		GuestCount: 9,
	}

	_, err := svc.Create(context.Background(), guestSession(), booking)
	if err == nil {
		t.Fatal("expected validation error for guest count above capacity")
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreate_PropertyNotFound(t *testing.T) {
	props := &mockPropertyRepository{properties: map[string]*model.Property{}}
	svc := newTestService(t, &mockBookingRepository{}, &mockLockRepository{}, props, &mockEventPublisher{})

	booking := &model.Booking{
		PropertyID: testPropertyID,
		StartDate:  futureDate(10),
		EndDate:    futureDate(12),
		GuestCount: 2,
	}

	_, err := svc.Create(context.Background(), guestSession(), booking)
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestCreate_MaintenancePropertyRejected(t *testing.T) {
	property := testProperty()
	property.Status = config.PropertyMaintenance
	props := &mockPropertyRepository{properties: map[string]*model.Property{testPropertyID: property}}
	svc := newTestService(t, &mockBookingRepository{}, &mockLockRepository{}, props, &mockEventPublisher{})

	booking := &model.Booking{
		PropertyID: testPropertyID,
		StartDate:  futureDate(10),
		EndDate:    futureDate(12),
		GuestCount: 2,
	}

	_, err := svc.Create(context.Background(), guestSession(), booking)
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected conflict for maintenance property, got %v", err)
	}
}

func TestCreate_LockHeldByAnotherRequest(t *testing.T) {
	locks := &mockLockRepository{
		createFunc: func(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
			return nil, mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
		},
	}
	props := &mockPropertyRepository{properties: map[string]*model.Property{testPropertyID: testProperty()}}
	svc := newTestService(t, &mockBookingRepository{}, locks, props, &mockEventPublisher{})

	booking := &model.Booking{
		PropertyID: testPropertyID,
		StartDate:  futureDate(10),
		EndDate:    futureDate(12),
		GuestCount: 2,
	}

	_, err := svc.Create(context.Background(), guestSession(), booking)
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected conflict while lock is held, got %v", err)
	}
}

func TestUpdate_CancelPublishesEvent(t *testing.T) {
	existing := &model.Booking{
		ID:         testBookingID,
		PropertyID: testPropertyID,
		UserID:     testGuestID,
		StartDate:  futureDate(10),
		EndDate:    futureDate(12),
		TotalPrice: 350,
		GuestCount: 2,
		Status:     config.BookingConfirmed,
	}
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return existing, nil
		},
	}
	props := &mockPropertyRepository{properties: map[string]*model.Property{testPropertyID: testProperty()}}
	events := &mockEventPublisher{}
	svc := newTestService(t, repo, &mockLockRepository{}, props, events)

	updated, err := svc.Update(context.Background(), guestSession(), testBookingID, &model.BookingUpdate{
		Status: config.BookingCancelled,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != config.BookingCancelled {
		t.Errorf("expected cancelled status, got %s", updated.Status)
	}
	if len(events.cancelled) != 1 {
		t.Errorf("expected one cancelled event, got %d", len(events.cancelled))
	}
}

func TestUpdate_ClientPriceIgnored(t *testing.T) {
	existing := &model.Booking{
		ID:         testBookingID,
		PropertyID: testPropertyID,
		UserID:     testGuestID,
		StartDate:  futureDate(10),
		EndDate:    futureDate(12),
		TotalPrice: 350,
		GuestCount: 2,
		Status:     config.BookingConfirmed,
	}
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return existing, nil
		},
	}
	props := &mockPropertyRepository{properties: map[string]*model.Property{testPropertyID: testProperty()}}
	svc := newTestService(t, repo, &mockLockRepository{}, props, &mockEventPublisher{})

	bargain := 0.01
	updated, err := svc.Update(context.Background(), guestSession(), testBookingID, &model.BookingUpdate{
		TotalPrice: &bargain,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.TotalPrice != 350 {
		t.Errorf("submitted total price must be ignored, got %v", updated.TotalPrice)
	}
	if repo.capturedBooking == nil || repo.capturedBooking.TotalPrice != 350 {
		t.Errorf("persisted booking must keep the derived price, got %+v", repo.capturedBooking)
	}
}

func TestUpdate_TerminalStatusRejected(t *testing.T) {
	existing := &model.Booking{
		ID:         testBookingID,
		PropertyID: testPropertyID,
		UserID:     testGuestID,
		StartDate:  futureDate(10),
		EndDate:    futureDate(12),
		TotalPrice: 350,
		GuestCount: 2,
		Status:     config.BookingCancelled,
	}
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return existing, nil
		},
	}
	props := &mockPropertyRepository{properties: map[string]*model.Property{testPropertyID: testProperty()}}
	svc := newTestService(t, repo, &mockLockRepository{}, props, &mockEventPublisher{})

	_, err := svc.Update(context.Background(), guestSession(), testBookingID, &model.BookingUpdate{
		Status: config.BookingConfirmed,
	})
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected conflict for transition out of cancelled, got %v", err)
	}
}

func TestUpdate_RedateRechecksAvailabilityAndReprices(t *testing.T) {
	existing := &model.Booking{
		ID:         testBookingID,
		PropertyID: testPropertyID,
		UserID:     testGuestID,
		StartDate:  futureDate(10),
		EndDate:    futureDate(12),
		TotalPrice: 350,
		GuestCount: 2,
		Status:     config.BookingConfirmed,
	}
	blocking := &model.Booking{
		ID:         "507f1f77bcf86cd799439098",
		PropertyID: testPropertyID,
		UserID:     otherGuestID,
		StartDate:  futureDate(20),
		EndDate:    futureDate(25),
		Status:     config.BookingPending,
	}
	repo := &mockBookingRepository{
		bookings: []*model.Booking{blocking},
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return existing, nil
		},
	}
	props := &mockPropertyRepository{properties: map[string]*model.Property{testPropertyID: testProperty()}}
	locks := &mockLockRepository{}
	svc := newTestService(t, repo, locks, props, &mockEventPublisher{})

	// Moving onto the blocking stay must fail.
	start, end := futureDate(21), futureDate(23)
	_, err := svc.Update(context.Background(), guestSession(), testBookingID, &model.BookingUpdate{
		StartDate: &start,
		EndDate:   &end,
	})
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected conflict when re-dating onto a taken interval, got %v", err)
	}

	// Moving to a free interval succeeds and recomputes the price.
	start, end = futureDate(15), futureDate(19)
	updated, err := svc.Update(context.Background(), guestSession(), testBookingID, &model.BookingUpdate{
		StartDate: &start,
		EndDate:   &end,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.TotalPrice != 700 {
		t.Errorf("expected total price 700 for 4 nights at 175, got %v", updated.TotalPrice)
	}
	if len(locks.createdLocks) == 0 {
		t.Error("expected advisory lock during re-dating")
	}
}

func TestGetByID_AccessControl(t *testing.T) {
	booking := &model.Booking{
		ID:         testBookingID,
		PropertyID: testPropertyID,
		UserID:     testGuestID,
		StartDate:  futureDate(10),
		EndDate:    futureDate(12),
		TotalPrice: 350,
		GuestCount: 2,
		Status:     config.BookingPending,
	}
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return booking, nil
		},
	}
	props := &mockPropertyRepository{properties: map[string]*model.Property{testPropertyID: testProperty()}}
	svc := newTestService(t, repo, &mockLockRepository{}, props, &mockEventPublisher{})

	tests := []struct {
		name    string
		session *auth.Session
		wantErr bool
	}{
		{"guest who booked", &auth.Session{UserID: testGuestID, Role: config.RoleUser}, false},
		{"property owner", &auth.Session{UserID: testHostID, Role: config.RoleUser}, false},
		{"admin", &auth.Session{UserID: otherGuestID, Role: config.RoleAdmin}, false},
		{"unrelated user", &auth.Session{UserID: otherGuestID, Role: config.RoleUser}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetByID(context.Background(), tt.session, testBookingID)
			if tt.wantErr {
				var appErr *apperrors.AppError
				if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeForbidden {
					t.Fatalf("expected forbidden, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	base := futureDate(10)
	day := func(n int) time.Time { return base.AddDate(0, 0, n) }

	tests := []struct {
		name                       string
		start1, end1, start2, end2 time.Time
		want                       bool
	}{
		{"identical", day(0), day(3), day(0), day(3), true},
		{"contained", day(0), day(10), day(2), day(4), true},
		{"partial overlap", day(0), day(3), day(2), day(5), true},
		{"adjacent end-to-start", day(0), day(3), day(3), day(6), false},
		{"adjacent start-to-end", day(3), day(6), day(0), day(3), false},
		{"disjoint", day(0), day(2), day(5), day(7), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := overlaps(tt.start1, tt.end1, tt.start2, tt.end2); got != tt.want {
				t.Errorf("overlaps() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStayPrice(t *testing.T) {
	base := futureDate(10)

	tests := []struct {
		name   string
		nights int
		rate   float64
		want   float64
	}{
		{"single night", 1, 100, 100},
		{"week", 7, 175, 1225},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stayPrice(base, base.AddDate(0, 0, tt.nights), tt.rate)
			if got != tt.want {
				t.Errorf("stayPrice() = %v, want %v", got, tt.want)
			}
		})
	}

	if got := stayPrice(base.Add(15*time.Hour), base.AddDate(0, 0, 1), 100); got != 100 {
		t.Errorf("partial night should round up to one night, got %v", got)
	}
}

func TestValidateStatusTransition(t *testing.T) {
	tests := []struct {
		from, to string
		wantErr  bool
	}{
		{config.BookingPending, config.BookingConfirmed, false},
		{config.BookingPending, config.BookingCancelled, false},
		{config.BookingConfirmed, config.BookingCancelled, false},
		{config.BookingConfirmed, config.BookingCompleted, false},
		{config.BookingPending, config.BookingCompleted, true},
		{config.BookingCancelled, config.BookingPending, true},
		{config.BookingCompleted, config.BookingConfirmed, true},
		{config.BookingCancelled, config.BookingCancelled, false},
	}

	for _, tt := range tests {
		err := validateStatusTransition(tt.from, tt.to)
		if (err != nil) != tt.wantErr {
			t.Errorf("validateStatusTransition(%s, %s) error = %v, wantErr %v", tt.from, tt.to, err, tt.wantErr)
		}
	}
}
