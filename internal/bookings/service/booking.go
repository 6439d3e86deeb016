package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/maro14/fauxdoorz/internal/auth"
	bookingserrors "github.com/maro14/fauxdoorz/internal/bookings/errors"
	"github.com/maro14/fauxdoorz/internal/bookings/repository"
	"github.com/maro14/fauxdoorz/internal/bookings/validator"
	propertieserrors "github.com/maro14/fauxdoorz/internal/properties/errors"
	propertiesrepository "github.com/maro14/fauxdoorz/internal/properties/repository"
	"github.com/maro14/fauxdoorz/pkg/config"
	apperrors "github.com/maro14/fauxdoorz/pkg/errors"
	"github.com/maro14/fauxdoorz/pkg/model"
	"github.com/maro14/fauxdoorz/pkg/sanitizer"
)

// EventPublisher announces booking lifecycle changes. Publishing is best
// effort and never fails the request.
type EventPublisher interface {
	BookingCreated(ctx context.Context, booking *model.Booking) error
	BookingCancelled(ctx context.Context, booking *model.Booking) error
}

type BookingService interface {
	Create(ctx context.Context, sess *auth.Session, booking *model.Booking) (*model.Booking, error)
	GetByID(ctx context.Context, sess *auth.Session, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	GetByUser(ctx context.Context, userID string, status string) ([]*model.Booking, error)
	SearchByProperty(ctx context.Context, sess *auth.Session, propertyID string, limit int, offset int64) ([]*model.Booking, int64, error)
	Update(ctx context.Context, sess *auth.Session, id string, updates *model.BookingUpdate) (*model.Booking, error)
}

type bookingService struct {
	repo       repository.BookingRepository
	lockRepo   repository.BookingLockRepository
	properties propertiesrepository.PropertyRepository
	validator  *validator.BookingValidator
	events     EventPublisher
	cfg        *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	properties propertiesrepository.PropertyRepository,
	validator *validator.BookingValidator,
	events EventPublisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:       repo,
		lockRepo:   lockRepo,
		properties: properties,
		validator:  validator,
		events:     events,
		cfg:        cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, sess *auth.Session, booking *model.Booking) (*model.Booking, error) {
	booking.UserID = sess.UserID
	booking.ID = ""
	// Every booking starts pending; confirmation only happens through a
	// status update.
	booking.Status = config.BookingPending
	s.applyDefaults(booking)
	s.sanitize(booking)

	property, err := s.loadBookableProperty(ctx, booking)
	if err != nil {
		return nil, err
	}

	// Price is derived server side; a client supplied total is ignored.
	booking.TotalPrice = stayPrice(booking.StartDate, booking.EndDate, property.PricePerNight)

	if err := s.validateNewStay(booking); err != nil {
		return nil, err
	}

	// Advisory lock serializes concurrent creation attempts per property.
	lockID, err := s.acquirePropertyLock(ctx, booking.PropertyID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releasePropertyLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyAvailability(sessCtx, booking); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "property", booking.PropertyID, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Booking created",
		"id", booking.ID,
		"property", booking.PropertyID,
		"user", booking.UserID,
		"start_date", booking.StartDate,
		"end_date", booking.EndDate,
	)

	if s.events != nil {
		if pubErr := s.events.BookingCreated(ctx, booking); pubErr != nil {
			s.cfg.Log.Warn("Failed to publish booking.created event", "id", booking.ID, "error", pubErr)
		}
	}

	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, sess *auth.Session, id string) (*model.Booking, error) {
	booking, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeBookingAccess(ctx, sess, booking); err != nil {
		return nil, err
	}

	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	if bookings == nil {
		bookings = []*model.Booking{}
	}
	return bookings, count, nil
}

func (s *bookingService) GetByUser(ctx context.Context, userID string, status string) ([]*model.Booking, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}
	if status != "" && !validBookingStatus(status) {
		return nil, apperrors.InvalidInput("Invalid status filter: " + status)
	}

	bookings, err := s.repo.FindByUser(ctx, userID, status)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings by user", "user", userID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	if bookings == nil {
		bookings = []*model.Booking{}
	}
	return bookings, nil
}

func (s *bookingService) SearchByProperty(ctx context.Context, sess *auth.Session, propertyID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if propertyID == "" {
		return nil, 0, apperrors.InvalidInput("Property ID is required")
	}

	property, err := s.properties.FindByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, propertieserrors.ErrNotFound) {
			return nil, 0, apperrors.NotFoundWithID("Property", propertyID)
		}
		return nil, 0, apperrors.Internal("Failed to retrieve property", err)
	}

	if property.OwnerID != sess.UserID && !sess.IsAdmin() {
		return nil, 0, apperrors.Forbidden("Only the property owner can list its bookings")
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByProperty(ctx, propertyID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings by property", "property", propertyID, "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByProperty(ctx, propertyID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings by property", "property", propertyID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	if bookings == nil {
		bookings = []*model.Booking{}
	}
	return bookings, count, nil
}

func (s *bookingService) Update(ctx context.Context, sess *auth.Session, id string, updates *model.BookingUpdate) (*model.Booking, error) {
	existing, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeBookingAccess(ctx, sess, existing); err != nil {
		return nil, err
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Booking update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	if updates.Status != "" {
		if err := validateStatusTransition(existing.Status, updates.Status); err != nil {
			return nil, err
		}
	}

	merged := mergeBookingUpdates(existing, updates)
	s.sanitize(merged)

	redated := !merged.StartDate.Equal(existing.StartDate) || !merged.EndDate.Equal(existing.EndDate)

	if redated {
		property, err := s.loadBookableProperty(ctx, merged)
		if err != nil {
			return nil, err
		}
		merged.TotalPrice = stayPrice(merged.StartDate, merged.EndDate, property.PricePerNight)
		if err := s.validateNewStay(merged); err != nil {
			return nil, err
		}
	} else if err := s.validate(merged); err != nil {
		return nil, err
	}

	checkAvailability := redated && activeStatus(merged.Status)
	if checkAvailability {
		lockID, err := s.acquirePropertyLock(ctx, merged.PropertyID)
		if err != nil {
			return nil, err
		}
		defer func() {
			if releaseErr := s.releasePropertyLock(ctx, lockID); releaseErr != nil {
				s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
			}
		}()
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if checkAvailability {
			if err := s.verifyAvailability(sessCtx, merged); err != nil {
				return err
			}
		}
		if _, err := s.repo.Update(sessCtx, id, merged); err != nil {
			if errors.Is(err, bookingserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Booking", id)
			}
			return apperrors.Internal("Failed to update booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update booking", "id", id, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Booking updated", "id", id, "status", merged.Status, "by", sess.UserID)

	if s.events != nil && merged.Status == config.BookingCancelled && existing.Status != config.BookingCancelled {
		if pubErr := s.events.BookingCancelled(ctx, merged); pubErr != nil {
			s.cfg.Log.Warn("Failed to publish booking.cancelled event", "id", id, "error", pubErr)
		}
	}

	return merged, nil
}

// --- Helpers ---

func (s *bookingService) findByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

// authorizeBookingAccess grants access to the guest who booked, the owner
// of the booked property, and admins.
func (s *bookingService) authorizeBookingAccess(ctx context.Context, sess *auth.Session, booking *model.Booking) error {
	if sess.IsAdmin() || booking.UserID == sess.UserID {
		return nil
	}

	property, err := s.properties.FindByID(ctx, booking.PropertyID)
	if err == nil && property.OwnerID == sess.UserID {
		return nil
	}

	return apperrors.Forbidden("You do not have access to this booking")
}

// loadBookableProperty fetches the property and rejects stays on listings
// that cannot take bookings.
func (s *bookingService) loadBookableProperty(ctx context.Context, booking *model.Booking) (*model.Property, error) {
	if booking.PropertyID == "" {
		return nil, apperrors.InvalidInput("Property ID is required")
	}

	property, err := s.properties.FindByID(ctx, booking.PropertyID)
	if err != nil {
		if errors.Is(err, propertieserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Property", booking.PropertyID)
		}
		if errors.Is(err, propertieserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid property ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve property", err)
	}

	if property.Status == config.PropertyMaintenance {
		return nil, apperrors.Conflict("Property is under maintenance and cannot be booked")
	}

	if booking.GuestCount > property.MaxGuests {
		return nil, apperrors.Validation("Guest count exceeds property capacity", map[string]any{
			"guestCount": booking.GuestCount,
			"maxGuests":  property.MaxGuests,
		})
	}

	return property, nil
}

func (s *bookingService) sanitize(b *model.Booking) {
	b.SpecialRequests = sanitizer.TrimAndNormalize(b.SpecialRequests)
}

func (s *bookingService) applyDefaults(b *model.Booking) {
	if b.GuestCount <= 0 {
		b.GuestCount = 1
	}
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *bookingService) validateNewStay(booking *model.Booking) error {
	if err := s.validator.ValidateNewStay(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

// verifyAvailability rejects the stay when any pending or confirmed
// booking holds an intersecting interval. Intervals are half-open, so a
// stay ending the day another begins does not conflict.
func (s *bookingService) verifyAvailability(ctx context.Context, booking *model.Booking) error {
	existing, err := s.repo.FindActiveOverlapping(ctx, booking.PropertyID, booking.StartDate, booking.EndDate)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	for _, b := range existing {
		if b.ID == booking.ID {
			continue
		}
		if overlaps(b.StartDate, b.EndDate, booking.StartDate, booking.EndDate) {
			return apperrors.ConflictWithDetails("Property is already booked for the selected dates", map[string]any{
				"conflictingBooking": b.ID,
				"startDate":          b.StartDate.Format(time.RFC3339),
				"endDate":            b.EndDate.Format(time.RFC3339),
			})
		}
	}
	return nil
}

func overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && end1.After(start2)
}

// stayPrice derives the total from the nightly rate. Partial nights round
// up so a stay is never undercharged.
func stayPrice(start, end time.Time, pricePerNight float64) float64 {
	if !end.After(start) {
		return 0
	}
	nights := int(end.Sub(start).Hours() / 24)
	if end.Sub(start)%(24*time.Hour) != 0 {
		nights++
	}
	if nights < 1 {
		nights = 1
	}
	return float64(nights) * pricePerNight
}

func mergeBookingUpdates(existing *model.Booking, updates *model.BookingUpdate) *model.Booking {
	merged := *existing

	if updates.StartDate != nil {
		merged.StartDate = *updates.StartDate
	}
	if updates.EndDate != nil {
		merged.EndDate = *updates.EndDate
	}
	// TotalPrice stays server derived; a client supplied total is ignored
	// and only re-dating recomputes it.
	if updates.GuestCount != nil {
		merged.GuestCount = *updates.GuestCount
	}
	if updates.SpecialRequests != nil {
		merged.SpecialRequests = *updates.SpecialRequests
	}
	if updates.Status != "" {
		merged.Status = updates.Status
	}

	return &merged
}

// validateStatusTransition enforces the booking lifecycle. Cancelled and
// completed are terminal.
func validateStatusTransition(from, to string) error {
	if from == to {
		return nil
	}

	allowed := map[string][]string{
		config.BookingPending:   {config.BookingConfirmed, config.BookingCancelled},
		config.BookingConfirmed: {config.BookingCancelled, config.BookingCompleted},
	}

	for _, next := range allowed[from] {
		if next == to {
			return nil
		}
	}

	return apperrors.Conflict(fmt.Sprintf("Cannot change booking status from %s to %s", from, to))
}

func activeStatus(status string) bool {
	return status == config.BookingPending || status == config.BookingConfirmed
}

func validBookingStatus(status string) bool {
	switch status {
	case config.BookingPending, config.BookingConfirmed, config.BookingCancelled, config.BookingCompleted:
		return true
	}
	return false
}

func (s *bookingService) acquirePropertyLock(ctx context.Context, propertyID string) (string, error) {
	lockID := fmt.Sprintf("booking_lock_%s", propertyID)

	lock := &model.BookingLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.BookingLockTTL),
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This property is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire booking lock", err)
	}

	return lockID, nil
}

func (s *bookingService) releasePropertyLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}
