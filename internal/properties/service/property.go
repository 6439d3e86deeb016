package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/maro14/fauxdoorz/internal/auth"
	propertieserrors "github.com/maro14/fauxdoorz/internal/properties/errors"
	"github.com/maro14/fauxdoorz/internal/properties/repository"
	"github.com/maro14/fauxdoorz/internal/properties/validator"
	usersrepository "github.com/maro14/fauxdoorz/internal/users/repository"
	"github.com/maro14/fauxdoorz/pkg/config"
	apperrors "github.com/maro14/fauxdoorz/pkg/errors"
	"github.com/maro14/fauxdoorz/pkg/model"
	"github.com/maro14/fauxdoorz/pkg/sanitizer"
)

type PropertyService interface {
	Create(ctx context.Context, sess *auth.Session, property *model.Property) (*model.Property, error)
	GetByID(ctx context.Context, id string) (*model.Property, error)
	Search(ctx context.Context, search *model.PropertySearch, limit int, offset int64) ([]*model.Property, int64, error)
	GetByOwner(ctx context.Context, ownerID string) ([]*model.Property, error)
	Update(ctx context.Context, sess *auth.Session, id string, updates *model.PropertyUpdate) (*model.Property, error)
	Delete(ctx context.Context, sess *auth.Session, id string) error
}

type propertyService struct {
	repo      repository.PropertyRepository
	users     usersrepository.UserRepository
	validator *validator.PropertyValidator
	cfg       *config.Config
}

func NewPropertyService(
	repo repository.PropertyRepository,
	users usersrepository.UserRepository,
	validator *validator.PropertyValidator,
	cfg *config.Config,
) PropertyService {
	return &propertyService{
		repo:      repo,
		users:     users,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *propertyService) Create(ctx context.Context, sess *auth.Session, property *model.Property) (*model.Property, error) {
	property.OwnerID = sess.UserID
	if property.Status == "" {
		property.Status = config.PropertyAvailable
	}

	sanitizeProperty(property)

	if err := s.validator.Validate(property); err != nil {
		s.cfg.Log.Warn("Property validation failed", "error", err)
		return nil, apperrors.Validation("Invalid property input", map[string]any{"error": err.Error()})
	}

	// Property insert and the owner's listing reference commit together.
	err := s.repo.ExecuteTransaction(ctx, func(sc mongo.SessionContext) error {
		if err := s.repo.Create(sc, property); err != nil {
			return err
		}
		return s.users.AddProperty(sc, sess.UserID, property.ID)
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create property", "owner", sess.UserID, "error", err)
		return nil, apperrors.Internal("Failed to create property", err)
	}

	s.cfg.Log.Info("Property created", "id", property.ID, "owner", sess.UserID)
	return property, nil
}

func (s *propertyService) GetByID(ctx context.Context, id string) (*model.Property, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Property ID cannot be empty")
	}

	property, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, propertieserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Property", id)
		}
		if errors.Is(err, propertieserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid property ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve property", err)
	}

	return property, nil
}

func (s *propertyService) Search(ctx context.Context, search *model.PropertySearch, limit int, offset int64) ([]*model.Property, int64, error) {
	if search != nil {
		search.Location = sanitizer.NormalizeLocation(search.Location)
		if err := s.validator.ValidateSearch(search); err != nil {
			return nil, 0, apperrors.Validation("Invalid search filters", map[string]any{"error": err.Error()})
		}
	}

	properties, err := s.repo.Search(ctx, search, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to search properties", "error", err)
		return nil, 0, apperrors.Internal("Failed to search properties", err)
	}

	total, err := s.repo.CountSearch(ctx, search)
	if err != nil {
		s.cfg.Log.Error("Failed to count properties", "error", err)
		return nil, 0, apperrors.Internal("Failed to count properties", err)
	}

	if properties == nil {
		properties = []*model.Property{}
	}
	return properties, total, nil
}

func (s *propertyService) GetByOwner(ctx context.Context, ownerID string) ([]*model.Property, error) {
	if ownerID == "" {
		return nil, apperrors.InvalidInput("Owner ID cannot be empty")
	}

	properties, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve properties", err)
	}

	if properties == nil {
		properties = []*model.Property{}
	}
	return properties, nil
}

func (s *propertyService) Update(ctx context.Context, sess *auth.Session, id string, updates *model.PropertyUpdate) (*model.Property, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if existing.OwnerID != sess.UserID && !sess.IsAdmin() {
		return nil, apperrors.Forbidden("Only the property owner can modify a listing")
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Property update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := *existing
	applyPropertyUpdate(&merged, updates)
	sanitizeProperty(&merged)

	if err := s.validator.Validate(&merged); err != nil {
		return nil, apperrors.Validation("Invalid property state after update", map[string]any{"error": err.Error()})
	}

	if _, err := s.repo.Update(ctx, id, &merged); err != nil {
		if errors.Is(err, propertieserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Property", id)
		}
		s.cfg.Log.Error("Failed to update property", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update property", err)
	}

	s.cfg.Log.Info("Property updated", "id", id, "by", sess.UserID)
	return &merged, nil
}

func (s *propertyService) Delete(ctx context.Context, sess *auth.Session, id string) error {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if existing.OwnerID != sess.UserID && !sess.IsAdmin() {
		return apperrors.Forbidden("Only the property owner can delete a listing")
	}

	err = s.repo.ExecuteTransaction(ctx, func(sc mongo.SessionContext) error {
		if err := s.repo.Delete(sc, id); err != nil {
			return err
		}
		return s.users.RemoveProperty(sc, existing.OwnerID, id)
	})
	if err != nil {
		if errors.Is(err, propertieserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Property", id)
		}
		s.cfg.Log.Error("Failed to delete property", "id", id, "error", err)
		return apperrors.Internal("Failed to delete property", err)
	}

	s.cfg.Log.Info("Property deleted", "id", id, "by", sess.UserID)
	return nil
}

func sanitizeProperty(property *model.Property) {
	property.Title = sanitizer.NormalizeTitle(property.Title)
	property.Description = sanitizer.NormalizeDescription(property.Description)
	property.Location = sanitizer.NormalizeLocation(property.Location)
	property.Amenities = sanitizer.SanitizeSlice(property.Amenities, sanitizer.SanitizeAmenity)

	images := make([]string, 0, len(property.Images))
	for _, img := range property.Images {
		if cleaned := sanitizer.SanitizeURL(img); cleaned != "" {
			images = append(images, cleaned)
		}
	}
	property.Images = images
}

func applyPropertyUpdate(property *model.Property, updates *model.PropertyUpdate) {
	if updates.Title != "" {
		property.Title = updates.Title
	}
	if updates.Description != nil {
		property.Description = *updates.Description
	}
	if updates.Location != "" {
		property.Location = updates.Location
	}
	if updates.PricePerNight != nil {
		property.PricePerNight = *updates.PricePerNight
	}
	if updates.Images != nil {
		property.Images = *updates.Images
	}
	if updates.Amenities != nil {
		property.Amenities = *updates.Amenities
	}
	if updates.Bedrooms != nil {
		property.Bedrooms = *updates.Bedrooms
	}
	if updates.Bathrooms != nil {
		property.Bathrooms = *updates.Bathrooms
	}
	if updates.MaxGuests != nil {
		property.MaxGuests = *updates.MaxGuests
	}
	if updates.Status != "" {
		property.Status = updates.Status
	}
}
