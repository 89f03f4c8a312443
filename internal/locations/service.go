// Package locations manages offices and the rooms listed under them.
package locations

import (
	"context"
	"errors"
	"fmt"

	"converge-backend/internal/apperr"
	"converge-backend/internal/metrics"
	"converge-backend/internal/models"
	"converge-backend/internal/store"

	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"
)

type Store interface {
	CreateLocation(ctx context.Context, loc *models.Location) error
	SaveLocation(ctx context.Context, loc *models.Location) error
	GetLocation(ctx context.Context, id uint) (*models.Location, error)
	GetActiveLocation(ctx context.Context, id uint) (*models.Location, error)
	ListActiveLocations(ctx context.Context) ([]models.Location, error)
	ListActiveRoomsInLocation(ctx context.Context, locationID uint) ([]models.Room, error)
}

type Cache interface {
	ActiveLocations(ctx context.Context) ([]models.Location, bool)
	StoreActiveLocations(ctx context.Context, locations []models.Location)
	InvalidateLocations(ctx context.Context)
}

type Notifier interface {
	SendLocationCreated(ctx context.Context, admin *models.User, location *models.Location) error
}

type Validator interface {
	Validate(i interface{}) error
	RequireFields(fields map[string]any) error
}

type CreateInput struct {
	Name         string  `json:"name" validate:"required"`
	Abbreviation string  `json:"abbreviation" validate:"required"`
	Country      string  `json:"country" validate:"required,country"`
	ImageURL     string  `json:"image_url" validate:"omitempty,url"`
	TimeZone     string  `json:"time_zone" validate:"required,timezone"`
	Structure    *string `json:"structure" validate:"omitempty,jsondoc"`
}

// UpdateInput changes only the fields that are set
type UpdateInput struct {
	Name         *string `json:"name"`
	Abbreviation *string `json:"abbreviation"`
	Country      *string `json:"country" validate:"omitempty,country"`
	ImageURL     *string `json:"image_url" validate:"omitempty,url"`
	TimeZone     *string `json:"time_zone" validate:"omitempty,timezone"`
	Structure    *string `json:"structure" validate:"omitempty,jsondoc"`
}

func (in UpdateInput) provided() map[string]any {
	fields := map[string]any{}
	add := func(name string, v *string) {
		if v != nil {
			fields[name] = v
		}
	}
	add("name", in.Name)
	add("abbreviation", in.Abbreviation)
	add("country", in.Country)
	add("image_url", in.ImageURL)
	add("time_zone", in.TimeZone)
	add("structure", in.Structure)
	return fields
}

type Service struct {
	store     Store
	cache     Cache
	notifier  Notifier
	validator Validator
	logger    echo.Logger
}

func NewService(st Store, cache Cache, notifier Notifier, validator Validator, logger echo.Logger) *Service {
	return &Service{
		store:     st,
		cache:     cache,
		notifier:  notifier,
		validator: validator,
		logger:    logger,
	}
}

func duplicateName(name string) error {
	return apperr.BusinessRule(fmt.Sprintf("Location %s already exists", name))
}

// Create stores a new active location and mails the admin who created it.
// When only the mail fails the location is returned together with a
// notification error.
func (s *Service) Create(ctx context.Context, admin *models.User, in CreateInput) (*models.Location, error) {
	if err := s.validator.RequireFields(map[string]any{
		"name":         in.Name,
		"abbreviation": in.Abbreviation,
		"country":      in.Country,
		"time_zone":    in.TimeZone,
	}); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	loc := &models.Location{
		Name:         in.Name,
		Abbreviation: in.Abbreviation,
		Country:      in.Country,
		ImageURL:     in.ImageURL,
		TimeZone:     in.TimeZone,
		State:        models.StateActive,
	}
	if in.Structure != nil {
		loc.Structure = datatypes.JSON(*in.Structure)
	}

	if err := s.store.CreateLocation(ctx, loc); err != nil {
		if errors.Is(err, store.ErrDuplicateEntry) {
			return nil, duplicateName(in.Name)
		}
		return nil, apperr.Store("create location", err)
	}
	s.cache.InvalidateLocations(ctx)
	metrics.LocationsCreated.Inc()

	if err := s.notifier.SendLocationCreated(ctx, admin, loc); err != nil {
		metrics.NotificationFailures.Inc()
		s.logger.Warnf("Location %d created but notification failed: %v", loc.ID, err)
		return loc, apperr.Notification("Location created but email not sent", err)
	}
	return loc, nil
}

// activeForAdmin loads an active location the admin is allowed to change
func (s *Service) activeForAdmin(ctx context.Context, admin *models.User, id uint) (*models.Location, error) {
	loc, err := s.store.GetActiveLocation(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("Location not found")
		}
		return nil, apperr.Store("get location", err)
	}
	if admin != nil && admin.LocationID != nil && *admin.LocationID != loc.ID {
		return nil, apperr.Forbidden(fmt.Sprintf("You are not authorized to make changes in %s", loc.Name))
	}
	return loc, nil
}

func (s *Service) Update(ctx context.Context, admin *models.User, id uint, in UpdateInput) (*models.Location, error) {
	loc, err := s.activeForAdmin(ctx, admin, id)
	if err != nil {
		return nil, err
	}

	if err := s.validator.RequireFields(in.provided()); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	if in.Name != nil {
		loc.Name = *in.Name
	}
	if in.Abbreviation != nil {
		loc.Abbreviation = *in.Abbreviation
	}
	if in.Country != nil {
		loc.Country = *in.Country
	}
	if in.ImageURL != nil {
		loc.ImageURL = *in.ImageURL
	}
	if in.TimeZone != nil {
		loc.TimeZone = *in.TimeZone
	}
	if in.Structure != nil {
		loc.Structure = datatypes.JSON(*in.Structure)
	}

	if err := s.store.SaveLocation(ctx, loc); err != nil {
		if errors.Is(err, store.ErrDuplicateEntry) {
			return nil, duplicateName(loc.Name)
		}
		return nil, apperr.Store("update location", err)
	}
	s.cache.InvalidateLocations(ctx)
	return loc, nil
}

// Delete archives the location; the row is kept
func (s *Service) Delete(ctx context.Context, admin *models.User, id uint) (*models.Location, error) {
	loc, err := s.activeForAdmin(ctx, admin, id)
	if err != nil {
		return nil, err
	}

	loc.State = models.StateArchived
	if err := s.store.SaveLocation(ctx, loc); err != nil {
		return nil, apperr.Store("archive location", err)
	}
	s.cache.InvalidateLocations(ctx)
	return loc, nil
}

// Get returns a location in any state
func (s *Service) Get(ctx context.Context, id uint) (*models.Location, error) {
	loc, err := s.store.GetLocation(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("Location not found")
		}
		return nil, apperr.Store("get location", err)
	}
	return loc, nil
}

// List returns active locations ordered by name, served from cache when possible
func (s *Service) List(ctx context.Context) ([]models.Location, error) {
	if cached, ok := s.cache.ActiveLocations(ctx); ok {
		return cached, nil
	}

	locations, err := s.store.ListActiveLocations(ctx)
	if err != nil {
		return nil, apperr.Store("list locations", err)
	}
	s.cache.StoreActiveLocations(ctx, locations)
	return locations, nil
}

func (s *Service) Rooms(ctx context.Context, locationID uint) ([]models.Room, error) {
	rooms, err := s.store.ListActiveRoomsInLocation(ctx, locationID)
	if err != nil {
		return nil, apperr.Store("list rooms", err)
	}
	return rooms, nil
}
