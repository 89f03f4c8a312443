package store

import (
	"context"
	"errors"
	"fmt"

	"converge-backend/internal/models"

	"gorm.io/gorm"
)

func activeNameTaken(tx *gorm.DB, name string, excludeID uint) (bool, error) {
	var count int64
	q := tx.Model(&models.Location{}).Where("name = ? AND state = ?", name, models.StateActive)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateLocation inserts loc unless an active location already carries its
// name. The check and the insert share one transaction.
func (s *GormStore) CreateLocation(ctx context.Context, loc *models.Location) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := activeNameTaken(tx, loc.Name, 0)
		if err != nil {
			return fmt.Errorf("gorm: check location name '%s': %w", loc.Name, err)
		}
		if taken {
			return ErrDuplicateEntry
		}
		if err := tx.Create(loc).Error; err != nil {
			return translate(err)
		}
		return nil
	})
}

// SaveLocation writes every field of an existing location
func (s *GormStore) SaveLocation(ctx context.Context, loc *models.Location) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if loc.IsActive() {
			taken, err := activeNameTaken(tx, loc.Name, loc.ID)
			if err != nil {
				return fmt.Errorf("gorm: check location name '%s': %w", loc.Name, err)
			}
			if taken {
				return ErrDuplicateEntry
			}
		}
		if err := tx.Save(loc).Error; err != nil {
			return translate(err)
		}
		return nil
	})
}

func (s *GormStore) GetLocation(ctx context.Context, id uint) (*models.Location, error) {
	var loc models.Location
	if err := s.db.WithContext(ctx).First(&loc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("gorm: find location by id %d: %w", id, err)
	}
	return &loc, nil
}

func (s *GormStore) GetActiveLocation(ctx context.Context, id uint) (*models.Location, error) {
	var loc models.Location
	err := s.db.WithContext(ctx).
		Where("id = ? AND state = ?", id, models.StateActive).
		First(&loc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("gorm: find active location by id %d: %w", id, err)
	}
	return &loc, nil
}

// ListActiveLocations returns active locations ordered by name, ignoring case
func (s *GormStore) ListActiveLocations(ctx context.Context) ([]models.Location, error) {
	locations := []models.Location{}
	err := s.db.WithContext(ctx).
		Where("state = ?", models.StateActive).
		Order("lower(name)").
		Find(&locations).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list active locations: %w", err)
	}
	return locations, nil
}

func (s *GormStore) ListActiveRoomsInLocation(ctx context.Context, locationID uint) ([]models.Room, error) {
	rooms := []models.Room{}
	err := s.db.WithContext(ctx).
		Joins("JOIN locations ON locations.id = rooms.location_id").
		Where("rooms.state = ? AND locations.id = ?", models.StateActive, locationID).
		Order("rooms.id").
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list rooms in location %d: %w", locationID, err)
	}
	return rooms, nil
}
