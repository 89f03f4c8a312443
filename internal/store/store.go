// Package store is the GORM backed persistence for locations, rooms,
// questions, resources and responses.
package store

import (
	"context"
	"errors"
	"fmt"

	"converge-backend/internal/models"

	"gorm.io/gorm"
)

var (
	// ErrNotFound means the requested record does not exist
	ErrNotFound = errors.New("store: record not found")
	// ErrDuplicateEntry means a write would break a uniqueness rule
	ErrDuplicateEntry = errors.New("store: duplicate entry")
)

type GormStore struct {
	db *gorm.DB
}

func New(db *gorm.DB) *GormStore {
	if db == nil {
		panic("database connection cannot be nil for GormStore")
	}
	return &GormStore{db: db}
}

// AutoMigrate creates or updates every table the service owns
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Location{},
		&models.Room{},
		&models.Resource{},
		&models.Question{},
		&models.User{},
		&models.Response{},
	)
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateEntry
	}
	return err
}

func (s *GormStore) GetRoom(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	if err := s.db.WithContext(ctx).First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("gorm: find room by id %d: %w", id, err)
	}
	return &room, nil
}

func (s *GormStore) GetQuestion(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	if err := s.db.WithContext(ctx).First(&question, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("gorm: find question by id %d: %w", id, err)
	}
	return &question, nil
}

func (s *GormStore) GetResource(ctx context.Context, id uint) (*models.Resource, error) {
	var resource models.Resource
	if err := s.db.WithContext(ctx).First(&resource, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("gorm: find resource by id %d: %w", id, err)
	}
	return &resource, nil
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := models.GetUserByEmail(s.db.WithContext(ctx), email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("gorm: find user by email: %w", err)
	}
	return user, nil
}
