package store

import (
	"context"
	"fmt"

	"converge-backend/internal/models"

	"gorm.io/gorm"
)

// InsertResponses writes the whole batch in one transaction: either every
// response and its missing resource links are stored, or none.
func (s *GormStore) InsertResponses(ctx context.Context, responses []*models.Response) error {
	if len(responses) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, r := range responses {
			if err := tx.Omit("MissingResources.*").Create(r).Error; err != nil {
				return fmt.Errorf("gorm: insert response for question %d: %w", r.QuestionID, translate(err))
			}
		}
		return nil
	})
}

// RoomResponses returns every response of a room, oldest first
func (s *GormStore) RoomResponses(ctx context.Context, roomID uint) ([]models.Response, error) {
	responses := []models.Response{}
	err := s.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("id").
		Find(&responses).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list responses of room %d: %w", roomID, err)
	}
	return responses, nil
}

// MissingResourceNames maps each response id to the names of the resources it
// flagged as missing. Responses without links are absent from the map.
func (s *GormStore) MissingResourceNames(ctx context.Context, responseIDs []uint) (map[uint][]string, error) {
	names := map[uint][]string{}
	if len(responseIDs) == 0 {
		return names, nil
	}

	var rows []struct {
		ResponseID uint
		Name       string
	}
	err := s.db.WithContext(ctx).
		Table("response_missing_resources").
		Select("response_missing_resources.response_id AS response_id, resources.name AS name").
		Joins("JOIN resources ON resources.id = response_missing_resources.resource_id").
		Where("response_missing_resources.response_id IN ?", responseIDs).
		Order("response_missing_resources.response_id, resources.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: load missing resources: %w", err)
	}

	for _, row := range rows {
		names[row.ResponseID] = append(names[row.ResponseID], row.Name)
	}
	return names, nil
}

// ToggleResolved flips the resolved flag with a single UPDATE so concurrent
// toggles never lose a write.
func (s *GormStore) ToggleResolved(ctx context.Context, id uint) (*models.Response, error) {
	var response models.Response
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Response{}).
			Where("id = ?", id).
			Update("resolved", gorm.Expr("NOT resolved"))
		if result.Error != nil {
			return fmt.Errorf("gorm: toggle response %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.First(&response, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}
