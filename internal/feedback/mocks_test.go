package feedback

import (
	"context"

	"converge-backend/internal/models"

	"github.com/stretchr/testify/mock"
)

type mockQuestions struct{ mock.Mock }

func (m *mockQuestions) GetQuestion(ctx context.Context, id uint) (*models.Question, error) {
	args := m.Called(ctx, id)
	q, _ := args.Get(0).(*models.Question)
	return q, args.Error(1)
}

type mockResources struct{ mock.Mock }

func (m *mockResources) GetResource(ctx context.Context, id uint) (*models.Resource, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*models.Resource)
	return r, args.Error(1)
}

func (m *mockResources) MissingResourceNames(ctx context.Context, responseIDs []uint) (map[uint][]string, error) {
	args := m.Called(ctx, responseIDs)
	names, _ := args.Get(0).(map[uint][]string)
	return names, args.Error(1)
}

type mockResponses struct{ mock.Mock }

func (m *mockResponses) InsertResponses(ctx context.Context, responses []*models.Response) error {
	return m.Called(ctx, responses).Error(0)
}

func (m *mockResponses) RoomResponses(ctx context.Context, roomID uint) ([]models.Response, error) {
	args := m.Called(ctx, roomID)
	responses, _ := args.Get(0).([]models.Response)
	return responses, args.Error(1)
}

func (m *mockResponses) ToggleResolved(ctx context.Context, id uint) (*models.Response, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*models.Response)
	return r, args.Error(1)
}

type mockRooms struct{ mock.Mock }

func (m *mockRooms) GetRoom(ctx context.Context, id uint) (*models.Room, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*models.Room)
	return r, args.Error(1)
}
