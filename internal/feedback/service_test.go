package feedback

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"converge-backend/internal/apperr"
	"converge-backend/internal/models"
	"converge-backend/internal/pagination"
	"converge-backend/internal/store"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type serviceMocks struct {
	questions *mockQuestions
	resources *mockResources
	responses *mockResponses
	rooms     *mockRooms
}

func newTestService() (*Service, serviceMocks) {
	m := serviceMocks{
		questions: new(mockQuestions),
		resources: new(mockResources),
		responses: new(mockResponses),
		rooms:     new(mockRooms),
	}
	s := NewService(m.questions, m.resources, m.responses, m.rooms, echo.New().Logger)
	s.builder.now = func() time.Time { return fixedNow }
	return s, m
}

func roomResponses(roomID uint, n int) []models.Response {
	responses := make([]models.Response, n)
	for i := range responses {
		rate := i%5 + 1
		responses[i] = models.Response{ID: uint(i + 1), RoomID: roomID, QuestionID: 1, Rate: &rate}
	}
	return responses
}

func TestCreateResponsesStoresBatch(t *testing.T) {
	s, m := newTestService()
	ctx := context.Background()
	m.rooms.On("GetRoom", ctx, uint(3)).Return(&models.Room{ID: 3, Name: "Oculus"}, nil)
	m.questions.On("GetQuestion", ctx, uint(1)).Return(question(1, models.QuestionTypeRate), nil)
	m.responses.On("InsertResponses", ctx, mock.MatchedBy(func(records []*models.Response) bool {
		return len(records) == 1 && *records[0].UserID == 12
	})).Return(nil).Once()

	records, err := s.CreateResponses(ctx, &models.User{ID: 12}, 3, []Item{{QuestionID: 1, Rate: intPtr(4)}})
	require.NoError(t, err)
	require.Len(t, records, 1)
	m.responses.AssertExpectations(t)
}

func TestCreateResponsesUnknownQuestionWritesNothing(t *testing.T) {
	s, m := newTestService()
	ctx := context.Background()
	m.rooms.On("GetRoom", ctx, uint(3)).Return(&models.Room{ID: 3}, nil)
	m.questions.On("GetQuestion", ctx, uint(1)).Return(question(1, models.QuestionTypeRate), nil)
	m.questions.On("GetQuestion", ctx, uint(404)).Return(nil, store.ErrNotFound)

	_, err := s.CreateResponses(ctx, &models.User{ID: 1}, 3, []Item{
		{QuestionID: 1, Rate: intPtr(4)},
		{QuestionID: 404},
	})
	require.Error(t, err)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindBusinessRule, appErr.Kind)
	assert.Equal(t, []string{"Response to question 404 was not saved because it does not exist"}, appErr.Fields)
	assert.Equal(t, "The following errors occurred: 'Response to question 404 was not saved because it does not exist'", appErr.Message)
	m.responses.AssertNotCalled(t, "InsertResponses", mock.Anything, mock.Anything)
}

func TestCreateResponsesRoomChecks(t *testing.T) {
	s, m := newTestService()
	ctx := context.Background()
	m.rooms.On("GetRoom", ctx, uint(1)).Return(nil, store.ErrNotFound)
	m.rooms.On("GetRoom", ctx, uint(2)).Return(&models.Room{ID: 2}, nil)

	_, err := s.CreateResponses(ctx, nil, 1, []Item{{QuestionID: 1}})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.EqualError(t, err, "Non-existent room id")

	_, err = s.CreateResponses(ctx, nil, 2, nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestGetRoomResponsesWithoutFeedback(t *testing.T) {
	s, m := newTestService()
	ctx := context.Background()
	m.responses.On("RoomResponses", ctx, uint(5)).Return([]models.Response{}, nil)

	_, err := s.GetRoomResponses(ctx, 5, pagination.Params{})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.EqualError(t, err, "This room doesn't exist or doesn't have feedback.")
}

func TestGetRoomResponsesSecondPage(t *testing.T) {
	s, m := newTestService()
	ctx := context.Background()
	m.responses.On("RoomResponses", ctx, uint(5)).Return(roomResponses(5, 12), nil)
	m.rooms.On("GetRoom", ctx, uint(5)).Return(&models.Room{ID: 5, Name: "Oculus"}, nil)
	m.resources.On("MissingResourceNames", ctx, []uint{6, 7, 8, 9, 10}).
		Return(map[uint][]string{7: {"Marker"}}, nil)

	page, perPage := 2, 5
	result, err := s.GetRoomResponses(ctx, 5, pagination.Params{Page: &page, PerPage: &perPage})
	require.NoError(t, err)

	require.NotNil(t, result.Page)
	assert.Equal(t, 3, result.Pages)
	assert.Equal(t, 12, result.QueryTotal)
	assert.True(t, result.HasNext)
	assert.True(t, result.HasPrevious)
	assert.Equal(t, 2, result.CurrentPage)

	require.Len(t, result.Responses, 1)
	view := result.Responses[0]
	assert.Equal(t, "Oculus", view.RoomName)
	assert.Len(t, view.Response, 5)
	assert.Equal(t, len(view.Response), view.TotalResponses)
	assert.Equal(t, []string{"Marker"}, view.Response[1].MissingItems)
	assert.Equal(t, []string{}, view.Response[0].MissingItems)
}

func TestGetRoomResponsesUnpaginatedOmitsMetadata(t *testing.T) {
	s, m := newTestService()
	ctx := context.Background()
	m.responses.On("RoomResponses", ctx, uint(5)).Return(roomResponses(5, 2), nil)
	m.rooms.On("GetRoom", ctx, uint(5)).Return(&models.Room{ID: 5, Name: "Oculus"}, nil)
	m.resources.On("MissingResourceNames", ctx, []uint{1, 2}).Return(map[uint][]string{}, nil)

	result, err := s.GetRoomResponses(ctx, 5, pagination.Params{})
	require.NoError(t, err)
	assert.Nil(t, result.Page)

	body, err := json.Marshal(result)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "current_page")
	assert.Contains(t, string(body), `"missing_items":[]`)
}

func TestGetRoomResponsesRejectsHalfPagination(t *testing.T) {
	s, _ := newTestService()
	page := 1
	_, err := s.GetRoomResponses(context.Background(), 5, pagination.Params{Page: &page})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestResolveRoomResponse(t *testing.T) {
	s, m := newTestService()
	ctx := context.Background()
	m.responses.On("ToggleResolved", ctx, uint(1)).Return(&models.Response{ID: 1, Resolved: true}, nil).Once()
	m.responses.On("ToggleResolved", ctx, uint(2)).Return(nil, store.ErrNotFound)

	response, err := s.ResolveRoomResponse(ctx, 1)
	require.NoError(t, err)
	assert.True(t, response.Resolved)

	_, err = s.ResolveRoomResponse(ctx, 2)
	assert.EqualError(t, err, "Response does not exist")
}
