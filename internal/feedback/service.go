package feedback

import (
	"context"
	"errors"

	"converge-backend/internal/apperr"
	"converge-backend/internal/metrics"
	"converge-backend/internal/models"
	"converge-backend/internal/pagination"
	"converge-backend/internal/store"

	"github.com/labstack/echo/v4"
)

type ResponseStore interface {
	InsertResponses(ctx context.Context, responses []*models.Response) error
	RoomResponses(ctx context.Context, roomID uint) ([]models.Response, error)
	ToggleResolved(ctx context.Context, id uint) (*models.Response, error)
}

type Service struct {
	rooms      RoomLookup
	responses  ResponseStore
	builder    *Builder
	aggregator *Aggregator
	logger     echo.Logger
}

func NewService(questions QuestionCatalog, resources ResourceCatalog, responses ResponseStore, rooms RoomLookup, logger echo.Logger) *Service {
	return &Service{
		rooms:      rooms,
		responses:  responses,
		builder:    NewBuilder(questions, resources),
		aggregator: NewAggregator(rooms, resources),
		logger:     logger,
	}
}

// CreateResponses stores a batch of answers for a room. Either every item is
// accepted and stored, or nothing is written and all problems are reported.
func (s *Service) CreateResponses(ctx context.Context, user *models.User, roomID uint, items []Item) ([]*models.Response, error) {
	if _, err := s.rooms.GetRoom(ctx, roomID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.ResponseBatchesRejected.WithLabelValues(metrics.ReasonUnknownRoom).Inc()
			return nil, apperr.NotFound("Non-existent room id")
		}
		return nil, apperr.Store("get room", err)
	}

	if len(items) == 0 {
		metrics.ResponseBatchesRejected.WithLabelValues(metrics.ReasonEmpty).Inc()
		return nil, apperr.Validation("responses is required field", "responses is required field")
	}

	var userID *uint
	if user != nil {
		id := user.ID
		userID = &id
	}

	records, problems, err := s.builder.Build(ctx, userID, roomID, items)
	if err != nil {
		return nil, err
	}
	if len(problems) > 0 {
		metrics.ResponseBatchesRejected.WithLabelValues(metrics.ReasonInvalidItems).Inc()
		return nil, apperr.Batch(problems)
	}

	if err := s.responses.InsertResponses(ctx, records); err != nil {
		return nil, apperr.Store("insert responses", err)
	}

	metrics.ResponsesSubmitted.Add(float64(len(records)))
	s.logger.Infof("Stored %d responses for room %d", len(records), roomID)
	return records, nil
}

// GetRoomResponses returns the room's feedback, one page of it when params
// asks for a page.
func (s *Service) GetRoomResponses(ctx context.Context, roomID uint, params pagination.Params) (*PaginatedResponse, error) {
	paged, err := params.Requested()
	if err != nil {
		return nil, err
	}

	responses, err := s.responses.RoomResponses(ctx, roomID)
	if err != nil {
		return nil, apperr.Store("list room responses", err)
	}
	if len(responses) == 0 {
		return nil, apperr.NotFound("This room doesn't exist or doesn't have feedback.")
	}

	result := &PaginatedResponse{}
	if paged {
		page, meta, err := pagination.Paginate(responses, *params.Page, *params.PerPage)
		if err != nil {
			return nil, err
		}
		responses = page
		result.Page = &meta
	}

	view, err := s.aggregator.Aggregate(ctx, roomID, responses)
	if err != nil {
		return nil, err
	}
	result.Responses = []RoomResponses{view}
	return result, nil
}

// ResolveRoomResponse marks a response resolved, or unresolved if it was
func (s *Service) ResolveRoomResponse(ctx context.Context, responseID uint) (*models.Response, error) {
	response, err := s.responses.ToggleResolved(ctx, responseID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("Response does not exist")
		}
		return nil, apperr.Store("toggle resolved", err)
	}
	metrics.ResponsesResolvedToggled.Inc()
	return response, nil
}
