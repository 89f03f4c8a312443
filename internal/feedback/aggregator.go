package feedback

import (
	"context"
	"errors"
	"time"

	"converge-backend/internal/apperr"
	"converge-backend/internal/models"
	"converge-backend/internal/pagination"
	"converge-backend/internal/store"
)

type RoomLookup interface {
	GetRoom(ctx context.Context, id uint) (*models.Room, error)
}

type ResponseDetail struct {
	ResponseID   uint      `json:"response_id"`
	Suggestion   *string   `json:"suggestion"`
	MissingItems []string  `json:"missing_items"`
	CreatedDate  time.Time `json:"created_date"`
	Rating       *int      `json:"rating"`
	Resolved     bool      `json:"resolved"`
}

type RoomResponses struct {
	RoomID         uint             `json:"room_id"`
	RoomName       string           `json:"room_name"`
	TotalResponses int              `json:"total_responses"`
	Response       []ResponseDetail `json:"response"`
}

// PaginatedResponse carries page metadata only when the caller asked for a page
type PaginatedResponse struct {
	*pagination.Page
	Responses []RoomResponses `json:"responses"`
}

type Aggregator struct {
	rooms     RoomLookup
	resources ResourceCatalog
}

func NewAggregator(rooms RoomLookup, resources ResourceCatalog) *Aggregator {
	return &Aggregator{rooms: rooms, resources: resources}
}

// Aggregate builds the view of one room from responses that all belong to it
func (a *Aggregator) Aggregate(ctx context.Context, roomID uint, responses []models.Response) (RoomResponses, error) {
	var roomName string
	room, err := a.rooms.GetRoom(ctx, roomID)
	switch {
	case err == nil:
		roomName = room.Name
	case !errors.Is(err, store.ErrNotFound):
		return RoomResponses{}, apperr.Store("get room", err)
	}

	ids := make([]uint, len(responses))
	for i, r := range responses {
		ids[i] = r.ID
	}
	names, err := a.resources.MissingResourceNames(ctx, ids)
	if err != nil {
		return RoomResponses{}, apperr.Store("load missing resources", err)
	}

	details := make([]ResponseDetail, 0, len(responses))
	for _, r := range responses {
		missing := names[r.ID]
		if missing == nil {
			missing = []string{}
		}
		details = append(details, ResponseDetail{
			ResponseID:   r.ID,
			Suggestion:   r.TextArea,
			MissingItems: missing,
			CreatedDate:  r.CreatedDate,
			Rating:       r.Rate,
			Resolved:     r.Resolved,
		})
	}

	return RoomResponses{
		RoomID:         roomID,
		RoomName:       roomName,
		TotalResponses: len(details),
		Response:       details,
	}, nil
}

// AggregateByRoom groups responses by room, rooms in order of first appearance
func (a *Aggregator) AggregateByRoom(ctx context.Context, responses []models.Response) ([]RoomResponses, error) {
	var order []uint
	grouped := map[uint][]models.Response{}
	for _, r := range responses {
		if _, seen := grouped[r.RoomID]; !seen {
			order = append(order, r.RoomID)
		}
		grouped[r.RoomID] = append(grouped[r.RoomID], r)
	}

	result := make([]RoomResponses, 0, len(order))
	for _, roomID := range order {
		view, err := a.Aggregate(ctx, roomID, grouped[roomID])
		if err != nil {
			return nil, err
		}
		result = append(result, view)
	}
	return result, nil
}
