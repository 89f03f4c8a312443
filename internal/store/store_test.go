package store

import (
	"context"
	"fmt"
	"testing"

	"converge-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupStore(t *testing.T) (*GormStore, *gorm.DB) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return New(db), db
}

func seedLocation(t *testing.T, db *gorm.DB, name string, state models.State) *models.Location {
	loc := &models.Location{
		Name:         name,
		Abbreviation: name[:2],
		Country:      "Kenya",
		TimeZone:     "Africa/Nairobi",
		State:        state,
	}
	require.NoError(t, db.Create(loc).Error)
	return loc
}

func TestCreateLocationRejectsActiveDuplicate(t *testing.T) {
	s, db := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateLocation(ctx, &models.Location{Name: "Nairobi", Abbreviation: "NBO", Country: "Kenya", TimeZone: "Africa/Nairobi", State: models.StateActive}))

	err := s.CreateLocation(ctx, &models.Location{Name: "Nairobi", Abbreviation: "NB2", Country: "Kenya", TimeZone: "Africa/Nairobi", State: models.StateActive})
	assert.ErrorIs(t, err, ErrDuplicateEntry)

	var count int64
	require.NoError(t, db.Model(&models.Location{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateLocationAllowsNameOfArchived(t *testing.T) {
	s, db := setupStore(t)
	seedLocation(t, db, "Lagos", models.StateArchived)

	err := s.CreateLocation(context.Background(), &models.Location{Name: "Lagos", Abbreviation: "LOS", Country: "Nigeria", TimeZone: "Africa/Lagos", State: models.StateActive})
	assert.NoError(t, err)
}

func TestSaveLocationRenameCollision(t *testing.T) {
	s, db := setupStore(t)
	ctx := context.Background()
	seedLocation(t, db, "Kampala", models.StateActive)
	other := seedLocation(t, db, "Kigali", models.StateActive)

	other.Name = "Kampala"
	assert.ErrorIs(t, s.SaveLocation(ctx, other), ErrDuplicateEntry)

	other.Name = "Kigali"
	other.ImageURL = "https://example.com/kigali.png"
	require.NoError(t, s.SaveLocation(ctx, other))

	stored, err := s.GetLocation(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/kigali.png", stored.ImageURL)
}

func TestActiveLocationQueries(t *testing.T) {
	s, db := setupStore(t)
	ctx := context.Background()
	seedLocation(t, db, "nairobi", models.StateActive)
	archived := seedLocation(t, db, "Accra", models.StateArchived)
	seedLocation(t, db, "Kampala", models.StateActive)

	list, err := s.ListActiveLocations(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Kampala", list[0].Name)
	assert.Equal(t, "nairobi", list[1].Name)

	_, err = s.GetActiveLocation(ctx, archived.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	loc, err := s.GetLocation(ctx, archived.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateArchived, loc.State)

	_, err = s.GetLocation(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListActiveRoomsInLocation(t *testing.T) {
	s, db := setupStore(t)
	loc := seedLocation(t, db, "Nairobi", models.StateActive)
	other := seedLocation(t, db, "Kampala", models.StateActive)
	require.NoError(t, db.Create(&models.Room{Name: "Oculus", LocationID: loc.ID, State: models.StateActive}).Error)
	require.NoError(t, db.Create(&models.Room{Name: "Old wing", LocationID: loc.ID, State: models.StateArchived}).Error)
	require.NoError(t, db.Create(&models.Room{Name: "Entebbe", LocationID: other.ID, State: models.StateActive}).Error)

	rooms, err := s.ListActiveRoomsInLocation(context.Background(), loc.ID)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "Oculus", rooms[0].Name)
}

func TestInsertResponsesWithMissingResources(t *testing.T) {
	s, db := setupStore(t)
	ctx := context.Background()
	loc := seedLocation(t, db, "Nairobi", models.StateActive)
	room := &models.Room{Name: "Oculus", LocationID: loc.ID, State: models.StateActive}
	require.NoError(t, db.Create(room).Error)
	marker := &models.Resource{Name: "Marker", RoomID: room.ID, State: models.StateActive}
	chair := &models.Resource{Name: "Chair", RoomID: room.ID, State: models.StateActive}
	require.NoError(t, db.Create(marker).Error)
	require.NoError(t, db.Create(chair).Error)

	rate := 4
	text := "No markers"
	batch := []*models.Response{
		{RoomID: room.ID, QuestionID: 1, Rate: &rate},
		{RoomID: room.ID, QuestionID: 2, TextArea: &text, MissingResources: []models.Resource{*marker, *chair}},
	}
	require.NoError(t, s.InsertResponses(ctx, batch))
	assert.NotZero(t, batch[0].ID)
	assert.NotZero(t, batch[1].ID)

	responses, err := s.RoomResponses(ctx, room.ID)
	require.NoError(t, err)
	require.Len(t, responses, 2)
	assert.Equal(t, batch[0].ID, responses[0].ID)

	names, err := s.MissingResourceNames(ctx, []uint{batch[0].ID, batch[1].ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"Marker", "Chair"}, names[batch[1].ID])
	_, ok := names[batch[0].ID]
	assert.False(t, ok)

	var resources int64
	require.NoError(t, db.Model(&models.Resource{}).Count(&resources).Error)
	assert.Equal(t, int64(2), resources)
}

func TestToggleResolvedTwiceRestoresFlag(t *testing.T) {
	s, db := setupStore(t)
	ctx := context.Background()
	rate := 3
	response := &models.Response{RoomID: 1, QuestionID: 1, Rate: &rate}
	require.NoError(t, db.Create(response).Error)

	toggled, err := s.ToggleResolved(ctx, response.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Resolved)

	toggled, err = s.ToggleResolved(ctx, response.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Resolved)

	_, err = s.ToggleResolved(ctx, 4242)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLookupsReturnNotFound(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	_, err := s.GetRoom(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetQuestion(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetResource(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetUserByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}
