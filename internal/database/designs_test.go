package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interior-design-backend/internal/apperr"
	"interior-design-backend/internal/database"
	"interior-design-backend/internal/database/dbtest"
	"interior-design-backend/internal/models"
)

func seedRoom(t *testing.T, db *database.DatabaseClient, userID uuid.UUID) *models.Room {
	t.Helper()
	ctx := context.Background()
	project := &models.Project{UserID: userID, Name: "Flat", Style: "MODERN"}
	require.NoError(t, db.CreateProject(ctx, project))
	room := &models.Room{ProjectID: project.ID, Name: "Bedroom", Type: "BEDROOM", Length: 4, Width: 3, Height: 2.5}
	require.NoError(t, db.CreateRoom(ctx, room))
	return room
}

func seedDesign(t *testing.T, db *database.DatabaseClient, roomID uuid.UUID) *models.Design {
	t.Helper()
	design := &models.Design{RoomID: roomID, AIProvider: models.ProviderOpenAI, Status: models.DesignStatusPending}
	require.NoError(t, db.CreateDesign(context.Background(), design))
	return design
}

func TestDesignTransitions_HappyPath(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	room := seedRoom(t, db, uuid.New())
	design := seedDesign(t, db, room.ID)

	require.NoError(t, db.MarkDesignProcessing(ctx, design.ID))
	require.NoError(t, db.MarkDesignCompleted(ctx, design.ID, models.DesignResult{
		ImageURL:       "https://img/1.png",
		Prompt:         "a calm bedroom",
		Metadata:       map[string]interface{}{"allImageUrls": []string{"https://img/1.png"}},
		ProcessingTime: 1200,
	}))

	got, err := db.GetDesign(ctx, design.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DesignStatusCompleted, got.Status)
	assert.Equal(t, "https://img/1.png", got.ImageURL)
	assert.Equal(t, "a calm bedroom", got.Prompt)
	require.NotNil(t, got.ProcessingTime)
	assert.Equal(t, int64(1200), *got.ProcessingTime)
	assert.Nil(t, got.ErrorMessage)
	assert.Equal(t, []interface{}{"https://img/1.png"}, got.Metadata["allImageUrls"])
}

func TestDesignTransitions_TerminalIsFinal(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	room := seedRoom(t, db, uuid.New())
	design := seedDesign(t, db, room.ID)

	require.NoError(t, db.MarkDesignProcessing(ctx, design.ID))
	require.NoError(t, db.MarkDesignFailed(ctx, design.ID, 50, "boom"))

	err := db.MarkDesignCompleted(ctx, design.ID, models.DesignResult{ImageURL: "late"})
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidTransition))
	err = db.MarkDesignProcessing(ctx, design.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidTransition))

	got, err := db.GetDesign(ctx, design.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DesignStatusFailed, got.Status)
	assert.Empty(t, got.ImageURL)
	require.NotNil(t, got.ErrorMessage)
	assert.Equal(t, "boom", *got.ErrorMessage)
}

func TestDesignTransitions_MissingDesign(t *testing.T) {
	db := dbtest.New(t)

	err := db.MarkDesignProcessing(context.Background(), uuid.New())
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestListDesigns_ScopedToOwner(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()
	aliceRoom := seedRoom(t, db, alice)
	bobRoom := seedRoom(t, db, bob)
	a1 := seedDesign(t, db, aliceRoom.ID)
	seedDesign(t, db, aliceRoom.ID)
	seedDesign(t, db, bobRoom.ID)

	designs, total, err := db.ListDesigns(ctx, alice, models.DesignFilter{}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, d := range designs {
		assert.Equal(t, aliceRoom.ID, d.RoomID)
	}

	designs, total, err = db.ListDesigns(ctx, alice, models.DesignFilter{RoomID: &bobRoom.ID}, 1, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, designs)

	require.NoError(t, db.MarkDesignProcessing(ctx, a1.ID))
	processing := models.DesignStatusProcessing
	designs, total, err = db.ListDesigns(ctx, alice, models.DesignFilter{Status: &processing}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, a1.ID, designs[0].ID)
}

func TestListDesigns_Pagination(t *testing.T) {
	db := dbtest.New(t)
	userID := uuid.New()
	room := seedRoom(t, db, userID)
	for i := 0; i < 5; i++ {
		seedDesign(t, db, room.ID)
	}

	designs, total, err := db.ListDesigns(context.Background(), userID, models.DesignFilter{}, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, designs, 2)
}

func TestDeleteRoom_CascadesDesigns(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	room := seedRoom(t, db, uuid.New())
	design := seedDesign(t, db, room.ID)

	require.NoError(t, db.DeleteRoom(ctx, room.ID))

	_, err := db.GetDesign(ctx, design.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestListStaleDesigns(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	room := seedRoom(t, db, uuid.New())
	stale := seedDesign(t, db, room.ID)
	fresh := seedDesign(t, db, room.ID)
	done := seedDesign(t, db, room.ID)
	require.NoError(t, db.MarkDesignFailed(ctx, done.ID, 1, "x"))

	old := time.Now().Add(-time.Hour)
	require.NoError(t, db.DB().Model(&models.Design{}).Where("id IN ?", []string{stale.ID.String(), done.ID.String()}).Update("updated_at", old).Error)

	designs, err := db.ListStaleDesigns(ctx, time.Now().Add(-15*time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, designs, 1)
	assert.Equal(t, stale.ID, designs[0].ID)
	assert.NotEqual(t, fresh.ID, designs[0].ID)
}

func TestOwners(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	userID := uuid.New()
	room := seedRoom(t, db, userID)
	design := seedDesign(t, db, room.ID)

	owner, err := db.DesignOwner(ctx, design.ID)
	require.NoError(t, err)
	assert.Equal(t, userID, owner)

	owner, err = db.RoomOwner(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, userID, owner)

	_, err = db.DesignOwner(ctx, uuid.New())
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestListDesigns_FilterByProvider(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	userID := uuid.New()
	room := seedRoom(t, db, userID)
	openaiDesign := seedDesign(t, db, room.ID)
	replicateDesign := &models.Design{RoomID: room.ID, AIProvider: models.ProviderReplicate, Status: models.DesignStatusPending}
	require.NoError(t, db.CreateDesign(ctx, replicateDesign))

	assert.True(t, db.DB().Migrator().HasColumn(&models.Design{}, "ai_provider"))

	provider := models.ProviderReplicate
	designs, total, err := db.ListDesigns(ctx, userID, models.DesignFilter{AIProvider: &provider}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, designs, 1)
	assert.Equal(t, replicateDesign.ID, designs[0].ID)
	assert.NotEqual(t, openaiDesign.ID, designs[0].ID)
}
