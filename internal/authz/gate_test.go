package authz_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interior-design-backend/internal/apperr"
	"interior-design-backend/internal/authz"
	"interior-design-backend/internal/database/dbtest"
	"interior-design-backend/internal/models"
)

func TestGate_Chain(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	owner, stranger := uuid.New(), uuid.New()

	project := &models.Project{UserID: owner, Name: "Cabin", Style: "RUSTIC"}
	require.NoError(t, db.CreateProject(ctx, project))
	room := &models.Room{ProjectID: project.ID, Name: "Den", Type: "LIVING_ROOM", Length: 5, Width: 4, Height: 3}
	require.NoError(t, db.CreateRoom(ctx, room))
	design := &models.Design{RoomID: room.ID, AIProvider: models.ProviderOpenAI, Status: models.DesignStatusPending}
	require.NoError(t, db.CreateDesign(ctx, design))
	upload := &models.Upload{UserID: owner, Filename: "den.jpg", URL: "u", StorageKey: "k", Size: 1, MimeType: "image/jpeg"}
	require.NoError(t, db.CreateUpload(ctx, upload))

	gate := authz.NewGate(db)

	assert.NoError(t, gate.Project(ctx, owner, project.ID))
	assert.NoError(t, gate.Room(ctx, owner, room.ID))
	assert.NoError(t, gate.Design(ctx, owner, design.ID))
	assert.NoError(t, gate.Upload(ctx, owner, upload.ID))

	for name, err := range map[string]error{
		"project": gate.Project(ctx, stranger, project.ID),
		"room":    gate.Room(ctx, stranger, room.ID),
		"design":  gate.Design(ctx, stranger, design.ID),
		"upload":  gate.Upload(ctx, stranger, upload.ID),
	} {
		assert.True(t, apperr.IsKind(err, apperr.KindAccessDenied), name)
	}

	assert.True(t, apperr.IsKind(gate.Design(ctx, owner, uuid.New()), apperr.KindNotFound))
	assert.True(t, apperr.IsKind(gate.Room(ctx, stranger, uuid.New()), apperr.KindNotFound))
}
