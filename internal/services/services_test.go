package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interior-design-backend/internal/apperr"
	"interior-design-backend/internal/artifacts"
	"interior-design-backend/internal/authz"
	"interior-design-backend/internal/database"
	"interior-design-backend/internal/database/dbtest"
	"interior-design-backend/internal/logger"
	"interior-design-backend/internal/models"
	"interior-design-backend/internal/services"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)

type fixture struct {
	db       *database.DatabaseClient
	store    *artifacts.MemoryStore
	projects *services.ProjectService
	rooms    *services.RoomService
	uploads  *services.UploadService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.New(t)
	gate := authz.NewGate(db)
	store := artifacts.NewMemoryStore("https://cdn.test")
	log := logger.Nop()
	return &fixture{
		db:       db,
		store:    store,
		projects: services.NewProjectService(db, gate, store, log),
		rooms:    services.NewRoomService(db, gate, store, log, 1024),
		uploads:  services.NewUploadService(db, gate, store, log, 1024),
	}
}

func (f *fixture) project(t *testing.T, userID uuid.UUID) *models.Project {
	t.Helper()
	p, err := f.projects.Create(context.Background(), userID, models.CreateProjectRequest{Name: "Loft", Style: "industrial"})
	require.NoError(t, err)
	return p
}

func (f *fixture) room(t *testing.T, userID, projectID uuid.UUID) *models.Room {
	t.Helper()
	r, err := f.rooms.Create(context.Background(), userID, projectID, models.CreateRoomRequest{
		Name: "Kitchen", Type: "kitchen", Length: 3, Width: 3, Height: 2.5, Materials: []string{" marble ", ""},
	})
	require.NoError(t, err)
	return r
}

func TestProjectService_CRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner, stranger := uuid.New(), uuid.New()

	_, err := f.projects.Create(ctx, owner, models.CreateProjectRequest{Name: "x", Style: "GOTHIC"})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	p := f.project(t, owner)
	assert.Equal(t, "INDUSTRIAL", p.Style)

	_, err = f.projects.Get(ctx, stranger, p.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindAccessDenied))

	name := "Loft 2"
	updated, err := f.projects.Update(ctx, owner, p.ID, models.UpdateProjectRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Loft 2", updated.Name)
	assert.Equal(t, "INDUSTRIAL", updated.Style)

	f.project(t, owner)
	f.project(t, stranger)
	list, page, err := f.projects.List(ctx, owner, 1, 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, models.DefaultPageLimit, page.Limit)
}

func TestProjectService_DeleteCascadesAndClearsPhotos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := uuid.New()
	p := f.project(t, owner)
	r := f.room(t, owner, p.ID)
	r, err := f.rooms.SetImage(ctx, owner, r.ID, services.File{Filename: "k.png", Data: pngBytes})
	require.NoError(t, err)
	require.NotNil(t, r.ImageKey)
	require.True(t, f.store.Has(*r.ImageKey))

	require.NoError(t, f.projects.Delete(ctx, owner, p.ID))

	_, err = f.rooms.Get(ctx, owner, r.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	assert.False(t, f.store.Has(*r.ImageKey))
}

func TestRoomService_CreateValidatesAndCleans(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := uuid.New()
	p := f.project(t, owner)

	r := f.room(t, owner, p.ID)
	assert.Equal(t, "KITCHEN", r.Type)
	assert.Equal(t, []string{"marble"}, []string(r.Materials))

	_, err := f.rooms.Create(ctx, owner, p.ID, models.CreateRoomRequest{Name: "x", Type: "GARAGE", Length: 1, Width: 1, Height: 1})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = f.rooms.Create(ctx, uuid.New(), p.ID, models.CreateRoomRequest{Name: "x", Type: "KITCHEN", Length: 1, Width: 1, Height: 1})
	assert.True(t, apperr.IsKind(err, apperr.KindAccessDenied))

	zero := 0.0
	_, err = f.rooms.Update(ctx, owner, r.ID, models.UpdateRoomRequest{Width: &zero})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	width := 4.2
	updated, err := f.rooms.Update(ctx, owner, r.ID, models.UpdateRoomRequest{Width: &width})
	require.NoError(t, err)
	assert.Equal(t, 4.2, updated.Width)
	assert.Equal(t, 3.0, updated.Length)
}

func TestRoomService_SetImageReplacesOldPhoto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := uuid.New()
	r := f.room(t, owner, f.project(t, owner).ID)

	first, err := f.rooms.SetImage(ctx, owner, r.ID, services.File{Filename: "a.png", Data: pngBytes})
	require.NoError(t, err)
	second, err := f.rooms.SetImage(ctx, owner, r.ID, services.File{Filename: "b.png", Data: pngBytes})
	require.NoError(t, err)

	assert.NotEqual(t, *first.ImageKey, *second.ImageKey)
	assert.False(t, f.store.Has(*first.ImageKey))
	assert.True(t, f.store.Has(*second.ImageKey))
	assert.Equal(t, "https://cdn.test/"+*second.ImageKey, *second.ImageURL)

	_, err = f.rooms.SetImage(ctx, owner, r.ID, services.File{Filename: "c.txt", Data: []byte("not an image")})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestUploadService_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner, stranger := uuid.New(), uuid.New()
	r := f.room(t, owner, f.project(t, owner).ID)

	upload, err := f.uploads.Create(ctx, owner, &r.ID, services.File{Filename: "dir/photo.PNG", Data: pngBytes})
	require.NoError(t, err)
	assert.Equal(t, "photo.PNG", upload.Filename)
	assert.Equal(t, "image/png", upload.MimeType)
	assert.Equal(t, int64(len(pngBytes)), upload.Size)
	assert.True(t, f.store.Has(upload.StorageKey))

	_, err = f.uploads.Create(ctx, stranger, &r.ID, services.File{Filename: "x.png", Data: pngBytes})
	assert.True(t, apperr.IsKind(err, apperr.KindAccessDenied))

	_, err = f.uploads.Create(ctx, owner, nil, services.File{Filename: "big.png", Data: make([]byte, 2048)})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = f.uploads.Get(ctx, stranger, upload.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindAccessDenied))

	list, page, err := f.uploads.List(ctx, owner, 1, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, int64(1), page.Total)

	f.store.DeleteErr = errors.New("bucket unavailable")
	require.NoError(t, f.uploads.Delete(ctx, owner, upload.ID))
	_, err = f.uploads.Get(ctx, owner, upload.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestUploadService_KeyFollowsSniffedType(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := uuid.New()
	r := f.room(t, owner, f.project(t, owner).ID)
	jpegBytes := append([]byte("\xff\xd8\xff\xe0"), make([]byte, 32)...)

	upload, err := f.uploads.Create(ctx, owner, nil, services.File{Filename: "holiday.png", Data: jpegBytes})
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", upload.MimeType)
	assert.True(t, strings.HasSuffix(upload.StorageKey, ".jpg"), upload.StorageKey)

	room, err := f.rooms.SetImage(ctx, owner, r.ID, services.File{Filename: "room.jpeg", Data: pngBytes})
	require.NoError(t, err)
	require.NotNil(t, room.ImageKey)
	assert.True(t, strings.HasSuffix(*room.ImageKey, ".png"), *room.ImageKey)
}
