package models_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
	"interior-design-backend/internal/models"
)

func TestNormalizePage(t *testing.T) {
	page, limit := models.NormalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, models.DefaultPageLimit, limit)

	page, limit = models.NormalizePage(3, 500)
	assert.Equal(t, 3, page)
	assert.Equal(t, models.MaxPageLimit, limit)
}

func TestNewPagination_TotalPages(t *testing.T) {
	assert.Equal(t, 0, models.NewPagination(1, 20, 0).TotalPages)
	assert.Equal(t, 1, models.NewPagination(1, 20, 20).TotalPages)
	assert.Equal(t, 3, models.NewPagination(1, 20, 41).TotalPages)
}

func TestNewDesignResponse_EmptyMetadataIsObject(t *testing.T) {
	d := &models.Design{ID: uuid.New(), RoomID: uuid.New(), Status: models.DesignStatusPending, AIProvider: models.ProviderOpenAI}

	resp := models.NewDesignResponse(d)
	assert.NotNil(t, resp.Metadata)
	assert.Empty(t, resp.ImageURL)
	assert.Nil(t, resp.ProcessingTime)
}

func TestNewRoomResponse_Materials(t *testing.T) {
	r := &models.Room{ID: uuid.New(), ProjectID: uuid.New(), Materials: datatypes.JSONSlice[string]{"oak", "linen"}}
	assert.Equal(t, []string{"oak", "linen"}, models.NewRoomResponse(r).Materials)

	r.Materials = nil
	assert.Equal(t, []string{}, models.NewRoomResponse(r).Materials)
}

func TestEnumValidation(t *testing.T) {
	assert.True(t, models.IsValidStyle("SCANDINAVIAN"))
	assert.False(t, models.IsValidStyle("scandinavian"))
	assert.True(t, models.IsValidRoomType("BEDROOM"))
	assert.True(t, models.IsValidAIProvider("REPLICATE"))
	assert.False(t, models.IsValidAIProvider("MIDJOURNEY"))
	assert.True(t, models.IsValidDesignStatus("FAILED"))
	assert.True(t, models.DesignStatusCompleted.IsTerminal())
	assert.False(t, models.DesignStatusProcessing.IsTerminal())
}
