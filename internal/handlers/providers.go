package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"interior-design-backend/internal/ai"
	"interior-design-backend/internal/models"
)

type CatalogHandler struct {
	providers       *ai.Registry
	defaultProvider string
}

func NewCatalogHandler(providers *ai.Registry, defaultProvider string) *CatalogHandler {
	return &CatalogHandler{providers: providers, defaultProvider: defaultProvider}
}

// GetCatalog godoc
// @Summary     Configured AI providers, room types and styles
// @Tags        catalog
// @Security    Bearer
// @Produce     json
// @Success     200 {object} models.CatalogResponse
// @Router      /providers [get]
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, models.CatalogResponse{
		Providers:       h.providers.Names(),
		DefaultProvider: h.defaultProvider,
		RoomTypes:       models.RoomTypes,
		Styles:          models.Styles,
	})
}
