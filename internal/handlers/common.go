package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"interior-design-backend/internal/apperr"
	"interior-design-backend/internal/middleware"
	"interior-design-backend/internal/models"
	"interior-design-backend/internal/services"
)

// currentUser writes a 401 and returns false when the request carries no authenticated user.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found", Code: "UNAUTHORIZED"})
		return uuid.Nil, false
	}
	return userID, true
}

func pathID(c *gin.Context, param, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		respondError(c, apperr.Validation("invalid %s id", resource))
		return uuid.Nil, false
	}
	return id, true
}

// respondError renders err with the status of its apperr kind. Causes stay in the logs.
func respondError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = apperr.Internal("internal server error", err)
	}
	if appErr.Kind == apperr.KindInternal {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(appErr.Status(), models.ErrorResponse{
		Error: appErr.Message,
		Code:  string(appErr.Kind),
	})
}

func bindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "invalid request body",
		Message: err.Error(),
		Code:    string(apperr.KindValidation),
	})
}

// readImage reads the multipart "file" field, refusing anything larger than maxBytes.
func readImage(c *gin.Context, maxBytes int64) (services.File, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+1<<20)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, apperr.Validation("file exceeds %d bytes", maxBytes))
			return services.File{}, false
		}
		respondError(c, apperr.Validation("multipart field \"file\" is required"))
		return services.File{}, false
	}
	if header.Size > maxBytes {
		respondError(c, apperr.Validation("file exceeds %d bytes", maxBytes))
		return services.File{}, false
	}

	src, err := header.Open()
	if err != nil {
		respondError(c, apperr.Internal("failed to open file", err))
		return services.File{}, false
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxBytes+1))
	if err != nil {
		respondError(c, apperr.Internal("failed to read file data", fmt.Errorf("read %s: %w", header.Filename, err)))
		return services.File{}, false
	}
	return services.File{Filename: header.Filename, Data: data}, true
}

func pageItems[T any, M any](items []M, toResponse func(*M) T, pagination models.Pagination) models.PageResponse[T] {
	out := make([]T, 0, len(items))
	for i := range items {
		out = append(out, toResponse(&items[i]))
	}
	return models.PageResponse[T]{Items: out, Pagination: pagination}
}
