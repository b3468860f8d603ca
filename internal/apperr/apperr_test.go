package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"interior-design-backend/internal/apperr"
)

func TestKindOf_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("loading room: %w", apperr.NotFound("room"))

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	assert.False(t, apperr.IsKind(err, apperr.KindAccessDenied))
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(errors.New("plain")))
	assert.False(t, apperr.IsKind(nil, apperr.KindInternal))
}

func TestError_Status(t *testing.T) {
	cases := map[*apperr.Error]int{
		apperr.Validation("bad %s", "input"):        http.StatusBadRequest,
		apperr.NotFound("design"):                   http.StatusNotFound,
		apperr.AccessDenied("design"):               http.StatusForbidden,
		apperr.InvalidTransition("already done"):    http.StatusConflict,
		apperr.RateLimited("slow down"):             http.StatusTooManyRequests,
		apperr.Internal("boom", errors.New("cause")): http.StatusInternalServerError,
	}
	for err, status := range cases {
		assert.Equal(t, status, err.Status(), err.Error())
	}
}

func TestError_MessageAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := apperr.Internal("failed to load design", cause)

	assert.Equal(t, "failed to load design: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "access denied to room", apperr.AccessDenied("room").Error())
}
