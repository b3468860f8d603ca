package gcs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"interior-design-backend/internal/gcs"
)

func TestPublicURL(t *testing.T) {
	assert.Equal(t,
		"https://storage.googleapis.com/designs/users/u1/uploads/a.jpg",
		gcs.PublicURL("", "designs", "users/u1/uploads/a.jpg"))
	assert.Equal(t,
		"https://storage.googleapis.com/designs/users/u1/uploads/a.jpg",
		gcs.PublicURL("https://storage.googleapis.com", "designs", "users/u1/uploads/a.jpg"))
	assert.Equal(t,
		"https://cdn.example.com/generated/room%20one.png",
		gcs.PublicURL("https://cdn.example.com/", "designs", "generated/room one.png"))
}
