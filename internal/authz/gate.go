// Package authz resolves resource ownership through the Design -> Room -> Project -> user chain.
package authz

import (
	"context"

	"github.com/google/uuid"

	"interior-design-backend/internal/apperr"
)

// OwnerLookup returns the owning user of each resource kind, or a NOT_FOUND error.
type OwnerLookup interface {
	ProjectOwner(ctx context.Context, projectID uuid.UUID) (uuid.UUID, error)
	RoomOwner(ctx context.Context, roomID uuid.UUID) (uuid.UUID, error)
	DesignOwner(ctx context.Context, designID uuid.UUID) (uuid.UUID, error)
	UploadOwner(ctx context.Context, uploadID uuid.UUID) (uuid.UUID, error)
}

type Gate struct {
	owners OwnerLookup
}

func NewGate(owners OwnerLookup) *Gate {
	return &Gate{owners: owners}
}

func (g *Gate) Project(ctx context.Context, userID, projectID uuid.UUID) error {
	return check(ctx, userID, projectID, "project", g.owners.ProjectOwner)
}

func (g *Gate) Room(ctx context.Context, userID, roomID uuid.UUID) error {
	return check(ctx, userID, roomID, "room", g.owners.RoomOwner)
}

func (g *Gate) Design(ctx context.Context, userID, designID uuid.UUID) error {
	return check(ctx, userID, designID, "design", g.owners.DesignOwner)
}

func (g *Gate) Upload(ctx context.Context, userID, uploadID uuid.UUID) error {
	return check(ctx, userID, uploadID, "upload", g.owners.UploadOwner)
}

func check(ctx context.Context, userID, id uuid.UUID, resource string, lookup func(context.Context, uuid.UUID) (uuid.UUID, error)) error {
	owner, err := lookup(ctx, id)
	if err != nil {
		return err
	}
	if owner != userID {
		return apperr.AccessDenied(resource)
	}
	return nil
}
