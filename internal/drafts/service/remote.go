package service

import (
	"context"
	"encoding/json"

	"github.com/gate2way/gate2way-backend/internal/drafts/domain"
	"github.com/gate2way/gate2way-backend/internal/gateway"
)

// RemoteAPI is the part of the Gate2Way API the draft engine depends on.
// *gateway.Client satisfies it.
type RemoteAPI interface {
	ListProgramas(ctx context.Context) ([]domain.Option, error)
	ListImpulsos(ctx context.Context) ([]domain.Option, error)
	GetProjeto(ctx context.Context, id int) (*gateway.ProjectRecord, error)
	CreateProjeto(ctx context.Context, p *gateway.ProjectPayload) (json.RawMessage, error)
	UpdateProjeto(ctx context.Context, id int, p *gateway.ProjectPayload) (json.RawMessage, error)
}

var _ RemoteAPI = (*gateway.Client)(nil)
