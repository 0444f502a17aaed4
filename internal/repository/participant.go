package repository

import (
	"context"

	"race-registry/internal/domain"
)

// ParticipantRepository exposes the per-distance append-only registration logs.
type ParticipantRepository interface {
	Init(ctx context.Context) error
	Append(ctx context.Context, participant *domain.Participant) error
	ListByDistance(ctx context.Context, distance string) ([]domain.Participant, error)
	CountByDistance(ctx context.Context, distance string) (int, error)
}
