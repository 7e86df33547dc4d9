package chart

import (
	"context"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetSnapshot returns the patient's current chart view. A patient with no
// recorded data yields an empty snapshot, not an error.
func (s *Service) GetSnapshot(ctx context.Context, patientID uuid.UUID) (*Snapshot, error) {
	return s.repo.Snapshot(ctx, patientID)
}
