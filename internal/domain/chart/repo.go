package chart

import (
	"context"

	"github.com/google/uuid"
)

// Repository provides read access to a patient's clinical data and the
// write paths used by the demo seeder.
type Repository interface {
	Snapshot(ctx context.Context, patientID uuid.UUID) (*Snapshot, error)

	AddVital(ctx context.Context, v *Vital) error
	AddLabResult(ctx context.Context, l *LabResult) error
	AddCondition(ctx context.Context, c *Condition) error
	AddImagingStudy(ctx context.Context, s *ImagingStudy) error
	AddMedication(ctx context.Context, m *Medication) error
}
