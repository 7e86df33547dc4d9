package notes

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists notes and their append-only audit collections.
type Repository interface {
	Create(ctx context.Context, n *Note) error
	GetByID(ctx context.Context, id uuid.UUID) (*Note, error)
	// Update writes the note guarded by its version_id and increments it.
	// Returns ErrStaleNote when another session updated the row first.
	Update(ctx context.Context, n *Note) error
	List(ctx context.Context, patientID *uuid.UUID, statuses []string, limit, offset int) ([]*Note, int, error)

	AddVersion(ctx context.Context, v *NoteVersion) error
	ListVersions(ctx context.Context, noteID uuid.UUID) ([]NoteVersion, error)

	AddCosignature(ctx context.Context, cs *Cosignature) error
	ListCosignatures(ctx context.Context, noteID uuid.UUID) ([]Cosignature, error)

	AddAttestation(ctx context.Context, at *Attestation) error
	ListAttestations(ctx context.Context, noteID uuid.UUID) ([]Attestation, error)

	AddAddendum(ctx context.Context, ad *Addendum) error
	ListAddendums(ctx context.Context, noteID uuid.UUID) ([]Addendum, error)
}
