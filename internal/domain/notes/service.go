package notes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrStaleNote means the note's version_id no longer matches: another
	// session saved first. The caller should reload and retry.
	ErrStaleNote = errors.New("note was updated by another session")

	// ErrNotSigned guards cosign, attest and addendum operations, which are
	// only meaningful on signed notes.
	ErrNotSigned = errors.New("note is not signed")

	ErrInvalidStatus = errors.New("invalid note status")
)

// UnresolvedPlaceholdersError rejects a sign attempt. Count is the number of
// complete placeholder pairs still present, surfaced so the editor can tell
// the user how many fields remain.
type UnresolvedPlaceholdersError struct {
	Count int
}

func (e *UnresolvedPlaceholdersError) Error() string {
	return fmt.Sprintf("note has %d unresolved placeholder(s)", e.Count)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// signGate rejects content that still carries placeholder markers.
func signGate(content string) error {
	if ContainsPlaceholder(content) {
		return &UnresolvedPlaceholdersError{Count: PlaceholderCount(content)}
	}
	return nil
}

// Create stores a new note. The author may create directly into any status;
// creating as signed runs the placeholder gate. Creation records an initial
// version with action "created".
func (s *Service) Create(ctx context.Context, n *Note) error {
	if n.Status == "" {
		n.Status = StatusDraft
	}
	if !ValidStatus(n.Status) {
		return ErrInvalidStatus
	}
	if n.Status == StatusSigned {
		if err := signGate(n.Content); err != nil {
			return err
		}
	}
	now := time.Now().UTC()
	if n.Date.IsZero() {
		n.Date = now
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	return s.repo.AddVersion(ctx, &NoteVersion{
		NoteID:  n.ID,
		Content: n.Content,
		Author:  n.Author,
		Action:  ActionCreated,
		Date:    now,
	})
}

// Get loads a note with its full audit collections.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Note, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.Versions, err = s.repo.ListVersions(ctx, id); err != nil {
		return nil, err
	}
	if n.Cosigners, err = s.repo.ListCosignatures(ctx, id); err != nil {
		return nil, err
	}
	if n.Attestations, err = s.repo.ListAttestations(ctx, id); err != nil {
		return nil, err
	}
	if n.Addendums, err = s.repo.ListAddendums(ctx, id); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Service) List(ctx context.Context, patientID *uuid.UUID, statuses []string, limit, offset int) ([]*Note, int, error) {
	for _, st := range statuses {
		if !ValidStatus(st) {
			return nil, 0, ErrInvalidStatus
		}
	}
	return s.repo.List(ctx, patientID, statuses, limit, offset)
}

// UpdateContent replaces the note text. The prior content is snapshotted as
// an "edited" version before the new text lands. The returned warning is true
// when the editor is not the note's original author; the edit still proceeds.
// Editing a note that is already signed re-runs the placeholder gate on the
// incoming text, so a signed note can never re-acquire unresolved markers.
// expectedVersionID guards against concurrent editors.
func (s *Service) UpdateContent(ctx context.Context, id uuid.UUID, content, editor string, expectedVersionID int) (*Note, bool, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if n.Status == StatusSigned {
		if err := signGate(content); err != nil {
			return nil, false, err
		}
	}
	warning := editor != "" && editor != n.Author

	now := time.Now().UTC()
	prior := n.Content

	n.Content = content
	n.Date = now
	n.VersionID = expectedVersionID
	if err := s.repo.Update(ctx, n); err != nil {
		return nil, warning, err
	}

	// version rows are appended only after the guarded write succeeds
	if err := s.repo.AddVersion(ctx, &NoteVersion{
		NoteID:  n.ID,
		Content: prior,
		Author:  editor,
		Action:  ActionEdited,
		Date:    now,
	}); err != nil {
		return nil, warning, err
	}
	return n, warning, nil
}

// Transition moves the note to a new status. Any status can reach any other;
// the signed target re-runs the placeholder gate every time, and a rejection
// leaves the note untouched. Status changes alone do not append versions.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, target string, expectedVersionID int) (*Note, error) {
	if !ValidStatus(target) {
		return nil, ErrInvalidStatus
	}
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if target == StatusSigned {
		if err := signGate(n.Content); err != nil {
			return nil, err
		}
	}
	n.Status = target
	n.VersionID = expectedVersionID
	if err := s.repo.Update(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// Cosign records a second clinician's endorsement of a signed note and a
// matching audit version. The note's status and content do not change.
func (s *Service) Cosign(ctx context.Context, noteID uuid.UUID, name, role string) (*Cosignature, error) {
	n, err := s.repo.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if n.Status != StatusSigned {
		return nil, ErrNotSigned
	}
	now := time.Now().UTC()
	cs := &Cosignature{NoteID: noteID, Name: name, Role: role, Date: now}
	if err := s.repo.AddCosignature(ctx, cs); err != nil {
		return nil, err
	}
	if err := s.repo.AddVersion(ctx, &NoteVersion{
		NoteID:  noteID,
		Content: n.Content,
		Author:  name,
		Action:  ActionCosigned,
		Date:    now,
	}); err != nil {
		return nil, err
	}
	return cs, nil
}

// Attest records a presence/agreement confirmation on a signed note,
// symmetric to Cosign.
func (s *Service) Attest(ctx context.Context, noteID uuid.UUID, name, role string) (*Attestation, error) {
	n, err := s.repo.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if n.Status != StatusSigned {
		return nil, ErrNotSigned
	}
	now := time.Now().UTC()
	at := &Attestation{NoteID: noteID, Name: name, Role: role, Date: now}
	if err := s.repo.AddAttestation(ctx, at); err != nil {
		return nil, err
	}
	if err := s.repo.AddVersion(ctx, &NoteVersion{
		NoteID:  noteID,
		Content: n.Content,
		Author:  name,
		Action:  ActionAttested,
		Date:    now,
	}); err != nil {
		return nil, err
	}
	return at, nil
}

// AddAddendum attaches supplementary text to a signed note. The primary
// content is untouched and no version entry is written; addendums live in
// their own append-only sequence.
func (s *Service) AddAddendum(ctx context.Context, noteID uuid.UUID, author, authorRole, content string) (*Addendum, error) {
	n, err := s.repo.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if n.Status != StatusSigned {
		return nil, ErrNotSigned
	}
	ad := &Addendum{
		NoteID:     noteID,
		Author:     author,
		AuthorRole: authorRole,
		Content:    content,
		Date:       time.Now().UTC(),
	}
	if err := s.repo.AddAddendum(ctx, ad); err != nil {
		return nil, err
	}
	return ad, nil
}

// Versions returns the note's audit trail in chronological order.
func (s *Service) Versions(ctx context.Context, noteID uuid.UUID) ([]NoteVersion, error) {
	if _, err := s.repo.GetByID(ctx, noteID); err != nil {
		return nil, err
	}
	return s.repo.ListVersions(ctx, noteID)
}
