package notes

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// memRepo is an in-memory Repository for service tests.
type memRepo struct {
	notes        map[uuid.UUID]*Note
	versions     map[uuid.UUID][]NoteVersion
	cosigns      map[uuid.UUID][]Cosignature
	attestations map[uuid.UUID][]Attestation
	addendums    map[uuid.UUID][]Addendum
}

func newMemRepo() *memRepo {
	return &memRepo{
		notes:        make(map[uuid.UUID]*Note),
		versions:     make(map[uuid.UUID][]NoteVersion),
		cosigns:      make(map[uuid.UUID][]Cosignature),
		attestations: make(map[uuid.UUID][]Attestation),
		addendums:    make(map[uuid.UUID][]Addendum),
	}
}

func (r *memRepo) Create(_ context.Context, n *Note) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	n.VersionID = 1
	cp := *n
	r.notes[n.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id uuid.UUID) (*Note, error) {
	n, ok := r.notes[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *n
	return &cp, nil
}

func (r *memRepo) Update(_ context.Context, n *Note) error {
	cur, ok := r.notes[n.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if cur.VersionID != n.VersionID {
		return ErrStaleNote
	}
	n.VersionID++
	cp := *n
	r.notes[n.ID] = &cp
	return nil
}

func (r *memRepo) List(_ context.Context, patientID *uuid.UUID, statuses []string, limit, offset int) ([]*Note, int, error) {
	var out []*Note
	for _, n := range r.notes {
		if patientID != nil && n.PatientID != *patientID {
			continue
		}
		if len(statuses) > 0 {
			match := false
			for _, st := range statuses {
				if n.Status == st {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		cp := *n
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *memRepo) AddVersion(_ context.Context, v *NoteVersion) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.versions[v.NoteID] = append(r.versions[v.NoteID], *v)
	return nil
}

func (r *memRepo) ListVersions(_ context.Context, noteID uuid.UUID) ([]NoteVersion, error) {
	return r.versions[noteID], nil
}

func (r *memRepo) AddCosignature(_ context.Context, cs *Cosignature) error {
	if cs.ID == uuid.Nil {
		cs.ID = uuid.New()
	}
	r.cosigns[cs.NoteID] = append(r.cosigns[cs.NoteID], *cs)
	return nil
}

func (r *memRepo) ListCosignatures(_ context.Context, noteID uuid.UUID) ([]Cosignature, error) {
	return r.cosigns[noteID], nil
}

func (r *memRepo) AddAttestation(_ context.Context, at *Attestation) error {
	if at.ID == uuid.Nil {
		at.ID = uuid.New()
	}
	r.attestations[at.NoteID] = append(r.attestations[at.NoteID], *at)
	return nil
}

func (r *memRepo) ListAttestations(_ context.Context, noteID uuid.UUID) ([]Attestation, error) {
	return r.attestations[noteID], nil
}

func (r *memRepo) AddAddendum(_ context.Context, ad *Addendum) error {
	if ad.ID == uuid.Nil {
		ad.ID = uuid.New()
	}
	r.addendums[ad.NoteID] = append(r.addendums[ad.NoteID], *ad)
	return nil
}

func (r *memRepo) ListAddendums(_ context.Context, noteID uuid.UUID) ([]Addendum, error) {
	return r.addendums[noteID], nil
}

func newTestNote(repo *memRepo, t *testing.T, content, status string) *Note {
	t.Helper()
	svc := NewService(repo)
	n := &Note{
		PatientID:  uuid.New(),
		NoteType:   "Progress Note",
		Service:    "Hospitalist",
		Author:     "Dr. A",
		AuthorRole: "physician",
		Content:    content,
		Status:     status,
	}
	if err := svc.Create(context.Background(), n); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return n
}

func TestCreateDefaultsToDraftAndRecordsVersion(t *testing.T) {
	repo := newMemRepo()
	n := newTestNote(repo, t, "initial text", "")

	if n.Status != StatusDraft {
		t.Errorf("status = %q, want draft", n.Status)
	}
	versions := repo.versions[n.ID]
	if len(versions) != 1 || versions[0].Action != ActionCreated {
		t.Fatalf("expected single created version, got %+v", versions)
	}
}

func TestCreateSignedRejectedWithPlaceholders(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	n := &Note{PatientID: uuid.New(), Author: "Dr. A", Content: "has *** left *** in it", Status: StatusSigned}

	err := svc.Create(context.Background(), n)
	var unresolved *UnresolvedPlaceholdersError
	if !errors.As(err, &unresolved) {
		t.Fatalf("expected UnresolvedPlaceholdersError, got %v", err)
	}
	if unresolved.Count != 1 {
		t.Errorf("count = %d, want 1", unresolved.Count)
	}
	if len(repo.notes) != 0 {
		t.Error("rejected create should not persist a note")
	}
}

func TestSignGateRejectsAndLeavesNoteUntouched(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	n := newTestNote(repo, t, "Patient reports *** symptoms ***", StatusDraft)
	versionsBefore := len(repo.versions[n.ID])

	_, err := svc.Transition(context.Background(), n.ID, StatusSigned, n.VersionID)
	var unresolved *UnresolvedPlaceholdersError
	if !errors.As(err, &unresolved) {
		t.Fatalf("expected UnresolvedPlaceholdersError, got %v", err)
	}

	stored := repo.notes[n.ID]
	if stored.Status != StatusDraft {
		t.Errorf("status changed to %q on rejected sign", stored.Status)
	}
	if len(repo.versions[n.ID]) != versionsBefore {
		t.Error("rejected sign appended a version")
	}
}

func TestSignSucceedsWhenClean(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	n := newTestNote(repo, t, "Patient reports improved breathing.", StatusDraft)

	signed, err := svc.Transition(context.Background(), n.ID, StatusSigned, n.VersionID)
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if signed.Status != StatusSigned {
		t.Errorf("status = %q, want signed", signed.Status)
	}
}

func TestSignedNoteReeditRevalidates(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	n := newTestNote(repo, t, "clean", StatusSigned)

	// pull back to draft, reintroduce placeholders, try to re-sign
	updated, err := svc.Transition(context.Background(), n.ID, StatusDraft, n.VersionID)
	if err != nil {
		t.Fatalf("Transition to draft: %v", err)
	}
	updated, _, err = svc.UpdateContent(context.Background(), n.ID, "now with *** gap ***", "Dr. A", updated.VersionID)
	if err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}
	if _, err := svc.Transition(context.Background(), n.ID, StatusSigned, updated.VersionID); err == nil {
		t.Fatal("re-sign with placeholders should fail")
	}
}

func TestSignedNoteEditGatedOnPlaceholders(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	n := newTestNote(repo, t, "clean signed text", StatusSigned)
	versionsBefore := len(repo.versions[n.ID])

	_, _, err := svc.UpdateContent(context.Background(), n.ID, "now has *** unresolved *** fields", "Dr. A", n.VersionID)
	var unresolved *UnresolvedPlaceholdersError
	if !errors.As(err, &unresolved) {
		t.Fatalf("expected UnresolvedPlaceholdersError, got %v", err)
	}

	stored := repo.notes[n.ID]
	if stored.Status != StatusSigned || stored.Content != "clean signed text" {
		t.Errorf("rejected edit mutated the note: status=%q content=%q", stored.Status, stored.Content)
	}
	if len(repo.versions[n.ID]) != versionsBefore {
		t.Error("rejected edit appended a version")
	}

	// clean replacement text is still allowed while signed
	updated, _, err := svc.UpdateContent(context.Background(), n.ID, "corrected signed text", "Dr. A", n.VersionID)
	if err != nil {
		t.Fatalf("clean edit of signed note: %v", err)
	}
	if updated.Status != StatusSigned {
		t.Errorf("status = %q, want signed", updated.Status)
	}
}

func TestUpdateContentSnapshotsPriorText(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	n := newTestNote(repo, t, "first draft", StatusDraft)

	updated, warning, err := svc.UpdateContent(context.Background(), n.ID, "second draft", "Dr. A", n.VersionID)
	if err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}
	if warning {
		t.Error("same-author edit should not warn")
	}
	if updated.Content != "second draft" {
		t.Errorf("content = %q", updated.Content)
	}

	versions := repo.versions[n.ID]
	last := versions[len(versions)-1]
	if last.Action != ActionEdited {
		t.Errorf("last version action = %q, want edited", last.Action)
	}
	if last.Content != "first draft" {
		t.Errorf("version snapshot = %q, want pre-edit content", last.Content)
	}
}

func TestUpdateContentDifferentAuthorWarnsButProceeds(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	n := newTestNote(repo, t, "original", StatusDraft)

	updated, warning, err := svc.UpdateContent(context.Background(), n.ID, "edited by B", "Dr. B", n.VersionID)
	if err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}
	if !warning {
		t.Error("cross-author edit should warn")
	}
	if updated.Content != "edited by B" {
		t.Error("warned edit should still apply")
	}

	versions := repo.versions[n.ID]
	if versions[len(versions)-1].Author != "Dr. B" {
		t.Errorf("version author = %q, want the editor", versions[len(versions)-1].Author)
	}
}

func TestStaleUpdateRejected(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	n := newTestNote(repo, t, "v1", StatusDraft)

	if _, _, err := svc.UpdateContent(context.Background(), n.ID, "v2", "Dr. A", n.VersionID); err != nil {
		t.Fatalf("first update: %v", err)
	}
	// second writer still holds the old version id
	_, _, err := svc.UpdateContent(context.Background(), n.ID, "v2-conflict", "Dr. B", n.VersionID)
	if !errors.Is(err, ErrStaleNote) {
		t.Fatalf("expected ErrStaleNote, got %v", err)
	}
}

func TestCosignRequiresSignedNote(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	n := newTestNote(repo, t, "clean", StatusDraft)

	if _, err := svc.Cosign(context.Background(), n.ID, "Dr. C", "attending"); !errors.Is(err, ErrNotSigned) {
		t.Fatalf("expected ErrNotSigned, got %v", err)
	}
}

func TestCosignAppendsEndorsementAndVersion(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	n := newTestNote(repo, t, "clean", StatusSigned)
	before := len(repo.versions[n.ID])

	cs, err := svc.Cosign(context.Background(), n.ID, "Dr. C", "attending")
	if err != nil {
		t.Fatalf("Cosign: %v", err)
	}
	if cs.Name != "Dr. C" {
		t.Errorf("cosigner = %q", cs.Name)
	}
	versions := repo.versions[n.ID]
	if len(versions) != before+1 || versions[len(versions)-1].Action != ActionCosigned {
		t.Fatalf("expected appended cosigned version, got %+v", versions)
	}
	if repo.notes[n.ID].Status != StatusSigned {
		t.Error("cosign must not change status")
	}
}

func TestAttestAppendsVersion(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	n := newTestNote(repo, t, "clean", StatusSigned)

	if _, err := svc.Attest(context.Background(), n.ID, "Dr. D", "resident"); err != nil {
		t.Fatalf("Attest: %v", err)
	}
	versions := repo.versions[n.ID]
	if versions[len(versions)-1].Action != ActionAttested {
		t.Fatalf("last action = %q, want attested", versions[len(versions)-1].Action)
	}
}

func TestAddendumDoesNotTouchContentOrVersions(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	n := newTestNote(repo, t, "final text", StatusSigned)
	versionsBefore := len(repo.versions[n.ID])

	ad, err := svc.AddAddendum(context.Background(), n.ID, "Dr. E", "physician", "late lab back, unchanged plan")
	if err != nil {
		t.Fatalf("AddAddendum: %v", err)
	}
	if ad.Content == "" || ad.ID == uuid.Nil {
		t.Fatalf("addendum not populated: %+v", ad)
	}
	if repo.notes[n.ID].Content != "final text" {
		t.Error("addendum mutated primary content")
	}
	if len(repo.versions[n.ID]) != versionsBefore {
		t.Error("addendum should not append a version entry")
	}
	if len(repo.addendums[n.ID]) != 1 {
		t.Error("addendum not recorded")
	}
}

func TestAddendumRequiresSignedNote(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	n := newTestNote(repo, t, "clean", StatusPended)

	if _, err := svc.AddAddendum(context.Background(), n.ID, "Dr. E", "physician", "text"); !errors.Is(err, ErrNotSigned) {
		t.Fatalf("expected ErrNotSigned, got %v", err)
	}
}

func TestVersionMonotonicity(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	n := newTestNote(repo, t, "clean", StatusSigned)

	prev := len(repo.versions[n.ID])
	vid := n.VersionID
	ops := []func() error{
		func() error {
			_, _, err := svc.UpdateContent(context.Background(), n.ID, "edit 1", "Dr. A", vid)
			vid++
			return err
		},
		func() error { _, err := svc.Cosign(context.Background(), n.ID, "Dr. C", "attending"); return err },
		func() error { _, err := svc.Attest(context.Background(), n.ID, "Dr. D", "resident"); return err },
	}
	for i, op := range ops {
		if err := op(); err != nil {
			t.Fatalf("op %d: %v", i, err)
		}
		cur := len(repo.versions[n.ID])
		if cur < prev {
			t.Fatalf("versions shrank after op %d: %d -> %d", i, prev, cur)
		}
		prev = cur
	}
}

func TestGetHydratesCollections(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	n := newTestNote(repo, t, "clean", StatusSigned)

	if _, err := svc.Cosign(context.Background(), n.ID, "Dr. C", "attending"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddAddendum(context.Background(), n.ID, "Dr. E", "physician", "addendum"); err != nil {
		t.Fatal(err)
	}

	full, err := svc.Get(context.Background(), n.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(full.Versions) == 0 || len(full.Cosigners) != 1 || len(full.Addendums) != 1 {
		t.Fatalf("collections not hydrated: %d versions, %d cosigners, %d addendums",
			len(full.Versions), len(full.Cosigners), len(full.Addendums))
	}
}
