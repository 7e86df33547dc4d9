package notes

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chartnote/chartnote/internal/platform/fhir"
)

// Note statuses. Any status may transition to any other via explicit user
// action; signing is gated on placeholder resolution.
const (
	StatusDraft  = "draft"
	StatusPended = "pended"
	StatusSigned = "signed"
)

// ValidStatus reports whether s is a known note status.
func ValidStatus(s string) bool {
	return s == StatusDraft || s == StatusPended || s == StatusSigned
}

// Version actions recorded in the audit trail.
const (
	ActionCreated  = "created"
	ActionEdited   = "edited"
	ActionCosigned = "cosigned"
	ActionAttested = "attested"
	ActionAddendum = "addendum"
)

// Note maps to the clinical_note table: a clinical document under
// construction or finalized.
type Note struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	PatientID   uuid.UUID  `db:"patient_id" json:"patient_id"`
	EncounterID *uuid.UUID `db:"encounter_id" json:"encounter_id,omitempty"`
	NoteType    string     `db:"note_type" json:"note_type"`
	Service     string     `db:"service" json:"service"`
	Author      string     `db:"author" json:"author"`
	AuthorRole  string     `db:"author_role" json:"author_role"`
	Content     string     `db:"content" json:"content"`
	Status      string     `db:"status" json:"status"`
	Date        time.Time  `db:"date" json:"date"`
	VersionID   int        `db:"version_id" json:"version_id"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`

	Versions     []NoteVersion `json:"versions,omitempty"`
	Cosigners    []Cosignature `json:"cosigners,omitempty"`
	Attestations []Attestation `json:"attestations,omitempty"`
	Addendums    []Addendum    `json:"addendums,omitempty"`
}

func (n *Note) GetVersionID() int  { return n.VersionID }
func (n *Note) SetVersionID(v int) { n.VersionID = v }

// NoteVersion is an immutable audit record. The content field snapshots the
// note text as it stood before the mutation took effect.
type NoteVersion struct {
	ID      uuid.UUID `db:"id" json:"id"`
	NoteID  uuid.UUID `db:"note_id" json:"note_id"`
	Content string    `db:"content" json:"content"`
	Author  string    `db:"author" json:"author"`
	Action  string    `db:"action" json:"action"`
	Date    time.Time `db:"date" json:"date"`
}

// Cosignature is a second clinician's endorsement of a signed note.
type Cosignature struct {
	ID     uuid.UUID `db:"id" json:"id"`
	NoteID uuid.UUID `db:"note_id" json:"note_id"`
	Name   string    `db:"name" json:"name"`
	Role   string    `db:"role" json:"role"`
	Date   time.Time `db:"date" json:"date"`
}

// Attestation is a clinician's confirmation of presence or agreement with a
// signed note's content.
type Attestation struct {
	ID     uuid.UUID `db:"id" json:"id"`
	NoteID uuid.UUID `db:"note_id" json:"note_id"`
	Name   string    `db:"name" json:"name"`
	Role   string    `db:"role" json:"role"`
	Date   time.Time `db:"date" json:"date"`
}

// Addendum is supplementary text attached to a signed note without altering
// its original content.
type Addendum struct {
	ID         uuid.UUID `db:"id" json:"id"`
	NoteID     uuid.UUID `db:"note_id" json:"note_id"`
	Author     string    `db:"author" json:"author"`
	AuthorRole string    `db:"author_role" json:"author_role"`
	Content    string    `db:"content" json:"content"`
	Date       time.Time `db:"date" json:"date"`
}

// fhirStatus maps the editor's note status onto FHIR Composition status.
// Composition has no pended value, so both draft and pended render as
// preliminary; pended notes carry the note-status extension to keep the
// distinction on the wire.
func fhirStatus(status string) string {
	switch status {
	case StatusSigned:
		return "final"
	default:
		return "preliminary"
	}
}

const noteStatusExtensionURL = "http://chartnote.dev/fhir/StructureDefinition/note-status"

func (n *Note) ToFHIR() map[string]interface{} {
	versionID := n.VersionID
	if versionID == 0 {
		versionID = 1
	}
	result := map[string]interface{}{
		"resourceType": "Composition",
		"id":           n.ID.String(),
		"status":       fhirStatus(n.Status),
		"subject":      fhir.Reference{Reference: fhir.FormatReference("Patient", n.PatientID.String())},
		"type": fhir.CodeableConcept{
			Coding: []fhir.Coding{{
				System:  "http://loinc.org",
				Code:    "11506-3",
				Display: n.NoteType,
			}},
		},
		"title":  n.NoteType,
		"date":   n.Date.Format(time.RFC3339),
		"author": []fhir.Reference{{Display: n.Author}},
		"meta": fhir.Meta{
			VersionID:   fmt.Sprintf("%d", versionID),
			LastUpdated: n.UpdatedAt,
			Profile:     []string{"http://hl7.org/fhir/StructureDefinition/Composition"},
		},
		"section": []map[string]interface{}{{
			"title": n.Service,
			"text": map[string]interface{}{
				"status": "generated",
				"div":    "<div xmlns=\"http://www.w3.org/1999/xhtml\"><pre>" + n.Content + "</pre></div>",
			},
		}},
	}
	if n.Status == StatusPended {
		result["_status"] = map[string]interface{}{
			"extension": []map[string]interface{}{{
				"url":       noteStatusExtensionURL,
				"valueCode": StatusPended,
			}},
		}
	}
	if n.EncounterID != nil {
		result["encounter"] = fhir.Reference{Reference: fhir.FormatReference("Encounter", n.EncounterID.String())}
	}
	return result
}
