package chart

import (
	"time"

	"github.com/google/uuid"
)

// Vital is a single recorded vital-sign measurement.
type Vital struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	Name      string    `db:"name" json:"name"`
	Value     string    `db:"value" json:"value"`
	Unit      *string   `db:"unit" json:"unit,omitempty"`
	Flag      *string   `db:"flag" json:"flag,omitempty"`
	TakenAt   time.Time `db:"taken_at" json:"taken_at"`
}

// LabResult is a single laboratory result with an optional abnormality flag.
type LabResult struct {
	ID         uuid.UUID `db:"id" json:"id"`
	PatientID  uuid.UUID `db:"patient_id" json:"patient_id"`
	Code       string    `db:"code" json:"code"`
	Name       string    `db:"name" json:"name"`
	Value      string    `db:"value" json:"value"`
	Unit       *string   `db:"unit" json:"unit,omitempty"`
	Flag       *string   `db:"flag" json:"flag,omitempty"`
	ResultedAt time.Time `db:"resulted_at" json:"resulted_at"`
}

// Condition is an active or resolved problem-list entry.
type Condition struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	PatientID  uuid.UUID  `db:"patient_id" json:"patient_id"`
	Code       *string    `db:"code" json:"code,omitempty"`
	Display    string     `db:"display" json:"display"`
	Status     string     `db:"status" json:"status"`
	OnsetDate  *time.Time `db:"onset_date" json:"onset_date,omitempty"`
	RecordedAt time.Time  `db:"recorded_at" json:"recorded_at"`
}

// ImagingStudy is a completed imaging study with its narrative impression.
type ImagingStudy struct {
	ID          uuid.UUID `db:"id" json:"id"`
	PatientID   uuid.UUID `db:"patient_id" json:"patient_id"`
	Modality    string    `db:"modality" json:"modality"`
	Description string    `db:"description" json:"description"`
	Impression  *string   `db:"impression" json:"impression,omitempty"`
	PerformedAt time.Time `db:"performed_at" json:"performed_at"`
}

// Medication is an active medication order.
type Medication struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	Name      string    `db:"name" json:"name"`
	Dose      *string   `db:"dose" json:"dose,omitempty"`
	Route     *string   `db:"route" json:"route,omitempty"`
	Frequency *string   `db:"frequency" json:"frequency,omitempty"`
	Status    string    `db:"status" json:"status"`
	StartedAt time.Time `db:"started_at" json:"started_at"`
}

// Snapshot is a read-only view of a patient's chart at a point in time,
// assembled for note rendering. All slices are in reverse-chronological
// order (most recent first).
type Snapshot struct {
	PatientID   uuid.UUID      `json:"patient_id"`
	Vitals      []Vital        `json:"vitals"`
	Labs        []LabResult    `json:"labs"`
	Conditions  []Condition    `json:"conditions"`
	Imaging     []ImagingStudy `json:"imaging"`
	Medications []Medication   `json:"medications"`
	TakenAt     time.Time      `json:"taken_at"`
}
