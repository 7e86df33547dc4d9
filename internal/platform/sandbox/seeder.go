// Package sandbox generates synthetic demo data: patients with chart
// history, the default macro table, and notes in every lifecycle state.
// Reproducible via the config seed; intended for developer on-boarding and
// UI demos, never for production databases.
package sandbox

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/chartnote/chartnote/internal/domain/chart"
	"github.com/chartnote/chartnote/internal/domain/notes"
)

// SeedConfig controls the volume and shape of generated synthetic data.
type SeedConfig struct {
	PatientCount     int   `json:"patientCount"`
	VitalsPerPatient int   `json:"vitalsPerPatient"`
	LabsPerPatient   int   `json:"labsPerPatient"`
	NotesPerPatient  int   `json:"notesPerPatient"`
	Seed             int64 `json:"seed"`
}

func DefaultSeedConfig() SeedConfig {
	return SeedConfig{
		PatientCount:     5,
		VitalsPerPatient: 4,
		LabsPerPatient:   6,
		NotesPerPatient:  3,
	}
}

// Seeder writes synthetic data through the domain repositories.
type Seeder struct {
	charts  chart.Repository
	noteSvc *notes.Service
	cfg     SeedConfig
	rng     *rand.Rand
}

func NewSeeder(charts chart.Repository, noteSvc *notes.Service, cfg SeedConfig) *Seeder {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Seeder{
		charts:  charts,
		noteSvc: noteSvc,
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

var (
	vitalNames = []struct {
		name, unit string
	}{
		{"HR", "bpm"},
		{"BP", "mmHg"},
		{"Temp", "C"},
		{"SpO2", "%"},
		{"RR", "/min"},
	}

	labPanel = []struct {
		code, name, unit string
		low, high        float64
	}{
		{"2345-7", "Glucose", "mg/dL", 70, 240},
		{"2160-0", "Creatinine", "mg/dL", 0.6, 2.8},
		{"2823-3", "Potassium", "mmol/L", 3.2, 5.6},
		{"718-7", "Hemoglobin", "g/dL", 8.5, 16.0},
		{"6598-7", "Troponin", "ng/mL", 0.0, 0.4},
		{"33762-6", "BNP", "pg/mL", 20, 1800},
	}

	conditionPool = []struct {
		code, display string
	}{
		{"I50.9", "Heart failure"},
		{"J44.1", "COPD with acute exacerbation"},
		{"E11.9", "Type 2 diabetes mellitus"},
		{"N17.9", "Acute kidney injury"},
		{"A41.9", "Sepsis"},
		{"I10", "Essential hypertension"},
	}

	medicationPool = []struct {
		name, dose, route, freq string
	}{
		{"Furosemide", "40 mg", "IV", "BID"},
		{"Metoprolol", "25 mg", "PO", "BID"},
		{"Lisinopril", "10 mg", "PO", "daily"},
		{"Insulin glargine", "20 units", "SC", "nightly"},
		{"Piperacillin-tazobactam", "4.5 g", "IV", "q8h"},
		{"Albuterol", "2.5 mg", "NEB", "q4h PRN"},
	}

	authors = []struct {
		name, role string
	}{
		{"Dr. Rivera", "physician"},
		{"Dr. Chen", "physician"},
		{"Dr. Okafor", "physician"},
		{"NP Alvarez", "nurse"},
	}
)

// Run seeds everything. Idempotency is not attempted: rerunning adds more
// synthetic rows.
func (s *Seeder) Run(ctx context.Context) error {
	start := time.Now()
	for i := 0; i < s.cfg.PatientCount; i++ {
		patientID := uuid.New()
		if err := s.seedChart(ctx, patientID); err != nil {
			return fmt.Errorf("seed chart for patient %d: %w", i, err)
		}
		if err := s.seedNotes(ctx, patientID); err != nil {
			return fmt.Errorf("seed notes for patient %d: %w", i, err)
		}
		log.Info().Str("patient_id", patientID.String()).Msg("seeded synthetic patient")
	}
	log.Info().
		Int("patients", s.cfg.PatientCount).
		Dur("elapsed", time.Since(start)).
		Msg("sandbox seed complete")
	return nil
}

func (s *Seeder) seedChart(ctx context.Context, patientID uuid.UUID) error {
	now := time.Now().UTC()

	for i := 0; i < s.cfg.VitalsPerPatient; i++ {
		v := vitalNames[s.rng.Intn(len(vitalNames))]
		unit := v.unit
		vital := &chart.Vital{
			PatientID: patientID,
			Name:      v.name,
			Value:     s.vitalValue(v.name),
			Unit:      &unit,
			TakenAt:   now.Add(-time.Duration(i*6) * time.Hour),
		}
		if err := s.charts.AddVital(ctx, vital); err != nil {
			return err
		}
	}

	for i := 0; i < s.cfg.LabsPerPatient; i++ {
		l := labPanel[i%len(labPanel)]
		val := l.low + s.rng.Float64()*(l.high-l.low)
		unit := l.unit
		lab := &chart.LabResult{
			PatientID:  patientID,
			Code:       l.code,
			Name:       l.name,
			Value:      fmt.Sprintf("%.1f", val),
			Unit:       &unit,
			ResultedAt: now.Add(-time.Duration(i*8) * time.Hour),
		}
		if val > l.low+(l.high-l.low)*0.8 {
			flag := "H"
			lab.Flag = &flag
		}
		if err := s.charts.AddLabResult(ctx, lab); err != nil {
			return err
		}
	}

	for _, idx := range s.rng.Perm(len(conditionPool))[:2] {
		c := conditionPool[idx]
		code := c.code
		if err := s.charts.AddCondition(ctx, &chart.Condition{
			PatientID:  patientID,
			Code:       &code,
			Display:    c.display,
			Status:     "active",
			RecordedAt: now.Add(-time.Duration(s.rng.Intn(72)) * time.Hour),
		}); err != nil {
			return err
		}
	}

	impression := "No acute cardiopulmonary process."
	if err := s.charts.AddImagingStudy(ctx, &chart.ImagingStudy{
		PatientID:   patientID,
		Modality:    "XR",
		Description: "Chest X-ray, portable",
		Impression:  &impression,
		PerformedAt: now.Add(-12 * time.Hour),
	}); err != nil {
		return err
	}

	for _, idx := range s.rng.Perm(len(medicationPool))[:3] {
		m := medicationPool[idx]
		dose, route, freq := m.dose, m.route, m.freq
		if err := s.charts.AddMedication(ctx, &chart.Medication{
			PatientID: patientID,
			Name:      m.name,
			Dose:      &dose,
			Route:     &route,
			Frequency: &freq,
			Status:    "active",
			StartedAt: now.Add(-time.Duration(s.rng.Intn(96)) * time.Hour),
		}); err != nil {
			return err
		}
	}

	return nil
}

func (s *Seeder) vitalValue(name string) string {
	switch name {
	case "HR":
		return fmt.Sprintf("%d", 60+s.rng.Intn(60))
	case "BP":
		return fmt.Sprintf("%d/%d", 100+s.rng.Intn(60), 60+s.rng.Intn(30))
	case "Temp":
		return fmt.Sprintf("%.1f", 36.0+s.rng.Float64()*2.5)
	case "SpO2":
		return fmt.Sprintf("%d", 88+s.rng.Intn(12))
	case "RR":
		return fmt.Sprintf("%d", 12+s.rng.Intn(14))
	}
	return "0"
}

// seedNotes creates one note per lifecycle state so the demo shows the full
// workflow: a draft with placeholders, a pended note, and a signed note with
// a cosignature and an addendum.
func (s *Seeder) seedNotes(ctx context.Context, patientID uuid.UUID) error {
	author := authors[s.rng.Intn(len(authors))]

	draft := &notes.Note{
		PatientID:  patientID,
		NoteType:   "Progress Note",
		Service:    "Hospitalist",
		Author:     author.name,
		AuthorRole: author.role,
		Status:     notes.StatusDraft,
		Content: "SUBJECTIVE:\nOvernight events: *** to be completed ***\n\n" +
			"ASSESSMENT & PLAN:\n1. Heart failure: continue diuresis, goal net negative *** L ***\n",
	}
	if err := s.noteSvc.Create(ctx, draft); err != nil {
		return err
	}

	pended := &notes.Note{
		PatientID:  patientID,
		NoteType:   "Consult Note",
		Service:    "Cardiology",
		Author:     author.name,
		AuthorRole: author.role,
		Status:     notes.StatusPended,
		Content:    "Consulted for elevated BNP. Echo pending, will staff with attending.\n",
	}
	if err := s.noteSvc.Create(ctx, pended); err != nil {
		return err
	}

	signed := &notes.Note{
		PatientID:  patientID,
		NoteType:   "Discharge Summary",
		Service:    "Hospitalist",
		Author:     author.name,
		AuthorRole: author.role,
		Status:     notes.StatusSigned,
		Content: "Patient admitted with acute decompensated heart failure, diuresed " +
			"to euvolemia, discharged on home regimen with close follow-up.\n",
	}
	if err := s.noteSvc.Create(ctx, signed); err != nil {
		return err
	}
	if _, err := s.noteSvc.Cosign(ctx, signed.ID, "Dr. Patel", "attending"); err != nil {
		return err
	}
	if _, err := s.noteSvc.AddAddendum(ctx, signed.ID, author.name, author.role,
		"Discharge labs returned after sign-off, all within expected range."); err != nil {
		return err
	}

	return nil
}
