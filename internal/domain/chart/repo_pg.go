package chart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const (
	vitalCols     = `id, patient_id, name, value, unit, flag, taken_at`
	labCols       = `id, patient_id, code, name, value, unit, flag, resulted_at`
	conditionCols = `id, patient_id, code, display, status, onset_date, recorded_at`
	imagingCols   = `id, patient_id, modality, description, impression, performed_at`
	medCols       = `id, patient_id, name, dose, route, frequency, status, started_at`
)

func (r *repoPG) Snapshot(ctx context.Context, patientID uuid.UUID) (*Snapshot, error) {
	snap := &Snapshot{PatientID: patientID, TakenAt: time.Now().UTC()}

	rows, err := r.pool.Query(ctx, `SELECT `+vitalCols+` FROM vital WHERE patient_id = $1 ORDER BY taken_at DESC`, patientID)
	if err != nil {
		return nil, err
	}
	snap.Vitals, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (Vital, error) {
		var v Vital
		err := row.Scan(&v.ID, &v.PatientID, &v.Name, &v.Value, &v.Unit, &v.Flag, &v.TakenAt)
		return v, err
	})
	if err != nil {
		return nil, err
	}

	rows, err = r.pool.Query(ctx, `SELECT `+labCols+` FROM lab_result WHERE patient_id = $1 ORDER BY resulted_at DESC`, patientID)
	if err != nil {
		return nil, err
	}
	snap.Labs, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (LabResult, error) {
		var l LabResult
		err := row.Scan(&l.ID, &l.PatientID, &l.Code, &l.Name, &l.Value, &l.Unit, &l.Flag, &l.ResultedAt)
		return l, err
	})
	if err != nil {
		return nil, err
	}

	rows, err = r.pool.Query(ctx, `SELECT `+conditionCols+` FROM condition WHERE patient_id = $1 ORDER BY recorded_at DESC`, patientID)
	if err != nil {
		return nil, err
	}
	snap.Conditions, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (Condition, error) {
		var c Condition
		err := row.Scan(&c.ID, &c.PatientID, &c.Code, &c.Display, &c.Status, &c.OnsetDate, &c.RecordedAt)
		return c, err
	})
	if err != nil {
		return nil, err
	}

	rows, err = r.pool.Query(ctx, `SELECT `+imagingCols+` FROM imaging_study WHERE patient_id = $1 ORDER BY performed_at DESC`, patientID)
	if err != nil {
		return nil, err
	}
	snap.Imaging, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (ImagingStudy, error) {
		var s ImagingStudy
		err := row.Scan(&s.ID, &s.PatientID, &s.Modality, &s.Description, &s.Impression, &s.PerformedAt)
		return s, err
	})
	if err != nil {
		return nil, err
	}

	rows, err = r.pool.Query(ctx, `SELECT `+medCols+` FROM medication WHERE patient_id = $1 ORDER BY started_at DESC`, patientID)
	if err != nil {
		return nil, err
	}
	snap.Medications, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (Medication, error) {
		var m Medication
		err := row.Scan(&m.ID, &m.PatientID, &m.Name, &m.Dose, &m.Route, &m.Frequency, &m.Status, &m.StartedAt)
		return m, err
	})
	if err != nil {
		return nil, err
	}

	return snap, nil
}

func (r *repoPG) AddVital(ctx context.Context, v *Vital) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO vital (id, patient_id, name, value, unit, flag, taken_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		v.ID, v.PatientID, v.Name, v.Value, v.Unit, v.Flag, v.TakenAt)
	return err
}

func (r *repoPG) AddLabResult(ctx context.Context, l *LabResult) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO lab_result (id, patient_id, code, name, value, unit, flag, resulted_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		l.ID, l.PatientID, l.Code, l.Name, l.Value, l.Unit, l.Flag, l.ResultedAt)
	return err
}

func (r *repoPG) AddCondition(ctx context.Context, c *Condition) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO condition (id, patient_id, code, display, status, onset_date, recorded_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		c.ID, c.PatientID, c.Code, c.Display, c.Status, c.OnsetDate, c.RecordedAt)
	return err
}

func (r *repoPG) AddImagingStudy(ctx context.Context, s *ImagingStudy) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO imaging_study (id, patient_id, modality, description, impression, performed_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		s.ID, s.PatientID, s.Modality, s.Description, s.Impression, s.PerformedAt)
	return err
}

func (r *repoPG) AddMedication(ctx context.Context, m *Medication) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO medication (id, patient_id, name, dose, route, frequency, status, started_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		m.ID, m.PatientID, m.Name, m.Dose, m.Route, m.Frequency, m.Status, m.StartedAt)
	return err
}
