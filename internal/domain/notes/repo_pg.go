package notes

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const noteCols = `id, patient_id, encounter_id, note_type, service, author, author_role,
	content, status, date, version_id, created_at, updated_at`

func scanNote(row pgx.Row) (*Note, error) {
	var n Note
	err := row.Scan(&n.ID, &n.PatientID, &n.EncounterID, &n.NoteType, &n.Service,
		&n.Author, &n.AuthorRole, &n.Content, &n.Status, &n.Date,
		&n.VersionID, &n.CreatedAt, &n.UpdatedAt)
	return &n, err
}

func (r *repoPG) Create(ctx context.Context, n *Note) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	n.VersionID = 1
	return r.pool.QueryRow(ctx, `
		INSERT INTO clinical_note (id, patient_id, encounter_id, note_type, service,
			author, author_role, content, status, date, version_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING created_at, updated_at`,
		n.ID, n.PatientID, n.EncounterID, n.NoteType, n.Service,
		n.Author, n.AuthorRole, n.Content, n.Status, n.Date, n.VersionID,
	).Scan(&n.CreatedAt, &n.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Note, error) {
	return scanNote(r.pool.QueryRow(ctx, `SELECT `+noteCols+` FROM clinical_note WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, n *Note) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE clinical_note
		SET content=$2, status=$3, date=$4, version_id=version_id+1, updated_at=NOW()
		WHERE id = $1 AND version_id = $5`,
		n.ID, n.Content, n.Status, n.Date, n.VersionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStaleNote
	}
	n.VersionID++
	return nil
}

func (r *repoPG) List(ctx context.Context, patientID *uuid.UUID, statuses []string, limit, offset int) ([]*Note, int, error) {
	if len(statuses) == 0 {
		statuses = nil
	}
	where := `WHERE ($1::uuid IS NULL OR patient_id = $1) AND ($2::text[] IS NULL OR status = ANY($2))`

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM clinical_note `+where, patientID, statuses).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT `+noteCols+` FROM clinical_note `+where+`
		ORDER BY date DESC LIMIT $3 OFFSET $4`, patientID, statuses, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, n)
	}
	return items, total, rows.Err()
}

func (r *repoPG) AddVersion(ctx context.Context, v *NoteVersion) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO note_version (id, note_id, content, author, action, date)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		v.ID, v.NoteID, v.Content, v.Author, v.Action, v.Date)
	return err
}

func (r *repoPG) ListVersions(ctx context.Context, noteID uuid.UUID) ([]NoteVersion, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, note_id, content, author, action, date
		FROM note_version WHERE note_id = $1 ORDER BY date, id`, noteID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (NoteVersion, error) {
		var v NoteVersion
		err := row.Scan(&v.ID, &v.NoteID, &v.Content, &v.Author, &v.Action, &v.Date)
		return v, err
	})
}

func (r *repoPG) AddCosignature(ctx context.Context, cs *Cosignature) error {
	if cs.ID == uuid.Nil {
		cs.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO note_cosign (id, note_id, name, role, date)
		VALUES ($1,$2,$3,$4,$5)`,
		cs.ID, cs.NoteID, cs.Name, cs.Role, cs.Date)
	return err
}

func (r *repoPG) ListCosignatures(ctx context.Context, noteID uuid.UUID) ([]Cosignature, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, note_id, name, role, date
		FROM note_cosign WHERE note_id = $1 ORDER BY date, id`, noteID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Cosignature, error) {
		var cs Cosignature
		err := row.Scan(&cs.ID, &cs.NoteID, &cs.Name, &cs.Role, &cs.Date)
		return cs, err
	})
}

func (r *repoPG) AddAttestation(ctx context.Context, at *Attestation) error {
	if at.ID == uuid.Nil {
		at.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO note_attestation (id, note_id, name, role, date)
		VALUES ($1,$2,$3,$4,$5)`,
		at.ID, at.NoteID, at.Name, at.Role, at.Date)
	return err
}

func (r *repoPG) ListAttestations(ctx context.Context, noteID uuid.UUID) ([]Attestation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, note_id, name, role, date
		FROM note_attestation WHERE note_id = $1 ORDER BY date, id`, noteID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Attestation, error) {
		var at Attestation
		err := row.Scan(&at.ID, &at.NoteID, &at.Name, &at.Role, &at.Date)
		return at, err
	})
}

func (r *repoPG) AddAddendum(ctx context.Context, ad *Addendum) error {
	if ad.ID == uuid.Nil {
		ad.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO note_addendum (id, note_id, author, author_role, content, date)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		ad.ID, ad.NoteID, ad.Author, ad.AuthorRole, ad.Content, ad.Date)
	return err
}

func (r *repoPG) ListAddendums(ctx context.Context, noteID uuid.UUID) ([]Addendum, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, note_id, author, author_role, content, date
		FROM note_addendum WHERE note_id = $1 ORDER BY date, id`, noteID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Addendum, error) {
		var ad Addendum
		err := row.Scan(&ad.ID, &ad.NoteID, &ad.Author, &ad.AuthorRole, &ad.Content, &ad.Date)
		return ad, err
	})
}
