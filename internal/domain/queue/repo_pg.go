package queue

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hms/hms/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const entryCols = `q.id, q.patient_id, q.doctor_id, q.source, q.status, q.priority,
	q.created_at, q.updated_at, p.name, d.name`

const entryJoins = ` FROM waiting_queue q
	JOIN patient p ON p.id = q.patient_id
	JOIN doctor d ON d.id = q.doctor_id`

func (r *repoPG) scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.PatientID, &e.DoctorID, &e.Source, &e.Status, &e.Priority,
		&e.CreatedAt, &e.UpdatedAt, &e.PatientName, &e.DoctorName)
	return &e, err
}

func (r *repoPG) Create(ctx context.Context, e *Entry) error {
	e.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO waiting_queue (id, patient_id, doctor_id, source, status, priority)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		e.ID, e.PatientID, e.DoctorID, e.Source, e.Status, e.Priority)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Entry, error) {
	return r.scanEntry(r.conn(ctx).QueryRow(ctx,
		`SELECT `+entryCols+entryJoins+` WHERE q.id = $1`, id))
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE waiting_queue SET status=$2, updated_at=NOW() WHERE id = $1`, id, status)
	return err
}

func (r *repoPG) list(ctx context.Context, where string, args []interface{}, limit, offset int) ([]*Entry, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM waiting_queue q`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	n := len(args)
	query := fmt.Sprintf(`SELECT %s%s%s ORDER BY q.priority ASC, q.created_at ASC LIMIT $%d OFFSET $%d`,
		entryCols, entryJoins, where, n+1, n+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Entry
	for rows.Next() {
		e, err := r.scanEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Entry, int, error) {
	return r.list(ctx, ``, nil, limit, offset)
}

func (r *repoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Entry, int, error) {
	return r.list(ctx, ` WHERE q.doctor_id = $1`, []interface{}{doctorID}, limit, offset)
}

func (r *repoPG) HasActiveEntry(ctx context.Context, patientID, doctorID uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM waiting_queue
			WHERE patient_id = $1 AND doctor_id = $2 AND status IN ('waiting', 'called')
		)`, patientID, doctorID).Scan(&exists)
	return exists, err
}
