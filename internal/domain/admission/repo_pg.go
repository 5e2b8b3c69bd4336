package admission

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

// =========== Bed Repository ===========

type bedRepoPG struct{ pool *pgxpool.Pool }

func NewBedRepoPG(pool *pgxpool.Pool) BedRepository { return &bedRepoPG{pool: pool} }

func (r *bedRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const bedCols = `id, floor, ward, room, number, occupied, created_at, updated_at`

func (r *bedRepoPG) scanBed(row pgx.Row) (*Bed, error) {
	var b Bed
	err := row.Scan(&b.ID, &b.Floor, &b.Ward, &b.Room, &b.Number, &b.Occupied, &b.CreatedAt, &b.UpdatedAt)
	return &b, err
}

func (r *bedRepoPG) Create(ctx context.Context, b *Bed) error {
	b.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO bed (id, floor, ward, room, number, occupied)
		VALUES ($1,$2,$3,$4,$5,false)`,
		b.ID, b.Floor, b.Ward, b.Room, b.Number)
	return err
}

func (r *bedRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Bed, error) {
	return r.scanBed(r.conn(ctx).QueryRow(ctx, `SELECT `+bedCols+` FROM bed WHERE id = $1`, id))
}

func (r *bedRepoPG) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*Bed, error) {
	return r.scanBed(r.conn(ctx).QueryRow(ctx, `SELECT `+bedCols+` FROM bed WHERE id = $1 FOR UPDATE`, id))
}

func (r *bedRepoPG) SetOccupied(ctx context.Context, id uuid.UUID, occupied bool) error {
	_, err := r.conn(ctx).Exec(ctx, `UPDATE bed SET occupied=$2, updated_at=NOW() WHERE id = $1`, id, occupied)
	return err
}

func (r *bedRepoPG) List(ctx context.Context, freeOnly bool, limit, offset int) ([]*Bed, int, error) {
	where := ``
	if freeOnly {
		where = ` WHERE NOT occupied`
	}
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM bed`+where).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+bedCols+` FROM bed`+where+` ORDER BY floor, ward, room, number LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Bed
	for rows.Next() {
		b, err := r.scanBed(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, b)
	}
	return items, total, nil
}

// =========== Admission Repository ===========

type admissionRepoPG struct{ pool *pgxpool.Pool }

func NewAdmissionRepoPG(pool *pgxpool.Pool) AdmissionRepository { return &admissionRepoPG{pool: pool} }

func (r *admissionRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const admCols = `a.id, a.patient_id, a.doctor_id, a.bed_id, a.reason, a.status,
	a.admitted_at, a.discharged_at, p.name,
	b.ward || '/' || b.room || '/' || b.number`

const admJoins = ` FROM admission a
	JOIN patient p ON p.id = a.patient_id
	JOIN bed b ON b.id = a.bed_id`

func (r *admissionRepoPG) scanAdmission(row pgx.Row) (*Admission, error) {
	var a Admission
	err := row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.BedID, &a.Reason, &a.Status,
		&a.AdmittedAt, &a.DischargedAt, &a.PatientName, &a.BedLabel)
	return &a, err
}

func (r *admissionRepoPG) Create(ctx context.Context, a *Admission) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO admission (id, patient_id, doctor_id, bed_id, reason, status)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		a.ID, a.PatientID, a.DoctorID, a.BedID, a.Reason, a.Status)
	return err
}

func (r *admissionRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Admission, error) {
	return r.scanAdmission(r.conn(ctx).QueryRow(ctx,
		`SELECT `+admCols+admJoins+` WHERE a.id = $1`, id))
}

func (r *admissionRepoPG) Discharge(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE admission SET status='discharged', discharged_at=NOW() WHERE id = $1`, id)
	return err
}

func (r *admissionRepoPG) list(ctx context.Context, where string, args []interface{}, limit, offset int) ([]*Admission, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM admission a`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	n := len(args)
	query := fmt.Sprintf(`SELECT %s%s%s ORDER BY a.admitted_at DESC LIMIT $%d OFFSET $%d`,
		admCols, admJoins, where, n+1, n+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Admission
	for rows.Next() {
		a, err := r.scanAdmission(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, nil
}

func (r *admissionRepoPG) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*Admission, int, error) {
	if activeOnly {
		return r.list(ctx, ` WHERE a.status = 'admitted'`, nil, limit, offset)
	}
	return r.list(ctx, ``, nil, limit, offset)
}

func (r *admissionRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Admission, int, error) {
	return r.list(ctx, ` WHERE a.patient_id = $1`, []interface{}{patientID}, limit, offset)
}
