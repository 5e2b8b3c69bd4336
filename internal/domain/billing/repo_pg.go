package billing

import (
	"context"
	"fmt"
	"strings"

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

// =========== ChargeMaster Repository ===========

type chargeMasterRepoPG struct{ pool *pgxpool.Pool }

func NewChargeMasterRepoPG(pool *pgxpool.Pool) ChargeMasterRepository {
	return &chargeMasterRepoPG{pool: pool}
}

func (r *chargeMasterRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const masterCols = `id, name, amount, active, created_at, updated_at`

func (r *chargeMasterRepoPG) scanMaster(row pgx.Row) (*ChargeMaster, error) {
	var m ChargeMaster
	err := row.Scan(&m.ID, &m.Name, &m.Amount, &m.Active, &m.CreatedAt, &m.UpdatedAt)
	return &m, err
}

func (r *chargeMasterRepoPG) Create(ctx context.Context, m *ChargeMaster) error {
	m.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO charge_master (id, name, amount, active)
		VALUES ($1,$2,$3,$4)`,
		m.ID, m.Name, m.Amount, m.Active)
	return err
}

func (r *chargeMasterRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*ChargeMaster, error) {
	return r.scanMaster(r.conn(ctx).QueryRow(ctx, `SELECT `+masterCols+` FROM charge_master WHERE id = $1`, id))
}

func (r *chargeMasterRepoPG) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*ChargeMaster, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+masterCols+` FROM charge_master WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*ChargeMaster
	for rows.Next() {
		m, err := r.scanMaster(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, nil
}

func (r *chargeMasterRepoPG) Update(ctx context.Context, m *ChargeMaster) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE charge_master SET name=$2, amount=$3, active=$4, updated_at=NOW()
		WHERE id = $1`,
		m.ID, m.Name, m.Amount, m.Active)
	return err
}

func (r *chargeMasterRepoPG) Deactivate(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `UPDATE charge_master SET active=false, updated_at=NOW() WHERE id = $1`, id)
	return err
}

func (r *chargeMasterRepoPG) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*ChargeMaster, int, error) {
	where := ``
	if activeOnly {
		where = ` WHERE active`
	}
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM charge_master`+where).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+masterCols+` FROM charge_master`+where+` ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*ChargeMaster
	for rows.Next() {
		m, err := r.scanMaster(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	return items, total, nil
}

// =========== Charge Repository ===========

type chargeRepoPG struct{ pool *pgxpool.Pool }

func NewChargeRepoPG(pool *pgxpool.Pool) ChargeRepository { return &chargeRepoPG{pool: pool} }

func (r *chargeRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const chargeCols = `id, patient_id, base_amount, discount_type, discount_amount,
	final_amount, paid_amount, balance_amount, payment_status,
	case_type, case_status, created_at, updated_at`

func (r *chargeRepoPG) scanCharge(row pgx.Row) (*ChargeRecord, error) {
	var c ChargeRecord
	err := row.Scan(&c.ID, &c.PatientID, &c.BaseAmount, &c.DiscountType, &c.DiscountAmount,
		&c.FinalAmount, &c.PaidAmount, &c.BalanceAmount, &c.PaymentStatus,
		&c.CaseContext.CaseType, &c.CaseContext.CaseStatus, &c.CreatedAt, &c.UpdatedAt)
	return &c, err
}

func (r *chargeRepoPG) Create(ctx context.Context, rec *ChargeRecord) error {
	rec.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO charge (id, patient_id, base_amount, discount_type, discount_amount,
			final_amount, paid_amount, balance_amount, payment_status, case_type, case_status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		rec.ID, rec.PatientID, rec.BaseAmount, rec.DiscountType, rec.DiscountAmount,
		rec.FinalAmount, rec.PaidAmount, rec.BalanceAmount, rec.PaymentStatus,
		rec.CaseContext.CaseType, rec.CaseContext.CaseStatus)
	if err != nil {
		return err
	}
	for _, l := range rec.Lines {
		l.ID = uuid.New()
		l.ChargeID = rec.ID
		if _, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO charge_line (id, charge_id, charge_master_id, name, amount)
			VALUES ($1,$2,$3,$4,$5)`,
			l.ID, l.ChargeID, l.ChargeMasterID, l.Name, l.Amount); err != nil {
			return err
		}
	}
	return nil
}

func (r *chargeRepoPG) loadLines(ctx context.Context, chargeIDs []uuid.UUID) (map[uuid.UUID][]*ChargeLine, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, charge_id, charge_master_id, name, amount
		FROM charge_line WHERE charge_id = ANY($1) ORDER BY name`, chargeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	byCharge := make(map[uuid.UUID][]*ChargeLine)
	for rows.Next() {
		var l ChargeLine
		if err := rows.Scan(&l.ID, &l.ChargeID, &l.ChargeMasterID, &l.Name, &l.Amount); err != nil {
			return nil, err
		}
		byCharge[l.ChargeID] = append(byCharge[l.ChargeID], &l)
	}
	return byCharge, nil
}

func (r *chargeRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*ChargeRecord, error) {
	rec, err := r.scanCharge(r.conn(ctx).QueryRow(ctx, `SELECT `+chargeCols+` FROM charge WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	lines, err := r.loadLines(ctx, []uuid.UUID{rec.ID})
	if err != nil {
		return nil, err
	}
	rec.Lines = lines[rec.ID]
	return rec, nil
}

func (r *chargeRepoPG) Update(ctx context.Context, rec *ChargeRecord) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE charge SET base_amount=$2, discount_type=$3, discount_amount=$4,
			final_amount=$5, paid_amount=$6, balance_amount=$7, payment_status=$8,
			case_type=$9, case_status=$10, updated_at=NOW()
		WHERE id = $1`,
		rec.ID, rec.BaseAmount, rec.DiscountType, rec.DiscountAmount,
		rec.FinalAmount, rec.PaidAmount, rec.BalanceAmount, rec.PaymentStatus,
		rec.CaseContext.CaseType, rec.CaseContext.CaseStatus)
	if err != nil {
		return err
	}
	if rec.Lines == nil {
		return nil
	}
	if _, err := r.conn(ctx).Exec(ctx, `DELETE FROM charge_line WHERE charge_id = $1`, rec.ID); err != nil {
		return err
	}
	for _, l := range rec.Lines {
		l.ID = uuid.New()
		l.ChargeID = rec.ID
		if _, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO charge_line (id, charge_id, charge_master_id, name, amount)
			VALUES ($1,$2,$3,$4,$5)`,
			l.ID, l.ChargeID, l.ChargeMasterID, l.Name, l.Amount); err != nil {
			return err
		}
	}
	return nil
}

func (r *chargeRepoPG) listWhere(ctx context.Context, where string, args []interface{}, limit, offset int) ([]*ChargeRecord, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM charge`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM charge%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		chargeCols, where, n+1, n+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*ChargeRecord
	var ids []uuid.UUID
	for rows.Next() {
		c, err := r.scanCharge(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
		ids = append(ids, c.ID)
	}
	rows.Close()
	if len(ids) > 0 {
		lines, err := r.loadLines(ctx, ids)
		if err != nil {
			return nil, 0, err
		}
		for _, c := range items {
			c.Lines = lines[c.ID]
		}
	}
	return items, total, nil
}

// buildChargeWhere turns a ChargeFilter into a WHERE clause. prefix is
// the table alias ("" or "c.") of the query it is spliced into.
func buildChargeWhere(f ChargeFilter, prefix string) (string, []interface{}) {
	var conds []string
	var args []interface{}
	add := func(cond string, v interface{}) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, prefix, len(args)))
	}
	if f.PatientID != nil {
		add(`%spatient_id = $%d`, *f.PatientID)
	}
	if f.CaseType != "" {
		add(`%scase_type = $%d`, f.CaseType)
	}
	if !f.From.IsZero() {
		add(`%screated_at >= $%d`, f.From)
	}
	if !f.To.IsZero() {
		add(`%screated_at <= $%d`, f.To)
	}
	if len(conds) == 0 {
		return ``, nil
	}
	return ` WHERE ` + strings.Join(conds, ` AND `), args
}

func (r *chargeRepoPG) List(ctx context.Context, f ChargeFilter, limit, offset int) ([]*ChargeRecord, int, error) {
	where, args := buildChargeWhere(f, ``)
	return r.listWhere(ctx, where, args, limit, offset)
}

func (r *chargeRepoPG) ListOpenByPatientForUpdate(ctx context.Context, patientID uuid.UUID) ([]*ChargeRecord, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+chargeCols+` FROM charge
		WHERE patient_id = $1 AND balance_amount > 0
		ORDER BY created_at ASC
		FOR UPDATE`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*ChargeRecord
	for rows.Next() {
		c, err := r.scanCharge(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, nil
}

const ledgerSelect = `
	SELECT c.patient_id, p.name,
		COALESCE(SUM(c.final_amount), 0),
		COALESCE(SUM(c.paid_amount), 0),
		COALESCE(SUM(c.base_amount - c.final_amount), 0),
		COALESCE(SUM(c.balance_amount), 0)
	FROM charge c
	JOIN patient p ON p.id = c.patient_id`

func (r *chargeRepoPG) LedgerSummaries(ctx context.Context, f ChargeFilter, limit, offset int) ([]*LedgerSummary, int, error) {
	where, args := buildChargeWhere(f, `c.`)
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(DISTINCT c.patient_id) FROM charge c`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	n := len(args)
	query := fmt.Sprintf(`%s%s GROUP BY c.patient_id, p.name ORDER BY p.name LIMIT $%d OFFSET $%d`,
		ledgerSelect, where, n+1, n+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*LedgerSummary
	for rows.Next() {
		var s LedgerSummary
		if err := rows.Scan(&s.PatientID, &s.PatientName,
			&s.TotalAmount, &s.PaidAmount, &s.DiscountAmount, &s.BalanceAmount); err != nil {
			return nil, 0, err
		}
		items = append(items, &s)
	}
	return items, total, nil
}

func (r *chargeRepoPG) LedgerSummaryByPatient(ctx context.Context, patientID uuid.UUID) (*LedgerSummary, error) {
	var s LedgerSummary
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT c.patient_id, p.name,
			COALESCE(SUM(c.final_amount), 0),
			COALESCE(SUM(c.paid_amount), 0),
			COALESCE(SUM(c.base_amount - c.final_amount), 0),
			COALESCE(SUM(c.balance_amount), 0)
		FROM charge c
		JOIN patient p ON p.id = c.patient_id
		WHERE c.patient_id = $1
		GROUP BY c.patient_id, p.name`, patientID).
		Scan(&s.PatientID, &s.PatientName,
			&s.TotalAmount, &s.PaidAmount, &s.DiscountAmount, &s.BalanceAmount)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// =========== Receipt Repository ===========

type receiptRepoPG struct{ pool *pgxpool.Pool }

func NewReceiptRepoPG(pool *pgxpool.Pool) ReceiptRepository { return &receiptRepoPG{pool: pool} }

func (r *receiptRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const receiptCols = `id, patient_id, amount, payment_mode, note, received_by, received_at`

func (r *receiptRepoPG) Create(ctx context.Context, p *PaymentReceipt) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO payment_receipt (id, patient_id, amount, payment_mode, note, received_by)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		p.ID, p.PatientID, p.Amount, p.PaymentMode, p.Note, p.ReceivedBy)
	return err
}

func (r *receiptRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*PaymentReceipt, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM payment_receipt WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+receiptCols+` FROM payment_receipt WHERE patient_id = $1 ORDER BY received_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*PaymentReceipt
	for rows.Next() {
		var p PaymentReceipt
		if err := rows.Scan(&p.ID, &p.PatientID, &p.Amount, &p.PaymentMode, &p.Note, &p.ReceivedBy, &p.ReceivedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &p)
	}
	return items, total, nil
}
