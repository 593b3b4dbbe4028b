package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sunriseyouth/backend/internal/model"
)

// PgQRCodeRepository is the PostgreSQL implementation of QRCodeRepository.
type PgQRCodeRepository struct {
	pool *pgxpool.Pool
}

// NewPgQRCodeRepository creates a PgQRCodeRepository backed by the given pool.
func NewPgQRCodeRepository(pool *pgxpool.Pool) *PgQRCodeRepository {
	return &PgQRCodeRepository{pool: pool}
}

var _ QRCodeRepository = (*PgQRCodeRepository)(nil)

const qrcodeColumns = `id::text, code, link, COALESCE(description, ''), created_at, updated_at,
	COALESCE(created_by, ''), click_count, last_clicked_at`

func scanQRCode(row pgx.Row) (*model.QRCode, error) {
	var q model.QRCode
	if err := row.Scan(&q.ID, &q.Code, &q.Link, &q.Description, &q.CreatedAt, &q.UpdatedAt,
		&q.CreatedBy, &q.ClickCount, &q.LastClickedAt); err != nil {
		return nil, err
	}
	return &q, nil
}

// Insert adds a qrcodes row and populates qr.ID.
func (r *PgQRCodeRepository) Insert(ctx context.Context, qr *model.QRCode) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO qrcodes (code, link, description, created_at, updated_at, created_by, click_count, last_clicked_at)
		 VALUES ($1, $2, NULLIF($3, ''), $4, $5, NULLIF($6, ''), $7, $8)
		 RETURNING id::text`,
		qr.Code, qr.Link, qr.Description, qr.CreatedAt, qr.UpdatedAt, qr.CreatedBy, qr.ClickCount, qr.LastClickedAt,
	).Scan(&qr.ID)
	return pgErr("qrcodes.insert", err)
}

// ExistsByCode reports whether a row with code exists.
func (r *PgQRCodeRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM qrcodes WHERE code = $1)`, code).Scan(&exists)
	if err != nil {
		return false, pgErr("qrcodes.exists", err)
	}
	return exists, nil
}

// FindByCode returns the QR code with the given short code.
func (r *PgQRCodeRepository) FindByCode(ctx context.Context, code string) (*model.QRCode, error) {
	q, err := scanQRCode(r.pool.QueryRow(ctx, `SELECT `+qrcodeColumns+` FROM qrcodes WHERE code = $1`, code))
	if err != nil {
		return nil, pgErr("qrcodes.find_by_code", err)
	}
	return q, nil
}

// FindByID returns the QR code with the given id.
func (r *PgQRCodeRepository) FindByID(ctx context.Context, id string) (*model.QRCode, error) {
	q, err := scanQRCode(r.pool.QueryRow(ctx, `SELECT `+qrcodeColumns+` FROM qrcodes WHERE id = $1`, id))
	if err != nil {
		return nil, pgErr("qrcodes.find_by_id", err)
	}
	return q, nil
}

// List returns QR codes newest first.
func (r *PgQRCodeRepository) List(ctx context.Context, skip, limit int) ([]*model.QRCode, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+qrcodeColumns+` FROM qrcodes ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`,
		limit, skip,
	)
	if err != nil {
		return nil, pgErr("qrcodes.list", err)
	}
	defer rows.Close()

	codes := []*model.QRCode{}
	for rows.Next() {
		q, err := scanQRCode(rows)
		if err != nil {
			return nil, pgErr("qrcodes.list", err)
		}
		codes = append(codes, q)
	}
	return codes, pgErr("qrcodes.list", rows.Err())
}

// Count returns the number of QR codes.
func (r *PgQRCodeRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM qrcodes`).Scan(&n); err != nil {
		return 0, pgErr("qrcodes.count", err)
	}
	return n, nil
}

// Update applies the editable members of upd. code is never written.
func (r *PgQRCodeRepository) Update(ctx context.Context, id string, upd model.QRCodeUpdate) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE qrcodes
		 SET link = COALESCE($1::text, link),
		     description = CASE WHEN $2::text IS NULL THEN description ELSE NULLIF($2::text, '') END,
		     updated_at = $3
		 WHERE id = $4`,
		upd.Link, upd.Description, upd.UpdatedAt, id,
	)
	if err != nil {
		return pgErr("qrcodes.update", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("qrcodes.update")
	}
	return nil
}

// Delete removes the QR code with the given id.
func (r *PgQRCodeRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM qrcodes WHERE id = $1`, id)
	if err != nil {
		return pgErr("qrcodes.delete", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("qrcodes.delete")
	}
	return nil
}

// IncrementClicks bumps click_count in a single statement so concurrent
// increments never lose updates.
func (r *PgQRCodeRepository) IncrementClicks(ctx context.Context, code string, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE qrcodes SET click_count = click_count + 1, last_clicked_at = $1 WHERE code = $2`,
		at, code,
	)
	if err != nil {
		return pgErr("qrcodes.increment_clicks", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("qrcodes.increment_clicks")
	}
	return nil
}
