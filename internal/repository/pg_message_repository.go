package repository

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sunriseyouth/backend/internal/model"
)

// PgMessageRepository is the PostgreSQL implementation of MessageRepository.
type PgMessageRepository struct {
	pool *pgxpool.Pool
}

// NewPgMessageRepository creates a PgMessageRepository backed by the given pool.
func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

// Ensure PgMessageRepository implements MessageRepository at compile time.
var _ MessageRepository = (*PgMessageRepository)(nil)

// messageSortColumns maps public sort keys to columns. Keys outside this
// map never reach SQL.
var messageSortColumns = map[string]string{
	model.SortSubmittedAt: "submitted_at",
	model.SortName:        "name",
	model.SortEmail:       "email",
	model.SortSubject:     "subject",
	model.SortStatus:      "status",
	model.SortRespondedAt: "responded_at",
}

const messageColumns = `id::text, name, email, subject, message, status, submitted_at,
	COALESCE(client_timestamp, ''), COALESCE(ip_address, ''), COALESCE(user_agent, ''),
	admin_notes, updated_at, responded_at, COALESCE(responded_by, '')`

func scanMessage(row pgx.Row) (*model.Message, error) {
	var m model.Message
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.Status, &m.SubmittedAt,
		&m.ClientTimestamp, &m.IPAddress, &m.UserAgent,
		&m.AdminNotes, &m.UpdatedAt, &m.RespondedAt, &m.RespondedBy)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Insert adds a messages row and populates msg.ID from the RETURNING clause.
func (r *PgMessageRepository) Insert(ctx context.Context, msg *model.Message) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO messages (name, email, subject, message, status, submitted_at,
		                       client_timestamp, ip_address, user_agent, admin_notes, responded_at, responded_by)
		 VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''), $10, $11, NULLIF($12, ''))
		 RETURNING id::text`,
		msg.Name, msg.Email, msg.Subject, msg.Message, msg.Status, msg.SubmittedAt,
		msg.ClientTimestamp, msg.IPAddress, msg.UserAgent, msg.AdminNotes, msg.RespondedAt, msg.RespondedBy,
	).Scan(&msg.ID)
	return pgErr("messages.insert", err)
}

func messageWhere(f model.MessageFilter, args []any) (string, []any) {
	var conditions []string
	if f.Status != "" {
		args = append(args, f.Status)
		conditions = append(conditions, "status = $"+strconv.Itoa(len(args)))
	}
	if f.Subject != "" {
		args = append(args, f.Subject)
		conditions = append(conditions, "subject = $"+strconv.Itoa(len(args)))
	}
	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// List returns one page of messages matching q.
func (r *PgMessageRepository) List(ctx context.Context, q model.MessageQuery) ([]*model.Message, error) {
	where, args := messageWhere(q.Filter, nil)

	column, ok := messageSortColumns[q.Sort]
	if !ok {
		column = "submitted_at"
	}
	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}

	args = append(args, q.Limit, q.Skip)
	query := `SELECT ` + messageColumns + ` FROM messages` + where +
		` ORDER BY ` + column + ` ` + dir + ` NULLS LAST, id ` + dir +
		` LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, pgErr("messages.list", err)
	}
	defer rows.Close()

	messages := []*model.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, pgErr("messages.list", err)
		}
		messages = append(messages, m)
	}
	return messages, pgErr("messages.list", rows.Err())
}

// Count returns the number of messages matching f.
func (r *PgMessageRepository) Count(ctx context.Context, f model.MessageFilter) (int64, error) {
	where, args := messageWhere(f, nil)
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM messages`+where, args...).Scan(&n); err != nil {
		return 0, pgErr("messages.count", err)
	}
	return n, nil
}

// UpdateStatus applies a status change. admin_notes is only touched when
// notes were supplied; the response stamp is always overwritten.
func (r *PgMessageRepository) UpdateStatus(ctx context.Context, id string, upd model.MessageStatusUpdate) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE messages
		 SET status = $1, updated_at = $2, admin_notes = COALESCE($3, admin_notes),
		     responded_at = $4, responded_by = $5
		 WHERE id = $6`,
		upd.Status, upd.UpdatedAt, upd.AdminNotes, upd.RespondedAt, upd.RespondedBy, id,
	)
	if err != nil {
		return pgErr("messages.update_status", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("messages.update_status")
	}
	return nil
}
