package postgres

import (
	"context"
	"fmt"

	"portfolio-contact/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type contactRepo struct {
	db *pgxpool.Pool
}

func NewContactRepository(db *pgxpool.Pool) domain.ContactRepository {
	return &contactRepo{db: db}
}

func (r *contactRepo) Create(ctx context.Context, msg *domain.ContactMessage) error {
	query := `INSERT INTO contact_messages
              (id, name, email, message, status, ip_address, user_agent, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query,
		msg.ID, msg.Name, msg.Email, msg.Message, string(msg.Status),
		msg.IPAddress, msg.UserAgent, msg.CreatedAt, msg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contact message: %w", err)
	}
	return nil
}

func (r *contactRepo) List(ctx context.Context, opts domain.ContactListOptions) ([]domain.ContactMessage, error) {
	query := `SELECT id::text, name, email, message, status,
                     COALESCE(ip_address, ''), COALESCE(user_agent, ''), created_at, updated_at
              FROM contact_messages
              WHERE ($1::text[] IS NULL OR status = ANY($1::text[]))
              ORDER BY created_at DESC
              OFFSET $2 LIMIT $3`

	rows, err := r.db.Query(ctx, query, statusArray(opts.Statuses), opts.Skip, opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	defer rows.Close()

	messages := make([]domain.ContactMessage, 0, opts.Limit)
	for rows.Next() {
		var m domain.ContactMessage
		var status string
		if err := rows.Scan(
			&m.ID, &m.Name, &m.Email, &m.Message, &status,
			&m.IPAddress, &m.UserAgent, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan contact message: %w", err)
		}
		m.Status = domain.MessageStatus(status)
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *contactRepo) Count(ctx context.Context, opts domain.ContactListOptions) (int, error) {
	query := `SELECT COUNT(*) FROM contact_messages
              WHERE ($1::text[] IS NULL OR status = ANY($1::text[]))`
	var total int
	if err := r.db.QueryRow(ctx, query, statusArray(opts.Statuses)).Scan(&total); err != nil {
		return 0, fmt.Errorf("count contact messages: %w", err)
	}
	return total, nil
}

func (r *contactRepo) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// statusArray encodes the filter as a text[]; nil means "no filter" and
// becomes SQL NULL.
func statusArray(statuses []domain.MessageStatus) interface{} {
	if len(statuses) == 0 {
		return pq.Array([]string(nil))
	}
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return pq.Array(out)
}
