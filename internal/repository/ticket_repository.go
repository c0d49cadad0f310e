package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpmate/helpdesk/internal/domain"
)

// TicketRepository encapsulates ticket persistence. Status/category/priority
// filtering is applied in memory by domain.FilterTickets after listing, so
// the queries here stay fixed.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.TicketWithOwner, error)
	ListAll(ctx context.Context) ([]domain.TicketWithOwner, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.TicketWithOwner, error)
	UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) (*domain.TicketWithOwner, error)
	Delete(ctx context.Context, id string) error
	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status domain.TicketStatus) (int64, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `t.id, t.title, t.description, t.category, t.priority, t.status, t.owner_id,
       t.attachment_file_name, t.attachment_original_name, t.attachment_mime_type,
       t.attachment_size_bytes, t.attachment_path,
       t.created_at, t.updated_at, u.name, u.email`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (id, title, description, category, priority, status, owner_id,
            attachment_file_name, attachment_original_name, attachment_mime_type,
            attachment_size_bytes, attachment_path)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING created_at, updated_at`

	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}

	var fileName, originalName, mimeType, path *string
	var sizeBytes *int64
	if att := ticket.Attachment; att != nil {
		fileName = &att.FileName
		originalName = &att.OriginalName
		mimeType = &att.MimeType
		sizeBytes = &att.SizeBytes
		path = &att.Path
	}

	return r.pool.QueryRow(ctx, query,
		ticket.ID,
		ticket.Title,
		ticket.Description,
		ticket.Category,
		ticket.Priority,
		ticket.Status,
		ticket.OwnerID,
		fileName,
		originalName,
		mimeType,
		sizeBytes,
		path,
	).Scan(&ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.TicketWithOwner, error) {
	const query = `
        SELECT ` + ticketColumns + `
        FROM tickets t JOIN users u ON t.owner_id = u.id
        WHERE t.id=$1`

	row := r.pool.QueryRow(ctx, query, id)
	return scanTicket(row)
}

func (r *ticketRepository) ListAll(ctx context.Context) ([]domain.TicketWithOwner, error) {
	const query = `
        SELECT ` + ticketColumns + `
        FROM tickets t JOIN users u ON t.owner_id = u.id
        ORDER BY t.created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.TicketWithOwner, error) {
	const query = `
        SELECT ` + ticketColumns + `
        FROM tickets t JOIN users u ON t.owner_id = u.id
        WHERE t.owner_id=$1
        ORDER BY t.created_at DESC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) (*domain.TicketWithOwner, error) {
	const query = `UPDATE tickets SET status=$1, updated_at=NOW() WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, pgx.ErrNoRows
	}
	return r.GetByID(ctx, id)
}

// Delete is idempotent: removing an unknown id is not an error here.
func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM tickets WHERE id=$1`

	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *ticketRepository) CountAll(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM tickets`

	var count int64
	if err := r.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ticketRepository) CountByStatus(ctx context.Context, status domain.TicketStatus) (int64, error) {
	const query = `SELECT COUNT(*) FROM tickets WHERE status=$1`

	var count int64
	if err := r.pool.QueryRow(ctx, query, status).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanTicket(row pgx.Row) (*domain.TicketWithOwner, error) {
	var (
		ticket       domain.TicketWithOwner
		fileName     *string
		originalName *string
		mimeType     *string
		sizeBytes    *int64
		path         *string
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Category,
		&ticket.Priority,
		&ticket.Status,
		&ticket.OwnerID,
		&fileName,
		&originalName,
		&mimeType,
		&sizeBytes,
		&path,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.OwnerName,
		&ticket.OwnerEmail,
	); err != nil {
		return nil, err
	}
	if fileName != nil {
		ticket.Attachment = &domain.Attachment{
			FileName:     *fileName,
			OriginalName: derefString(originalName),
			MimeType:     derefString(mimeType),
			SizeBytes:    derefInt64(sizeBytes),
			Path:         derefString(path),
		}
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.TicketWithOwner, error) {
	var result []domain.TicketWithOwner
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt64(n *int64) int64 {
	if n == nil {
		return 0
	}
	return *n
}
