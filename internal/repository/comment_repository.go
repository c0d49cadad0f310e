package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpmate/helpdesk/internal/domain"
)

// CommentRepository manages ticket thread comments. It performs no
// authorization; callers must have already consulted the access policy.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.CommentWithAuthor, error)
	DeleteAllForTicket(ctx context.Context, ticketID string) error
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository builds repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO comments (id, ticket_id, author_id, content)
        VALUES ($1,$2,$3,$4)
        RETURNING created_at`

	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	return r.pool.QueryRow(ctx, query,
		comment.ID,
		comment.TicketID,
		comment.AuthorID,
		comment.Content,
	).Scan(&comment.CreatedAt)
}

func (r *commentRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.CommentWithAuthor, error) {
	const query = `
        SELECT c.id, c.ticket_id, c.author_id, c.content, c.created_at, u.name, u.role
        FROM comments c JOIN users u ON c.author_id = u.id
        WHERE c.ticket_id=$1 ORDER BY c.created_at ASC`

	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CommentWithAuthor
	for rows.Next() {
		var comment domain.CommentWithAuthor
		if err := rows.Scan(
			&comment.ID,
			&comment.TicketID,
			&comment.AuthorID,
			&comment.Content,
			&comment.CreatedAt,
			&comment.AuthorName,
			&comment.AuthorRole,
		); err != nil {
			return nil, err
		}
		result = append(result, comment)
	}
	return result, rows.Err()
}

// DeleteAllForTicket removes every comment under the given ticket. It is
// the first half of the delete cascade and safe to retry.
func (r *commentRepository) DeleteAllForTicket(ctx context.Context, ticketID string) error {
	const query = `DELETE FROM comments WHERE ticket_id=$1`

	_, err := r.pool.Exec(ctx, query, ticketID)
	return err
}
