package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/helpmate/helpdesk/internal/domain"
	"github.com/helpmate/helpdesk/internal/events"
	"github.com/helpmate/helpdesk/internal/policy"
	"github.com/helpmate/helpdesk/internal/repository"
	apperrors "github.com/helpmate/helpdesk/pkg/util/errorutil"
)

// StatsCache is the optional read-through cache for dashboard counts.
type StatsCache interface {
	Get(ctx context.Context) (*domain.Stats, bool)
	Set(ctx context.Context, stats *domain.Stats)
	Invalidate(ctx context.Context)
}

// TicketService coordinates ticket workflows: it resolves the target
// ticket, consults the access policy, and only then touches the stores.
type TicketService struct {
	tickets    repository.TicketRepository
	comments   repository.CommentRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	statsCache StatsCache
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	CommentRepo repository.CommentRepository
	UserRepo    repository.UserRepository
	Dispatcher  events.Dispatcher
	StatsCache  StatsCache
}

// TicketCreateInput describes ticket creation payload. Category and
// priority arrive raw and are validated here, at the service boundary.
type TicketCreateInput struct {
	Title       string
	Description string
	Category    string
	Priority    string
	Attachment  *domain.Attachment
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	cache := deps.StatsCache
	if cache == nil {
		cache = noopStatsCache{}
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		comments:   deps.CommentRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		statsCache: cache,
	}
}

type noopStatsCache struct{}

func (noopStatsCache) Get(context.Context) (*domain.Stats, bool) { return nil, false }
func (noopStatsCache) Set(context.Context, *domain.Stats)        {}
func (noopStatsCache) Invalidate(context.Context)                {}

// CreateTicket creates a ticket owned by the actor. Callers cannot set an
// arbitrary owner; the authenticated actor is attached unconditionally.
func (s *TicketService) CreateTicket(ctx context.Context, actor *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}

	category, err := domain.ParseTicketCategory(input.Category)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}

	priority := domain.TicketPriorityMedium
	if input.Priority != "" {
		priority, err = domain.ParseTicketPriority(input.Priority)
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error(), nil)
		}
	}

	if _, err := s.users.GetByID(ctx, actor.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("owner", map[string]any{"user_id": actor.ID})
		}
		return nil, apperrors.MapError(err)
	}

	ticket := &domain.Ticket{
		Title:       title,
		Description: description,
		Category:    category,
		Priority:    priority,
		Status:      domain.TicketStatusOpen,
		OwnerID:     actor.ID,
		Attachment:  input.Attachment,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.statsCache.Invalidate(ctx)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.TicketCreatedPayload{
			Title:         ticket.Title,
			Category:      ticket.Category,
			Priority:      ticket.Priority,
			HasAttachment: ticket.Attachment != nil,
		},
	})
	return ticket, nil
}

// ListTickets returns tickets visible to the actor, newest first: admins
// see every ticket, users only their own. The filter is applied as a pure
// post-processing step shared by both paths.
func (s *TicketService) ListTickets(ctx context.Context, actor *domain.User, filter domain.TicketFilter) ([]domain.TicketWithOwner, error) {
	var (
		tickets []domain.TicketWithOwner
		err     error
	)
	if actor.IsAdmin() {
		tickets, err = s.tickets.ListAll(ctx)
	} else {
		tickets, err = s.tickets.ListByOwner(ctx, actor.ID)
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return domain.FilterTickets(tickets, filter), nil
}

// GetTicket fetches a ticket with its comment thread, enforcing read access.
func (s *TicketService) GetTicket(ctx context.Context, actor *domain.User, ticketID string) (*domain.TicketWithOwner, []domain.CommentWithAuthor, error) {
	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}
	if !policy.CanReadTicket(actor, &ticket.Ticket) {
		return nil, nil, apperrors.NewForbidden("access denied")
	}

	comments, err := s.comments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return ticket, comments, nil
}

// SetTicketStatus updates the status, admin only. Any of the three states
// may be set from any other; there is no terminal state.
func (s *TicketService) SetTicketStatus(ctx context.Context, actor *domain.User, ticketID, rawStatus string) (*domain.TicketWithOwner, error) {
	status, err := domain.ParseTicketStatus(rawStatus)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}

	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !policy.CanWriteTicketStatus(actor, &ticket.Ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}

	oldStatus := ticket.Status
	updated, err := s.tickets.UpdateStatus(ctx, ticketID, status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}

	s.statsCache.Invalidate(ctx)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticketID,
		ActorID:  actor.ID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: updated.Status,
		},
	})
	return updated, nil
}

// DeleteTicket removes a ticket and its comments, admin only. Comments go
// first so an interruption between the two deletes cannot leave comments
// referencing a missing ticket; both steps are idempotent and retryable.
func (s *TicketService) DeleteTicket(ctx context.Context, actor *domain.User, ticketID string) error {
	if !policy.CanDeleteTicket(actor) {
		return apperrors.NewForbidden("access denied")
	}
	if _, err := s.fetchTicket(ctx, ticketID); err != nil {
		return err
	}

	if err := s.comments.DeleteAllForTicket(ctx, ticketID); err != nil {
		return apperrors.MapError(err)
	}
	if err := s.tickets.Delete(ctx, ticketID); err != nil {
		return apperrors.MapError(err)
	}

	s.statsCache.Invalidate(ctx)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: ticketID,
		ActorID:  actor.ID,
		Payload:  events.TicketDeletedPayload{CommentsRemoved: true},
	})
	return nil
}

// AddComment appends a comment after re-fetching the parent ticket for
// authorization. The updated thread is not returned; callers re-read it.
func (s *TicketService) AddComment(ctx context.Context, actor *domain.User, ticketID, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("content required", nil)
	}

	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !policy.CanComment(actor, &ticket.Ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}

	comment := &domain.Comment{
		TicketID: ticket.ID,
		AuthorID: actor.ID,
		Content:  content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCommentAdded,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.TicketCommentAddedPayload{
			CommentID:      comment.ID,
			ContentPreview: contentPreview(comment.Content, 80),
		},
	})
	return comment, nil
}

// GetStats returns aggregate counts for the admin dashboard, served from
// the cache when fresh.
func (s *TicketService) GetStats(ctx context.Context, actor *domain.User) (*domain.Stats, error) {
	if !policy.CanViewStats(actor) {
		return nil, apperrors.NewForbidden("access denied")
	}

	if cached, ok := s.statsCache.Get(ctx); ok {
		return cached, nil
	}

	stats := &domain.Stats{}
	var err error
	if stats.TotalTickets, err = s.tickets.CountAll(ctx); err != nil {
		return nil, apperrors.MapError(err)
	}
	if stats.OpenTickets, err = s.tickets.CountByStatus(ctx, domain.TicketStatusOpen); err != nil {
		return nil, apperrors.MapError(err)
	}
	if stats.InProgressTickets, err = s.tickets.CountByStatus(ctx, domain.TicketStatusInProgress); err != nil {
		return nil, apperrors.MapError(err)
	}
	if stats.ResolvedTickets, err = s.tickets.CountByStatus(ctx, domain.TicketStatusResolved); err != nil {
		return nil, apperrors.MapError(err)
	}
	if stats.TotalUsers, err = s.users.CountByRole(ctx, domain.RoleUser); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.statsCache.Set(ctx, stats)
	return stats, nil
}

func (s *TicketService) fetchTicket(ctx context.Context, ticketID string) (*domain.TicketWithOwner, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func contentPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
