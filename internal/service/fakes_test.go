package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/helpmate/helpdesk/internal/domain"
	"github.com/helpmate/helpdesk/internal/repository"
)

// -------- in-memory fakes --------

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now()
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) CountByRole(_ context.Context, role domain.Role) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, user := range f.users {
		if user.Role == role {
			count++
		}
	}
	return count, nil
}

type fakeTicketRepo struct {
	mu      sync.Mutex
	users   *fakeUserRepo
	tickets []*domain.TicketWithOwner
}

func newFakeTicketRepo(users *fakeUserRepo) *fakeTicketRepo {
	return &fakeTicketRepo{users: users}
}

func (f *fakeTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	owner, err := f.users.GetByID(ctx, ticket.OwnerID)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	f.tickets = append(f.tickets, &domain.TicketWithOwner{
		Ticket:     *ticket,
		OwnerName:  owner.Name,
		OwnerEmail: owner.Email,
	})
	return nil
}

func (f *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.TicketWithOwner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ticket := range f.tickets {
		if ticket.ID == id {
			clone := *ticket
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTicketRepo) ListAll(_ context.Context) ([]domain.TicketWithOwner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]domain.TicketWithOwner, 0, len(f.tickets))
	for i := len(f.tickets) - 1; i >= 0; i-- {
		result = append(result, *f.tickets[i])
	}
	return result, nil
}

func (f *fakeTicketRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.TicketWithOwner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.TicketWithOwner
	for i := len(f.tickets) - 1; i >= 0; i-- {
		if f.tickets[i].OwnerID == ownerID {
			result = append(result, *f.tickets[i])
		}
	}
	return result, nil
}

func (f *fakeTicketRepo) UpdateStatus(_ context.Context, id string, status domain.TicketStatus) (*domain.TicketWithOwner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ticket := range f.tickets {
		if ticket.ID == id {
			ticket.Status = status
			ticket.UpdatedAt = time.Now()
			clone := *ticket
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTicketRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, ticket := range f.tickets {
		if ticket.ID == id {
			f.tickets = append(f.tickets[:i], f.tickets[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeTicketRepo) CountAll(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.tickets)), nil
}

func (f *fakeTicketRepo) CountByStatus(_ context.Context, status domain.TicketStatus) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, ticket := range f.tickets {
		if ticket.Status == status {
			count++
		}
	}
	return count, nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	users    *fakeUserRepo
	comments []*domain.CommentWithAuthor
}

func newFakeCommentRepo(users *fakeUserRepo) *fakeCommentRepo {
	return &fakeCommentRepo{users: users}
}

func (f *fakeCommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	author, err := f.users.GetByID(ctx, comment.AuthorID)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	comment.CreatedAt = time.Now()
	f.comments = append(f.comments, &domain.CommentWithAuthor{
		Comment:    *comment,
		AuthorName: author.Name,
		AuthorRole: author.Role,
	})
	return nil
}

func (f *fakeCommentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.CommentWithAuthor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]domain.CommentWithAuthor, 0)
	for _, comment := range f.comments {
		if comment.TicketID == ticketID {
			result = append(result, *comment)
		}
	}
	return result, nil
}

func (f *fakeCommentRepo) DeleteAllForTicket(_ context.Context, ticketID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.comments[:0]
	for _, comment := range f.comments {
		if comment.TicketID != ticketID {
			kept = append(kept, comment)
		}
	}
	f.comments = kept
	return nil
}

type fakeStatsCache struct {
	mu            sync.Mutex
	stats         *domain.Stats
	invalidations int
}

func (f *fakeStatsCache) Get(context.Context) (*domain.Stats, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stats == nil {
		return nil, false
	}
	clone := *f.stats
	return &clone, true
}

func (f *fakeStatsCache) Set(_ context.Context, stats *domain.Stats) {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *stats
	f.stats = &clone
}

func (f *fakeStatsCache) Invalidate(context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stats = nil
	f.invalidations++
}

// -------- helpers --------

type fixture struct {
	users    *fakeUserRepo
	tickets  *fakeTicketRepo
	comments *fakeCommentRepo
	cache    *fakeStatsCache
	service  *TicketService
}

func newFixture() *fixture {
	users := newFakeUserRepo()
	tickets := newFakeTicketRepo(users)
	comments := newFakeCommentRepo(users)
	cache := &fakeStatsCache{}
	svc := NewTicketService(TicketDependencies{
		TicketRepo:  tickets,
		CommentRepo: comments,
		UserRepo:    users,
		StatsCache:  cache,
	})
	return &fixture{users: users, tickets: tickets, comments: comments, cache: cache, service: svc}
}

func (f *fixture) addUser(ctx context.Context, name, email string, role domain.Role) *domain.User {
	user := &domain.User{Name: name, Email: email, PasswordHash: "x", Role: role}
	if err := f.users.Create(ctx, user); err != nil {
		panic(err)
	}
	return user
}
