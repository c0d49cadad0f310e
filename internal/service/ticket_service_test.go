package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpmate/helpdesk/internal/domain"
	apperrors "github.com/helpmate/helpdesk/pkg/util/errorutil"
)

func TestCreateTicketRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	user := f.addUser(ctx, "John Doe", "john@example.com", domain.RoleUser)

	ticket, err := f.service.CreateTicket(ctx, user, TicketCreateInput{
		Title:       "A",
		Description: "B",
		Category:    "billing",
		Priority:    "low",
	})
	require.NoError(t, err)
	require.NotEmpty(t, ticket.ID)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, user.ID, ticket.OwnerID)

	got, comments, err := f.service.GetTicket(ctx, user, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, got.ID)
	assert.Equal(t, domain.TicketStatusOpen, got.Status)
	assert.Equal(t, user.ID, got.OwnerID)
	assert.Empty(t, comments)
}

func TestCreateTicketValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	user := f.addUser(ctx, "John Doe", "john@example.com", domain.RoleUser)

	tests := []struct {
		name  string
		input TicketCreateInput
	}{
		{"missing title", TicketCreateInput{Description: "B", Category: "billing"}},
		{"missing description", TicketCreateInput{Title: "A", Category: "billing"}},
		{"bad category", TicketCreateInput{Title: "A", Description: "B", Category: "bogus"}},
		{"bad priority", TicketCreateInput{Title: "A", Description: "B", Category: "billing", Priority: "urgent"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.CreateTicket(ctx, user, tc.input)
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
		})
	}
}

func TestCreateTicketDefaultsPriorityToMedium(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	user := f.addUser(ctx, "John Doe", "john@example.com", domain.RoleUser)

	ticket, err := f.service.CreateTicket(ctx, user, TicketCreateInput{
		Title:       "A",
		Description: "B",
		Category:    "technical",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketPriorityMedium, ticket.Priority)
}

func TestListTicketsScoping(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	admin := f.addUser(ctx, "Admin", "admin@example.com", domain.RoleAdmin)
	alice := f.addUser(ctx, "Alice", "alice@example.com", domain.RoleUser)
	bob := f.addUser(ctx, "Bob", "bob@example.com", domain.RoleUser)

	for _, owner := range []*domain.User{alice, alice, bob} {
		_, err := f.service.CreateTicket(ctx, owner, TicketCreateInput{
			Title: "T", Description: "D", Category: "technical",
		})
		require.NoError(t, err)
	}

	all, err := f.service.ListTickets(ctx, admin, domain.TicketFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := f.service.ListTickets(ctx, alice, domain.TicketFilter{})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	for _, ticket := range mine {
		assert.Equal(t, alice.ID, ticket.OwnerID)
	}
}

func TestListTicketsNewestFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	user := f.addUser(ctx, "Alice", "alice@example.com", domain.RoleUser)

	first, err := f.service.CreateTicket(ctx, user, TicketCreateInput{Title: "first", Description: "D", Category: "account"})
	require.NoError(t, err)
	second, err := f.service.CreateTicket(ctx, user, TicketCreateInput{Title: "second", Description: "D", Category: "account"})
	require.NoError(t, err)

	listed, err := f.service.ListTickets(ctx, user, domain.TicketFilter{})
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, second.ID, listed[0].ID)
	assert.Equal(t, first.ID, listed[1].ID)
}

func TestGetTicketForbiddenForStranger(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	alice := f.addUser(ctx, "Alice", "alice@example.com", domain.RoleUser)
	bob := f.addUser(ctx, "Bob", "bob@example.com", domain.RoleUser)

	ticket, err := f.service.CreateTicket(ctx, alice, TicketCreateInput{
		Title: "T", Description: "D", Category: "technical",
	})
	require.NoError(t, err)

	_, _, err = f.service.GetTicket(ctx, bob, ticket.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestGetTicketNotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	user := f.addUser(ctx, "Alice", "alice@example.com", domain.RoleUser)

	_, _, err := f.service.GetTicket(ctx, user, "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestSetTicketStatusByNonAdminLeavesStatusUnchanged(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	alice := f.addUser(ctx, "Alice", "alice@example.com", domain.RoleUser)

	ticket, err := f.service.CreateTicket(ctx, alice, TicketCreateInput{
		Title: "T", Description: "D", Category: "technical",
	})
	require.NoError(t, err)

	_, err = f.service.SetTicketStatus(ctx, alice, ticket.ID, "resolved")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	stored, err := f.tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, stored.Status)
}

func TestSetTicketStatusPermissiveTransitions(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	admin := f.addUser(ctx, "Admin", "admin@example.com", domain.RoleAdmin)
	user := f.addUser(ctx, "Alice", "alice@example.com", domain.RoleUser)

	ticket, err := f.service.CreateTicket(ctx, user, TicketCreateInput{
		Title: "T", Description: "D", Category: "technical",
	})
	require.NoError(t, err)

	// No ordering restriction: resolved may go back to in_progress.
	for _, status := range []string{"resolved", "in_progress", "open", "resolved"} {
		updated, err := f.service.SetTicketStatus(ctx, admin, ticket.ID, status)
		require.NoError(t, err)
		assert.Equal(t, domain.TicketStatus(status), updated.Status)
	}

	_, err = f.service.SetTicketStatus(ctx, admin, ticket.ID, "closed")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestDeleteTicketCascadesComments(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	admin := f.addUser(ctx, "Admin", "admin@example.com", domain.RoleAdmin)
	user := f.addUser(ctx, "Alice", "alice@example.com", domain.RoleUser)

	ticket, err := f.service.CreateTicket(ctx, user, TicketCreateInput{
		Title: "T", Description: "D", Category: "technical",
	})
	require.NoError(t, err)
	other, err := f.service.CreateTicket(ctx, user, TicketCreateInput{
		Title: "T2", Description: "D", Category: "technical",
	})
	require.NoError(t, err)

	_, err = f.service.AddComment(ctx, user, ticket.ID, "first")
	require.NoError(t, err)
	_, err = f.service.AddComment(ctx, admin, ticket.ID, "second")
	require.NoError(t, err)
	kept, err := f.service.AddComment(ctx, user, other.ID, "unrelated")
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteTicket(ctx, admin, ticket.ID))

	_, _, err = f.service.GetTicket(ctx, admin, ticket.ID)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))

	orphans, err := f.comments.ListByTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Empty(t, orphans)

	remaining, err := f.comments.ListByTicket(ctx, other.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, kept.ID, remaining[0].ID)
}

func TestDeleteTicketForbiddenForNonAdmin(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	user := f.addUser(ctx, "Alice", "alice@example.com", domain.RoleUser)

	ticket, err := f.service.CreateTicket(ctx, user, TicketCreateInput{
		Title: "T", Description: "D", Category: "technical",
	})
	require.NoError(t, err)

	err = f.service.DeleteTicket(ctx, user, ticket.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestAddCommentRules(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	admin := f.addUser(ctx, "Admin", "admin@example.com", domain.RoleAdmin)
	alice := f.addUser(ctx, "Alice", "alice@example.com", domain.RoleUser)
	bob := f.addUser(ctx, "Bob", "bob@example.com", domain.RoleUser)

	ticket, err := f.service.CreateTicket(ctx, alice, TicketCreateInput{
		Title: "T", Description: "D", Category: "technical",
	})
	require.NoError(t, err)

	comment, err := f.service.AddComment(ctx, alice, ticket.ID, "owner can comment")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, comment.AuthorID)

	_, err = f.service.AddComment(ctx, admin, ticket.ID, "admin can comment")
	require.NoError(t, err)

	_, err = f.service.AddComment(ctx, bob, ticket.ID, "stranger cannot")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	_, err = f.service.AddComment(ctx, alice, ticket.ID, "   ")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	_, err = f.service.AddComment(ctx, alice, "missing", "no parent")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestCommentsOrderedAscending(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	alice := f.addUser(ctx, "Alice", "alice@example.com", domain.RoleUser)

	ticket, err := f.service.CreateTicket(ctx, alice, TicketCreateInput{
		Title: "T", Description: "D", Category: "technical",
	})
	require.NoError(t, err)

	first, err := f.service.AddComment(ctx, alice, ticket.ID, "one")
	require.NoError(t, err)
	second, err := f.service.AddComment(ctx, alice, ticket.ID, "two")
	require.NoError(t, err)

	_, comments, err := f.service.GetTicket(ctx, alice, ticket.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, first.ID, comments[0].ID)
	assert.Equal(t, second.ID, comments[1].ID)
	assert.Equal(t, "Alice", comments[0].AuthorName)
	assert.Equal(t, domain.RoleUser, comments[0].AuthorRole)
}

func TestGetStatsAdminOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	user := f.addUser(ctx, "Alice", "alice@example.com", domain.RoleUser)

	_, err := f.service.GetStats(ctx, user)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestGetStatsReflectsStatusTransitions(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	admin := f.addUser(ctx, "Admin", "admin@example.com", domain.RoleAdmin)
	user := f.addUser(ctx, "Alice", "alice@example.com", domain.RoleUser)

	ticket, err := f.service.CreateTicket(ctx, user, TicketCreateInput{
		Title: "T", Description: "D", Category: "technical",
	})
	require.NoError(t, err)
	_, err = f.service.CreateTicket(ctx, user, TicketCreateInput{
		Title: "T2", Description: "D", Category: "billing",
	})
	require.NoError(t, err)

	stats, err := f.service.GetStats(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalTickets)
	assert.Equal(t, int64(2), stats.OpenTickets)
	assert.Equal(t, int64(1), stats.TotalUsers) // admin not counted

	_, err = f.service.SetTicketStatus(ctx, admin, ticket.ID, "in_progress")
	require.NoError(t, err)
	stats, err = f.service.GetStats(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.OpenTickets)
	assert.Equal(t, int64(1), stats.InProgressTickets)
	assert.Equal(t, int64(0), stats.ResolvedTickets)

	_, err = f.service.SetTicketStatus(ctx, admin, ticket.ID, "resolved")
	require.NoError(t, err)
	stats, err = f.service.GetStats(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.OpenTickets)
	assert.Equal(t, int64(0), stats.InProgressTickets)
	assert.Equal(t, int64(1), stats.ResolvedTickets)
	assert.Equal(t, int64(2), stats.TotalTickets)
}

func TestGetStatsCaching(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	admin := f.addUser(ctx, "Admin", "admin@example.com", domain.RoleAdmin)
	user := f.addUser(ctx, "Alice", "alice@example.com", domain.RoleUser)

	_, err := f.service.GetStats(ctx, admin)
	require.NoError(t, err)

	cached, ok := f.cache.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(0), cached.TotalTickets)

	_, err = f.service.CreateTicket(ctx, user, TicketCreateInput{
		Title: "T", Description: "D", Category: "feature",
	})
	require.NoError(t, err)

	_, ok = f.cache.Get(ctx)
	assert.False(t, ok, "mutation should invalidate the cache")

	stats, err := f.service.GetStats(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalTickets)
}
