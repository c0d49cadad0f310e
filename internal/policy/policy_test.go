package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/helpmate/helpdesk/internal/domain"
)

var (
	admin    = &domain.User{ID: "admin-1", Role: domain.RoleAdmin}
	owner    = &domain.User{ID: "user-1", Role: domain.RoleUser}
	stranger = &domain.User{ID: "user-2", Role: domain.RoleUser}
	ticket   = &domain.Ticket{ID: "ticket-1", OwnerID: "user-1"}
)

func TestCanReadTicket(t *testing.T) {
	assert.True(t, CanReadTicket(admin, ticket))
	assert.True(t, CanReadTicket(owner, ticket))
	assert.False(t, CanReadTicket(stranger, ticket))
	assert.False(t, CanReadTicket(nil, ticket))
	assert.False(t, CanReadTicket(owner, nil))
}

func TestCanWriteTicketStatus(t *testing.T) {
	assert.True(t, CanWriteTicketStatus(admin, ticket))
	assert.False(t, CanWriteTicketStatus(owner, ticket))
	assert.False(t, CanWriteTicketStatus(stranger, ticket))
	assert.False(t, CanWriteTicketStatus(nil, ticket))
}

func TestCanDeleteTicket(t *testing.T) {
	assert.True(t, CanDeleteTicket(admin))
	assert.False(t, CanDeleteTicket(owner))
	assert.False(t, CanDeleteTicket(nil))
}

func TestCanCommentMirrorsRead(t *testing.T) {
	assert.True(t, CanComment(admin, ticket))
	assert.True(t, CanComment(owner, ticket))
	assert.False(t, CanComment(stranger, ticket))
	assert.False(t, CanComment(nil, ticket))
}

func TestCanViewStats(t *testing.T) {
	assert.True(t, CanViewStats(admin))
	assert.False(t, CanViewStats(owner))
	assert.False(t, CanViewStats(nil))
}
