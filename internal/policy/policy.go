// Package policy holds the access decisions applied before any store
// operation. Every function is a pure predicate over attributes the caller
// has already loaded; a nil actor or ticket always denies.
package policy

import "github.com/helpmate/helpdesk/internal/domain"

// CanReadTicket allows admins and the ticket owner.
func CanReadTicket(actor *domain.User, ticket *domain.Ticket) bool {
	if actor == nil || ticket == nil {
		return false
	}
	return actor.IsAdmin() || actor.ID == ticket.OwnerID
}

// CanWriteTicketStatus allows only admins.
func CanWriteTicketStatus(actor *domain.User, _ *domain.Ticket) bool {
	return actor.IsAdmin()
}

// CanDeleteTicket allows only admins.
func CanDeleteTicket(actor *domain.User) bool {
	return actor.IsAdmin()
}

// CanComment mirrors CanReadTicket: a non-owner non-admin may neither
// read nor comment.
func CanComment(actor *domain.User, ticket *domain.Ticket) bool {
	return CanReadTicket(actor, ticket)
}

// CanViewStats allows only admins.
func CanViewStats(actor *domain.User) bool {
	return actor.IsAdmin()
}
