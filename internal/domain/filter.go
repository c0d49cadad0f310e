package domain

// TicketFilter holds optional equality filters applied after listing.
// A nil field passes every ticket.
type TicketFilter struct {
	Status   *TicketStatus
	Category *TicketCategory
	Priority *TicketPriority
}

// Matches reports whether the ticket satisfies every present filter field.
func (f TicketFilter) Matches(t *Ticket) bool {
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.Category != nil && t.Category != *f.Category {
		return false
	}
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	return true
}

// FilterTickets returns the tickets matching the filter, preserving order.
// Shared by the admin listing and the per-user listing.
func FilterTickets(tickets []TicketWithOwner, filter TicketFilter) []TicketWithOwner {
	result := make([]TicketWithOwner, 0, len(tickets))
	for i := range tickets {
		if filter.Matches(&tickets[i].Ticket) {
			result = append(result, tickets[i])
		}
	}
	return result
}
