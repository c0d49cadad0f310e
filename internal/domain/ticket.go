package domain

import (
	"fmt"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
)

// ParseTicketStatus validates a raw status value.
func ParseTicketStatus(raw string) (TicketStatus, error) {
	switch TicketStatus(raw) {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved:
		return TicketStatus(raw), nil
	default:
		return "", fmt.Errorf("unknown ticket status %q", raw)
	}
}

// TicketCategory enumerates the kind of request.
type TicketCategory string

const (
	TicketCategoryTechnical TicketCategory = "technical"
	TicketCategoryAccount   TicketCategory = "account"
	TicketCategoryBilling   TicketCategory = "billing"
	TicketCategoryFeature   TicketCategory = "feature"
)

// ParseTicketCategory validates a raw category value.
func ParseTicketCategory(raw string) (TicketCategory, error) {
	switch TicketCategory(raw) {
	case TicketCategoryTechnical, TicketCategoryAccount, TicketCategoryBilling, TicketCategoryFeature:
		return TicketCategory(raw), nil
	default:
		return "", fmt.Errorf("unknown ticket category %q", raw)
	}
}

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
)

// ParseTicketPriority validates a raw priority value.
func ParseTicketPriority(raw string) (TicketPriority, error) {
	switch TicketPriority(raw) {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return TicketPriority(raw), nil
	default:
		return "", fmt.Errorf("unknown ticket priority %q", raw)
	}
}

// Attachment stores metadata for a file attached at ticket creation.
type Attachment struct {
	FileName     string
	OriginalName string
	MimeType     string
	SizeBytes    int64
	Path         string
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID          string
	Title       string
	Description string
	Category    TicketCategory
	Priority    TicketPriority
	Status      TicketStatus
	OwnerID     string
	Attachment  *Attachment
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TicketWithOwner is a ticket joined with its owner's display attributes.
type TicketWithOwner struct {
	Ticket
	OwnerName  string
	OwnerEmail string
}
