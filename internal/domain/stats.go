package domain

// Stats aggregates ticket and user counts for the admin dashboard.
// TotalUsers counts non-admin accounts only.
type Stats struct {
	TotalTickets      int64 `json:"total_tickets"`
	OpenTickets       int64 `json:"open_tickets"`
	InProgressTickets int64 `json:"in_progress_tickets"`
	ResolvedTickets   int64 `json:"resolved_tickets"`
	TotalUsers        int64 `json:"total_users"`
}
