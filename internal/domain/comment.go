package domain

import "time"

// Comment is a reply in a ticket thread. Comments are immutable once created.
type Comment struct {
	ID        string
	TicketID  string
	AuthorID  string
	Content   string
	CreatedAt time.Time
}

// CommentWithAuthor is a comment joined with its author's display attributes.
type CommentWithAuthor struct {
	Comment
	AuthorName string
	AuthorRole Role
}
