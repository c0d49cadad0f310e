package dto

import (
	"time"

	"github.com/helpmate/helpdesk/internal/domain"
)

// UpdateStatusRequest payload. Status is the only mutable ticket field.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Content string `json:"content"`
}

// AttachmentResponse metadata for a stored attachment.
type AttachmentResponse struct {
	FileName     string `json:"filename"`
	OriginalName string `json:"originalname"`
	MimeType     string `json:"mimetype"`
	SizeBytes    int64  `json:"size"`
	Path         string `json:"path"`
}

// TicketResponse is the listing/summary view of a ticket.
type TicketResponse struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Category    domain.TicketCategory `json:"category"`
	Priority    domain.TicketPriority `json:"priority"`
	Status      domain.TicketStatus   `json:"status"`
	OwnerID     string                `json:"owner_id"`
	OwnerName   string                `json:"owner_name,omitempty"`
	OwnerEmail  string                `json:"owner_email,omitempty"`
	Attachment  *AttachmentResponse   `json:"attachment,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// TicketDetailResponse adds the ordered comment thread.
type TicketDetailResponse struct {
	TicketResponse
	Comments []CommentResponse `json:"comments"`
}

// CommentResponse represents a thread comment with author attributes.
type CommentResponse struct {
	ID         string      `json:"id"`
	TicketID   string      `json:"ticket_id"`
	AuthorID   string      `json:"author_id"`
	AuthorName string      `json:"author_name,omitempty"`
	AuthorRole domain.Role `json:"author_role,omitempty"`
	Content    string      `json:"content"`
	CreatedAt  time.Time   `json:"created_at"`
}

// NewTicketResponse maps a ticket joined with owner attributes.
func NewTicketResponse(ticket *domain.TicketWithOwner) TicketResponse {
	resp := newTicketResponse(&ticket.Ticket)
	resp.OwnerName = ticket.OwnerName
	resp.OwnerEmail = ticket.OwnerEmail
	return resp
}

// NewBareTicketResponse maps a ticket without owner attributes, used
// right after creation where the owner is the caller.
func NewBareTicketResponse(ticket *domain.Ticket) TicketResponse {
	return newTicketResponse(ticket)
}

func newTicketResponse(ticket *domain.Ticket) TicketResponse {
	resp := TicketResponse{
		ID:          ticket.ID,
		Title:       ticket.Title,
		Description: ticket.Description,
		Category:    ticket.Category,
		Priority:    ticket.Priority,
		Status:      ticket.Status,
		OwnerID:     ticket.OwnerID,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
	if att := ticket.Attachment; att != nil {
		resp.Attachment = &AttachmentResponse{
			FileName:     att.FileName,
			OriginalName: att.OriginalName,
			MimeType:     att.MimeType,
			SizeBytes:    att.SizeBytes,
			Path:         att.Path,
		}
	}
	return resp
}

// NewCommentResponse maps a comment joined with author attributes.
func NewCommentResponse(comment *domain.CommentWithAuthor) CommentResponse {
	return CommentResponse{
		ID:         comment.ID,
		TicketID:   comment.TicketID,
		AuthorID:   comment.AuthorID,
		AuthorName: comment.AuthorName,
		AuthorRole: comment.AuthorRole,
		Content:    comment.Content,
		CreatedAt:  comment.CreatedAt,
	}
}

// NewBareCommentResponse maps a freshly created comment.
func NewBareCommentResponse(comment *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		TicketID:  comment.TicketID,
		AuthorID:  comment.AuthorID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
}
