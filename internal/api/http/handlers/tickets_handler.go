package handlers

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/helpmate/helpdesk/internal/api/dto"
	"github.com/helpmate/helpdesk/internal/auth"
	"github.com/helpmate/helpdesk/internal/domain"
	"github.com/helpmate/helpdesk/internal/service"
	"github.com/helpmate/helpdesk/internal/storage"
	apperrors "github.com/helpmate/helpdesk/pkg/util/errorutil"
)

// TicketsHandler manages ticket, comment and attachment endpoints.
type TicketsHandler struct {
	service *service.TicketService
	store   *storage.LocalStore
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, store *storage.LocalStore) *TicketsHandler {
	return &TicketsHandler{service: ticketService, store: store}
}

// CreateTicket POST /api/tickets. Accepts multipart form data with an
// optional "attachment" file.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	input := service.TicketCreateInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Category:    c.FormValue("category"),
		Priority:    c.FormValue("priority"),
	}

	if fileHeader, err := c.FormFile("attachment"); err == nil && fileHeader != nil {
		attachment, err := h.storeUpload(fileHeader.Filename, fileHeader.Header.Get("Content-Type"), fileHeader)
		if err != nil {
			return err
		}
		input.Attachment = attachment
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), actor, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewBareTicketResponse(ticket)})
}

// ListTickets GET /api/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	filter, err := parseTicketFilter(c)
	if err != nil {
		return err
	}

	tickets, err := h.service.ListTickets(c.UserContext(), actor, filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.NewTicketResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /api/tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	ticket, comments, err := h.service.GetTicket(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}

	detail := dto.TicketDetailResponse{
		TicketResponse: dto.NewTicketResponse(ticket),
		Comments:       make([]dto.CommentResponse, 0, len(comments)),
	}
	for i := range comments {
		detail.Comments = append(detail.Comments, dto.NewCommentResponse(&comments[i]))
	}
	return c.JSON(fiber.Map{"data": detail})
}

// UpdateStatus PUT /api/tickets/:id.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}

	ticket, err := h.service.SetTicketStatus(c.UserContext(), actor, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// DeleteTicket DELETE /api/tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	if err := h.service.DeleteTicket(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

// AddComment POST /api/tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	comment, err := h.service.AddComment(c.UserContext(), actor, c.Params("id"), req.Content)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewBareCommentResponse(comment)})
}

func (h *TicketsHandler) storeUpload(name, mimeType string, fileHeader *multipart.FileHeader) (*domain.Attachment, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, apperrors.NewUnavailable(err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, apperrors.NewUnavailable(err)
	}
	return h.store.Save(name, mimeType, data)
}

func parseTicketFilter(c *fiber.Ctx) (domain.TicketFilter, error) {
	var filter domain.TicketFilter

	if raw := c.Query("status"); raw != "" {
		status, err := domain.ParseTicketStatus(raw)
		if err != nil {
			return filter, apperrors.NewValidationError(err.Error(), nil)
		}
		filter.Status = &status
	}
	if raw := c.Query("category"); raw != "" {
		category, err := domain.ParseTicketCategory(raw)
		if err != nil {
			return filter, apperrors.NewValidationError(err.Error(), nil)
		}
		filter.Category = &category
	}
	if raw := c.Query("priority"); raw != "" {
		priority, err := domain.ParseTicketPriority(raw)
		if err != nil {
			return filter, apperrors.NewValidationError(err.Error(), nil)
		}
		filter.Priority = &priority
	}
	return filter, nil
}
