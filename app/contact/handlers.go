package contact

import (
	"context"
	"strings"

	"henalis/app"
	"henalis/domain"
	"henalis/pkg/events"
	"henalis/pkg/httperror"
)

type Repository interface {
	CreateContactMessage(ctx context.Context, m domain.ContactMessage) (domain.ContactMessage, error)
	ListContactMessages(ctx context.Context, limit, offset int) ([]domain.ContactMessage, error)
	GetContactMessage(ctx context.Context, id string) (domain.ContactMessage, error)
	UpdateContactMessage(ctx context.Context, id string, patch domain.ContactMessagePatch) (domain.ContactMessage, error)
	DeleteContactMessage(ctx context.Context, id string) error
	DeleteAllContactMessages(ctx context.Context) (int, error)
}

type CreateMessageHandler struct {
	repository Repository
	emitter    *events.Emitter
}

func NewCreateMessageHandler(repository Repository, emitter *events.Emitter) *CreateMessageHandler {
	return &CreateMessageHandler{repository: repository, emitter: emitter}
}

type CreateMessageRequest struct {
	FullName string  `json:"full_name" validate:"required,min=2,max=100"`
	Email    string  `json:"email" validate:"required,email"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
	Subject  string  `json:"subject" validate:"required,oneof='General Inquiry' 'Product Information' 'Order Status' 'Delivery Information' 'Warranty Claim' 'Custom Furniture' 'Feedback'"`
	Message  string  `json:"message" validate:"required,min=5,max=2000"`
}

type CreateMessageResponse struct {
	app.Created
	Message domain.ContactMessage `json:"message"`
}

func (h CreateMessageHandler) Handle(ctx context.Context, req *CreateMessageRequest) (*CreateMessageResponse, error) {
	if err := app.Validate(req, "contact.create"); err != nil {
		return nil, err
	}

	message, err := h.repository.CreateContactMessage(ctx, domain.ContactMessage{
		FullName: strings.TrimSpace(req.FullName),
		Email:    strings.TrimSpace(req.Email),
		Phone:    req.Phone,
		Subject:  req.Subject,
		Message:  req.Message,
	})
	if err != nil {
		return nil, app.MapError(err, "contact.create")
	}

	h.emitter.Emit(ctx, events.ContactMessageReceivedEvent, events.ContactMessageReceivedPayload{
		ID:        message.ID,
		FullName:  message.FullName,
		Email:     message.Email,
		Subject:   message.Subject,
		CreatedAt: message.CreatedAt,
	})

	return &CreateMessageResponse{Message: message}, nil
}

type GetMessagesHandler struct {
	repository Repository
	paging     app.Paging
}

func NewGetMessagesHandler(repository Repository, paging app.Paging) *GetMessagesHandler {
	return &GetMessagesHandler{repository: repository, paging: paging}
}

type GetMessagesRequest struct {
	Limit  int `query:"limit" validate:"gte=0"`
	Offset int `query:"offset" validate:"gte=0"`
}

type GetMessagesResponse struct {
	Messages []domain.ContactMessage `json:"messages"`
}

func (h GetMessagesHandler) Handle(ctx context.Context, req *GetMessagesRequest) (*GetMessagesResponse, error) {
	if err := app.Validate(req, "contact.index"); err != nil {
		return nil, err
	}

	limit, offset := h.paging.Clamp(req.Limit, req.Offset)
	messages, err := h.repository.ListContactMessages(ctx, limit, offset)
	if err != nil {
		return nil, app.MapError(err, "contact.index")
	}

	return &GetMessagesResponse{Messages: messages}, nil
}

type MessageRequest struct {
	ID string `params:"id" validate:"required,uuid"`
}

type MessageResponse struct {
	Message domain.ContactMessage `json:"message"`
}

type GetMessageHandler struct {
	repository Repository
}

func NewGetMessageHandler(repository Repository) *GetMessageHandler {
	return &GetMessageHandler{repository: repository}
}

func (h GetMessageHandler) Handle(ctx context.Context, req *MessageRequest) (*MessageResponse, error) {
	if err := app.Validate(req, "contact.show"); err != nil {
		return nil, err
	}

	message, err := h.repository.GetContactMessage(ctx, req.ID)
	if err != nil {
		return nil, app.MapError(err, "contact.show")
	}

	return &MessageResponse{Message: message}, nil
}

type UpdateMessageHandler struct {
	repository Repository
}

func NewUpdateMessageHandler(repository Repository) *UpdateMessageHandler {
	return &UpdateMessageHandler{repository: repository}
}

type UpdateMessageRequest struct {
	ID string `params:"id" validate:"required,uuid"`
	domain.ContactMessagePatch
}

func (h UpdateMessageHandler) Handle(ctx context.Context, req *UpdateMessageRequest) (*MessageResponse, error) {
	if err := app.Validate(req, "contact.update"); err != nil {
		return nil, err
	}

	message, err := h.repository.UpdateContactMessage(ctx, req.ID, req.ContactMessagePatch)
	if err != nil {
		return nil, app.MapError(err, "contact.update")
	}

	return &MessageResponse{Message: message}, nil
}

type DeleteMessageHandler struct {
	repository Repository
}

func NewDeleteMessageHandler(repository Repository) *DeleteMessageHandler {
	return &DeleteMessageHandler{repository: repository}
}

type DeleteResponse struct {
}

func (h DeleteMessageHandler) Handle(ctx context.Context, req *MessageRequest) (*DeleteResponse, error) {
	if err := app.Validate(req, "contact.destroy"); err != nil {
		return nil, err
	}

	if err := h.repository.DeleteContactMessage(ctx, req.ID); err != nil {
		return nil, app.MapError(err, "contact.destroy")
	}

	return nil, httperror.NoContent("contact.destroy.success", "Message deleted successfully", nil)
}

type DeleteAllMessagesHandler struct {
	repository Repository
}

func NewDeleteAllMessagesHandler(repository Repository) *DeleteAllMessagesHandler {
	return &DeleteAllMessagesHandler{repository: repository}
}

type DeleteAllRequest struct {
}

func (h DeleteAllMessagesHandler) Handle(ctx context.Context, _ *DeleteAllRequest) (*DeleteResponse, error) {
	if _, err := h.repository.DeleteAllContactMessages(ctx); err != nil {
		return nil, app.MapError(err, "contact.destroy_all")
	}

	return nil, httperror.NoContent("contact.destroy_all.success", "All messages deleted", nil)
}
