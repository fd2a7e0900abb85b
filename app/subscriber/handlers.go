package subscriber

import (
	"context"
	"strings"

	"henalis/app"
	"henalis/domain"
	"henalis/pkg/events"
	"henalis/pkg/httperror"
)

type Repository interface {
	CreateSubscriber(ctx context.Context, email string) (domain.Subscriber, error)
	ListSubscribers(ctx context.Context, search string, limit, offset int) ([]domain.Subscriber, error)
	UpdateSubscriber(ctx context.Context, id string, patch domain.SubscriberPatch) (domain.Subscriber, error)
	DeleteSubscriber(ctx context.Context, id string) error
}

type SubscribeHandler struct {
	repository Repository
	emitter    *events.Emitter
}

func NewSubscribeHandler(repository Repository, emitter *events.Emitter) *SubscribeHandler {
	return &SubscribeHandler{repository: repository, emitter: emitter}
}

type SubscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type SubscribeResponse struct {
	app.Created
	Subscriber domain.Subscriber `json:"subscriber"`
}

func (h SubscribeHandler) Handle(ctx context.Context, req *SubscribeRequest) (*SubscribeResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := app.Validate(req, "subscriber.create"); err != nil {
		return nil, err
	}

	subscriber, err := h.repository.CreateSubscriber(ctx, req.Email)
	if err != nil {
		return nil, app.MapError(err, "subscriber.create")
	}

	h.emitter.Emit(ctx, events.SubscriberCreatedEvent, events.SubscriberCreatedPayload{
		ID:        subscriber.ID,
		Email:     subscriber.Email,
		CreatedAt: subscriber.CreatedAt,
	})

	return &SubscribeResponse{Subscriber: subscriber}, nil
}

type GetSubscribersHandler struct {
	repository Repository
	paging     app.Paging
}

func NewGetSubscribersHandler(repository Repository, paging app.Paging) *GetSubscribersHandler {
	return &GetSubscribersHandler{repository: repository, paging: paging}
}

type GetSubscribersRequest struct {
	Query  string `query:"q"`
	Limit  int    `query:"limit" validate:"gte=0"`
	Offset int    `query:"offset" validate:"gte=0"`
}

type GetSubscribersResponse struct {
	Subscribers []domain.Subscriber `json:"subscribers"`
}

func (h GetSubscribersHandler) Handle(ctx context.Context, req *GetSubscribersRequest) (*GetSubscribersResponse, error) {
	if err := app.Validate(req, "subscriber.index"); err != nil {
		return nil, err
	}

	limit, offset := h.paging.Clamp(req.Limit, req.Offset)
	subscribers, err := h.repository.ListSubscribers(ctx, strings.TrimSpace(req.Query), limit, offset)
	if err != nil {
		return nil, app.MapError(err, "subscriber.index")
	}

	return &GetSubscribersResponse{Subscribers: subscribers}, nil
}

type UpdateSubscriberHandler struct {
	repository Repository
}

func NewUpdateSubscriberHandler(repository Repository) *UpdateSubscriberHandler {
	return &UpdateSubscriberHandler{repository: repository}
}

type UpdateSubscriberRequest struct {
	ID string `params:"id" validate:"required,uuid"`
	domain.SubscriberPatch
}

type SubscriberResponse struct {
	Subscriber domain.Subscriber `json:"subscriber"`
}

func (h UpdateSubscriberHandler) Handle(ctx context.Context, req *UpdateSubscriberRequest) (*SubscriberResponse, error) {
	if err := app.Validate(req, "subscriber.update"); err != nil {
		return nil, err
	}

	subscriber, err := h.repository.UpdateSubscriber(ctx, req.ID, req.SubscriberPatch)
	if err != nil {
		return nil, app.MapError(err, "subscriber.update")
	}

	return &SubscriberResponse{Subscriber: subscriber}, nil
}

type DeleteSubscriberHandler struct {
	repository Repository
}

func NewDeleteSubscriberHandler(repository Repository) *DeleteSubscriberHandler {
	return &DeleteSubscriberHandler{repository: repository}
}

type DeleteSubscriberRequest struct {
	ID string `params:"id" validate:"required,uuid"`
}

type DeleteSubscriberResponse struct {
}

func (h DeleteSubscriberHandler) Handle(ctx context.Context, req *DeleteSubscriberRequest) (*DeleteSubscriberResponse, error) {
	if err := app.Validate(req, "subscriber.destroy"); err != nil {
		return nil, err
	}

	if err := h.repository.DeleteSubscriber(ctx, req.ID); err != nil {
		return nil, app.MapError(err, "subscriber.destroy")
	}

	return nil, httperror.NoContent("subscriber.destroy.success", "Subscriber deleted successfully", nil)
}
