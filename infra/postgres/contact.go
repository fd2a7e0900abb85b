package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"henalis/domain"
)

func (r *PgRepository) CreateContactMessage(ctx context.Context, m domain.ContactMessage) (domain.ContactMessage, error) {
	m.ID = uuid.NewString()
	m.CreatedAt = r.now()

	query := `
		INSERT INTO contact_messages (id, full_name, email, phone, subject, message, created_at)
		VALUES (:id, :full_name, :email, :phone, :subject, :message, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, m); err != nil {
		return domain.ContactMessage{}, fmt.Errorf("create contact message: %w", mapError(err))
	}
	return m, nil
}

func (r *PgRepository) ListContactMessages(ctx context.Context, limit, offset int) ([]domain.ContactMessage, error) {
	messages := make([]domain.ContactMessage, 0)
	query := r.db.Rebind("SELECT * FROM contact_messages ORDER BY created_at DESC, id ASC LIMIT ? OFFSET ?")
	if err := r.db.SelectContext(ctx, &messages, query, limit, offset); err != nil {
		return nil, fmt.Errorf("list contact messages: %w", mapError(err))
	}
	return messages, nil
}

func (r *PgRepository) GetContactMessage(ctx context.Context, id string) (domain.ContactMessage, error) {
	var m domain.ContactMessage
	if err := r.getByID(ctx, r.db, &m, "contact_messages", id); err != nil {
		return m, fmt.Errorf("get contact message %s: %w", id, err)
	}
	return m, nil
}

func (r *PgRepository) UpdateContactMessage(ctx context.Context, id string, patch domain.ContactMessagePatch) (domain.ContactMessage, error) {
	if err := r.updateByID(ctx, r.db, domain.EntityContactMessage, id, patch); err != nil {
		return domain.ContactMessage{}, fmt.Errorf("update contact message %s: %w", id, err)
	}
	return r.GetContactMessage(ctx, id)
}

func (r *PgRepository) DeleteContactMessage(ctx context.Context, id string) error {
	if err := r.deleteByID(ctx, "contact_messages", id); err != nil {
		return fmt.Errorf("delete contact message %s: %w", id, err)
	}
	return nil
}

func (r *PgRepository) DeleteAllContactMessages(ctx context.Context) (int, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM contact_messages")
	if err != nil {
		return 0, fmt.Errorf("delete all contact messages: %w", mapError(err))
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (r *PgRepository) CreateSubscriber(ctx context.Context, email string) (domain.Subscriber, error) {
	s := domain.Subscriber{
		ID:        uuid.NewString(),
		Email:     email,
		IsActive:  true,
		CreatedAt: r.now(),
	}

	query := `
		INSERT INTO subscribers (id, email, is_active, created_at)
		VALUES (:id, :email, :is_active, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		return domain.Subscriber{}, fmt.Errorf("create subscriber: %w", mapError(err))
	}
	return s, nil
}

// ListSubscribers returns subscribers newest first, optionally narrowed by an email substring.
func (r *PgRepository) ListSubscribers(ctx context.Context, search string, limit, offset int) ([]domain.Subscriber, error) {
	query := "SELECT * FROM subscribers"
	var args []any
	if search != "" {
		query += ` WHERE LOWER(email) LIKE ? ESCAPE '\'`
		args = append(args, likePattern(search))
	}
	query += " ORDER BY created_at DESC, id ASC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	subscribers := make([]domain.Subscriber, 0)
	if err := r.db.SelectContext(ctx, &subscribers, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list subscribers: %w", mapError(err))
	}
	return subscribers, nil
}

func (r *PgRepository) GetSubscriber(ctx context.Context, id string) (domain.Subscriber, error) {
	var s domain.Subscriber
	if err := r.getByID(ctx, r.db, &s, "subscribers", id); err != nil {
		return s, fmt.Errorf("get subscriber %s: %w", id, err)
	}
	return s, nil
}

func (r *PgRepository) UpdateSubscriber(ctx context.Context, id string, patch domain.SubscriberPatch) (domain.Subscriber, error) {
	if err := r.updateByID(ctx, r.db, domain.EntitySubscriber, id, patch); err != nil {
		return domain.Subscriber{}, fmt.Errorf("update subscriber %s: %w", id, err)
	}
	return r.GetSubscriber(ctx, id)
}

func (r *PgRepository) DeleteSubscriber(ctx context.Context, id string) error {
	if err := r.deleteByID(ctx, "subscribers", id); err != nil {
		return fmt.Errorf("delete subscriber %s: %w", id, err)
	}
	return nil
}
