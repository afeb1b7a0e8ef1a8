package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/carelink/server/internal/errs"
	"github.com/carelink/server/internal/model"
	"github.com/carelink/server/internal/repo"
)

// ErrUnknownReceiver is returned by Send when the receiver is not an account.
var ErrUnknownReceiver = fmt.Errorf("unknown receiver: %w", errs.ErrInvalidInput)

// Service sends and reads direct messages
type Service struct {
	messageRepo repo.MessageRepo
	accountRepo repo.AccountRepo
}

// NewService creates a new messaging service
func NewService(messageRepo repo.MessageRepo, accountRepo repo.AccountRepo) *Service {
	return &Service{
		messageRepo: messageRepo,
		accountRepo: accountRepo,
	}
}

// Send appends a message from sender to receiver. The store assigns id and timestamp.
func (s *Service) Send(ctx context.Context, sender uuid.UUID, content string, receiver uuid.UUID) (model.Message, error) {
	msg, err := s.messageRepo.Append(ctx, sender, content, receiver)
	if err != nil {
		var ce *repo.ConstraintError
		if errors.As(err, &ce) && ce.Field == "receiver" {
			return model.Message{}, ErrUnknownReceiver
		}
		return model.Message{}, err
	}
	return msg, nil
}

// Conversations returns every account userID has sent to or received from
func (s *Service) Conversations(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	exchanges, err := s.messageRepo.Exchanges(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load exchanges: %w", err)
	}
	return Counterparts(userID, exchanges), nil
}

// Between returns the messages of userID and participant in both directions,
// most recent first. A participant that is not an account fails with errs.ErrNotFound.
func (s *Service) Between(ctx context.Context, userID, participant uuid.UUID) ([]model.Message, error) {
	if _, err := s.accountRepo.GetByID(ctx, participant); err != nil {
		return nil, fmt.Errorf("participant: %w", err)
	}
	return s.messageRepo.Between(ctx, userID, participant)
}
