package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/carelink/server/internal/errs"
	"github.com/carelink/server/internal/middleware"
	"github.com/carelink/server/internal/model"
	"github.com/carelink/server/internal/validate"
)

// MessageService sends and reads direct messages
type MessageService interface {
	Send(ctx context.Context, sender uuid.UUID, content string, receiver uuid.UUID) (model.Message, error)
	Conversations(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	Between(ctx context.Context, userID, participant uuid.UUID) ([]model.Message, error)
}

// MessageHandler handles the messaging endpoints. All routes are protected.
type MessageHandler struct {
	messages     MessageService
	gate         *validate.Gate
	log          *zap.Logger
	storeTimeout time.Duration
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messages MessageService, gate *validate.Gate, log *zap.Logger, storeTimeout time.Duration) *MessageHandler {
	return &MessageHandler{
		messages:     messages,
		gate:         gate,
		log:          log,
		storeTimeout: storeTimeout,
	}
}

type messageResponse struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Sender    string `json:"sender"`
	Receiver  string `json:"receiver"`
	Timestamp int64  `json:"timestamp"`
}

func newMessageResponse(m model.Message) messageResponse {
	return messageResponse{
		ID:        m.ID.String(),
		Content:   m.Content,
		Sender:    m.Sender.String(),
		Receiver:  m.Receiver.String(),
		Timestamp: m.Timestamp,
	}
}

// HandleSend handles POST /messages
func (h *MessageHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	fields, err := validate.FromJSON(r.Body)
	if err != nil {
		respondWithErr(w, h.log, err)
		return
	}
	in, err := h.gate.Message(fields)
	if err != nil {
		respondWithErr(w, h.log, err)
		return
	}

	ctx, cancel := storeContext(r, h.storeTimeout)
	defer cancel()

	msg, err := h.messages.Send(ctx, identity.AccountID, in.Content, in.Receiver)
	if err != nil {
		// the token outlived its account
		if errors.Is(err, errs.ErrNotFound) {
			respondWithError(w, http.StatusUnauthorized, "account not found")
			return
		}
		respondWithErr(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, newMessageResponse(msg))
}

// HandleConversations handles GET /conversations
func (h *MessageHandler) HandleConversations(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := storeContext(r, h.storeTimeout)
	defer cancel()

	ids, err := h.messages.Conversations(ctx, identity.AccountID)
	if err != nil {
		respondWithErr(w, h.log, err)
		return
	}

	response := make([]string, 0, len(ids))
	for _, id := range ids {
		response = append(response, id.String())
	}
	respondJSON(w, http.StatusOK, response)
}

// HandleBetween handles GET /messages/{participant}
func (h *MessageHandler) HandleBetween(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	participant, err := h.gate.Participant(validate.Fields{"participant": chi.URLParam(r, "participant")})
	if err != nil {
		respondWithErr(w, h.log, err)
		return
	}

	ctx, cancel := storeContext(r, h.storeTimeout)
	defer cancel()

	msgs, err := h.messages.Between(ctx, identity.AccountID, participant)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "participant not found")
			return
		}
		respondWithErr(w, h.log, err)
		return
	}

	response := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		response = append(response, newMessageResponse(m))
	}
	respondJSON(w, http.StatusOK, response)
}
