package outbox

import (
	"encoding/json"
	"time"

	"github.com/fiat-wallet-ledger/internal/domain/escrow"
	"github.com/fiat-wallet-ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// Message records an escrow release that must happen after its DB transaction commits
type Message struct {
	ID            int64               `json:"id"`
	TransactionID uuid.UUID           `json:"transaction_id"`
	UserID        uuid.UUID           `json:"user_id"`
	Payload       json.RawMessage     `json:"payload"`
	Status        shared.OutboxStatus `json:"status"`
	Attempts      int                 `json:"attempts"`
	CreatedAt     time.Time           `json:"created_at"`
	LastAttemptAt *time.Time          `json:"last_attempt_at,omitempty"`
}

// NewMessage wraps a release request in a pending outbox message
func NewMessage(req *escrow.ReleaseRequest) (*Message, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	return &Message{
		TransactionID: req.TransactionID,
		UserID:        req.UserID,
		Payload:       payload,
		Status:        shared.OutboxStatusPending,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

func (m *Message) IncrementAttempts() {
	m.Attempts++
	now := time.Now().UTC()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsProcessed() {
	m.Status = shared.OutboxStatusProcessed
	now := time.Now().UTC()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsFailed() {
	m.Status = shared.OutboxStatusFailedToPublish
	now := time.Now().UTC()
	m.LastAttemptAt = &now
}

// ReleaseRequest decodes the payload
func (m *Message) ReleaseRequest() (*escrow.ReleaseRequest, error) {
	var req escrow.ReleaseRequest
	if err := json.Unmarshal(m.Payload, &req); err != nil {
		return nil, err
	}
	return &req, nil
}
