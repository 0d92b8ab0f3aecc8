// Package notification defines the presentation-agnostic instructions handed to
// in-app, push and email delivery.
package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Kind classifies the outcome being announced
type Kind string

const (
	KindSuccess Kind = "SUCCESS"
	KindFailed  Kind = "FAILED"
)

// Instruction is an in-app notification
type Instruction struct {
	ID        uuid.UUID         `json:"id" bson:"_id"`
	UserID    uuid.UUID         `json:"user_id" bson:"user_id"`
	Kind      Kind              `json:"kind" bson:"kind"`
	Title     string            `json:"title" bson:"title"`
	Message   string            `json:"message" bson:"message"`
	Metadata  map[string]string `json:"metadata,omitempty" bson:"metadata,omitempty"`
	Read      bool              `json:"read" bson:"read"`
	CreatedAt time.Time         `json:"created_at" bson:"created_at"`
}

// PushInstruction targets a device token
type PushInstruction struct {
	UserID uuid.UUID `json:"user_id"`
	Token  string    `json:"token"`
	Title  string    `json:"title"`
	Body   string    `json:"body"`
}

// EmailInstruction names a template and the values it is rendered with downstream
type EmailInstruction struct {
	UserID          uuid.UUID         `json:"user_id"`
	To              string            `json:"to"`
	Template        string            `json:"template"`
	Subject         string            `json:"subject"`
	TransactionType string            `json:"transaction_type"`
	Asset           string            `json:"asset"`
	Values          map[string]string `json:"values"`
}

// Inbox stores in-app notifications
type Inbox interface {
	Insert(ctx context.Context, instruction *Instruction) error
}
