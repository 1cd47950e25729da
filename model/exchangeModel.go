package model

import "time"

type ExchangeStatus string

const (
	ExchangePending  ExchangeStatus = "pending"
	ExchangeAccepted ExchangeStatus = "accepted"
	ExchangeRejected ExchangeStatus = "rejected"
	ExchangeModified ExchangeStatus = "modified"
)

// Valid reports whether s is one of the four negotiation states.
// This is the single place the allowed set lives; a stricter transition
// table would replace this check.
func (s ExchangeStatus) Valid() bool {
	switch s {
	case ExchangePending, ExchangeAccepted, ExchangeRejected, ExchangeModified:
		return true
	}
	return false
}

type ExchangeRequest struct {
	ID               int64          `json:"id"`
	SenderID         int64          `json:"sender_id"`
	ReceiverID       int64          `json:"receiver_id"`
	BookID           int64          `json:"book_id"`
	Status           ExchangeStatus `json:"status"`
	DeliveryMethod   string         `json:"delivery_method"`
	ExchangeDuration int            `json:"exchange_duration"`
	CreatedAt        time.Time      `json:"created_at"`
}

// IsSender reports whether uid initiated the request.
func (r *ExchangeRequest) IsSender(uid int64) bool { return r.SenderID == uid }

// IsReceiver reports whether uid is the request's target, the only
// party allowed to change its status.
func (r *ExchangeRequest) IsReceiver(uid int64) bool { return r.ReceiverID == uid }

// IsParty reports whether uid is sender or receiver.
func (r *ExchangeRequest) IsParty(uid int64) bool { return r.IsSender(uid) || r.IsReceiver(uid) }

// ExchangeRequestView is the read shape for listings: the request plus
// its book's displayable attributes.
type ExchangeRequestView struct {
	ExchangeRequest
	Book Book `json:"book"`
}
