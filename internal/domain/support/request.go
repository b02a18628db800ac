package support

import (
	"fmt"
	"time"

	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RequestKind classifies a support request
type RequestKind string

const (
	RequestKindRefund    RequestKind = "REFUND"
	RequestKindComplaint RequestKind = "COMPLAINT"
	RequestKindQuestion  RequestKind = "QUESTION"
)

// IsValid checks if the kind is a valid RequestKind
func (k RequestKind) IsValid() bool {
	switch k {
	case RequestKindRefund, RequestKindComplaint, RequestKindQuestion:
		return true
	}
	return false
}

// RequestStatus represents the handling state of a support request
type RequestStatus string

const (
	RequestStatusPending    RequestStatus = "PENDING"
	RequestStatusInProgress RequestStatus = "IN_PROGRESS"
	RequestStatusCompleted  RequestStatus = "COMPLETED"
	RequestStatusRejected   RequestStatus = "REJECTED"
)

// IsValid checks if the status is a valid RequestStatus
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusInProgress, RequestStatusCompleted, RequestStatusRejected:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s RequestStatus) CanTransitionTo(target RequestStatus) bool {
	switch s {
	case RequestStatusPending:
		return target == RequestStatusInProgress || target == RequestStatusCompleted || target == RequestStatusRejected
	case RequestStatusInProgress:
		return target == RequestStatusCompleted || target == RequestStatusRejected
	case RequestStatusCompleted, RequestStatusRejected:
		return false
	}
	return false
}

// Request is a customer support ticket, optionally tied to an order.
// Refund requests drive the cashout reconciliation flow.
type Request struct {
	shared.BaseEntity
	UserID     uuid.UUID     `gorm:"type:uuid;not null;index"`
	OrderID    *uuid.UUID    `gorm:"type:uuid;index"`
	Kind       RequestKind   `gorm:"type:varchar(20);not null"`
	Status     RequestStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Subject    string        `gorm:"type:varchar(200);not null"`
	Content    string        `gorm:"type:text"`
	ResolvedAt *time.Time
}

// TableName returns the table name for GORM
func (Request) TableName() string {
	return "support_requests"
}

// NewRequest creates a new pending support request
func NewRequest(userID uuid.UUID, kind RequestKind, subject, content string) (*Request, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Invalid request kind")
	}
	if subject == "" {
		return nil, shared.NewDomainError("INVALID_SUBJECT", "Subject cannot be empty")
	}
	return &Request{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Kind:       kind,
		Status:     RequestStatusPending,
		Subject:    subject,
		Content:    content,
	}, nil
}

// TransitionTo moves the request to the target status
func (r *Request) TransitionTo(target RequestStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_REQUEST_STATUS", "Invalid request status")
	}
	if !r.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_REQUEST_TRANSITION",
			fmt.Sprintf("Cannot transition request from %s to %s", r.Status, target))
	}
	r.Status = target
	if target == RequestStatusCompleted || target == RequestStatusRejected {
		now := time.Now()
		r.ResolvedAt = &now
	}
	r.Touch()
	return nil
}
