package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// RequestStatus is the lifecycle state of a food request. PENDING is the only
// non-terminal state.
type RequestStatus string

const (
	RequestPending   RequestStatus = "PENDING"
	RequestApproved  RequestStatus = "APPROVED"
	RequestRejected  RequestStatus = "REJECTED"
	RequestCancelled RequestStatus = "CANCELLED"
)

// Valid reports whether s is a known request status.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected, RequestCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible from s.
func (s RequestStatus) IsTerminal() bool {
	return s != RequestPending
}

// ParseRequestStatus parses a status name, case-insensitively.
func ParseRequestStatus(s string) (RequestStatus, error) {
	status := RequestStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", ErrInvalidStatus.WithDetails("request status %q", s)
	}
	return status, nil
}

// ParseDecision parses a restaurant decision; only APPROVED and REJECTED are accepted.
func ParseDecision(s string) (RequestStatus, error) {
	status := RequestStatus(strings.ToUpper(strings.TrimSpace(s)))
	if status != RequestApproved && status != RequestRejected {
		return "", ErrInvalidDecision.WithDetails("got %q", s)
	}
	return status, nil
}

// FoodRequest is one user's claim against a food listing.
type FoodRequest struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	ListingID  uuid.UUID
	Quantity   int
	Message    string
	Status     RequestStatus
	PickupDate *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewFoodRequest creates a PENDING request.
func NewFoodRequest(userID, listingID uuid.UUID, quantity int, message string, now time.Time) (*FoodRequest, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity.WithDetails("got %d", quantity)
	}
	return &FoodRequest{
		ID:        uuid.New(),
		UserID:    userID,
		ListingID: listingID,
		Quantity:  quantity,
		Message:   message,
		Status:    RequestPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Approve moves a PENDING request to APPROVED, recording the pickup date when given.
func (r *FoodRequest) Approve(pickupDate *time.Time, now time.Time) error {
	if err := r.transition(RequestApproved, now); err != nil {
		return err
	}
	if pickupDate != nil {
		pd := *pickupDate
		r.PickupDate = &pd
	}
	return nil
}

// Reject moves a PENDING request to REJECTED.
func (r *FoodRequest) Reject(now time.Time) error {
	return r.transition(RequestRejected, now)
}

// Cancel moves a PENDING request to CANCELLED.
func (r *FoodRequest) Cancel(now time.Time) error {
	return r.transition(RequestCancelled, now)
}

func (r *FoodRequest) transition(to RequestStatus, now time.Time) error {
	if r.Status != RequestPending {
		return ErrInvalidTransition.WithDetails("request is %s, cannot become %s", r.Status, to)
	}
	r.Status = to
	r.UpdatedAt = now
	return nil
}
