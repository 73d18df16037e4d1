package middlemark

import (
	"fmt"
	"time"
)

// EscrowState tracks an Escrow through its lifecycle.
//
// Valid transitions: open -> funded -> released | refunded.
type EscrowState string

const (
	EscrowOpen     EscrowState = "open"
	EscrowFunded   EscrowState = "funded"
	EscrowReleased EscrowState = "released"
	EscrowRefunded EscrowState = "refunded"
)

// String stringifies the EscrowState.
//
// String implements fmt.Stringer.
func (es EscrowState) String() string { return string(es) }

// An Escrow holds a buyer's funds against a seller's obligation
// until the buyer releases them.
//
// AmountCents is the escrowed amount in the smallest currency unit.
type Escrow struct {
	Model
	AmountCents int64       `json:"amountCents"`
	BuyerID     uint        `json:"buyerId" gorm:"index"`
	Description string      `json:"description"`
	ReleasedAt  *time.Time  `json:"releasedAt"`
	SellerID    uint        `json:"sellerId" gorm:"index"`
	State       EscrowState `json:"state"`

	// Associations
	Buyer    *User     `json:"buyer"`
	Payments []Payment `json:"payments"`
	Seller   *User     `json:"seller"`
}

// CanTransition asserts whether moving the Escrow to next is a legal
// lifecycle transition.
func (e Escrow) CanTransition(next EscrowState) bool {
	switch e.State {
	case EscrowOpen:
		return next == EscrowFunded
	case EscrowFunded:
		return next == EscrowReleased || next == EscrowRefunded
	default:
		return false
	}
}

// Transition moves the Escrow to next or returns ErrNotValid
// when the lifecycle does not allow it.
func (e *Escrow) Transition(next EscrowState) error {
	if !e.CanTransition(next) {
		return fmt.Errorf("%w: escrow cannot move from %s to %s", ErrNotValid, e.State, next)
	}

	if next == EscrowReleased {
		now := time.Now()
		e.ReleasedAt = &now
	}

	e.State = next
	return nil
}

// Involves asserts whether the user with the given ID
// is the buyer or seller on the Escrow.
func (e Escrow) Involves(userID uint) bool {
	return e.BuyerID == userID || e.SellerID == userID
}
