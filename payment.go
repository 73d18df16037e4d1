package middlemark

// PaymentState tracks whether funds for a Payment settled.
type PaymentState string

const (
	PaymentPending PaymentState = "pending"
	PaymentSettled PaymentState = "settled"
	PaymentFailed  PaymentState = "failed"
)

// String stringifies the PaymentState.
//
// String implements fmt.Stringer.
func (ps PaymentState) String() string { return string(ps) }

// A Payment records funds a buyer moved into an Escrow.
type Payment struct {
	Model
	AmountCents    int64        `json:"amountCents"`
	EscrowID       uint         `json:"escrowId" gorm:"index"`
	IdempotencyKey string       `json:"-" gorm:"uniqueIndex"`
	PayerID        uint         `json:"payerId" gorm:"index"`
	State          PaymentState `json:"state"`

	// Associations
	Escrow *Escrow `json:"escrow"`
	Payer  *User   `json:"payer"`
}
