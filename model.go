package middlemark

import (
	"time"

	"gorm.io/gorm"
)

// A Model is the essential data points for primary ID-based models
// in a middlemark application,
// indicating when a record was created, last updated and soft deleted.
type Model struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"deletedAt" gorm:"index"`
}

// Exists asserts whether the record has been persisted.
func (m Model) Exists() bool { return !m.CreatedAt.IsZero() }

// AccessState is a string representation of the broadest, general access
// an entity such as a User has to a middlemark application.
type AccessState string

const (
	AccessGranted     AccessState = "granted"
	AccessInvited     AccessState = "invited"
	AccessRevoked     AccessState = "revoked"
	AccessVerifyEmail AccessState = "verify-email"
)

// String stringifies the AccessState.
//
// String implements fmt.Stringer.
func (as AccessState) String() string { return string(as) }
