package idle

import (
	"errors"
	"fmt"
)

// Reason is the machine-readable code carried by every precondition failure.
type Reason string

const (
	ReasonMissingResource Reason = "missing-resource"
	ReasonInsufficient    Reason = "insufficient"
	ReasonMaxLevel        Reason = "max-level"
	ReasonNotEnoughXP     Reason = "not-enough-xp"
	ReasonUnknownID       Reason = "unknown-id"
	ReasonLocked          Reason = "locked"
	ReasonSoldOut         Reason = "sold-out"
	ReasonClassChosen     Reason = "class-chosen"
	ReasonInvalidAmount   Reason = "invalid-amount"
)

var (
	ErrMissingResource = errors.New("missing resource")
	ErrInsufficient    = errors.New("insufficient")
	ErrMaxLevel        = errors.New("max level")
	ErrNotEnoughXP     = errors.New("not enough xp")
	ErrUnknownID       = errors.New("unknown id")
	ErrLocked          = errors.New("locked")
	ErrSoldOut         = errors.New("sold out")
	ErrClassChosen     = errors.New("class already chosen")
	ErrInvalidAmount   = errors.New("invalid amount")
)

var sentinels = map[Reason]error{
	ReasonMissingResource: ErrMissingResource,
	ReasonInsufficient:    ErrInsufficient,
	ReasonMaxLevel:        ErrMaxLevel,
	ReasonNotEnoughXP:     ErrNotEnoughXP,
	ReasonUnknownID:       ErrUnknownID,
	ReasonLocked:          ErrLocked,
	ReasonSoldOut:         ErrSoldOut,
	ReasonClassChosen:     ErrClassChosen,
	ReasonInvalidAmount:   ErrInvalidAmount,
}

type ReasonError struct {
	Reason Reason
	ID     string
}

func (e *ReasonError) Error() string {
	if e.ID == "" {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.ID)
}

func (e *ReasonError) Unwrap() error {
	return sentinels[e.Reason]
}

func fail(reason Reason, id string) error {
	return &ReasonError{Reason: reason, ID: id}
}

// ReasonOf extracts the reason code, or "" when err carries none.
func ReasonOf(err error) Reason {
	var re *ReasonError
	if errors.As(err, &re) {
		return re.Reason
	}
	return ""
}
