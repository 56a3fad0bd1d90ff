// Package dispatch routes tagged operation values to claim ledger methods.
package dispatch

import (
	"errors"
	"fmt"

	"github.com/provenly/notary/ledger"
)

// Kind selects which ledger operation an Operation invokes.
type Kind string

// Operation kinds.
const (
	KindCreateClaim   Kind = "create_claim"
	KindRevokeClaim   Kind = "revoke_claim"
	KindTransferClaim Kind = "transfer_claim"
	KindSetPrice      Kind = "set_price"
	KindBuyClaim      Kind = "buy_claim"
)

// ErrUnknownOperation is returned when an Operation carries a kind this
// package does not route.
var ErrUnknownOperation = errors.New("notary: unknown operation kind")

// Operation is one requested state transition, as delivered by the host.
// The caller identity is pre-authenticated; the ledger never sees raw
// signatures.
type Operation struct {
	Kind   Kind           `json:"kind"`
	Caller ledger.ActorID `json:"caller"`
	Digest []byte         `json:"digest"`

	// Target is the transfer destination reference (transfer_claim only).
	Target ledger.TargetRef `json:"target,omitempty"`

	// Amount is the new price for set_price and the offered maximum
	// price for buy_claim.
	Amount ledger.Amount `json:"amount,omitempty"`
}

// Apply routes op to the matching ledger operation and returns its result.
func Apply(l *ledger.Ledger, op Operation) error {
	switch op.Kind {
	case KindCreateClaim:
		return l.CreateClaim(op.Caller, op.Digest)
	case KindRevokeClaim:
		return l.RevokeClaim(op.Caller, op.Digest)
	case KindTransferClaim:
		return l.TransferClaim(op.Caller, op.Digest, op.Target)
	case KindSetPrice:
		return l.SetPrice(op.Caller, op.Digest, op.Amount)
	case KindBuyClaim:
		return l.BuyClaim(op.Caller, op.Digest, op.Amount)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOperation, op.Kind)
	}
}
