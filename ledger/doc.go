// Package ledger implements a proof-of-existence claim ledger: a
// deterministic state machine that records first ownership of opaque byte
// digests and lets owners revoke, transfer, price, and sell their claims.
//
// Notary is designed to run inside a replicated execution host that
// authenticates callers, assigns monotonically increasing block numbers,
// delivers operations one at a time, and persists committed state. The
// ledger itself never performs I/O: every operation is computed
// synchronously from its inputs and the two in-memory maps the Ledger owns.
//
// # Key Features
//
//   - First-ownership registration keyed by arbitrary-length digests
//   - Owner-gated revocation, transfer, and repricing
//   - Marketplace purchases settled through an external balance ledger
//   - All-or-nothing operations: a failed precondition writes nothing
//     and emits nothing
//   - Ordered event log, one record per successful operation
//   - Snapshot/Restore for host-side persistence of committed state
//
// # Variants
//
// [New] builds the free registry: claims carry no price and the price
// operations fail with [ErrMarketDisabled]. [NewMarketplace] attaches a
// [BalanceLedger] and enables [Ledger.SetPrice] and [Ledger.BuyClaim],
// along with the configured maximum digest length.
//
// # Collaborators
//
// The host supplies three contracts the ledger consumes but never owns:
//
//	type Clock interface {
//	    BlockNumber() BlockNumber
//	}
//
//	type Resolver interface {
//	    Resolve(ref TargetRef) (ActorID, error)
//	}
//
//	type BalanceLedger interface {
//	    Transfer(from, to ActorID, amount Amount) error
//	}
//
// # Errors
//
// Every precondition failure maps to a package sentinel:
//
//   - [ErrProofAlreadyExists] - digest already claimed
//   - [ErrClaimNotFound] - digest never claimed or already revoked
//   - [ErrNotOwner] - caller does not own the claim
//   - [ErrDigestTooLong] - digest exceeds the configured bound
//   - [ErrCannotBuyOwnClaim] - buyer already owns the claim
//   - [ErrPriceTooLow] - offered price does not exceed the current price
//   - [ErrMarketDisabled] - price operation on the free variant
//
// Resolver and balance-transfer failures are returned verbatim.
//
// # Concurrency
//
// The host guarantees serialized execution, so a single Ledger instance is
// never driven concurrently there. For library embedders without that
// guarantee, every operation and query takes the instance mutex, restoring
// the same one-writer discipline.
package ledger
