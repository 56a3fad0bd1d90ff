package ledger

// ActorID identifies a participant. Values are opaque and compared only for
// equality; the host authenticates callers before they reach the ledger.
type ActorID string

// BlockNumber is the host's monotonically non-decreasing logical timestamp.
type BlockNumber uint64

// Amount is an unsigned fungible balance quantity.
type Amount uint64

// TargetRef is an address-like reference to an actor. Transfer targets
// arrive as references and are turned into concrete identities by the
// host's Resolver.
type TargetRef string

// Claim is a registered ownership record for one digest.
type Claim struct {
	// Owner is the actor authorized to revoke, transfer, and reprice
	// the claim.
	Owner ActorID

	// RegisteredAt is the block number of the most recent ownership
	// change (creation, transfer, or sale).
	RegisteredAt BlockNumber
}

// Clock supplies the current block number. The host advances it; the
// ledger only reads it.
type Clock interface {
	BlockNumber() BlockNumber
}

// Resolver turns a transfer target reference into a concrete actor
// identity. Resolution failures abort the transfer and are returned to the
// caller verbatim.
type Resolver interface {
	Resolve(ref TargetRef) (ActorID, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ref TargetRef) (ActorID, error)

// Resolve calls f(ref).
func (f ResolverFunc) Resolve(ref TargetRef) (ActorID, error) {
	return f(ref)
}

// BalanceLedger moves fungible balance between actors during a purchase.
// Transfer must be atomic: on failure no funds have moved. The source
// account may be fully drained.
type BalanceLedger interface {
	Transfer(from, to ActorID, amount Amount) error
}

// BlockCounter is a minimal Clock for hosts and tests. The zero value
// starts at block 0; Advance moves to the next block.
type BlockCounter struct {
	n BlockNumber
}

// Advance increments the counter and returns the new block number.
func (c *BlockCounter) Advance() BlockNumber {
	c.n++
	return c.n
}

// BlockNumber returns the current block number.
func (c *BlockCounter) BlockNumber() BlockNumber {
	return c.n
}

// SnapshotEntry is one claim in a Snapshot.
type SnapshotEntry struct {
	Digest []byte
	Claim  Claim
	Price  Amount
}

// Snapshot is an exported copy of committed ledger state, used by hosts to
// persist and restore claims. Entries are ordered by digest so equal states
// snapshot identically.
type Snapshot struct {
	Entries []SnapshotEntry
}
