package ledger

// EventKind discriminates notification records.
type EventKind string

// Event kinds, one per successful operation.
const (
	EventClaimCreated     EventKind = "claim_created"
	EventClaimRevoked     EventKind = "claim_revoked"
	EventClaimTransferred EventKind = "claim_transferred"
	EventPriceSet         EventKind = "price_set"
	EventClaimPurchased   EventKind = "claim_purchased"
)

// Event is one notification record. Every successful operation emits
// exactly one; failed operations emit nothing.
type Event struct {
	// Kind identifies the operation that produced the event.
	Kind EventKind

	// Actor is the authenticated caller of the operation.
	Actor ActorID

	// Digest is the claim key the operation acted on.
	Digest []byte

	// Amount carries the price of the claim at creation (EventClaimCreated,
	// marketplace only), the new price (EventPriceSet), or the amount the
	// buyer actually paid (EventClaimPurchased). Zero for other kinds.
	Amount Amount
}

// DrainEvents returns the ordered events emitted since the previous drain
// and clears the internal log. The host forwards them to observers; no
// ledger logic depends on them being consumed.
func (l *Ledger) DrainEvents() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	events := l.events
	l.events = nil
	return events
}

// emit appends an event to the log. Callers hold l.mu and must only emit
// after every precondition has passed and every write has been applied.
func (l *Ledger) emit(ev Event) {
	l.events = append(l.events, ev)
}
