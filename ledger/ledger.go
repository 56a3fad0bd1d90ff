package ledger

import (
	"bytes"
	"sort"
	"sync"
)

// Ledger is a proof-of-existence claim ledger. It exclusively owns its two
// maps (claims, prices); no other component creates, mutates, or deletes
// entries.
type Ledger struct {
	mu       sync.Mutex
	clock    Clock
	resolver Resolver
	balances BalanceLedger
	config   Config
	market   bool

	claims map[string]Claim
	prices map[string]Amount
	events []Event
}

// New creates a free-variant Ledger: claims carry no price and the price
// operations fail with ErrMarketDisabled. A nil resolver treats transfer
// target references as literal actor identities.
func New(clock Clock, resolver Resolver, config Config) *Ledger {
	config.validate()
	if resolver == nil {
		resolver = ResolverFunc(func(ref TargetRef) (ActorID, error) {
			return ActorID(ref), nil
		})
	}
	return &Ledger{
		clock:    clock,
		resolver: resolver,
		config:   config,
		claims:   make(map[string]Claim),
	}
}

// NewMarketplace creates a Ledger with pricing and purchases enabled.
// Purchases settle through balances, which must be non-nil.
func NewMarketplace(clock Clock, resolver Resolver, balances BalanceLedger, config Config) *Ledger {
	l := New(clock, resolver, config)
	l.balances = balances
	l.market = true
	l.prices = make(map[string]Amount)
	return l
}

// CreateClaim registers caller as the first owner of digest at the current
// block. In the marketplace variant the claim's price starts at zero and the
// digest must not exceed the configured maximum length.
func (l *Ledger) CreateClaim(caller ActorID, digest []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := string(digest)
	if _, ok := l.claims[key]; ok {
		return ErrProofAlreadyExists
	}
	if l.config.MaxDigestLength > 0 && len(digest) > l.config.MaxDigestLength {
		return ErrDigestTooLong
	}

	l.claims[key] = Claim{Owner: caller, RegisteredAt: l.clock.BlockNumber()}
	if l.market {
		l.prices[key] = 0
	}

	l.emit(Event{Kind: EventClaimCreated, Actor: caller, Digest: bytes.Clone(digest)})
	return nil
}

// RevokeClaim removes the claim for digest. Only the owner may revoke; the
// price entry, if tracked, is removed with the claim.
func (l *Ledger) RevokeClaim(caller ActorID, digest []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := string(digest)
	claim, ok := l.claims[key]
	if !ok {
		return ErrClaimNotFound
	}
	if claim.Owner != caller {
		return ErrNotOwner
	}

	delete(l.claims, key)
	if l.market {
		delete(l.prices, key)
	}

	l.emit(Event{Kind: EventClaimRevoked, Actor: caller, Digest: bytes.Clone(digest)})
	return nil
}

// TransferClaim reassigns the claim for digest to the actor target resolves
// to, stamping the current block. The price, if tracked, is unchanged.
func (l *Ledger) TransferClaim(caller ActorID, digest []byte, target TargetRef) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := string(digest)
	claim, ok := l.claims[key]
	if !ok {
		return ErrClaimNotFound
	}
	if claim.Owner != caller {
		return ErrNotOwner
	}

	dest, err := l.resolver.Resolve(target)
	if err != nil {
		return err
	}

	l.claims[key] = Claim{Owner: dest, RegisteredAt: l.clock.BlockNumber()}

	l.emit(Event{Kind: EventClaimTransferred, Actor: caller, Digest: bytes.Clone(digest)})
	return nil
}

// SetPrice overwrites the asking price of the claim for digest. Only the
// owner may reprice. Marketplace variant only.
func (l *Ledger) SetPrice(caller ActorID, digest []byte, price Amount) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.market {
		return ErrMarketDisabled
	}

	key := string(digest)
	claim, ok := l.claims[key]
	if !ok {
		return ErrClaimNotFound
	}
	if claim.Owner != caller {
		return ErrNotOwner
	}

	l.prices[key] = price

	l.emit(Event{Kind: EventPriceSet, Actor: caller, Digest: bytes.Clone(digest), Amount: price})
	return nil
}

// BuyClaim purchases the claim for digest from its current owner.
// maxPrice must strictly exceed the current price; equal is rejected. The
// buyer pays the current price, not the offer, and the offer becomes the
// claim's new stored price. Ownership changes only after the balance
// transfer succeeds, so a failed payment leaves the ledger untouched.
// Marketplace variant only.
func (l *Ledger) BuyClaim(caller ActorID, digest []byte, maxPrice Amount) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.market {
		return ErrMarketDisabled
	}

	key := string(digest)
	claim, ok := l.claims[key]
	if !ok {
		return ErrClaimNotFound
	}
	if claim.Owner == caller {
		return ErrCannotBuyOwnClaim
	}

	price := l.prices[key]
	if maxPrice <= price {
		return ErrPriceTooLow
	}

	if err := l.balances.Transfer(caller, claim.Owner, price); err != nil {
		return err
	}

	l.claims[key] = Claim{Owner: caller, RegisteredAt: l.clock.BlockNumber()}
	l.prices[key] = maxPrice

	l.emit(Event{Kind: EventClaimPurchased, Actor: caller, Digest: bytes.Clone(digest), Amount: price})
	return nil
}

// Get returns the claim for digest, reporting whether it exists.
func (l *Ledger) Get(digest []byte) (Claim, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	claim, ok := l.claims[string(digest)]
	return claim, ok
}

// Price returns the stored price of the claim for digest. ok is false when
// the claim does not exist or the ledger is the free variant.
func (l *Ledger) Price(digest []byte) (price Amount, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.market {
		return 0, false
	}
	if _, exists := l.claims[string(digest)]; !exists {
		return 0, false
	}
	return l.prices[string(digest)], true
}

// Contains reports whether a claim exists for digest.
func (l *Ledger) Contains(digest []byte) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.claims[string(digest)]
	return ok
}

// Snapshot exports committed state for host-side persistence. Entries are
// sorted by digest.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	keys := make([]string, 0, len(l.claims))
	for key := range l.claims {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	snap := Snapshot{Entries: make([]SnapshotEntry, 0, len(keys))}
	for _, key := range keys {
		entry := SnapshotEntry{
			Digest: []byte(key),
			Claim:  l.claims[key],
		}
		if l.market {
			entry.Price = l.prices[key]
		}
		snap.Entries = append(snap.Entries, entry)
	}
	return snap
}

// Restore replaces the ledger's state with snap. It is a host bootstrap
// surface for loading committed state into a fresh instance: it emits no
// events and performs no precondition checks. Prices are ignored by the
// free variant.
func (l *Ledger) Restore(snap Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.claims = make(map[string]Claim, len(snap.Entries))
	if l.market {
		l.prices = make(map[string]Amount, len(snap.Entries))
	}
	for _, entry := range snap.Entries {
		key := string(entry.Digest)
		l.claims[key] = entry.Claim
		if l.market {
			l.prices[key] = entry.Price
		}
	}
}
