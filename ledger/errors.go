package ledger

import "errors"

var (
	// ErrProofAlreadyExists is returned when creating a claim for a digest
	// that is already claimed.
	ErrProofAlreadyExists = errors.New("notary: proof already exists")

	// ErrClaimNotFound is returned when operating on a digest that was
	// never claimed or whose claim was revoked.
	ErrClaimNotFound = errors.New("notary: claim not found")

	// ErrNotOwner is returned when the caller is not the claim's owner.
	ErrNotOwner = errors.New("notary: caller is not the claim owner")

	// ErrDigestTooLong is returned when a new digest exceeds the
	// configured maximum length.
	ErrDigestTooLong = errors.New("notary: digest exceeds maximum length")

	// ErrCannotBuyOwnClaim is returned when a buyer already owns the claim.
	ErrCannotBuyOwnClaim = errors.New("notary: cannot buy own claim")

	// ErrPriceTooLow is returned when the offered price does not strictly
	// exceed the claim's current price.
	ErrPriceTooLow = errors.New("notary: offered price too low")

	// ErrMarketDisabled is returned by price operations on a ledger built
	// without marketplace support.
	ErrMarketDisabled = errors.New("notary: marketplace is disabled")
)
