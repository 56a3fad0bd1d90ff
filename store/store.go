// Package store persists committed claim-ledger state in DynamoDB.
//
// The execution host owns durability: after the ledger applies an
// operation, the host writes the operation's effect through this store,
// one DynamoDB item per claim. Digests are unbounded byte strings, so
// items are keyed by a fixed-width hash of the digest with the raw digest
// kept as a binary attribute for recovery.
package store

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/provenly/notary/internal/digestkey"
	"github.com/provenly/notary/ledger"
)

// Client is the subset of the DynamoDB API the store uses. *dynamodb.Client
// satisfies it; tests substitute fakes.
type Client interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Store provides DynamoDB persistence for committed claims.
type Store struct {
	client Client
	config Config
}

// New creates a new Store instance.
func New(client Client, config Config) *Store {
	config.validate()
	return &Store{
		client: client,
		config: config,
	}
}

// claimItem is the persisted shape of one claim.
type claimItem struct {
	PK           string `dynamodbav:"pk"`
	Digest       []byte `dynamodbav:"digest"`
	Owner        string `dynamodbav:"owner"`
	RegisteredAt uint64 `dynamodbav:"registered_at"`
	Price        uint64 `dynamodbav:"price"`
}

func marshalClaim(digest []byte, claim ledger.Claim, price ledger.Amount) (map[string]types.AttributeValue, error) {
	return attributevalue.MarshalMap(claimItem{
		PK:           digestkey.PK(digest),
		Digest:       digest,
		Owner:        string(claim.Owner),
		RegisteredAt: uint64(claim.RegisteredAt),
		Price:        uint64(price),
	})
}

// PutNewClaim writes a freshly created claim, failing with
// ledger.ErrProofAlreadyExists if an item for the digest is already
// committed.
func (s *Store) PutNewClaim(ctx context.Context, digest []byte, claim ledger.Claim, price ledger.Amount) error {
	item, err := marshalClaim(digest, claim, price)
	if err != nil {
		return err
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.config.ClaimsTable),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(pk)"),
	})

	var condErr *types.ConditionalCheckFailedException
	if errors.As(err, &condErr) {
		return ledger.ErrProofAlreadyExists
	}
	return err
}

// PutClaim overwrites the committed item for a digest. Used for transfer,
// reprice, and purchase effects, where the item must already exist.
func (s *Store) PutClaim(ctx context.Context, digest []byte, claim ledger.Claim, price ledger.Amount) error {
	item, err := marshalClaim(digest, claim, price)
	if err != nil {
		return err
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.config.ClaimsTable),
		Item:      item,
	})
	return err
}

// DeleteClaim removes the committed item for a digest, failing with
// ledger.ErrClaimNotFound if none is committed.
func (s *Store) DeleteClaim(ctx context.Context, digest []byte) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.config.ClaimsTable),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: digestkey.PK(digest)},
		},
		ConditionExpression: aws.String("attribute_exists(pk)"),
	})

	var condErr *types.ConditionalCheckFailedException
	if errors.As(err, &condErr) {
		return ledger.ErrClaimNotFound
	}
	return err
}

// GetClaim retrieves the committed claim for a digest, returning
// ledger.ErrClaimNotFound if missing.
func (s *Store) GetClaim(ctx context.Context, digest []byte) (ledger.Claim, ledger.Amount, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.config.ClaimsTable),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: digestkey.PK(digest)},
		},
	})
	if err != nil {
		return ledger.Claim{}, 0, err
	}
	if result.Item == nil {
		return ledger.Claim{}, 0, ledger.ErrClaimNotFound
	}

	var item claimItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return ledger.Claim{}, 0, err
	}

	claim := ledger.Claim{
		Owner:        ledger.ActorID(item.Owner),
		RegisteredAt: ledger.BlockNumber(item.RegisteredAt),
	}
	return claim, ledger.Amount(item.Price), nil
}

// Load scans the full claims table into a snapshot for ledger bootstrap.
func (s *Store) Load(ctx context.Context) (ledger.Snapshot, error) {
	var snap ledger.Snapshot

	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName: aws.String(s.config.ClaimsTable),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return ledger.Snapshot{}, err
		}
		for _, raw := range page.Items {
			var item claimItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return ledger.Snapshot{}, err
			}
			snap.Entries = append(snap.Entries, ledger.SnapshotEntry{
				Digest: item.Digest,
				Claim: ledger.Claim{
					Owner:        ledger.ActorID(item.Owner),
					RegisteredAt: ledger.BlockNumber(item.RegisteredAt),
				},
				Price: ledger.Amount(item.Price),
			})
		}
	}

	return snap, nil
}
