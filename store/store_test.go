package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/provenly/notary/ledger"
	"github.com/provenly/notary/store"
)

// fakeClient records DynamoDB calls and replays configured responses.
type fakeClient struct {
	putInputs    []*dynamodb.PutItemInput
	deleteInputs []*dynamodb.DeleteItemInput
	getInput     *dynamodb.GetItemInput

	putErr    error
	deleteErr error
	getOutput *dynamodb.GetItemOutput
	getErr    error
	scanPages []*dynamodb.ScanOutput
	scanCalls int
}

func (c *fakeClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	c.putInputs = append(c.putInputs, params)
	if c.putErr != nil {
		return nil, c.putErr
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (c *fakeClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	c.getInput = params
	if c.getErr != nil {
		return nil, c.getErr
	}
	if c.getOutput != nil {
		return c.getOutput, nil
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (c *fakeClient) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	c.deleteInputs = append(c.deleteInputs, params)
	if c.deleteErr != nil {
		return nil, c.deleteErr
	}
	return &dynamodb.DeleteItemOutput{}, nil
}

func (c *fakeClient) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	if c.scanCalls >= len(c.scanPages) {
		return &dynamodb.ScanOutput{}, nil
	}
	page := c.scanPages[c.scanCalls]
	c.scanCalls++
	return page, nil
}

func claimAttrs(digest []byte, owner string, registeredAt, price string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"pk":            &types.AttributeValueMemberS{Value: "unused-by-tests"},
		"digest":        &types.AttributeValueMemberB{Value: digest},
		"owner":         &types.AttributeValueMemberS{Value: owner},
		"registered_at": &types.AttributeValueMemberN{Value: registeredAt},
		"price":         &types.AttributeValueMemberN{Value: price},
	}
}

// --- Config Tests ---

func TestDefaultConfig(t *testing.T) {
	cfg := store.DefaultConfig()

	if cfg.ClaimsTable != "notary_claims" {
		t.Errorf("expected ClaimsTable 'notary_claims', got %q", cfg.ClaimsTable)
	}
}

// --- PutNewClaim Tests ---

func TestPutNewClaim(t *testing.T) {
	client := &fakeClient{}
	s := store.New(client, store.DefaultConfig())

	digest := []byte("doc")
	claim := ledger.Claim{Owner: "alice", RegisteredAt: 3}
	if err := s.PutNewClaim(context.Background(), digest, claim, 7); err != nil {
		t.Fatalf("PutNewClaim failed: %v", err)
	}

	if len(client.putInputs) != 1 {
		t.Fatalf("expected 1 PutItem call, got %d", len(client.putInputs))
	}
	input := client.putInputs[0]
	if *input.TableName != "notary_claims" {
		t.Errorf("expected table 'notary_claims', got %q", *input.TableName)
	}
	if *input.ConditionExpression != "attribute_not_exists(pk)" {
		t.Errorf("expected existence condition, got %q", *input.ConditionExpression)
	}
	if v, ok := input.Item["owner"].(*types.AttributeValueMemberS); !ok || v.Value != "alice" {
		t.Error("expected owner attribute 'alice'")
	}
	if v, ok := input.Item["registered_at"].(*types.AttributeValueMemberN); !ok || v.Value != "3" {
		t.Error("expected registered_at attribute '3'")
	}
	if v, ok := input.Item["price"].(*types.AttributeValueMemberN); !ok || v.Value != "7" {
		t.Error("expected price attribute '7'")
	}
	if _, ok := input.Item["pk"].(*types.AttributeValueMemberS); !ok {
		t.Error("expected string pk attribute")
	}
}

func TestPutNewClaim_AlreadyCommitted(t *testing.T) {
	client := &fakeClient{putErr: &types.ConditionalCheckFailedException{}}
	s := store.New(client, store.DefaultConfig())

	err := s.PutNewClaim(context.Background(), []byte("doc"), ledger.Claim{Owner: "alice"}, 0)
	if !errors.Is(err, ledger.ErrProofAlreadyExists) {
		t.Errorf("expected ErrProofAlreadyExists, got %v", err)
	}
}

// --- PutClaim Tests ---

func TestPutClaim_Unconditional(t *testing.T) {
	client := &fakeClient{}
	s := store.New(client, store.DefaultConfig())

	if err := s.PutClaim(context.Background(), []byte("doc"), ledger.Claim{Owner: "bob"}, 75); err != nil {
		t.Fatalf("PutClaim failed: %v", err)
	}
	if client.putInputs[0].ConditionExpression != nil {
		t.Error("expected no condition expression on overwrite")
	}
}

// --- DeleteClaim Tests ---

func TestDeleteClaim(t *testing.T) {
	client := &fakeClient{}
	s := store.New(client, store.DefaultConfig())

	if err := s.DeleteClaim(context.Background(), []byte("doc")); err != nil {
		t.Fatalf("DeleteClaim failed: %v", err)
	}
	input := client.deleteInputs[0]
	if *input.ConditionExpression != "attribute_exists(pk)" {
		t.Errorf("expected existence condition, got %q", *input.ConditionExpression)
	}
}

func TestDeleteClaim_NotCommitted(t *testing.T) {
	client := &fakeClient{deleteErr: &types.ConditionalCheckFailedException{}}
	s := store.New(client, store.DefaultConfig())

	err := s.DeleteClaim(context.Background(), []byte("doc"))
	if !errors.Is(err, ledger.ErrClaimNotFound) {
		t.Errorf("expected ErrClaimNotFound, got %v", err)
	}
}

// --- GetClaim Tests ---

func TestGetClaim(t *testing.T) {
	client := &fakeClient{
		getOutput: &dynamodb.GetItemOutput{
			Item: claimAttrs([]byte("doc"), "alice", "4", "50"),
		},
	}
	s := store.New(client, store.DefaultConfig())

	claim, price, err := s.GetClaim(context.Background(), []byte("doc"))
	if err != nil {
		t.Fatalf("GetClaim failed: %v", err)
	}
	if claim.Owner != "alice" {
		t.Errorf("expected owner 'alice', got %q", claim.Owner)
	}
	if claim.RegisteredAt != 4 {
		t.Errorf("expected RegisteredAt 4, got %d", claim.RegisteredAt)
	}
	if price != 50 {
		t.Errorf("expected price 50, got %d", price)
	}
}

func TestGetClaim_Missing(t *testing.T) {
	client := &fakeClient{}
	s := store.New(client, store.DefaultConfig())

	_, _, err := s.GetClaim(context.Background(), []byte("missing"))
	if !errors.Is(err, ledger.ErrClaimNotFound) {
		t.Errorf("expected ErrClaimNotFound, got %v", err)
	}
}

// --- Load Tests ---

func TestLoad_Paginated(t *testing.T) {
	lastKey := map[string]types.AttributeValue{
		"pk": &types.AttributeValueMemberS{Value: "cursor"},
	}
	client := &fakeClient{
		scanPages: []*dynamodb.ScanOutput{
			{
				Items: []map[string]types.AttributeValue{
					claimAttrs([]byte("a"), "alice", "1", "0"),
				},
				LastEvaluatedKey: lastKey,
			},
			{
				Items: []map[string]types.AttributeValue{
					claimAttrs([]byte("b"), "bob", "2", "9"),
				},
			},
		},
	}
	s := store.New(client, store.DefaultConfig())

	snap, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(snap.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(snap.Entries))
	}
	if snap.Entries[1].Claim.Owner != "bob" || snap.Entries[1].Price != 9 {
		t.Errorf("unexpected second entry: %+v", snap.Entries[1])
	}

	// The snapshot restores into a working ledger.
	var clock ledger.BlockCounter
	l := ledger.NewMarketplace(&clock, nil, noopBalances{}, ledger.DefaultConfig())
	l.Restore(snap)
	if !l.Contains([]byte("a")) || !l.Contains([]byte("b")) {
		t.Error("expected restored ledger to contain both claims")
	}
}

type noopBalances struct{}

func (noopBalances) Transfer(from, to ledger.ActorID, amount ledger.Amount) error { return nil }
