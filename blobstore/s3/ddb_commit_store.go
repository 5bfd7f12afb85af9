package s3

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/m638-hue/SofttekLLMSDK/blobstore"
)

// CommitName is the well-known blob name routed through DynamoDB.
const CommitName = "MANIFEST"

// DDBCommitStore implements blobstore.BlobStore backed by S3 with DynamoDB
// for atomic manifest commits.
//
// S3 alone cannot compare-and-swap, so overwriting the manifest from two
// writers can lose a save. The commit store writes each manifest to a
// versioned S3 key and uses a DynamoDB conditional write to advance the
// current-version pointer; a conflicting writer gets
// ErrConcurrentModification instead of silently clobbering.
//
// Table schema:
//   - Partition key: base_uri (string) - the S3 prefix/path
//   - Sort key: version (number) - monotonically increasing version
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name vectorstore-commits \
//	  --attribute-definitions AttributeName=base_uri,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=base_uri,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type DDBCommitStore struct {
	s3Store   *Store
	ddbClient DDBClient
	tableName string
	baseURI   string // S3 bucket/prefix used as partition key
}

// DDBClient is the interface for DynamoDB operations.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// ErrConcurrentModification is returned when a concurrent manifest commit is
// detected.
var ErrConcurrentModification = errors.New("concurrent modification detected")

// NewDDBCommitStore creates a new S3+DynamoDB commit store.
// The baseURI should be "s3://bucket/prefix" format used as partition key.
func NewDDBCommitStore(s3Store *Store, ddbClient DDBClient, tableName, baseURI string) *DDBCommitStore {
	return &DDBCommitStore{
		s3Store:   s3Store,
		ddbClient: ddbClient,
		tableName: tableName,
		baseURI:   baseURI,
	}
}

// Open opens a blob for reading. The manifest name resolves to the latest
// committed version.
func (s *DDBCommitStore) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	if name == CommitName {
		version, path, err := s.latestVersion(ctx)
		if err != nil {
			return nil, err
		}
		if version == 0 {
			return nil, blobstore.ErrNotFound
		}
		return s.s3Store.Open(ctx, path)
	}
	return s.s3Store.Open(ctx, name)
}

// Put writes a blob. For the manifest name, the content goes to a versioned
// key and the pointer advances via a DynamoDB conditional write.
func (s *DDBCommitStore) Put(ctx context.Context, name string, data []byte) error {
	if name != CommitName {
		return s.s3Store.Put(ctx, name, data)
	}

	current, _, err := s.latestVersion(ctx)
	if err != nil {
		return err
	}
	next := current + 1

	versioned := fmt.Sprintf("%s-v%06d", CommitName, next)
	if err := s.s3Store.Put(ctx, versioned, data); err != nil {
		return err
	}
	return s.commitVersion(ctx, next, versioned)
}

// Create creates a writable blob. Manifest writes must go through Put.
func (s *DDBCommitStore) Create(ctx context.Context, name string) (blobstore.WritableBlob, error) {
	if name == CommitName {
		return nil, fmt.Errorf("manifest %q must be written via Put", CommitName)
	}
	return s.s3Store.Create(ctx, name)
}

// Delete deletes a blob.
func (s *DDBCommitStore) Delete(ctx context.Context, name string) error {
	return s.s3Store.Delete(ctx, name)
}

// List lists blobs with prefix.
func (s *DDBCommitStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.s3Store.List(ctx, prefix)
}

// latestVersion queries DynamoDB for the latest committed version.
func (s *DDBCommitStore) latestVersion(ctx context.Context) (uint64, string, error) {
	resp, err := s.ddbClient.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("base_uri = :uri"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uri": &types.AttributeValueMemberS{Value: s.baseURI},
		},
		ScanIndexForward: aws.Bool(false), // Descending order
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return 0, "", fmt.Errorf("failed to query DynamoDB: %w", err)
	}

	if len(resp.Items) == 0 {
		return 0, "", nil
	}

	item := resp.Items[0]
	versionAttr, ok := item["version"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, "", errors.New("invalid version attribute in DynamoDB")
	}
	pathAttr, ok := item["manifest_path"].(*types.AttributeValueMemberS)
	if !ok {
		return 0, "", errors.New("invalid manifest_path attribute in DynamoDB")
	}

	var version uint64
	if _, err := fmt.Sscanf(versionAttr.Value, "%d", &version); err != nil {
		return 0, "", fmt.Errorf("failed to parse version: %w", err)
	}

	return version, pathAttr.Value, nil
}

// commitVersion atomically commits a new manifest version using a DynamoDB
// conditional write.
func (s *DDBCommitStore) commitVersion(ctx context.Context, version uint64, manifestPath string) error {
	_, err := s.ddbClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item: map[string]types.AttributeValue{
			"base_uri":      &types.AttributeValueMemberS{Value: s.baseURI},
			"version":       &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", version)},
			"manifest_path": &types.AttributeValueMemberS{Value: manifestPath},
		},
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrConcurrentModification
		}
		return fmt.Errorf("failed to commit version to DynamoDB: %w", err)
	}
	return nil
}
