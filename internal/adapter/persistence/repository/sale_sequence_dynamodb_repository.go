package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"sales_capture/internal/domain/entities"
	"sales_capture/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const defaultSaleSequencesTableName = "sale_sequences"

// SaleSequenceDynamoRepository issues sale numbers with a single atomic
// UpdateItem (ADD last_issued 1) per call. DynamoDB serializes updates to the
// same key, so concurrent callers for one branch always observe distinct
// values, and the first ADD on a missing item creates it with 1.
//
// Table requirements:
//   - PK: branch_id (string)
//
// SDK retries are disabled for the increment: a retried ADD after a timeout
// could consume two values for one request.

type SaleSequenceDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.ISaleSequencer = (*SaleSequenceDynamoRepository)(nil)

func NewSaleSequenceDynamoRepository(ddb *dynamodb.Client) *SaleSequenceDynamoRepository {
	return &SaleSequenceDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("SALE_SEQUENCES_TABLE", defaultSaleSequencesTableName),
	}
}

func (r *SaleSequenceDynamoRepository) NextNumber(ctx context.Context, branchID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"branch_id": &types.AttributeValueMemberS{Value: branchID},
		},
		UpdateExpression: aws.String("ADD #last_issued :one SET #updated_at = :now"),
		ExpressionAttributeNames: map[string]string{
			"#last_issued": "last_issued",
			"#updated_at":  "updated_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
			":now": &types.AttributeValueMemberS{Value: formatTime(time.Now())},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	}, func(o *dynamodb.Options) {
		o.RetryMaxAttempts = 1
	})
	if err != nil {
		return 0, fmt.Errorf("%w: branch %s: %v", entities.ErrSaleNumberOutcomeUnknown, branchID, err)
	}

	attr, ok := out.Attributes["last_issued"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("%w: branch %s: last_issued missing from response", entities.ErrSaleNumberOutcomeUnknown, branchID)
	}
	n, err := strconv.ParseInt(attr.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: branch %s: %v", entities.ErrSaleNumberOutcomeUnknown, branchID, err)
	}
	return n, nil
}
