package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"sales_capture/internal/domain/entities"
	"sales_capture/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultSalesTableName = "sales"

	// saleNumberGuardPrefix keys the item that reserves a sale number in the
	// sales table, written in the same transaction as the sale.
	saleNumberGuardPrefix = "sale_number#"
)

type saleLineRecord struct {
	ID                 string `dynamodbav:"id"`
	ProductID          string `dynamodbav:"product_id"`
	Quantity           int    `dynamodbav:"quantity"`
	UnitPrice          string `dynamodbav:"unit_price"`
	DiscountPercentage string `dynamodbav:"discount_percentage"`
	CreatedAt          string `dynamodbav:"created_at"`
}

type saleRecord struct {
	ID          string           `dynamodbav:"id"`
	SaleNumber  string           `dynamodbav:"sale_number"`
	CustomerID  string           `dynamodbav:"customer_id"`
	BranchID    string           `dynamodbav:"branch_id"`
	Status      string           `dynamodbav:"status"`
	TotalAmount string           `dynamodbav:"total_amount"`
	VoidReason  string           `dynamodbav:"void_reason,omitempty"`
	CreatedAt   string           `dynamodbav:"created_at"`
	UpdatedAt   string           `dynamodbav:"updated_at"`
	FinalizedAt string           `dynamodbav:"finalized_at,omitempty"`
	VoidedAt    string           `dynamodbav:"voided_at,omitempty"`
	Items       []saleLineRecord `dynamodbav:"items"`
	Version     int64            `dynamodbav:"version"`
}

// SaleDynamoRepository persists the Sale aggregate as a single DynamoDB item,
// line items nested in the "items" list.
//
// Table requirements:
//   - PK: id (string)
//
// Create also writes a "sale_number#<number>" guard item so a sale number is
// stored at most once. Writes are conditional on the "version" attribute so two requests that
// loaded the same version cannot both save.

type SaleDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.ISaleRepository = (*SaleDynamoRepository)(nil)

func NewSaleDynamoRepository(ddb *dynamodb.Client) *SaleDynamoRepository {
	return &SaleDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("SALES_TABLE", defaultSalesTableName),
	}
}

func (r *SaleDynamoRepository) Create(ctx context.Context, sale *entities.Sale) (*entities.Sale, error) {
	snap := sale.Snapshot()
	snap.Version = 1

	av, err := attributevalue.MarshalMap(toSaleRecord(snap))
	if err != nil {
		return nil, err
	}

	notExists := aws.String("attribute_not_exists(#id)")
	idName := map[string]string{"#id": "id"}
	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:                aws.String(r.tableName),
				Item:                     av,
				ConditionExpression:      notExists,
				ExpressionAttributeNames: idName,
			}},
			{Put: &types.Put{
				TableName: aws.String(r.tableName),
				Item: map[string]types.AttributeValue{
					"id":      &types.AttributeValueMemberS{Value: saleNumberGuardPrefix + snap.SaleNumber},
					"sale_id": &types.AttributeValueMemberS{Value: snap.ID},
				},
				ConditionExpression:      notExists,
				ExpressionAttributeNames: idName,
			}},
		},
	})
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) && len(tce.CancellationReasons) > 1 &&
			aws.ToString(tce.CancellationReasons[1].Code) == "ConditionalCheckFailed" {
			return nil, fmt.Errorf("%w: %s", entities.ErrSaleNumberConflict, snap.SaleNumber)
		}
		return nil, err
	}
	return entities.RestoreSale(snap)
}

func (r *SaleDynamoRepository) GetByID(ctx context.Context, id string) (*entities.Sale, error) {
	if strings.HasPrefix(id, saleNumberGuardPrefix) {
		return nil, nil
	}
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Item) == 0 {
		return nil, nil
	}

	var rec saleRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, err
	}
	snap, err := fromSaleRecord(rec)
	if err != nil {
		return nil, err
	}
	return entities.RestoreSale(snap)
}

func (r *SaleDynamoRepository) Update(ctx context.Context, sale *entities.Sale) (*entities.Sale, error) {
	snap := sale.Snapshot()
	expected := snap.Version
	snap.Version = expected + 1

	av, err := attributevalue.MarshalMap(toSaleRecord(snap))
	if err != nil {
		return nil, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(#id) AND #version = :expected"),
		ExpressionAttributeNames: map[string]string{
			"#id":      "id",
			"#version": "version",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberN{Value: strconv.FormatInt(expected, 10)},
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return nil, fmt.Errorf("%w: sale %s at version %d", entities.ErrConcurrentModification, snap.ID, expected)
		}
		return nil, err
	}
	return entities.RestoreSale(snap)
}

func toSaleRecord(s entities.SaleSnapshot) saleRecord {
	items := make([]saleLineRecord, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, saleLineRecord{
			ID:                 it.ID,
			ProductID:          it.ProductID,
			Quantity:           it.Quantity,
			UnitPrice:          it.UnitPrice.String(),
			DiscountPercentage: it.DiscountPercentage.String(),
			CreatedAt:          formatTime(it.CreatedAt),
		})
	}
	return saleRecord{
		ID:          s.ID,
		SaleNumber:  s.SaleNumber,
		CustomerID:  s.CustomerID,
		BranchID:    s.BranchID,
		Status:      string(s.Status),
		TotalAmount: s.TotalAmount.String(),
		VoidReason:  s.VoidReason,
		CreatedAt:   formatTime(s.CreatedAt),
		UpdatedAt:   formatTime(s.UpdatedAt),
		FinalizedAt: formatOptionalTime(s.FinalizedAt),
		VoidedAt:    formatOptionalTime(s.VoidedAt),
		Items:       items,
		Version:     s.Version,
	}
}

func fromSaleRecord(rec saleRecord) (entities.SaleSnapshot, error) {
	total, err := parseDecimal(rec.TotalAmount)
	if err != nil {
		return entities.SaleSnapshot{}, fmt.Errorf("sale %s total_amount: %w", rec.ID, err)
	}

	items := make([]entities.SaleItemSnapshot, 0, len(rec.Items))
	for _, it := range rec.Items {
		price, err := parseDecimal(it.UnitPrice)
		if err != nil {
			return entities.SaleSnapshot{}, fmt.Errorf("sale %s item %s unit_price: %w", rec.ID, it.ID, err)
		}
		discount, err := parseDecimal(it.DiscountPercentage)
		if err != nil {
			return entities.SaleSnapshot{}, fmt.Errorf("sale %s item %s discount_percentage: %w", rec.ID, it.ID, err)
		}
		items = append(items, entities.SaleItemSnapshot{
			ID:                 it.ID,
			ProductID:          it.ProductID,
			Quantity:           it.Quantity,
			UnitPrice:          price,
			DiscountPercentage: discount,
			CreatedAt:          parseTime(it.CreatedAt),
		})
	}

	return entities.SaleSnapshot{
		ID:          rec.ID,
		SaleNumber:  rec.SaleNumber,
		CustomerID:  rec.CustomerID,
		BranchID:    rec.BranchID,
		Status:      entities.SaleStatus(rec.Status),
		Items:       items,
		TotalAmount: total,
		VoidReason:  rec.VoidReason,
		CreatedAt:   parseTime(rec.CreatedAt),
		UpdatedAt:   parseTime(rec.UpdatedAt),
		FinalizedAt: parseOptionalTime(rec.FinalizedAt),
		VoidedAt:    parseOptionalTime(rec.VoidedAt),
		Version:     rec.Version,
	}, nil
}
