package repository

import (
	"context"

	"sales_capture/internal/domain/entities"
	"sales_capture/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultSalePaymentsTableName = "sale_payments"
	salePaymentsSaleIDIndex      = "sale_id-index"
)

type salePaymentRecord struct {
	ID           string                 `dynamodbav:"id"`
	SaleID       string                 `dynamodbav:"sale_id"`
	SaleNumber   string                 `dynamodbav:"sale_number"`
	Amount       string                 `dynamodbav:"amount"`
	Date         string                 `dynamodbav:"date"`
	Status       string                 `dynamodbav:"status"`
	MPPayload    map[string]interface{} `dynamodbav:"mp_payload,omitempty"`
	MPPayloadRaw string                 `dynamodbav:"mp_payload_raw,omitempty"`
}

// SalePaymentDynamoRepository persists SalePayment entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: sale_id-index (PK: sale_id)

type SalePaymentDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.ISalePaymentRepository = (*SalePaymentDynamoRepository)(nil)

func NewSalePaymentDynamoRepository(ddb *dynamodb.Client) *SalePaymentDynamoRepository {
	return &SalePaymentDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("SALE_PAYMENTS_TABLE", defaultSalePaymentsTableName),
	}
}

func (r *SalePaymentDynamoRepository) Create(ctx context.Context, p entities.SalePayment) (entities.SalePayment, error) {
	av, err := attributevalue.MarshalMap(toSalePaymentRecord(p))
	if err != nil {
		return entities.SalePayment{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.SalePayment{}, err
	}
	return p, nil
}

func (r *SalePaymentDynamoRepository) ListBySaleID(ctx context.Context, saleID string) ([]entities.SalePayment, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(salePaymentsSaleIDIndex),
		KeyConditionExpression: aws.String("sale_id = :sid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":sid": &types.AttributeValueMemberS{Value: saleID},
		},
	})
	if err != nil {
		return nil, err
	}

	payments := make([]entities.SalePayment, 0, len(out.Items))
	for _, raw := range out.Items {
		var rec salePaymentRecord
		if err := attributevalue.UnmarshalMap(raw, &rec); err != nil {
			return nil, err
		}
		payments = append(payments, fromSalePaymentRecord(rec))
	}
	return payments, nil
}

func toSalePaymentRecord(p entities.SalePayment) salePaymentRecord {
	return salePaymentRecord{
		ID:           p.ID,
		SaleID:       p.SaleID,
		SaleNumber:   p.SaleNumber,
		Amount:       p.Amount.String(),
		Date:         formatTime(p.Date),
		Status:       string(p.Status),
		MPPayload:    p.MPPayload,
		MPPayloadRaw: string(p.MPPayloadRaw),
	}
}

func fromSalePaymentRecord(rec salePaymentRecord) entities.SalePayment {
	amount, _ := parseDecimal(rec.Amount)
	return entities.SalePayment{
		ID:           rec.ID,
		SaleID:       rec.SaleID,
		SaleNumber:   rec.SaleNumber,
		Amount:       amount,
		Date:         parseTime(rec.Date),
		Status:       entities.PaymentStatus(rec.Status),
		MPPayload:    rec.MPPayload,
		MPPayloadRaw: []byte(rec.MPPayloadRaw),
	}
}
