package mappers

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/LavaJover/shvark-transfer-service/internal/domain"
	transferdto "github.com/LavaJover/shvark-transfer-service/internal/usecase/dto/transfer"
	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/types/known/structpb"
)

// Decimals travel as strings so no precision is lost on the float64 that
// backs a structpb number.

func ToProtoAccount(account *domain.Account) (*structpb.Struct, error) {
	return structpb.NewStruct(accountFields(account))
}

func ToProtoTransaction(tx *domain.Transaction) (*structpb.Struct, error) {
	fields := map[string]any{
		"id":              tx.ID,
		"reference":       tx.Reference,
		"from_account_id": tx.FromAccountID,
		"to_account_id":   tx.ToAccountID,
		"amount":          tx.Amount.String(),
		"fee":             tx.Fee.String(),
		"source_currency": tx.SourceCurrency.String(),
		"target_currency": tx.TargetCurrency.String(),
		"exchange_rate":   tx.ExchangeRate.String(),
		"debit_currency":  tx.DebitCurrency.String(),
		"debit_amount":    tx.DebitAmount.String(),
		"credit_amount":   tx.CreditAmount.String(),
		"status":          string(tx.Status),
		"timestamp":       tx.Timestamp.UTC().Format(time.RFC3339Nano),
	}
	if tx.FailureReason != "" {
		fields["failure_reason"] = tx.FailureReason
	}
	if tx.FromAccount != nil {
		fields["from_account"] = accountFields(tx.FromAccount)
	}
	if tx.ToAccount != nil {
		fields["to_account"] = accountFields(tx.ToAccount)
	}
	return structpb.NewStruct(fields)
}

func accountFields(account *domain.Account) map[string]any {
	return map[string]any{
		"id":       account.ID,
		"name":     account.Name,
		"balance":  account.Balance.String(),
		"currency": account.Currency.String(),
	}
}

func FromProtoTransferRequest(r *structpb.Struct) (*transferdto.TransferInput, error) {
	fields := r.GetFields()
	from, err := Int64Field(fields, "from_account_id")
	if err != nil {
		return nil, err
	}
	to, err := Int64Field(fields, "to_account_id")
	if err != nil {
		return nil, err
	}
	amount, err := DecimalField(fields, "amount")
	if err != nil {
		return nil, err
	}
	currency, ok := fields["currency"]
	if !ok {
		return nil, fmt.Errorf("currency is required")
	}
	return &transferdto.TransferInput{
		FromAccountID: from,
		ToAccountID:   to,
		Amount:        amount,
		Currency:      currency.GetStringValue(),
	}, nil
}

// Int64Field accepts an integral number or a base-10 string.
func Int64Field(fields map[string]*structpb.Value, name string) (int64, error) {
	v, ok := fields[name]
	if !ok {
		return 0, fmt.Errorf("%s is required", name)
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		n := kind.NumberValue
		if n != math.Trunc(n) || math.Abs(n) > 1<<53 {
			return 0, fmt.Errorf("%s must be an integer, got %v", name, n)
		}
		return int64(n), nil
	case *structpb.Value_StringValue:
		id, err := strconv.ParseInt(kind.StringValue, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", name, err)
		}
		return id, nil
	}
	return 0, fmt.Errorf("%s must be a number", name)
}

// DecimalField accepts a decimal string or a number.
func DecimalField(fields map[string]*structpb.Value, name string) (decimal.Decimal, error) {
	v, ok := fields[name]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s is required", name)
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		d, err := decimal.NewFromString(kind.StringValue)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%s: %w", name, err)
		}
		return d, nil
	case *structpb.Value_NumberValue:
		return decimal.NewFromFloat(kind.NumberValue), nil
	}
	return decimal.Zero, fmt.Errorf("%s must be a decimal string", name)
}
