package grpcapi_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/LavaJover/shvark-transfer-service/internal/delivery/grpcapi"
	"github.com/LavaJover/shvark-transfer-service/internal/domain"
	infrastructure "github.com/LavaJover/shvark-transfer-service/internal/infrastructure/exchange_providers"
	"github.com/LavaJover/shvark-transfer-service/internal/infrastructure/memory"
	"github.com/LavaJover/shvark-transfer-service/internal/usecase/account"
	"github.com/LavaJover/shvark-transfer-service/internal/usecase/transfer"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

func startServer(t *testing.T) *grpcapi.TransferServiceClient {
	t.Helper()

	store := memory.NewStore(time.Second)
	ctx := context.Background()
	require.NoError(t, store.Accounts().Create(ctx, &domain.Account{ID: 1, Name: "Alice", Balance: decimal.NewFromInt(1000), Currency: domain.USD}))
	require.NoError(t, store.Accounts().Create(ctx, &domain.Account{ID: 2, Name: "Bob", Balance: decimal.NewFromInt(500), Currency: domain.JPY}))

	rates, err := infrastructure.NewStaticRateProvider(domain.USD, infrastructure.DefaultRates())
	require.NoError(t, err)
	transferUC, err := transfer.NewDefaultTransferUsecase(store, rates, nil, transfer.DefaultFeeRate, nil)
	require.NoError(t, err)
	accountUC := account.NewDefaultAccountUsecase(store, rates, nil)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	grpcapi.RegisterTransferServiceServer(srv, grpcapi.NewTransferHandler(transferUC, accountUC))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return grpcapi.NewTransferServiceClient(conn)
}

func mustStruct(t *testing.T, fields map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(fields)
	require.NoError(t, err)
	return s
}

func TestTransferService_Transfer(t *testing.T) {
	client := startServer(t)
	ctx := context.Background()

	resp, err := client.Transfer(ctx, mustStruct(t, map[string]any{
		"from_account_id": 1,
		"to_account_id":   2,
		"amount":          "50.00",
		"currency":        "USD",
	}))
	require.NoError(t, err)
	fields := resp.GetFields()
	assert.Equal(t, "COMPLETED", fields["status"].GetStringValue())
	assert.Equal(t, "0.5", fields["fee"].GetStringValue())

	txID := fields["id"].GetNumberValue()
	got, err := client.GetTransaction(ctx, mustStruct(t, map[string]any{"transaction_id": txID}))
	require.NoError(t, err)
	assert.Equal(t, fields["reference"].GetStringValue(), got.GetFields()["reference"].GetStringValue())

	acc, err := client.GetAccount(ctx, mustStruct(t, map[string]any{"account_id": 1}))
	require.NoError(t, err)
	assert.Equal(t, "949.5", acc.GetFields()["balance"].GetStringValue())
}

func TestTransferService_InsufficientFundsIsNotAnError(t *testing.T) {
	client := startServer(t)

	resp, err := client.Transfer(context.Background(), mustStruct(t, map[string]any{
		"from_account_id": 1,
		"to_account_id":   2,
		"amount":          "5000",
		"currency":        "USD",
	}))
	require.NoError(t, err)
	assert.Equal(t, "INSUFFICIENT_FUNDS", resp.GetFields()["status"].GetStringValue())
}

func TestTransferService_ErrorCodes(t *testing.T) {
	client := startServer(t)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
		want codes.Code
	}{
		{
			name: "unknown account",
			call: func() error {
				_, err := client.GetAccount(ctx, mustStruct(t, map[string]any{"account_id": 99}))
				return err
			},
			want: codes.NotFound,
		},
		{
			name: "unknown transaction",
			call: func() error {
				_, err := client.GetTransaction(ctx, mustStruct(t, map[string]any{"transaction_id": 99}))
				return err
			},
			want: codes.NotFound,
		},
		{
			name: "missing exchange rate",
			call: func() error {
				_, err := client.Transfer(ctx, mustStruct(t, map[string]any{
					"from_account_id": 1, "to_account_id": 2, "amount": "1", "currency": "EUR",
				}))
				return err
			},
			want: codes.InvalidArgument,
		},
		{
			name: "same account",
			call: func() error {
				_, err := client.Transfer(ctx, mustStruct(t, map[string]any{
					"from_account_id": 1, "to_account_id": 1, "amount": "1", "currency": "USD",
				}))
				return err
			},
			want: codes.InvalidArgument,
		},
		{
			name: "malformed request",
			call: func() error {
				_, err := client.Transfer(ctx, mustStruct(t, map[string]any{"amount": "1"}))
				return err
			},
			want: codes.InvalidArgument,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.Equal(t, tt.want, status.Code(err))
		})
	}
}
