package grpcapi

import (
	"context"
	"errors"
	"log/slog"

	"github.com/LavaJover/shvark-transfer-service/internal/delivery/grpcapi/mappers"
	"github.com/LavaJover/shvark-transfer-service/internal/domain"
	"github.com/LavaJover/shvark-transfer-service/internal/usecase"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type TransferHandler struct {
	transferUsecase usecase.TransferUsecase
	accountUsecase  usecase.AccountUsecase
}

func NewTransferHandler(transferUsecase usecase.TransferUsecase, accountUsecase usecase.AccountUsecase) *TransferHandler {
	return &TransferHandler{
		transferUsecase: transferUsecase,
		accountUsecase:  accountUsecase,
	}
}

func (h *TransferHandler) Transfer(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	input, err := mappers.FromProtoTransferRequest(r)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	tx, err := h.transferUsecase.Transfer(ctx, input)
	if err != nil {
		return nil, toStatus(err)
	}
	return mappers.ToProtoTransaction(tx)
}

func (h *TransferHandler) GetAccount(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	accountID, err := mappers.Int64Field(r.GetFields(), "account_id")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	account, err := h.accountUsecase.GetAccount(ctx, accountID)
	if err != nil {
		return nil, toStatus(err)
	}
	return mappers.ToProtoAccount(account)
}

func (h *TransferHandler) GetTransaction(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	transactionID, err := mappers.Int64Field(r.GetFields(), "transaction_id")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	tx, err := h.accountUsecase.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, toStatus(err)
	}
	return mappers.ToProtoTransaction(tx)
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound), errors.Is(err, domain.ErrTransactionNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrSameAccount),
		errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrMissingExchangeRate):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrAccountExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, domain.ErrLockTimeout), errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	}
	slog.Error("transfer service internal error", "error", err)
	return status.Error(codes.Internal, "internal error")
}
