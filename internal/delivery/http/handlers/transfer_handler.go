package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	transferRequest "github.com/LavaJover/shvark-transfer-service/internal/delivery/http/dto/transfer/request"
	transferResponse "github.com/LavaJover/shvark-transfer-service/internal/delivery/http/dto/transfer/response"
	"github.com/LavaJover/shvark-transfer-service/internal/domain"
	"github.com/LavaJover/shvark-transfer-service/internal/usecase"
	transferdto "github.com/LavaJover/shvark-transfer-service/internal/usecase/dto/transfer"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
)

type HTTPTransferHandler struct {
	TransferUsecase     usecase.TransferUsecase
	AccountUsecase      usecase.AccountUsecase
	ExchangeRateService usecase.ExchangeRateService
	// MetricsHandler is mounted on /metrics when set.
	MetricsHandler http.Handler
}

func NewHTTPTransferHandler(
	transferUsecase usecase.TransferUsecase,
	accountUsecase usecase.AccountUsecase,
	exchangeRateService usecase.ExchangeRateService,
	metricsHandler http.Handler,
) *HTTPTransferHandler {
	return &HTTPTransferHandler{
		TransferUsecase:     transferUsecase,
		AccountUsecase:      accountUsecase,
		ExchangeRateService: exchangeRateService,
		MetricsHandler:      metricsHandler,
	}
}

func (h *HTTPTransferHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Health)
	if h.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", h.MetricsHandler)
	}

	r.Post("/transfers", h.CreateTransfer)
	r.Get("/transactions/{id}", h.GetTransaction)
	r.Route("/accounts", func(r chi.Router) {
		r.Post("/", h.CreateAccount)
		r.Get("/{id}", h.GetAccount)
		r.Get("/{id}/transactions", h.ListTransactions)
	})
	r.Route("/rates", func(r chi.Router) {
		r.Get("/", h.ListCurrencies)
		r.Get("/quote", h.Quote)
	})
	return r
}

func (h *HTTPTransferHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CreateTransfer answers 201 for a completed transfer and 422 when the source
// cannot cover amount plus fee. Both bodies carry the transaction record.
func (h *HTTPTransferHandler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid body: %w", err), nil)
		return
	}

	tx, err := h.TransferUsecase.Transfer(r.Context(), &transferdto.TransferInput{
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        req.Amount,
		Currency:      req.Currency,
	})
	if err != nil {
		writeError(w, statusFor(err), err, tx)
		return
	}

	switch tx.Status {
	case domain.StatusInsufficientFunds:
		writeJSON(w, http.StatusUnprocessableEntity, transferResponse.NewTransactionResponse(tx))
	default:
		writeJSON(w, http.StatusCreated, transferResponse.NewTransactionResponse(tx))
	}
}

func (h *HTTPTransferHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req transferRequest.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid body: %w", err), nil)
		return
	}

	account, err := h.AccountUsecase.CreateAccount(r.Context(), &transferdto.CreateAccountInput{
		ID:       req.ID,
		Name:     req.Name,
		Balance:  req.Balance,
		Currency: req.Currency,
	})
	if err != nil {
		writeError(w, statusFor(err), err, nil)
		return
	}
	writeJSON(w, http.StatusCreated, transferResponse.NewAccountResponse(account))
}

func (h *HTTPTransferHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err, nil)
		return
	}

	account, err := h.AccountUsecase.GetAccount(r.Context(), accountID)
	if err != nil {
		writeError(w, statusFor(err), err, nil)
		return
	}
	writeJSON(w, http.StatusOK, transferResponse.NewAccountResponse(account))
}

func (h *HTTPTransferHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err, nil)
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", raw), nil)
			return
		}
	}

	txs, err := h.AccountUsecase.ListTransactions(r.Context(), &transferdto.ListTransactionsInput{
		AccountID: accountID,
		Limit:     limit,
	})
	if err != nil {
		writeError(w, statusFor(err), err, nil)
		return
	}
	writeJSON(w, http.StatusOK, transferResponse.NewTransactionsResponse(txs))
}

func (h *HTTPTransferHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err, nil)
		return
	}

	tx, err := h.AccountUsecase.GetTransaction(r.Context(), transactionID)
	if err != nil {
		writeError(w, statusFor(err), err, nil)
		return
	}
	writeJSON(w, http.StatusOK, transferResponse.NewTransactionResponse(tx))
}

func (h *HTTPTransferHandler) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	currencies := h.ExchangeRateService.SupportedCurrencies()
	out := transferResponse.CurrenciesResponse{Currencies: make([]string, 0, len(currencies))}
	for _, c := range currencies {
		out.Currencies = append(out.Currencies, c.String())
	}
	writeJSON(w, http.StatusOK, out)
}

// Quote prices GET /rates/quote?from=AUD&to=USD&amount=50 without moving money.
func (h *HTTPTransferHandler) Quote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	amount, err := decimal.NewFromString(q.Get("amount"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid amount %q", q.Get("amount")), nil)
		return
	}

	quote, err := h.ExchangeRateService.Quote(amount, q.Get("from"), q.Get("to"))
	if err != nil {
		writeError(w, statusFor(err), err, nil)
		return
	}
	writeJSON(w, http.StatusOK, transferResponse.QuoteResponse{
		From:         quote.From.String(),
		To:           quote.To.String(),
		Rate:         quote.Rate,
		Amount:       quote.Amount,
		Converted:    quote.Converted,
		Fee:          quote.Fee,
		TotalDebited: quote.TotalDebited,
	})
}

func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound), errors.Is(err, domain.ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrSameAccount),
		errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrMissingExchangeRate):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAccountExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrLockTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, code int, err error, tx *domain.Transaction) {
	body := transferResponse.ErrorResponse{Error: err.Error()}
	if code == http.StatusInternalServerError {
		slog.Error("transfer api internal error", "error", err)
	}
	if tx != nil {
		body.Transaction = transferResponse.NewTransactionResponse(tx)
	}
	writeJSON(w, code, body)
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
