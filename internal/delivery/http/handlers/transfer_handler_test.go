package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	transferResponse "github.com/LavaJover/shvark-transfer-service/internal/delivery/http/dto/transfer/response"
	"github.com/LavaJover/shvark-transfer-service/internal/delivery/http/handlers"
	"github.com/LavaJover/shvark-transfer-service/internal/domain"
	infrastructure "github.com/LavaJover/shvark-transfer-service/internal/infrastructure/exchange_providers"
	"github.com/LavaJover/shvark-transfer-service/internal/infrastructure/memory"
	"github.com/LavaJover/shvark-transfer-service/internal/usecase"
	"github.com/LavaJover/shvark-transfer-service/internal/usecase/account"
	"github.com/LavaJover/shvark-transfer-service/internal/usecase/transfer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	store := memory.NewStore(time.Second)
	ctx := context.Background()
	require.NoError(t, store.Accounts().Create(ctx, &domain.Account{ID: 1, Name: "Alice", Balance: decimal.NewFromInt(1000), Currency: domain.USD}))
	require.NoError(t, store.Accounts().Create(ctx, &domain.Account{ID: 2, Name: "Bob", Balance: decimal.NewFromInt(500), Currency: domain.JPY}))

	rates, err := infrastructure.NewStaticRateProvider(domain.USD, infrastructure.DefaultRates())
	require.NoError(t, err)
	transferUC, err := transfer.NewDefaultTransferUsecase(store, rates, nil, transfer.DefaultFeeRate, nil)
	require.NoError(t, err)

	registry := prometheus.NewRegistry()
	h := handlers.NewHTTPTransferHandler(
		transferUC,
		account.NewDefaultAccountUsecase(store, rates, nil),
		usecase.NewDefaultExchangeRateService(rates, transfer.DefaultFeeRate),
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	)
	srv := httptest.NewServer(h.Routes())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func get(t *testing.T, srv *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestCreateTransfer(t *testing.T) {
	srv := newServer(t)

	resp := post(t, srv, "/transfers", `{"from_account_id":1,"to_account_id":2,"amount":"50.00","currency":"USD"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	tx := decode[transferResponse.TransactionResponse](t, resp)
	assert.Equal(t, "COMPLETED", tx.Status)
	assert.True(t, decimal.RequireFromString("0.5").Equal(tx.Fee))
	assert.True(t, decimal.RequireFromString("7246.3768").Equal(tx.CreditAmount))

	acc := decode[transferResponse.AccountResponse](t, get(t, srv, "/accounts/1"))
	assert.True(t, decimal.RequireFromString("949.5").Equal(acc.Balance))

	got := get(t, srv, fmt.Sprintf("/transactions/%d", tx.ID))
	require.Equal(t, http.StatusOK, got.StatusCode)
	assert.Equal(t, tx.Reference, decode[transferResponse.TransactionResponse](t, got).Reference)

	history := decode[transferResponse.TransactionsResponse](t, get(t, srv, "/accounts/2/transactions?limit=5"))
	assert.Equal(t, 1, history.Count)
}

func TestCreateTransfer_Outcomes(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantCode   int
		wantStatus string
	}{
		{
			name:       "insufficient funds",
			body:       `{"from_account_id":1,"to_account_id":2,"amount":"1000","currency":"USD"}`,
			wantCode:   http.StatusUnprocessableEntity,
			wantStatus: "INSUFFICIENT_FUNDS",
		},
		{
			name:       "missing exchange rate",
			body:       `{"from_account_id":1,"to_account_id":2,"amount":"10","currency":"EUR"}`,
			wantCode:   http.StatusBadRequest,
			wantStatus: "INVALID_CURRENCY",
		},
		{
			name:     "unknown account",
			body:     `{"from_account_id":1,"to_account_id":9,"amount":"10","currency":"USD"}`,
			wantCode: http.StatusNotFound,
		},
		{
			name:     "same account",
			body:     `{"from_account_id":1,"to_account_id":1,"amount":"10","currency":"USD"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "negative amount",
			body:     `{"from_account_id":1,"to_account_id":2,"amount":"-10","currency":"USD"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "amount finer than balances",
			body:     `{"from_account_id":1,"to_account_id":2,"amount":"0.00004","currency":"USD"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "malformed body",
			body:     `{"from_account_id":`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t)
			resp := post(t, srv, "/transfers", tt.body)
			require.Equal(t, tt.wantCode, resp.StatusCode)
			if tt.wantStatus == "" {
				return
			}

			var body struct {
				Status      string                                `json:"status"`
				Transaction *transferResponse.TransactionResponse `json:"transaction"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			status := body.Status
			if body.Transaction != nil {
				status = body.Transaction.Status
			}
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}

func TestAccounts(t *testing.T) {
	srv := newServer(t)

	resp := post(t, srv, "/accounts", `{"name":"Carol","balance":"12.5","currency":"cny"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[transferResponse.AccountResponse](t, resp)
	assert.Equal(t, "CNY", created.Currency)
	assert.Equal(t, int64(3), created.ID)

	assert.Equal(t, http.StatusBadRequest, post(t, srv, "/accounts", `{"name":"Eve","currency":"EUR"}`).StatusCode)
	assert.Equal(t, http.StatusConflict, post(t, srv, "/accounts", `{"id":1,"name":"Eve","currency":"USD"}`).StatusCode)
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/accounts/404").StatusCode)
	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/accounts/abc").StatusCode)
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/transactions/404").StatusCode)
	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/accounts/1/transactions?limit=x").StatusCode)
}

func TestRates(t *testing.T) {
	srv := newServer(t)

	currencies := decode[transferResponse.CurrenciesResponse](t, get(t, srv, "/rates"))
	assert.Equal(t, []string{"AUD", "CNY", "JPY", "USD"}, currencies.Currencies)

	resp := get(t, srv, "/rates/quote?from=AUD&to=USD&amount=50")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	quote := decode[transferResponse.QuoteResponse](t, resp)
	assert.True(t, decimal.NewFromInt(25).Equal(quote.Converted))
	assert.True(t, decimal.RequireFromString("50.5").Equal(quote.TotalDebited))

	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/rates/quote?from=EUR&to=USD&amount=1").StatusCode)
	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/rates/quote?from=AUD&to=USD&amount=abc").StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newServer(t)
	assert.Equal(t, http.StatusOK, get(t, srv, "/healthz").StatusCode)
	assert.Equal(t, http.StatusOK, get(t, srv, "/metrics").StatusCode)
}
