// Package mocks provides mock implementations for testing purposes.
package mocks

//go:generate mockgen -destination=mock_domain.go -package=mocks github.com/LavaJover/shvark-transfer-service/internal/domain AccountRepository,Clock,ExchangeRateProvider,OutboxRepository,PublisherPort,TransactionRepository,UnitOfWork
