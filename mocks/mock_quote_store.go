package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"handwerk-hero/go_backend/internal/domain/quote"
)

// MockQuoteStore is a mock implementation of quote.Store.
type MockQuoteStore struct {
	mock.Mock
}

func (m *MockQuoteStore) ListSummaries(ctx context.Context) ([]quote.Summary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]quote.Summary), args.Error(1)
}

func (m *MockQuoteStore) Fetch(ctx context.Context, id string) (*quote.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quote.Record), args.Error(1)
}

func (m *MockQuoteStore) Insert(ctx context.Context, d quote.Draft) (*quote.Record, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quote.Record), args.Error(1)
}
