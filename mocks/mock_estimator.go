package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"handwerk-hero/go_backend/internal/infra/llm"
)

// MockEstimator is a mock implementation of quoting.Estimator.
type MockEstimator struct {
	mock.Mock
}

func (m *MockEstimator) Estimate(ctx context.Context, apiKey, prompt string, img *llm.Image) (string, error) {
	args := m.Called(ctx, apiKey, prompt, img)
	return args.String(0), args.Error(1)
}

func (m *MockEstimator) HasCredential() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockEstimator) Model() string {
	args := m.Called()
	return args.String(0)
}
