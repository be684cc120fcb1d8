package mocks

import (
	"github.com/stretchr/testify/mock"

	"handwerk-hero/go_backend/internal/domain/quote"
)

// MockRenderer is a mock implementation of quoting.Renderer.
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Generate(doc quote.Document) ([]byte, error) {
	args := m.Called(doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
