package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockArchiver is a mock implementation of quoting.Archiver.
type MockArchiver struct {
	mock.Mock
}

func (m *MockArchiver) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, key, contentType, data)
	return args.String(0), args.Error(1)
}
