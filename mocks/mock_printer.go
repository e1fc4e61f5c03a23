package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockPrinter is a mock implementation of printer.Printer.
type MockPrinter struct {
	mock.Mock
}

func (m *MockPrinter) Print(ctx context.Context, data []byte) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockPrinter) IsConnected() bool {
	args := m.Called()
	return args.Bool(0)
}
