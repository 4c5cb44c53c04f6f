package contract

import (
	"context"

	"github.com/huangsam/kpidash/schema"
	"github.com/stretchr/testify/mock"
)

// MockSource is a mock type for the Source interface.
type MockSource struct {
	mock.Mock
}

var _ Source = &MockSource{} // Compile-time check

// Fetch implements the Source interface.
func (m *MockSource) Fetch(ctx context.Context, category schema.Category) ([]byte, error) {
	ret := m.Called(ctx, category)
	data, _ := ret.Get(0).([]byte)
	return data, ret.Error(1)
}

// Location implements the Source interface.
func (m *MockSource) Location() string {
	return "mock"
}
