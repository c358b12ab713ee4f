package ghclient

import (
	"context"

	"github.com/starscope/starscope/internal/contract"
	"github.com/starscope/starscope/schema"
	"github.com/stretchr/testify/mock"
)

// MockProvider is a mock implementation of Provider for testing.
type MockProvider struct {
	mock.Mock
}

var _ contract.Provider = &MockProvider{} // Compile-time check

// FetchSnapshot implements the Provider interface.
func (m *MockProvider) FetchSnapshot(ctx context.Context, identifier string) (*schema.RepoSnapshot, error) {
	args := m.Called(ctx, identifier)
	snap, _ := args.Get(0).(*schema.RepoSnapshot)
	return snap, args.Error(1)
}
