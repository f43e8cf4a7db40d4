package clientfake

import (
	"context"

	"github.com/ccs-digital/login-director/adaptor"
	"github.com/ccs-digital/login-director/identity"
)

// FakeClient is an in-memory adaptor.Client for testing.
type FakeClient struct {
	User identity.User
	Err  error

	Calls int
}

var _ adaptor.Client = (*FakeClient)(nil)

// NewFakeClient creates a FakeClient.
func NewFakeClient() *FakeClient {
	return &FakeClient{}
}

func (f *FakeClient) UserInfo(_ context.Context, _ string) (identity.User, error) {
	f.Calls++
	return f.User, f.Err
}
