package clientfake

import (
	"context"

	"github.com/ccs-digital/login-director/reconcile"
	"github.com/ccs-digital/login-director/tenders"
)

// FakeClient is an in-memory tenders.Client for testing.
type FakeClient struct {
	StatusResponse reconcile.Response
	StatusErr      error
	CreateResponse reconcile.Response
	CreateErr      error

	StatusCalls int
	CreateCalls int
}

var _ tenders.Client = (*FakeClient)(nil)

// NewFakeClient creates a FakeClient.
func NewFakeClient() *FakeClient {
	return &FakeClient{}
}

func (f *FakeClient) UserStatus(_ context.Context, _, _ string) (reconcile.Response, error) {
	f.StatusCalls++
	return f.StatusResponse, f.StatusErr
}

func (f *FakeClient) CreateUser(_ context.Context, _, _ string) (reconcile.Response, error) {
	f.CreateCalls++
	return f.CreateResponse, f.CreateErr
}
