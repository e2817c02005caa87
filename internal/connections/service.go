package connections

import (
	"context"

	"github.com/Ravikant96/AllSpark/internal/authz"
	"github.com/Ravikant96/AllSpark/internal/shared"
)

// Service resolves connection access through the authorization engine before
// exposing rows.
type Service struct {
	repo       Repository
	authorizer *authz.ConnectionAuthorizer
}

// NewService constructs a Service.
func NewService(repo Repository, authorizer *authz.ConnectionAuthorizer) *Service {
	return &Service{repo: repo, authorizer: authorizer}
}

// Get returns the connection when the user may use it. The denial travels as
// an authorization result, not an error.
func (s *Service) Get(ctx context.Context, user *shared.UserContext, connectionID int64) (Connection, authz.Result, error) {
	conn, err := s.repo.Get(ctx, user.AccountID, connectionID)
	if err != nil {
		return Connection{}, authz.Result{}, err
	}
	res, err := s.authorizer.Authorize(ctx, authz.Connection{
		ID:        conn.ID,
		AccountID: conn.AccountID,
		AddedBy:   conn.AddedBy,
	}, user, authz.ConnectionOptions{})
	if err != nil {
		return Connection{}, authz.Result{}, err
	}
	if !res.Allowed() {
		return Connection{}, res, nil
	}
	return conn, res, nil
}

// List returns the account's connections the user may use.
func (s *Service) List(ctx context.Context, user *shared.UserContext) ([]Connection, error) {
	conns, err := s.repo.List(ctx, user.AccountID)
	if err != nil {
		return nil, err
	}
	visible := make([]Connection, 0, len(conns))
	for _, conn := range conns {
		res, err := s.authorizer.Authorize(ctx, authz.Connection{
			ID:        conn.ID,
			AccountID: conn.AccountID,
			AddedBy:   conn.AddedBy,
		}, user, authz.ConnectionOptions{})
		if err != nil {
			return nil, err
		}
		if res.Allowed() {
			visible = append(visible, conn)
		}
	}
	return visible, nil
}
