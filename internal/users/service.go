package users

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Ravikant96/AllSpark/internal/shared"
)

// Service builds request identities from user rows and grants.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Repo exposes the underlying repository to sibling services.
func (s *Service) Repo() Repository {
	return s.repo
}

// UserContext assembles the immutable identity for a request. Role and
// privilege grants are independent lookups and load jointly.
func (s *Service) UserContext(ctx context.Context, accountID, userID int64) (*shared.UserContext, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.AccountID != accountID {
		return nil, shared.ErrNotFound
	}

	var (
		roles      []shared.RoleGrant
		privileges []shared.PrivilegeGrant
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		roles, err = s.repo.RoleGrants(gctx, accountID, userID)
		return err
	})
	g.Go(func() error {
		var err error
		privileges, err = s.repo.PrivilegeGrants(gctx, accountID, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &shared.UserContext{
		UserID:     user.UserID,
		AccountID:  user.AccountID,
		Email:      user.Email,
		Name:       user.FullName(),
		Roles:      roles,
		Privileges: privileges,
	}, nil
}
