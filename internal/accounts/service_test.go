package accounts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ravikant96/AllSpark/internal/shared"
)

type stubRepo struct {
	accounts map[int64]Account
	hosts    map[string]int64
	toggled  map[int64]bool
}

func (s *stubRepo) FindByID(ctx context.Context, accountID int64) (Account, error) {
	account, ok := s.accounts[accountID]
	if !ok {
		return Account{}, shared.ErrNotFound
	}
	return account, nil
}

func (s *stubRepo) FindByHost(ctx context.Context, host string) (Account, error) {
	id, ok := s.hosts[host]
	if !ok {
		return Account{}, shared.ErrNotFound
	}
	return s.FindByID(ctx, id)
}

func (s *stubRepo) ListFeatures(ctx context.Context, accountID int64) ([]Feature, error) {
	return nil, nil
}

func (s *stubRepo) ToggleFeature(ctx context.Context, accountID, featureID int64, status bool) error {
	if s.toggled == nil {
		s.toggled = make(map[int64]bool)
	}
	s.toggled[featureID] = status
	return nil
}

func TestResolveByHost(t *testing.T) {
	repo := &stubRepo{
		accounts: map[int64]Account{3: {AccountID: 3, Name: "Demo", URL: "bi.example.com"}},
		hosts:    map[string]int64{"bi.example.com": 3},
	}
	svc := NewService(repo)

	account, err := svc.Resolve(context.Background(), "bi.example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(3), account.AccountID)

	_, err = svc.Resolve(context.Background(), "unknown.example.com")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestToggleFeatureRequiresAdministrator(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	user := &shared.UserContext{UserID: 7, AccountID: 3}
	err := svc.ToggleFeature(context.Background(), user, 1, true)
	assert.ErrorIs(t, err, shared.ErrForbidden)
	assert.Empty(t, repo.toggled)
}

func TestToggleFeature(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	admin := &shared.UserContext{
		UserID:    7,
		AccountID: 3,
		Privileges: []shared.PrivilegeGrant{
			{PrivilegeID: 2, Name: shared.PrivilegeAdministrator},
		},
	}
	require.NoError(t, svc.ToggleFeature(context.Background(), admin, 1, true))
	assert.Equal(t, map[int64]bool{1: true}, repo.toggled)

	err := svc.ToggleFeature(context.Background(), admin, 0, true)
	assert.ErrorIs(t, err, shared.ErrBadRequest)
}
