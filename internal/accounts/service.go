package accounts

import (
	"context"

	"github.com/Ravikant96/AllSpark/internal/shared"
)

// Service wraps account and feature rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get loads an active account by id.
func (s *Service) Get(ctx context.Context, accountID int64) (Account, error) {
	return s.repo.FindByID(ctx, accountID)
}

// Resolve finds the tenant serving a request host.
func (s *Service) Resolve(ctx context.Context, host string) (Account, error) {
	return s.repo.FindByHost(ctx, host)
}

// Features lists the account's feature toggles.
func (s *Service) Features(ctx context.Context, accountID int64) ([]Feature, error) {
	return s.repo.ListFeatures(ctx, accountID)
}

// ToggleFeature flips a feature for the user's account. Requires the
// administrator privilege.
func (s *Service) ToggleFeature(ctx context.Context, user *shared.UserContext, featureID int64, status bool) error {
	if !user.HasPrivilege(shared.PrivilegeAdministrator) {
		return shared.ErrForbidden
	}
	if featureID == 0 {
		return shared.BadRequestf("feature_id is required")
	}
	return s.repo.ToggleFeature(ctx, user.AccountID, featureID, status)
}
