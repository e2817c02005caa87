package dashboards

import (
	"context"
	"errors"

	"github.com/Ravikant96/AllSpark/internal/authz"
	"github.com/Ravikant96/AllSpark/internal/shared"
)

// VisibleSetSource computes the set of report ids a user may access. The
// reports service implements it.
type VisibleSetSource interface {
	VisibleSet(ctx context.Context, user *shared.UserContext) (map[int64]struct{}, error)
}

// Service resolves dashboard access, precomputing the visible report set so
// containment checks become membership tests.
type Service struct {
	repo       Repository
	authorizer *authz.DashboardAuthorizer
	visible    VisibleSetSource
	cache      *VisibleSetCache
}

// NewService constructs a Service. cache may be nil to disable caching.
func NewService(repo Repository, authorizer *authz.DashboardAuthorizer, visible VisibleSetSource, cache *VisibleSetCache) *Service {
	return &Service{repo: repo, authorizer: authorizer, visible: visible, cache: cache}
}

// Get returns the dashboard when the user may access it. A missing
// dashboard is a denial, matching the engine's contract.
func (s *Service) Get(ctx context.Context, user *shared.UserContext, dashboardID int64) (Dashboard, authz.Result, error) {
	dashboard, err := s.repo.Get(ctx, user.AccountID, dashboardID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Dashboard{}, authz.Deny("dashboard does not exist"), nil
		}
		return Dashboard{}, authz.Result{}, err
	}

	set, err := s.visibleSet(ctx, user)
	if err != nil {
		return Dashboard{}, authz.Result{}, err
	}
	res, err := s.authorizer.Authorize(ctx, toAuthzDashboard(dashboard), user, authz.DashboardOptions{
		VisibleQuerySet: set,
	})
	if err != nil {
		return Dashboard{}, authz.Result{}, err
	}
	if !res.Allowed() {
		return Dashboard{}, res, nil
	}
	return dashboard, res, nil
}

// List returns the account's dashboards the user may access. The visible
// report set is computed once and reused for every containment check.
func (s *Service) List(ctx context.Context, user *shared.UserContext) ([]Dashboard, error) {
	dashboards, err := s.repo.List(ctx, user.AccountID)
	if err != nil {
		return nil, err
	}
	set, err := s.visibleSet(ctx, user)
	if err != nil {
		return nil, err
	}

	accessible := make([]Dashboard, 0, len(dashboards))
	for _, dashboard := range dashboards {
		res, err := s.authorizer.Authorize(ctx, toAuthzDashboard(dashboard), user, authz.DashboardOptions{
			VisibleQuerySet: set,
		})
		if err != nil {
			return nil, err
		}
		if res.Allowed() {
			accessible = append(accessible, dashboard)
		}
	}
	return accessible, nil
}

// InvalidateVisibleSet drops the cached report set after share changes.
func (s *Service) InvalidateVisibleSet(ctx context.Context, accountID, userID int64) error {
	return s.cache.Invalidate(ctx, accountID, userID)
}

func (s *Service) visibleSet(ctx context.Context, user *shared.UserContext) (map[int64]struct{}, error) {
	if set := s.cache.Get(ctx, user.AccountID, user.UserID); set != nil {
		return set, nil
	}
	set, err := s.visible.VisibleSet(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Put(ctx, user.AccountID, user.UserID, set); err != nil {
		// Cache writes are best effort; the computed set still serves this
		// request.
		return set, nil
	}
	return set, nil
}

func toAuthzDashboard(dashboard Dashboard) authz.Dashboard {
	return authz.Dashboard{
		ID:         dashboard.ID,
		AccountID:  dashboard.AccountID,
		AddedBy:    dashboard.AddedBy,
		Visibility: dashboard.Visibility,
	}
}
