package reports

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Ravikant96/AllSpark/internal/authz"
	"github.com/Ravikant96/AllSpark/internal/shared"
)

// datasetConcurrency caps parallel dataset materialization to keep load on
// the relational store bounded; excess datasets queue until a slot frees.
const datasetConcurrency = 5

// Runner materializes an authorized report into rows. The query-execution
// engine itself lives behind this seam.
type Runner interface {
	Run(ctx context.Context, user *shared.UserContext, reportID int64) ([]map[string]any, error)
}

// Service resolves report access and assembles the account metadata payload.
type Service struct {
	repo       Repository
	authorizer *authz.ReportAuthorizer
	runner     Runner
	metadata   singleflight.Group
}

// NewService constructs a Service.
func NewService(repo Repository, authorizer *authz.ReportAuthorizer, runner Runner) *Service {
	return &Service{repo: repo, authorizer: authorizer, runner: runner}
}

// Get returns the report when the user may access it.
func (s *Service) Get(ctx context.Context, user *shared.UserContext, reportID int64) (Report, authz.Result, error) {
	report, err := s.repo.Get(ctx, user.AccountID, user.UserID, reportID)
	if err != nil {
		return Report{}, authz.Result{}, err
	}
	res, err := s.authorizer.Authorize(ctx, toAuthzReport(report), user, authz.ReportOptions{})
	if err != nil {
		return Report{}, authz.Result{}, err
	}
	if !res.Allowed() {
		return Report{}, res, nil
	}
	return report, res, nil
}

// List returns the account's reports the user may access.
func (s *Service) List(ctx context.Context, user *shared.UserContext) ([]Report, error) {
	reports, err := s.repo.List(ctx, user.AccountID, user.UserID)
	if err != nil {
		return nil, err
	}
	visible := make([]Report, 0, len(reports))
	for _, report := range reports {
		res, err := s.authorizer.Authorize(ctx, toAuthzReport(report), user, authz.ReportOptions{})
		if err != nil {
			return nil, err
		}
		if res.Allowed() {
			visible = append(visible, report)
		}
	}
	return visible, nil
}

// VisibleSet returns the ids of reports the user may access, for use as a
// precomputed containment set in dashboard authorization.
func (s *Service) VisibleSet(ctx context.Context, user *shared.UserContext) (map[int64]struct{}, error) {
	visible, err := s.List(ctx, user)
	if err != nil {
		return nil, err
	}
	set := make(map[int64]struct{}, len(visible))
	for _, report := range visible {
		set[report.QueryID] = struct{}{}
	}
	return set, nil
}

// InsertVisualization attaches a visualization to a report the user may
// access.
func (s *Service) InsertVisualization(ctx context.Context, user *shared.UserContext, v Visualization) (int64, authz.Result, error) {
	if v.QueryID == 0 {
		return 0, authz.Result{}, shared.BadRequestf("query_id is required")
	}
	res, err := s.authorizer.AuthorizeByID(ctx, v.QueryID, user, authz.ReportOptions{})
	if err != nil || !res.Allowed() {
		return 0, res, err
	}
	id, err := s.repo.InsertVisualization(ctx, v)
	return id, res, err
}

// UpdateVisualization modifies a visualization on a report the user may
// access.
func (s *Service) UpdateVisualization(ctx context.Context, user *shared.UserContext, v Visualization) (authz.Result, error) {
	if v.VisualizationID == 0 {
		return authz.Result{}, shared.BadRequestf("visualization_id is required")
	}
	reportID, err := s.repo.VisualizationReport(ctx, v.VisualizationID)
	if err != nil {
		return authz.Result{}, err
	}
	res, err := s.authorizer.AuthorizeByID(ctx, reportID, user, authz.ReportOptions{})
	if err != nil || !res.Allowed() {
		return res, err
	}
	return res, s.repo.UpdateVisualization(ctx, v)
}

// DeleteVisualization removes a visualization on a report the user may
// access.
func (s *Service) DeleteVisualization(ctx context.Context, user *shared.UserContext, visualizationID int64) (authz.Result, error) {
	if visualizationID == 0 {
		return authz.Result{}, shared.BadRequestf("visualization_id is required")
	}
	reportID, err := s.repo.VisualizationReport(ctx, visualizationID)
	if err != nil {
		return authz.Result{}, err
	}
	res, err := s.authorizer.AuthorizeByID(ctx, reportID, user, authz.ReportOptions{})
	if err != nil || !res.Allowed() {
		return res, err
	}
	return res, s.repo.DeleteVisualization(ctx, visualizationID)
}

// Metadata assembles the categories/privileges/roles catalogs and the
// materialized datasets the user may see. Concurrent identical requests
// collapse into one computation per user.
func (s *Service) Metadata(ctx context.Context, user *shared.UserContext) (Metadata, error) {
	key := fmt.Sprintf("%d:%d", user.AccountID, user.UserID)
	value, err, _ := s.metadata.Do(key, func() (any, error) {
		return s.buildMetadata(ctx, user)
	})
	if err != nil {
		return Metadata{}, err
	}
	return value.(Metadata), nil
}

func (s *Service) buildMetadata(ctx context.Context, user *shared.UserContext) (Metadata, error) {
	categories, privileges, roles, err := s.repo.MetadataEntries(ctx, user.AccountID)
	if err != nil {
		return Metadata{}, err
	}
	datasets, err := s.repo.Datasets(ctx)
	if err != nil {
		return Metadata{}, err
	}

	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })

	// Materialize each dataset's report with bounded parallelism. Datasets
	// the user cannot access come back with nil values rather than failing
	// the whole payload.
	values := make([]DatasetValues, len(datasets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(datasetConcurrency)
	for i, dataset := range datasets {
		g.Go(func() error {
			values[i] = DatasetValues{Name: dataset.Name}
			res, err := s.authorizer.AuthorizeByID(gctx, dataset.QueryID, user, authz.ReportOptions{})
			if err != nil {
				return err
			}
			if !res.Allowed() {
				return nil
			}
			rows, err := s.runner.Run(gctx, user, dataset.QueryID)
			if err != nil {
				return err
			}
			values[i].Values = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Metadata{}, err
	}

	return Metadata{
		Categories: categories,
		Privileges: privileges,
		Roles:      roles,
		Datasets:   values,
	}, nil
}

func toAuthzReport(report Report) authz.Report {
	return authz.Report{
		ID:           report.QueryID,
		AccountID:    report.AccountID,
		CategoryID:   report.CategoryID,
		AddedBy:      report.AddedBy,
		ConnectionID: report.ConnectionID,
		Roles:        report.Roles,
		Flag:         report.Flag,
	}
}
