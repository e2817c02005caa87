package reports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ravikant96/AllSpark/internal/authz"
	"github.com/Ravikant96/AllSpark/internal/shared"
)

type stubRepo struct {
	reports        map[int64]Report
	datasets       []Dataset
	categories     []MetadataEntry
	visualizations map[int64]int64
	inserted       []Visualization
	deleted        []int64
}

func (s *stubRepo) Get(ctx context.Context, accountID, userID, reportID int64) (Report, error) {
	report, ok := s.reports[reportID]
	if !ok || report.AccountID != accountID {
		return Report{}, shared.ErrNotFound
	}
	return report, nil
}

func (s *stubRepo) List(ctx context.Context, accountID, userID int64) ([]Report, error) {
	var out []Report
	for _, report := range s.reports {
		if report.AccountID == accountID {
			out = append(out, report)
		}
	}
	return out, nil
}

func (s *stubRepo) InsertVisualization(ctx context.Context, v Visualization) (int64, error) {
	s.inserted = append(s.inserted, v)
	return int64(len(s.inserted)), nil
}

func (s *stubRepo) UpdateVisualization(ctx context.Context, v Visualization) error {
	return nil
}

func (s *stubRepo) DeleteVisualization(ctx context.Context, visualizationID int64) error {
	s.deleted = append(s.deleted, visualizationID)
	return nil
}

func (s *stubRepo) VisualizationReport(ctx context.Context, visualizationID int64) (int64, error) {
	reportID, ok := s.visualizations[visualizationID]
	if !ok {
		return 0, shared.ErrNotFound
	}
	return reportID, nil
}

func (s *stubRepo) Datasets(ctx context.Context) ([]Dataset, error) {
	return s.datasets, nil
}

func (s *stubRepo) MetadataEntries(ctx context.Context, accountID int64) ([]MetadataEntry, []MetadataEntry, []MetadataEntry, error) {
	return s.categories, nil, nil, nil
}

// stubResources serves the authorizer from the same report map the repository
// uses, so AuthorizeByID sees consistent rows.
type stubResources struct {
	repo *stubRepo
}

func (s stubResources) Connection(ctx context.Context, accountID, connectionID int64) (authz.Connection, error) {
	return authz.Connection{}, authz.ErrResourceNotFound
}

func (s stubResources) Report(ctx context.Context, accountID, userID, reportID int64) (authz.Report, error) {
	report, ok := s.repo.reports[reportID]
	if !ok {
		return authz.Report{}, authz.ErrResourceNotFound
	}
	return toAuthzReport(report), nil
}

func (s stubResources) Dashboard(ctx context.Context, accountID, dashboardID int64) (authz.Dashboard, error) {
	return authz.Dashboard{}, authz.ErrResourceNotFound
}

func (s stubResources) DashboardReports(ctx context.Context, accountID, userID, dashboardID int64) ([]authz.Report, error) {
	return nil, nil
}

func (s stubResources) ReportDashboards(ctx context.Context, accountID, reportID int64) ([]int64, error) {
	return nil, nil
}

type stubShares struct{}

func (stubShares) Get(ctx context.Context, accountID int64, owner authz.OwnerType, target authz.TargetType, ownerIDs []int64, targetIDs ...int64) ([]authz.ObjectRole, error) {
	return nil, nil
}

type stubRunner struct {
	rows map[int64][]map[string]any
}

func (s *stubRunner) Run(ctx context.Context, user *shared.UserContext, reportID int64) ([]map[string]any, error) {
	return s.rows[reportID], nil
}

func testUser(userID int64) *shared.UserContext {
	return &shared.UserContext{
		UserID:    userID,
		AccountID: 1,
		Roles:     []shared.RoleGrant{{CategoryID: 2, RoleID: 5}},
	}
}

func newTestService(repo *stubRepo, runner Runner) *Service {
	authorizer := authz.NewReportAuthorizer(authz.Config{}, stubResources{repo: repo}, stubShares{})
	return NewService(repo, authorizer, runner)
}

func TestGetOwnerAllowed(t *testing.T) {
	repo := &stubRepo{reports: map[int64]Report{
		42: {QueryID: 42, AccountID: 1, Name: "Revenue", AddedBy: 7},
	}}
	svc := newTestService(repo, &stubRunner{})

	report, res, err := svc.Get(context.Background(), testUser(7), 42)
	require.NoError(t, err)
	assert.True(t, res.Allowed())
	assert.Equal(t, "Revenue", report.Name)
}

func TestGetUnsharedDenied(t *testing.T) {
	repo := &stubRepo{reports: map[int64]Report{
		42: {QueryID: 42, AccountID: 1, AddedBy: 99},
	}}
	svc := newTestService(repo, &stubRunner{})

	report, res, err := svc.Get(context.Background(), testUser(7), 42)
	require.NoError(t, err)
	assert.False(t, res.Allowed())
	assert.Equal(t, "report is not shared with anyone", res.Message)
	assert.Zero(t, report.QueryID)
}

func TestGetRoleMatchAllowed(t *testing.T) {
	repo := &stubRepo{reports: map[int64]Report{
		42: {QueryID: 42, AccountID: 1, CategoryID: 2, AddedBy: 99, Roles: []int64{5}},
	}}
	svc := newTestService(repo, &stubRunner{})

	_, res, err := svc.Get(context.Background(), testUser(7), 42)
	require.NoError(t, err)
	assert.True(t, res.Allowed())
}

func TestVisibleSet(t *testing.T) {
	repo := &stubRepo{reports: map[int64]Report{
		42: {QueryID: 42, AccountID: 1, AddedBy: 7},
		43: {QueryID: 43, AccountID: 1, AddedBy: 99},
	}}
	svc := newTestService(repo, &stubRunner{})

	set, err := svc.VisibleSet(context.Background(), testUser(7))
	require.NoError(t, err)
	assert.Equal(t, map[int64]struct{}{42: {}}, set)
}

func TestInsertVisualizationRequiresQueryID(t *testing.T) {
	svc := newTestService(&stubRepo{}, &stubRunner{})

	_, _, err := svc.InsertVisualization(context.Background(), testUser(7), Visualization{})
	assert.ErrorIs(t, err, shared.ErrBadRequest)
}

func TestInsertVisualizationDeniedSkipsWrite(t *testing.T) {
	repo := &stubRepo{reports: map[int64]Report{
		42: {QueryID: 42, AccountID: 1, AddedBy: 99},
	}}
	svc := newTestService(repo, &stubRunner{})

	_, res, err := svc.InsertVisualization(context.Background(), testUser(7), Visualization{QueryID: 42, Name: "bar"})
	require.NoError(t, err)
	assert.False(t, res.Allowed())
	assert.Empty(t, repo.inserted)
}

func TestDeleteVisualizationResolvesReport(t *testing.T) {
	repo := &stubRepo{
		reports: map[int64]Report{
			42: {QueryID: 42, AccountID: 1, AddedBy: 7},
		},
		visualizations: map[int64]int64{9: 42},
	}
	svc := newTestService(repo, &stubRunner{})

	res, err := svc.DeleteVisualization(context.Background(), testUser(7), 9)
	require.NoError(t, err)
	assert.True(t, res.Allowed())
	assert.Equal(t, []int64{9}, repo.deleted)
}

func TestMetadataMaterializesAuthorizedDatasets(t *testing.T) {
	repo := &stubRepo{
		reports: map[int64]Report{
			42: {QueryID: 42, AccountID: 1, AddedBy: 7},
			43: {QueryID: 43, AccountID: 1, AddedBy: 99},
		},
		datasets: []Dataset{
			{DatasetID: 1, QueryID: 42, Name: "currencies"},
			{DatasetID: 2, QueryID: 43, Name: "restricted"},
		},
		categories: []MetadataEntry{{ID: 9, Name: "Ops"}, {ID: 2, Name: "Finance"}},
	}
	runner := &stubRunner{rows: map[int64][]map[string]any{
		42: {{"code": "USD"}},
	}}
	svc := newTestService(repo, runner)

	metadata, err := svc.Metadata(context.Background(), testUser(7))
	require.NoError(t, err)

	require.Len(t, metadata.Datasets, 2)
	assert.Equal(t, "currencies", metadata.Datasets[0].Name)
	assert.Equal(t, []map[string]any{{"code": "USD"}}, metadata.Datasets[0].Values)
	assert.Equal(t, "restricted", metadata.Datasets[1].Name)
	assert.Nil(t, metadata.Datasets[1].Values)

	// Categories come back ordered by id.
	require.Len(t, metadata.Categories, 2)
	assert.Equal(t, int64(2), metadata.Categories[0].ID)
}
