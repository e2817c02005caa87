package reports

import (
	"context"

	"github.com/Ravikant96/AllSpark/internal/platform/db"
	"github.com/Ravikant96/AllSpark/internal/shared"
)

// SQLRunner executes a report's stored query text against the relational
// store. Callers must authorize the report before running it.
type SQLRunner struct {
	store *db.Store
	repo  Repository
}

// NewSQLRunner constructs an SQLRunner.
func NewSQLRunner(store *db.Store, repo Repository) *SQLRunner {
	return &SQLRunner{store: store, repo: repo}
}

// Run materializes the report into row maps keyed by column name.
func (r *SQLRunner) Run(ctx context.Context, user *shared.UserContext, reportID int64) ([]map[string]any, error) {
	report, err := r.repo.Get(ctx, user.AccountID, user.UserID, reportID)
	if err != nil {
		return nil, err
	}
	if report.Query == "" {
		return nil, nil
	}

	rows, err := r.store.Query(ctx, db.ModeRead, report.Query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var out []map[string]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(map[string]any, len(fields))
		for i, field := range fields {
			row[string(field.Name)] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
