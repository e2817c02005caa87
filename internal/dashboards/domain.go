package dashboards

// Dashboard is a dashboard row. Visibility true marks it private to the
// account.
type Dashboard struct {
	ID         int64  `json:"id"`
	AccountID  int64  `json:"account_id"`
	Name       string `json:"name"`
	AddedBy    int64  `json:"added_by"`
	Visibility bool   `json:"visibility"`
}
