package reports

// Report is a saved query row exposed through the API. Roles mirrors the
// legacy comma-separated role column; Flag is precomputed per requesting
// user by the loading query.
type Report struct {
	QueryID      int64   `json:"query_id"`
	AccountID    int64   `json:"account_id"`
	CategoryID   int64   `json:"category_id"`
	Name         string  `json:"name"`
	Query        string  `json:"query"`
	ConnectionID int64   `json:"connection_id"`
	AddedBy      int64   `json:"added_by"`
	Roles        []int64 `json:"roles"`
	Flag         bool    `json:"flag"`
}

// Visualization renders a report. Options is an opaque JSON document owned
// by the client.
type Visualization struct {
	VisualizationID int64  `json:"visualization_id"`
	QueryID         int64  `json:"query_id"`
	Name            string `json:"name"`
	Type            string `json:"type"`
	Options         string `json:"options"`
}

// Dataset names a report whose output feeds the account metadata payload.
type Dataset struct {
	DatasetID int64  `json:"dataset_id"`
	QueryID   int64  `json:"query_id"`
	Name      string `json:"name"`
}

// MetadataEntry is one category, privilege or role in the metadata payload.
type MetadataEntry struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"is_admin"`
}

// DatasetValues carries one dataset's materialized rows.
type DatasetValues struct {
	Name   string           `json:"name"`
	Values []map[string]any `json:"values"`
}

// Metadata is the aggregate payload served to the client shell.
type Metadata struct {
	Categories []MetadataEntry `json:"categories"`
	Privileges []MetadataEntry `json:"privileges"`
	Roles      []MetadataEntry `json:"roles"`
	Datasets   []DatasetValues `json:"datasets"`
}
