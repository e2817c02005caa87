package connections

// Connection is a data connection row. Disabled connections never leave the
// repository, so downstream authorization can assume every row it sees is
// live.
type Connection struct {
	ID        int64  `json:"id"`
	AccountID int64  `json:"account_id"`
	Name      string `json:"connection_name"`
	Type      string `json:"type"`
	AddedBy   int64  `json:"added_by"`
}
