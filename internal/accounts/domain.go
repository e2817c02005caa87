package accounts

// Account is a tenant row. URL is the account's canonical host, used to
// build absolute links in outbound mail.
type Account struct {
	AccountID int64  `json:"account_id"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	Logo      string `json:"logo"`
}

// Feature is a toggleable product capability scoped to an account.
type Feature struct {
	FeatureID int64  `json:"feature_id"`
	Name      string `json:"name"`
	Status    bool   `json:"status"`
}
