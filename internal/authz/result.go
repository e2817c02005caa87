// Package authz implements the multi-tenant authorization resolution engine:
// given an authenticated user and a report, dashboard or connection, it
// decides whether the user may access it. Access derives from several
// prioritized channels (ownership, explicit shares, role/category policy
// matching, transitive containment); rules are totally ordered and the first
// matching rule wins.
package authz

// Result is the outcome of an authorization decision. Denial is data, not an
// error: store failures travel separately as Go errors. Message is diagnostic
// text for audit logs; callers must not branch on it.
type Result struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// Allow builds a success result carrying its justification.
func Allow(message string) Result {
	return Result{Message: message}
}

// Deny builds a denial result.
func Deny(message string) Result {
	return Result{Error: true, Message: message}
}

// Allowed reports whether the decision grants access.
func (r Result) Allowed() bool {
	return !r.Error
}
