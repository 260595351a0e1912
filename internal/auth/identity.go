package auth

// Identity represents a normalized external authentication identity
// returned by an OAuth provider. It contains facts only, no decisions.
type Identity struct {
	Provider       string // e.g. "github", "google"
	ProviderUserID string // provider-scoped account identifier
	DisplayName    string // human-readable name as reported by the provider
	Email          string // optional; not every provider returns one
}
