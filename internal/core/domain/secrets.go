package domain

// SecretBundle holds the values fetched from the secret store at startup.
// It is passed by value so no component can mutate another's copy.
type SecretBundle struct {
	SigningKey       string
	Issuer           string
	Audience         string
	ConnectionString string
	DatabaseName     string
	AuthServiceURL   string
}
