package registry

// Config drives registration behavior.
type Config struct {
	// AllowedEmails restricts who may register. Empty means unrestricted.
	AllowedEmails []string
	// BcryptCost overrides the hashing cost; zero selects the library default.
	BcryptCost int
}

// Credentials is the registration payload extracted from HTTP Basic auth.
type Credentials struct {
	Email    string
	Password string
}

// Record is the single persisted entity: a password hash keyed by email.
type Record struct {
	Email        string
	PasswordHash string
}
