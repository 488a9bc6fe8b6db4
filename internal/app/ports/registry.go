package ports

// UserRegistry is the durable username -> User store. Implementations
// must keep AddUser atomic with respect to concurrent registrations
// (single-writer) and must never return a half-written state from Load.
type UserRegistry interface {
	HealthCheck() error
	GetInfo() (string, error)

	// Load returns a snapshot of the whole registry. An absent backing
	// record yields an empty map, not an error.
	Load() (map[string]User, error)

	// Save replaces the whole persisted registry with the given mapping.
	Save(users map[string]User) error

	GetUser(username string) (User, error)

	// AddUser persists a new user. Returns ErrUsernameTaken when the
	// exact username already exists (case-sensitive).
	AddUser(user User) (User, error)
}
