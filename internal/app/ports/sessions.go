package ports

// Principal is what a session token resolves to: a user identity or an
// administrator identity, never both.
type Principal struct {
	User  *Identity
	Admin *AdminIdentity
}

func (p Principal) IsAdmin() bool { return p.Admin != nil }

// SessionStore binds opaque tokens to authenticated principals.
// Anonymous -> Authenticated on Put, back to Anonymous on Delete or
// expiry; there are no intermediate states.
type SessionStore interface {
	Put(principal Principal) (token string, err error)
	Get(token string) (Principal, error)
	Delete(token string)
}
