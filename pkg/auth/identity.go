package auth

// User identifies a host account during account creation.
//
// Providers receive the account being created and the account performing the
// creation. Creator is nil for self-registration.
type User struct {
	// ID is the host's numeric user ID, or 0 if the account does not exist yet.
	ID int64

	// Name is the canonical username.
	Name string
}

// Anonymous reports whether u represents no account.
func (u *User) Anonymous() bool {
	return u == nil || u.Name == ""
}
