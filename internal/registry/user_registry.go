package registry

import "github.com/octobridge/bridge/internal/normalize"

// UserEntry overrides the default, normalized addressing and rendering for
// one forge login.
type UserEntry struct {
	Login        string
	DirectHandle string // overrides the default "@" + normalize.Login(Login) delivery address
	DisplayName  string // overrides the default normalize.Login(Login) name used in rendered text
}

// UserRegistry maps forge logins to optional delivery-address and
// display-name overrides.
type UserRegistry struct {
	overrides map[string]UserEntry
}

// NewUserRegistry builds a registry from configured per-user overrides.
func NewUserRegistry(entries []UserEntry) *UserRegistry {
	overrides := make(map[string]UserEntry, len(entries))
	for _, e := range entries {
		overrides[e.Login] = e
	}
	return &UserRegistry{overrides: overrides}
}

// ResolveDirectHandle returns the delivery address a DM to login should use:
// the configured override if present, otherwise the normalized default.
func (r *UserRegistry) ResolveDirectHandle(login string) string {
	if e, ok := r.overrides[login]; ok && e.DirectHandle != "" {
		return e.DirectHandle
	}
	return normalize.DirectHandle(login)
}

// ResolveDisplayName returns the name to render in message text for login:
// the configured override if present, otherwise the normalized login.
func (r *UserRegistry) ResolveDisplayName(login string) string {
	if e, ok := r.overrides[login]; ok && e.DisplayName != "" {
		return e.DisplayName
	}
	return normalize.Login(login)
}
