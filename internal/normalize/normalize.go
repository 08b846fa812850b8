// Package normalize implements the sole forge-login-to-chat-handle
// transformation used everywhere a login is rendered or addressed.
package normalize

import "strings"

// Login replaces every "-" in a forge login with "." (joe-reviewer ->
// joe.reviewer). No other substitution, casing, or trimming is applied.
func Login(login string) string {
	return strings.ReplaceAll(login, "-", ".")
}

// DirectHandle returns the "@"-prefixed chat recipient for a forge login.
func DirectHandle(login string) string {
	return "@" + Login(login)
}
