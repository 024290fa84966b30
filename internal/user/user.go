// Package user resolves the default board owner from the OS account.
package user

import (
	"os"
	"os/user"
	"strings"
)

// GetCurrentUsername returns the current system username, falling back to
// $USER and then "unknown". A Windows "DOMAIN\name" is reduced to name.
func GetCurrentUsername() string {
	if currentUser, err := user.Current(); err == nil && currentUser.Username != "" {
		return stripDomain(currentUser.Username)
	}
	if username := os.Getenv("USER"); username != "" {
		return stripDomain(username)
	}
	return "unknown"
}

func stripDomain(name string) string {
	if i := strings.LastIndexByte(name, '\\'); i >= 0 && i < len(name)-1 {
		return name[i+1:]
	}
	return name
}
