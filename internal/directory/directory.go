package directory

import (
	"context"
	"strings"
)

// User is the directory's view of an account: a stable id keyed by
// normalized email.
type User struct {
	ID    int64
	Email string
}

// Directory maps emails to stable user ids, creating accounts lazily
// on first sight of an address. It is the ONLY place where
// email-to-user mapping logic lives.
type Directory interface {
	FindOrCreate(ctx context.Context, email string) (int64, error)
	FindByID(ctx context.Context, id int64) (*User, error)
}

// NormalizeEmail canonicalizes an address for lookup: trim and
// lowercase.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
