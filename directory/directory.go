// Package directory resolves email addresses to user records, creating a
// record with the default role on first successful login.
package directory

import (
	"context"

	"github.com/templui/magiclink/model"
)

// Directory is the user lookup contract. Emails are matched
// case-insensitively; implementations store them lowercased.
type Directory interface {
	FindOrCreate(ctx context.Context, email string) (*model.User, error)
}
