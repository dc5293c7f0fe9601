package identity

import (
	"errors"
	"time"

	"github.com/example/bazaar/internal/models"
)

// Sentinel errors returned by Store implementations. The service
// translates them into its own error kinds.
var (
	ErrNotFound       = errors.New("account not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// Store persists accounts. Email uniqueness is enforced by the
// implementation; Create returns ErrDuplicateEmail on collision.
type Store interface {
	FindByEmail(email string) (*models.User, error)
	FindActiveByEmail(email string) (*models.User, error)
	FindByLiveResetToken(token string, now time.Time) (*models.User, error)
	Create(user *models.User) error
	Save(user *models.User) error
}

// Sender delivers one-time codes to an email address. A send failure
// must surface to the caller so registration can be aborted.
type Sender interface {
	SendOTP(email, code string) error
}
