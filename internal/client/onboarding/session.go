package onboarding

import (
	"net/mail"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Session is the state of one onboarding attempt. Passphrase and
// RecoveryPhrase are secrets: they must not be logged or persisted.
type Session struct {
	ID             uuid.UUID
	Email          string
	Passphrase     string
	IdentityName   string
	RecoveryPhrase string
	Step           Step
}

var nonNameChars = regexp.MustCompile(`[^\w\s]`)

// DeriveIdentityName returns the default identity name for email: the part
// before the first '@' with everything but word characters and whitespace
// removed. An address without '@' yields "".
func DeriveIdentityName(email string) string {
	at := strings.Index(email, "@")
	if at < 0 {
		return ""
	}
	return nonNameChars.ReplaceAllString(email[:at], "")
}

// validEmail accepts a bare addr-spec with a non-empty domain. Display-name
// forms such as "Alice <a@b.co>" are rejected.
func validEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return false
	}
	at := strings.LastIndex(email, "@")
	return at > 0 && at < len(email)-1
}
