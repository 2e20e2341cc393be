package session

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/efreitasn/tradedesk/internal/domain"
)

// Identifier kinds accepted by the credential forms.
const (
	MethodEmail = "email"
	MethodPhone = "phone"
)

const (
	minPhoneLength    = 10
	minPasswordLength = 8
	maxProviderLength = 32
)

// Field error messages shown next to the form inputs.
const (
	msgInvalidEmail     = "Please enter a valid email address"
	msgShortPhone       = "Phone number must be at least 10 digits"
	msgShortPassword    = "Password must be at least 8 characters"
	msgPasswordMismatch = "Passwords don't match"
	msgTermsRequired    = "You must agree to the terms and conditions"
	msgUnknownMethod    = "Login method must be email or phone"
)

var (
	emailPattern    = regexp.MustCompile(`^[A-Za-z0-9_'+\-.]*[A-Za-z0-9_+\-]@([A-Za-z0-9][A-Za-z0-9\-]*\.)+[A-Za-z]{2,}$`)
	providerPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)
)

// Credentials is the login form. An empty Method is inferred from the
// identifier.
type Credentials struct {
	Method     string
	Identifier string
	Password   string
}

// Registration is the signup form.
type Registration struct {
	Credentials
	ConfirmPassword string
	AcceptTerms     bool
}

// method resolves the identifier kind.
func (c Credentials) method() string {
	if c.Method != "" {
		return c.Method
	}
	if strings.Contains(c.Identifier, "@") {
		return MethodEmail
	}
	return MethodPhone
}

// Validate reports every failing field of the login form.
func (c Credentials) Validate() error {
	errs := domain.FieldErrors{}
	c.validateInto(errs)
	return errs.Err()
}

// Validate reports every failing field of the signup form.
func (r Registration) Validate() error {
	errs := domain.FieldErrors{}
	r.validateInto(errs)
	if r.Password != r.ConfirmPassword {
		errs.Add("confirm_password", msgPasswordMismatch)
	}
	if !r.AcceptTerms {
		errs.Add("terms", msgTermsRequired)
	}
	return errs.Err()
}

func (c Credentials) validateInto(errs domain.FieldErrors) {
	switch c.method() {
	case MethodEmail:
		if !validEmail(c.Identifier) {
			errs.Add("identifier", msgInvalidEmail)
		}
	case MethodPhone:
		if utf8.RuneCountInString(c.Identifier) < minPhoneLength {
			errs.Add("identifier", msgShortPhone)
		}
	default:
		errs.Add("method", msgUnknownMethod)
	}

	if utf8.RuneCountInString(c.Password) < minPasswordLength {
		errs.Add("password", msgShortPassword)
	}
}

func validEmail(s string) bool {
	if strings.HasPrefix(s, ".") || strings.Contains(s, "..") {
		return false
	}
	return emailPattern.MatchString(s)
}

func validProvider(p string) bool {
	return len(p) <= maxProviderLength && providerPattern.MatchString(p)
}
