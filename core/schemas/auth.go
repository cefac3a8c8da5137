package schemas

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	EmailMaxLength    = 255
	PasswordMinLength = 8
	PasswordMaxLength = 128
)

const (
	MsgEmailRequired     = "Email is required"
	MsgEmailInvalid      = "Please enter a valid email address"
	MsgEmailTooLong      = "Email cannot exceed 255 characters"
	MsgPasswordRequired  = "Password is required"
	MsgPasswordTooShort  = "Password must be at least 8 characters"
	MsgPasswordTooLong   = "Password cannot exceed 128 characters"
	MsgPasswordUpper     = "Password must contain at least one uppercase letter"
	MsgPasswordLower     = "Password must contain at least one lowercase letter"
	MsgPasswordDigit     = "Password must contain at least one number"
	MsgPasswordsMismatch = "Passwords don't match"
)

// Field names as they appear in forms and request bodies.
const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
)

// emailPattern accepts local@domain.tld where the local part holds letters,
// digits and _'+-. and the domain is dot-separated labels ending in a
// two-letter or longer alphabetic TLD.
var emailPattern = regexp.MustCompile(`^[A-Za-z0-9_'+\-.]*[A-Za-z0-9_+\-]@([A-Za-z0-9][A-Za-z0-9\-]*\.)+[A-Za-z]{2,}$`)

// ValidEmail reports whether s is a syntactically valid address.
func ValidEmail(s string) bool {
	if strings.HasPrefix(s, ".") || strings.Contains(s, "..") {
		return false
	}
	return emailPattern.MatchString(s)
}

// SignUpFields is an unvalidated registration form.
type SignUpFields struct {
	Email           string
	Password        string
	ConfirmPassword string
}

// SignInFields is an unvalidated sign-in form.
type SignInFields struct {
	Email    string
	Password string
}

// Credentials are accepted sign-up or sign-in values. Email is lower-cased.
type Credentials struct {
	Email    string
	Password string
}

var authTypes = map[string]string{
	FieldEmail:           "string",
	FieldPassword:        "string",
	FieldConfirmPassword: "string",
}

// ValidateSignUp checks a registration form. A confirmPassword that differs
// from password is always reported on confirmPassword, whatever else failed.
func ValidateSignUp(f SignUpFields) (Credentials, error) {
	fe := FieldErrors{}
	creds := validateSignUp(f, fe)
	if err := result(fe); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

// ValidateSignIn checks a sign-in form. Password complexity is not enforced
// here so accounts created under older rules can still sign in.
func ValidateSignIn(f SignInFields) (Credentials, error) {
	fe := FieldErrors{}
	creds := validateSignIn(f, fe)
	if err := result(fe); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

// ParseSignUp validates an untyped registration record.
func ParseSignUp(record map[string]any) (Credentials, error) {
	fe := FieldErrors{}
	obj, bad, err := checkStructure(schemaSignUp, record, authTypes, fe)
	if err != nil {
		return Credentials{}, err
	}

	creds := validateSignUp(SignUpFields{
		Email:           stringValue(obj, FieldEmail, bad),
		Password:        stringValue(obj, FieldPassword, bad),
		ConfirmPassword: stringValue(obj, FieldConfirmPassword, bad),
	}, fe)
	if err := result(fe); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

// ParseSignIn validates an untyped sign-in record.
func ParseSignIn(record map[string]any) (Credentials, error) {
	fe := FieldErrors{}
	obj, bad, err := checkStructure(schemaSignIn, record, authTypes, fe)
	if err != nil {
		return Credentials{}, err
	}

	creds := validateSignIn(SignInFields{
		Email:    stringValue(obj, FieldEmail, bad),
		Password: stringValue(obj, FieldPassword, bad),
	}, fe)
	if err := result(fe); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

func stringValue(obj map[string]any, name string, bad map[string]bool) string {
	if p := stringPtr(obj, name, bad); p != nil {
		return *p
	}
	return ""
}

func validateSignUp(f SignUpFields, fe FieldErrors) Credentials {
	email := checkEmail(f.Email, fe)

	switch n := utf8.RuneCountInString(f.Password); {
	case n == 0:
		fe.Add(FieldPassword, MsgPasswordRequired)
	case n < PasswordMinLength:
		fe.Add(FieldPassword, MsgPasswordTooShort)
	case n > PasswordMaxLength:
		fe.Add(FieldPassword, MsgPasswordTooLong)
	case !strings.ContainsFunc(f.Password, isASCIIUpper):
		fe.Add(FieldPassword, MsgPasswordUpper)
	case !strings.ContainsFunc(f.Password, isASCIILower):
		fe.Add(FieldPassword, MsgPasswordLower)
	case !strings.ContainsFunc(f.Password, isASCIIDigit):
		fe.Add(FieldPassword, MsgPasswordDigit)
	}

	if f.Password != f.ConfirmPassword {
		fe.Add(FieldConfirmPassword, MsgPasswordsMismatch)
	}

	return Credentials{Email: email, Password: f.Password}
}

func validateSignIn(f SignInFields, fe FieldErrors) Credentials {
	email := checkEmail(f.Email, fe)

	switch n := utf8.RuneCountInString(f.Password); {
	case n == 0:
		fe.Add(FieldPassword, MsgPasswordRequired)
	case n < PasswordMinLength:
		fe.Add(FieldPassword, MsgPasswordTooShort)
	}

	return Credentials{Email: email, Password: f.Password}
}

func checkEmail(s string, fe FieldErrors) string {
	switch {
	case s == "":
		fe.Add(FieldEmail, MsgEmailRequired)
	case !ValidEmail(s):
		fe.Add(FieldEmail, MsgEmailInvalid)
	case utf8.RuneCountInString(s) > EmailMaxLength:
		fe.Add(FieldEmail, MsgEmailTooLong)
	}
	return strings.ToLower(s)
}

func isASCIIUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isASCIILower(r rune) bool { return r >= 'a' && r <= 'z' }
func isASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }
