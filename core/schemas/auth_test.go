package schemas_test

import (
	"strings"
	"testing"

	"github.com/jrazmi/flowdesk/core/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signUp(email, password, confirm string) map[string]any {
	return map[string]any{"email": email, "password": password, "confirmPassword": confirm}
}

func TestParseSignUp_Accepts(t *testing.T) {
	creds, err := schemas.ParseSignUp(signUp("Ada@Example.COM", "Secret123", "Secret123"))
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", creds.Email)
	assert.Equal(t, "Secret123", creds.Password)
}

func TestParseSignUp_PasswordRules(t *testing.T) {
	tests := []struct {
		password string
		want     string
	}{
		{"", schemas.MsgPasswordRequired},
		{"Ab1", schemas.MsgPasswordTooShort},
		{"Ab1" + strings.Repeat("x", 126), schemas.MsgPasswordTooLong},
		{"secret123", schemas.MsgPasswordUpper},
		{"SECRET123", schemas.MsgPasswordLower},
		{"SecretPass", schemas.MsgPasswordDigit},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			_, err := schemas.ParseSignUp(signUp("ada@example.com", tt.password, tt.password))
			require.Error(t, err)
			fe := fieldErrors(t, err)
			assert.Equal(t, tt.want, fe[schemas.FieldPassword])
			assert.False(t, fe.Has(schemas.FieldConfirmPassword))
		})
	}
}

func TestParseSignUp_MismatchOnConfirmPassword(t *testing.T) {
	_, err := schemas.ParseSignUp(signUp("ada@example.com", "Secret123", "Secret124"))
	fe := fieldErrors(t, err)
	assert.Equal(t, []string{schemas.FieldConfirmPassword}, fe.Fields())
	assert.Equal(t, schemas.MsgPasswordsMismatch, fe[schemas.FieldConfirmPassword])

	// still reported when other fields fail too
	_, err = schemas.ParseSignUp(signUp("", "short", "other"))
	fe = fieldErrors(t, err)
	assert.Equal(t, schemas.MsgEmailRequired, fe[schemas.FieldEmail])
	assert.Equal(t, schemas.MsgPasswordTooShort, fe[schemas.FieldPassword])
	assert.Equal(t, schemas.MsgPasswordsMismatch, fe[schemas.FieldConfirmPassword])
}

func TestParseSignUp_EmailRules(t *testing.T) {
	long := strings.Repeat("a", 250) + "@example.com"
	tests := []struct {
		email string
		want  string
	}{
		{"", schemas.MsgEmailRequired},
		{"not-an-email", schemas.MsgEmailInvalid},
		{"a@b", schemas.MsgEmailInvalid},
		{".ada@example.com", schemas.MsgEmailInvalid},
		{"ada..b@example.com", schemas.MsgEmailInvalid},
		{long, schemas.MsgEmailTooLong},
	}

	for _, tt := range tests {
		_, err := schemas.ParseSignUp(signUp(tt.email, "Secret123", "Secret123"))
		require.Error(t, err, tt.email)
		assert.Equal(t, tt.want, fieldErrors(t, err)[schemas.FieldEmail], tt.email)
	}
}

func TestParseSignUp_WrongTypes(t *testing.T) {
	_, err := schemas.ParseSignUp(map[string]any{"email": 12, "password": "Secret123", "confirmPassword": "Secret123"})
	assert.Equal(t, "Expected string, received number", fieldErrors(t, err)[schemas.FieldEmail])
}

func TestParseSignIn(t *testing.T) {
	creds, err := schemas.ParseSignIn(map[string]any{"email": "ADA@example.com", "password": "alllowercase"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", creds.Email)

	_, err = schemas.ParseSignIn(map[string]any{"email": "ada@example.com", "password": "short"})
	assert.Equal(t, schemas.MsgPasswordTooShort, fieldErrors(t, err)[schemas.FieldPassword])

	_, err = schemas.ParseSignIn(map[string]any{})
	fe := fieldErrors(t, err)
	assert.Equal(t, schemas.MsgEmailRequired, fe[schemas.FieldEmail])
	assert.Equal(t, schemas.MsgPasswordRequired, fe[schemas.FieldPassword])
}

func TestValidEmail(t *testing.T) {
	for _, ok := range []string{"a@b.co", "first.last+tag@sub.example.org", "o'neil@example.ie"} {
		assert.True(t, schemas.ValidEmail(ok), ok)
	}
	for _, bad := range []string{"a@b.c", "@example.com", "a@-x.com", "a b@example.com"} {
		assert.False(t, schemas.ValidEmail(bad), bad)
	}
}
