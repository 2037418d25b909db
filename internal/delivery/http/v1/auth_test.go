package v1

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleSignup(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/signup", "", gin.H{
		"email":    "new@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "user created successfully", decodeJSON(t, rec)["message"])

	// Signup acknowledges without issuing a token.
	assert.NotContains(t, rec.Body.String(), "token")
}

func TestHandleSignupDuplicateEmail(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	body := gin.H{"email": "dup@example.com", "password": "password123"}

	rec := env.do(t, http.MethodPost, "/auth/signup", "", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/auth/signup", "", body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// The rejected signup must not have created a second record.
	assert.Equal(t, 1, env.users.CountByEmail("dup@example.com"))
}

func TestHandleSignupInvalidBody(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	for name, body := range map[string]gin.H{
		"missing email":    {"password": "password123"},
		"malformed email":  {"email": "not-an-email", "password": "password123"},
		"short password":   {"email": "a@example.com", "password": "abc"},
		"missing password": {"email": "a@example.com"},
	} {
		rec := env.do(t, http.MethodPost, "/auth/signup", "", body)
		assert.Equalf(t, http.StatusBadRequest, rec.Code, "case %q", name)
	}
}

func TestHandleLogin(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.signupAndLogin(t, "login@example.com", "password123")

	rec := env.do(t, http.MethodPost, "/auth/login", "", gin.H{
		"email":    "login@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeJSON(t, rec)
	assert.Equal(t, "login successful", body["message"])
	assert.NotEmpty(t, body["token"])
}

// Unknown email and wrong password must produce byte-identical error
// responses.
func TestHandleLoginBadCredentials(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.signupAndLogin(t, "known@example.com", "password123")

	unknownRec := env.do(t, http.MethodPost, "/auth/login", "", gin.H{
		"email":    "unknown@example.com",
		"password": "password123",
	})
	wrongRec := env.do(t, http.MethodPost, "/auth/login", "", gin.H{
		"email":    "known@example.com",
		"password": "wrong-password",
	})

	require.Equal(t, http.StatusUnauthorized, unknownRec.Code)
	require.Equal(t, http.StatusUnauthorized, wrongRec.Code)
	assert.JSONEq(t, unknownRec.Body.String(), wrongRec.Body.String())
}

func TestHandleLoginTokenCarriesUserClaims(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	userID, token := env.signupAndLogin(t, "claims@example.com", "password123")

	claims, err := env.tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.Subject)
	assert.Equal(t, "claims@example.com", claims.Email)
}
