package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestClientToken_RoundTrip(t *testing.T) {
	token, err := IssueClientToken(testSecret, "development", "USD", time.Minute, "refund")
	require.NoError(t, err)

	claims, err := ParseClientToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "USD", claims.Currency)
	assert.Equal(t, "development", claims.Env)
	assert.True(t, claims.HasScope("refund"))
	assert.False(t, claims.HasScope("admin"))
}

func TestIssueClientToken_MissingSecret(t *testing.T) {
	_, err := IssueClientToken("", "development", "USD", time.Minute)
	assert.Error(t, err)
}

func TestParseClientToken_Expired(t *testing.T) {
	token, err := IssueClientToken(testSecret, "development", "USD", -time.Minute)
	require.NoError(t, err)

	_, err = ParseClientToken(testSecret, token)
	assert.Error(t, err)
}

func TestParseClientToken_WrongSecret(t *testing.T) {
	token, err := IssueClientToken(testSecret, "development", "USD", time.Minute)
	require.NoError(t, err)

	_, err = ParseClientToken("other-secret", token)
	assert.Error(t, err)
}

func callWithScope(t *testing.T, authHeader string) int {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/refund", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := RequireScope(testSecret, "refund")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	err := h(c)
	if err != nil {
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		return httpErr.Code
	}
	return rec.Code
}

func TestRequireScope(t *testing.T) {
	withScope, err := IssueClientToken(testSecret, "development", "USD", time.Minute, "refund")
	require.NoError(t, err)
	withoutScope, err := IssueClientToken(testSecret, "development", "USD", time.Minute)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, callWithScope(t, "Bearer "+withScope))
	assert.Equal(t, http.StatusForbidden, callWithScope(t, "Bearer "+withoutScope))
	assert.Equal(t, http.StatusUnauthorized, callWithScope(t, "Bearer not-a-token"))
	assert.Equal(t, http.StatusUnauthorized, callWithScope(t, ""))
}
