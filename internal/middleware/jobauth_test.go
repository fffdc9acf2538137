package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/camp-registration/internal/utils"
)

const jobSecret = "test-job-secret"

func runJobAuth(t *testing.T, target string, header string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, target, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	err := JobAuth(jobSecret)(next)(c)
	require.NoError(t, err)
	return rec, c
}

func TestJobAuthAcceptsBearerToken(t *testing.T) {
	tok, err := utils.NewJobToken(jobSecret, "reminder-sweep", time.Hour)
	require.NoError(t, err)

	rec, c := runJobAuth(t, "/v1/reminders/run", "Bearer "+tok)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "reminder-sweep", c.Get("job"))
}

func TestJobAuthAcceptsQueryToken(t *testing.T) {
	tok, err := utils.NewJobToken(jobSecret, "reminder-sweep", time.Hour)
	require.NoError(t, err)

	rec, _ := runJobAuth(t, "/v1/reminders/run?token="+tok, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJobAuthRejectsMissingToken(t *testing.T) {
	rec, _ := runJobAuth(t, "/v1/reminders/run", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJobAuthRejectsWrongSecret(t *testing.T) {
	tok, err := utils.NewJobToken("some-other-secret", "reminder-sweep", time.Hour)
	require.NoError(t, err)

	rec, _ := runJobAuth(t, "/v1/reminders/run", "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJobAuthRejectsExpiredToken(t *testing.T) {
	tok, err := utils.NewJobToken(jobSecret, "reminder-sweep", -time.Minute)
	require.NoError(t, err)

	rec, _ := runJobAuth(t, "/v1/reminders/run", "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJobAuthRejectsGarbage(t *testing.T) {
	rec, _ := runJobAuth(t, "/v1/reminders/run", "Bearer not.a.jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
