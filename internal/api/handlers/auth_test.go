package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/priya/course-platform/internal/mail"
	"github.com/priya/course-platform/internal/service"
	"github.com/priya/course-platform/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, client *http.Client, url string, body any) *http.Response {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := client.Post(url, "application/json", bytes.NewBuffer(raw))
	require.NoError(t, err)
	return resp
}

func TestAuth_RegisterActivateLogin(t *testing.T) {
	ts := testutil.NewTestServer(t)
	client := testutil.NewClient(t)

	// Register returns the activation token, the code goes out by mail
	resp := postJSON(t, client, ts.APIURL("/auth/register"), map[string]string{
		"name":     "Priya",
		"email":    "priya@example.com",
		"password": "password123",
	})
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var regResp struct {
		Success         bool   `json:"success"`
		ActivationToken string `json:"activationToken"`
	}
	testutil.AssertJSONResponse(t, resp, &regResp)
	require.True(t, regResp.Success)
	require.NotEmpty(t, regResp.ActivationToken)

	sent := ts.Mailer.SentTo("priya@example.com")
	require.Len(t, sent, 1)
	code := sent[0].Data.(mail.ActivationData).ActivationCode

	// Wrong code is a 400
	resp = postJSON(t, client, ts.APIURL("/auth/activate"), map[string]string{
		"activation_token": regResp.ActivationToken,
		"activation_code":  "0000",
	})
	testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "activation code is not valid")
	resp.Body.Close()

	// Right code creates the account
	resp = postJSON(t, client, ts.APIURL("/auth/activate"), map[string]string{
		"activation_token": regResp.ActivationToken,
		"activation_code":  code,
	})
	testutil.AssertStatusCode(t, resp, http.StatusCreated)
	resp.Body.Close()

	// Login sets both auth cookies
	resp = postJSON(t, client, ts.APIURL("/auth/login"), map[string]string{
		"email":    "priya@example.com",
		"password": "password123",
	})
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	access, refresh := testutil.AuthCookies(t, resp)
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	assert.True(t, access.HttpOnly)
	assert.True(t, refresh.HttpOnly)

	var loginResp testutil.LoginResponse
	testutil.AssertJSONResponse(t, resp, &loginResp)
	assert.Equal(t, "priya@example.com", loginResp.User.Email)
	assert.NotEmpty(t, loginResp.AccessToken)

	// The cookie jar now opens protected routes
	meResp, err := client.Get(ts.APIURL("/auth/me"))
	require.NoError(t, err)
	defer meResp.Body.Close()
	testutil.AssertStatusCode(t, meResp, http.StatusOK)
}

func TestAuth_RegisterValidation(t *testing.T) {
	ts := testutil.NewTestServer(t)
	client := testutil.NewClient(t)

	tests := []struct {
		name    string
		body    map[string]string
		wantMsg string
	}{
		{
			name:    "missing fields",
			body:    map[string]string{"email": "a@example.com"},
			wantMsg: "required",
		},
		{
			name: "short password",
			body: map[string]string{
				"name":     "a",
				"email":    "a@example.com",
				"password": "12345",
			},
			wantMsg: "at least 6 characters",
		},
		{
			name: "bad email",
			body: map[string]string{
				"name":     "a",
				"email":    "not-an-email",
				"password": "password123",
			},
			wantMsg: "valid email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, client, ts.APIURL("/auth/register"), tt.body)
			defer resp.Body.Close()
			testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, tt.wantMsg)
		})
	}
}

func TestAuth_ProtectedRoutesRequireAuth(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp, err := http.Get(ts.APIURL("/auth/me"))
	require.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, "please login to access this resource")
}

func TestAuth_LogoutRevokesAccess(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, client := testutil.NewUserBuilder().BuildAndLogin(t, ts)

	// Logged in: me works
	resp, err := client.Get(ts.APIURL("/auth/me"))
	require.NoError(t, err)
	resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	// Logout clears the cookies and drops the session
	resp, err = client.Get(ts.APIURL("/auth/logout"))
	require.NoError(t, err)
	resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	// The jar no longer carries usable cookies
	resp, err = client.Get(ts.APIURL("/auth/me"))
	require.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)
}

func TestAuth_EvictedSessionRevokesValidToken(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, client := testutil.NewUserBuilder().BuildAndLogin(t, ts)

	// Drop the session cache entry behind the client's back
	require.NoError(t, ts.Sessions.Delete(context.Background(), user.ID))

	// The access token is still cryptographically valid but the gate
	// refuses it because the session is gone
	resp, err := client.Get(ts.APIURL("/auth/me"))
	require.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, "user not found")
}

func TestAuth_Refresh(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, client := testutil.NewUserBuilder().BuildAndLogin(t, ts)

	resp, err := client.Get(ts.APIURL("/auth/refresh"))
	require.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var refreshResp struct {
		Status      string `json:"status"`
		AccessToken string `json:"accessToken"`
	}
	testutil.AssertJSONResponse(t, resp, &refreshResp)
	assert.Equal(t, "success", refreshResp.Status)
	assert.NotEmpty(t, refreshResp.AccessToken)

	access, refresh := testutil.AuthCookies(t, resp)
	require.NotNil(t, access)
	require.NotNil(t, refresh)

	// The new cookies keep working
	meResp, err := client.Get(ts.APIURL("/auth/me"))
	require.NoError(t, err)
	meResp.Body.Close()
	testutil.AssertStatusCode(t, meResp, http.StatusOK)

	// After logout the refresh token is refused with a generic message
	logoutResp, err := client.Get(ts.APIURL("/auth/logout"))
	require.NoError(t, err)
	logoutResp.Body.Close()

	require.NoError(t, ts.Sessions.Delete(context.Background(), user.ID))

	resp2, err := client.Get(ts.APIURL("/auth/refresh"))
	require.NoError(t, err)
	defer resp2.Body.Close()
	testutil.AssertErrorResponse(t, resp2, http.StatusUnauthorized, "could not refresh token")
}

func TestAuth_RefreshRejectsAccessToken(t *testing.T) {
	ts := testutil.NewTestServer(t)
	client := testutil.NewClient(t)

	user, password := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	result, err := ts.Services.Auth.Login(context.Background(), service.LoginInput{
		Email:    user.Email,
		Password: password,
	})
	require.NoError(t, err)

	// Present the access token where the refresh token belongs
	req, err := http.NewRequest(http.MethodGet, ts.APIURL("/auth/refresh"), nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: result.AccessToken})

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, "could not refresh token")
}

func TestAuth_SocialAuth(t *testing.T) {
	ts := testutil.NewTestServer(t)
	client := testutil.NewClient(t)

	resp := postJSON(t, client, ts.APIURL("/auth/social"), map[string]string{
		"name":      "Social User",
		"email":     "social@example.com",
		"avatarUrl": "https://avatars.test/social.png",
	})
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	access, refresh := testutil.AuthCookies(t, resp)
	require.NotNil(t, access)
	require.NotNil(t, refresh)

	meResp, err := client.Get(ts.APIURL("/auth/me"))
	require.NoError(t, err)
	defer meResp.Body.Close()
	testutil.AssertStatusCode(t, meResp, http.StatusOK)
}
