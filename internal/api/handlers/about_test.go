package handlers_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devfolio/blog-api/internal/domain"
	"github.com/devfolio/blog-api/internal/testutil"
)

func completeAboutPayload() map[string]any {
	return map[string]any{
		"fullName":   "Jane Doe",
		"headline":   "Backend Engineer",
		"summary":    "Builds APIs",
		"location":   "Berlin",
		"email":      "jane@example.com",
		"phone":      "+49 123",
		"experience": "8 years",
		"education":  "BSc",
		"skills":     []string{"Go", "MongoDB"},
	}
}

func ownerCookies(t *testing.T, ts *testutil.TestServer) []*http.Cookie {
	t.Helper()
	_, cs := testutil.NewUserBuilder().
		WithEmail(ts.Config.OwnerEmail).
		BuildAndLogin(t, ts)
	return cs
}

func uploadResume(t *testing.T, ts *testutil.TestServer, contentType string, data []byte, reqCookies ...*http.Cookie) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="resume"; filename="resume.pdf"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, ts.APIURL("/about/resume"), &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for _, c := range reqCookies {
		req.AddCookie(c)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestAbout_Get(t *testing.T) {
	ts := testutil.NewTestServer(t)

	t.Run("empty store", func(t *testing.T) {
		resp := getWithCookies(t, ts.APIURL("/about"))
		testutil.AssertStatusCode(t, resp, http.StatusNotFound)
	})

	t.Run("public read after owner creates it", func(t *testing.T) {
		owner := ownerCookies(t, ts)
		resp := postJSON(t, ts.APIURL("/about"), completeAboutPayload(), owner...)
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		resp = getWithCookies(t, ts.APIURL("/about"))
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var profile domain.AboutProfile
		testutil.DecodeData(t, resp, &profile)
		assert.Equal(t, "Jane Doe", profile.FullName)
		assert.Equal(t, []string{"Go", "MongoDB"}, profile.Skills)
	})
}

func TestAbout_MutationAuthorization(t *testing.T) {
	ts := testutil.NewTestServer(t)

	t.Run("anonymous gets 401", func(t *testing.T) {
		resp := postJSON(t, ts.APIURL("/about"), completeAboutPayload())
		testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)
	})

	t.Run("ordinary user gets 403", func(t *testing.T) {
		_, cs := testutil.NewUserBuilder().BuildAndLogin(t, ts)
		resp := postJSON(t, ts.APIURL("/about"), completeAboutPayload(), cs...)
		testutil.AssertStatusCode(t, resp, http.StatusForbidden)
	})

	t.Run("admin role passes the owner-or-admin gate", func(t *testing.T) {
		_, cs := testutil.NewUserBuilder().WithRole("admin").BuildAndLogin(t, ts)
		resp := postJSON(t, ts.APIURL("/about"), completeAboutPayload(), cs...)
		testutil.AssertStatusCode(t, resp, http.StatusOK)
	})

	t.Run("admin cannot touch the resume developer gate", func(t *testing.T) {
		_, cs := testutil.NewUserBuilder().WithRole("admin").BuildAndLogin(t, ts)
		resp := uploadResume(t, ts, "application/pdf", []byte("%PDF-1.7"), cs...)
		testutil.AssertStatusCode(t, resp, http.StatusForbidden)
	})
}

func TestAbout_CreateValidation(t *testing.T) {
	ts := testutil.NewTestServer(t)
	owner := ownerCookies(t, ts)

	payload := completeAboutPayload()
	delete(payload, "headline")

	resp := postJSON(t, ts.APIURL("/about"), payload, owner...)
	testutil.AssertStatusCode(t, resp, http.StatusBadRequest)

	env := testutil.DecodeEnvelope(t, resp)
	assert.Contains(t, env.Message, "headline is required")
}

func TestAbout_UpdateMerges(t *testing.T) {
	ts := testutil.NewTestServer(t)
	owner := ownerCookies(t, ts)

	resp := postJSON(t, ts.APIURL("/about"), completeAboutPayload(), owner...)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	req, err := http.NewRequest(http.MethodPut, ts.APIURL("/about"),
		bytes.NewReader([]byte(`{"headline":"Staff Engineer","skills":"Go, Redis"}`)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range owner {
		req.AddCookie(c)
	}
	putResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer putResp.Body.Close()
	testutil.AssertStatusCode(t, putResp, http.StatusOK)

	var profile domain.AboutProfile
	testutil.DecodeData(t, putResp, &profile)
	assert.Equal(t, "Staff Engineer", profile.Headline)
	assert.Equal(t, "Jane Doe", profile.FullName)
	// Comma-separated skills strings are accepted and normalized.
	assert.Equal(t, []string{"Go", "Redis"}, profile.Skills)
}

func TestAbout_ResumeLifecycle(t *testing.T) {
	ts := testutil.NewTestServer(t)
	owner := ownerCookies(t, ts)

	resp := postJSON(t, ts.APIURL("/about"), completeAboutPayload(), owner...)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	t.Run("preview before upload", func(t *testing.T) {
		resp := getWithCookies(t, ts.APIURL("/about/resume/preview"))
		testutil.AssertStatusCode(t, resp, http.StatusNotFound)
	})

	t.Run("non-pdf rejected", func(t *testing.T) {
		resp := uploadResume(t, ts, "image/png", []byte("not a pdf"), owner...)
		testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
	})

	t.Run("upload preview delete", func(t *testing.T) {
		resp := uploadResume(t, ts, "application/pdf", []byte("%PDF-1.7"), owner...)
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var profile domain.AboutProfile
		testutil.DecodeData(t, resp, &profile)
		require.NotEmpty(t, profile.ResumeURL)

		require.Len(t, ts.Uploader.Uploaded, 1)
		var key string
		for k := range ts.Uploader.Uploaded {
			key = k
		}
		assert.Contains(t, profile.ResumeURL, key)

		// Preview redirects to the stored URL without following it.
		client := &http.Client{
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
		redirect, err := client.Get(ts.APIURL("/about/resume/preview"))
		require.NoError(t, err)
		defer redirect.Body.Close()
		io.Copy(io.Discard, redirect.Body)
		assert.Equal(t, http.StatusFound, redirect.StatusCode)
		assert.Equal(t, profile.ResumeURL, redirect.Header.Get("Location"))

		req, err := http.NewRequest(http.MethodDelete, ts.APIURL("/about/resume"), nil)
		require.NoError(t, err)
		for _, c := range owner {
			req.AddCookie(c)
		}
		delResp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer delResp.Body.Close()
		testutil.AssertStatusCode(t, delResp, http.StatusOK)
		assert.Contains(t, ts.Uploader.Deleted, key)
	})
}
