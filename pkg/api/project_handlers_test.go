package api

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createProject uploads a project through the API and returns its id
func createProject(t *testing.T, srv *Server, cookie *http.Cookie, name string) string {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("projectName", name))
	require.NoError(t, mw.WriteField("projectDescription", "a thing I built"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/project/create", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(cookie)

	rec := doRequest(srv, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp ProjectResponse
	decodeJSON(t, rec, &resp)
	require.NotNil(t, resp.Data)
	return resp.Data.ID
}

func TestCreateProject(t *testing.T) {
	srv, store := newTestServer(t)
	userID, cookie := signupUser(t, srv, store, "Ada", "ada@example.com")

	t.Run("requires a session", func(t *testing.T) {
		body := &bytes.Buffer{}
		mw := multipart.NewWriter(body)
		require.NoError(t, mw.WriteField("projectName", "engine"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/project/create", body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := doRequest(srv, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("requires a name", func(t *testing.T) {
		body := &bytes.Buffer{}
		mw := multipart.NewWriter(body)
		require.NoError(t, mw.WriteField("projectDescription", "nameless"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/project/create", body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.AddCookie(cookie)
		rec := doRequest(srv, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Project name is required")
	})

	t.Run("owner is the acting identity", func(t *testing.T) {
		projectID := createProject(t, srv, cookie, "analytical engine")

		project, err := store.GetProject(context.Background(), projectID)
		require.NoError(t, err)
		assert.Equal(t, userID, project.OwnerID)
		assert.Equal(t, "analytical engine", project.Name)
	})

	t.Run("optional image is uploaded", func(t *testing.T) {
		body := &bytes.Buffer{}
		mw := multipart.NewWriter(body)
		require.NoError(t, mw.WriteField("projectName", "difference engine"))
		fw, err := mw.CreateFormFile("projectImage", "engine.png")
		require.NoError(t, err)
		_, err = fw.Write([]byte("engine-bytes"))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/project/create", body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.AddCookie(cookie)
		rec := doRequest(srv, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var resp ProjectResponse
		decodeJSON(t, rec, &resp)
		assert.Contains(t, resp.Data.Image, "https://media.test/projects/")
	})
}

func TestDeleteProject(t *testing.T) {
	srv, store := newTestServer(t)
	_, ownerCookie := signupUser(t, srv, store, "Ada", "ada@example.com")
	_, otherCookie := signupUser(t, srv, store, "Alan", "alan@example.com")

	projectID := createProject(t, srv, ownerCookie, "analytical engine")

	t.Run("missing project is 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/project/delete/missing", nil)
		req.AddCookie(ownerCookie)
		rec := doRequest(srv, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Project not found")
	})

	t.Run("non-owner is rejected and nothing is deleted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/project/delete/"+projectID, nil)
		req.AddCookie(otherCookie)
		rec := doRequest(srv, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "You do not own this project")

		_, err := store.GetProject(context.Background(), projectID)
		assert.NoError(t, err, "a rejected delete must leave the project in place")
	})

	t.Run("owner deletes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/project/delete/"+projectID, nil)
		req.AddCookie(ownerCookie)
		rec := doRequest(srv, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), "Project deleted successfully")

		_, err := store.GetProject(context.Background(), projectID)
		assert.Error(t, err)
	})
}

func TestGetProjectsByUser(t *testing.T) {
	srv, store := newTestServer(t)
	userID, cookie := signupUser(t, srv, store, "Ada", "ada@example.com")

	t.Run("no projects is 404", func(t *testing.T) {
		rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/project/get-project/"+userID, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "No projects found for this user")
	})

	t.Run("lists the user's projects", func(t *testing.T) {
		createProject(t, srv, cookie, "analytical engine")

		rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/project/get-project/"+userID, nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp ProjectsResponse
		decodeJSON(t, rec, &resp)
		require.Len(t, resp.Projects, 1)
		assert.Equal(t, "analytical engine", resp.Projects[0].Name)
	})
}

func TestGetOwnProjects(t *testing.T) {
	srv, store := newTestServer(t)
	_, adaCookie := signupUser(t, srv, store, "Ada", "ada@example.com")
	_, alanCookie := signupUser(t, srv, store, "Alan", "alan@example.com")

	createProject(t, srv, adaCookie, "analytical engine")
	createProject(t, srv, alanCookie, "bombe")

	req := httptest.NewRequest(http.MethodGet, "/api/project/get", nil)
	req.AddCookie(adaCookie)
	rec := doRequest(srv, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ProjectsResponse
	decodeJSON(t, rec, &resp)
	require.Len(t, resp.Projects, 1, "only the acting identity's projects")
	assert.Equal(t, "analytical engine", resp.Projects[0].Name)
}
