package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/devlink-social/devlink/pkg/auth"
	"github.com/devlink-social/devlink/pkg/media"
	"github.com/devlink-social/devlink/pkg/observability"
	"github.com/devlink-social/devlink/pkg/storage"
)

// memStore is an in-memory Storage used by the handler tests. It honors the
// same sentinel-error contract as the PostgreSQL store.
type memStore struct {
	mu           sync.Mutex
	users        map[string]*User
	projects     map[string]*Project
	comments     []*Comment
	reactions    map[string]map[string]ReactionKind
	posts        map[string]*CommunityPost
	postComments []*PostComment
}

func newMemStore() *memStore {
	return &memStore{
		users:     make(map[string]*User),
		projects:  make(map[string]*Project),
		reactions: make(map[string]map[string]ReactionKind),
		posts:     make(map[string]*CommunityPost),
	}
}

func (m *memStore) CreateUser(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return storage.ErrDuplicateEmail
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *memStore) GetUserByID(_ context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, storage.ErrNotFound
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memStore) UpdateUser(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return storage.ErrNotFound
	}
	m.users[user.ID] = user
	return nil
}

func (m *memStore) DeleteUser(_ context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	delete(m.users, id)
	return u, nil
}

func (m *memStore) ListUsers(_ context.Context) ([]*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]*User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	return users, nil
}

func (m *memStore) SearchUsersByName(_ context.Context, prefix string) ([]*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]*User, 0)
	for _, u := range m.users {
		if strings.HasPrefix(strings.ToLower(u.Name), strings.ToLower(prefix)) {
			users = append(users, u)
		}
	}
	return users, nil
}

func (m *memStore) CreateProject(_ context.Context, project *Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects[project.ID] = project
	return nil
}

func (m *memStore) GetProject(_ context.Context, id string) (*Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.projects[id]; ok {
		return p, nil
	}
	return nil, storage.ErrNotFound
}

func (m *memStore) ListProjectsByOwner(_ context.Context, ownerID string) ([]*Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	projects := make([]*Project, 0)
	for _, p := range m.projects {
		if p.OwnerID == ownerID {
			projects = append(projects, p)
		}
	}
	return projects, nil
}

func (m *memStore) ListProjects(_ context.Context) ([]*Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	projects := make([]*Project, 0, len(m.projects))
	for _, p := range m.projects {
		projects = append(projects, p)
	}
	return projects, nil
}

func (m *memStore) DeleteProject(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.projects, id)
	return nil
}

func (m *memStore) CreateComment(_ context.Context, comment *Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.comments = append(m.comments, comment)
	return nil
}

func (m *memStore) ListCommentsForUser(_ context.Context, receiverID string) ([]*Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	comments := make([]*Comment, 0)
	for _, c := range m.comments {
		if c.ReceiverID == receiverID {
			comments = append(comments, c)
		}
	}
	return comments, nil
}

func (m *memStore) SetReaction(_ context.Context, targetID, actorID string, kind ReactionKind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	byActor, ok := m.reactions[targetID]
	if !ok {
		byActor = make(map[string]ReactionKind)
		m.reactions[targetID] = byActor
	}
	if byActor[actorID] == kind {
		return storage.ErrAlreadyReacted
	}
	byActor[actorID] = kind
	return nil
}

func (m *memStore) ListReactions(_ context.Context, targetID string, kind ReactionKind) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	actors := make([]string, 0)
	for actor, k := range m.reactions[targetID] {
		if k == kind {
			actors = append(actors, actor)
		}
	}
	sort.Strings(actors)
	return actors, nil
}

func (m *memStore) GetReaction(_ context.Context, targetID, actorID string) (ReactionKind, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if kind, ok := m.reactions[targetID][actorID]; ok {
		return kind, nil
	}
	return "", storage.ErrNotFound
}

func (m *memStore) CreateCommunityPost(_ context.Context, post *CommunityPost) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts[post.ID] = post
	return nil
}

func (m *memStore) GetCommunityPost(_ context.Context, id string) (*CommunityPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.posts[id]; ok {
		return p, nil
	}
	return nil, storage.ErrNotFound
}

func (m *memStore) ListCommunityPosts(_ context.Context) ([]*CommunityPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	posts := make([]*CommunityPost, 0, len(m.posts))
	for _, p := range m.posts {
		posts = append(posts, p)
	}
	return posts, nil
}

func (m *memStore) DeleteCommunityPost(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.posts, id)
	kept := m.postComments[:0]
	for _, c := range m.postComments {
		if c.PostID != id {
			kept = append(kept, c)
		}
	}
	m.postComments = kept
	return nil
}

func (m *memStore) CreatePostComment(_ context.Context, comment *PostComment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.postComments = append(m.postComments, comment)
	return nil
}

func (m *memStore) ListPostComments(_ context.Context, postID string) ([]*PostComment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	comments := make([]*PostComment, 0)
	for _, c := range m.postComments {
		if c.PostID == postID {
			comments = append(comments, c)
		}
	}
	return comments, nil
}

// fakeMedia returns deterministic URLs without touching any object host
type fakeMedia struct{}

func (fakeMedia) Upload(_ context.Context, key string, content io.Reader, _ string) (string, error) {
	if _, err := io.Copy(io.Discard, content); err != nil {
		return "", err
	}
	return "https://media.test/" + key, nil
}

func (fakeMedia) Delete(context.Context, string) error { return nil }
func (fakeMedia) HealthCheck(context.Context) error    { return nil }

var _ media.Store = fakeMedia{}

func newTestServer(t *testing.T) (*Server, *memStore) {
	t.Helper()

	tokens, err := auth.NewTokenService([]byte("test-secret"))
	require.NoError(t, err)

	store := newMemStore()
	srv := NewServer(ServerOptions{
		Store:         store,
		Tokens:        tokens,
		Cookies:       auth.NewCookieWriter(false),
		Media:         fakeMedia{},
		Logger:        observability.NewLogger(observability.ErrorLevel, io.Discard),
		AdminUsername: "root",
		AdminPassword: "admin-pass",
	})
	return srv, store
}

// signupForm builds the multipart signup payload
func signupForm(t *testing.T, name, email, password string, withImage bool) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("name", name))
	require.NoError(t, mw.WriteField("email", email))
	require.NoError(t, mw.WriteField("password", password))
	if withImage {
		fw, err := mw.CreateFormFile("image", "avatar.png")
		require.NoError(t, err)
		_, err = fw.Write([]byte("not-really-a-png"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func doRequest(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

// loginAdmin authenticates the configured admin and returns its cookie
func loginAdmin(t *testing.T, srv *Server) *http.Cookie {
	t.Helper()
	req := jsonRequest(t, http.MethodPost, "/api/admin/login", map[string]string{
		"username": "root",
		"password": "admin-pass",
	})
	rec := doRequest(srv, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.AdminCookieName {
			return c
		}
	}
	t.Fatal("admin login must set the admin cookie")
	return nil
}

// signupUser registers a user and returns its id and session cookie
func signupUser(t *testing.T, srv *Server, store *memStore, name, email string) (string, *http.Cookie) {
	t.Helper()
	body, contentType := signupForm(t, name, email, "secret1", true)
	req := httptest.NewRequest(http.MethodPost, "/api/user/signup", body)
	req.Header.Set("Content-Type", contentType)

	rec := doRequest(srv, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.UserCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "signup must set the session cookie")

	user, err := store.GetUserByEmail(context.Background(), email)
	require.NoError(t, err)
	return user.ID, cookie
}
