package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/devlink-social/devlink/pkg/auth"
	"github.com/devlink-social/devlink/pkg/httputil"
	"github.com/devlink-social/devlink/pkg/media"
	"github.com/devlink-social/devlink/pkg/observability"
	"github.com/devlink-social/devlink/pkg/storage"
)

// handleSignup creates a new identity from a multipart form (name, email,
// password, image) and logs it in. The profile image is required.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	log := observability.FromContext(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httputil.WriteValidationError(w, "Invalid form data")
		return
	}

	name := r.FormValue("name")
	email := r.FormValue("email")
	password := r.FormValue("password")
	if name == "" || email == "" || password == "" {
		httputil.WriteValidationError(w, "All fields are required")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		httputil.WriteValidationError(w, "Profile image is required")
		return
	}
	defer file.Close()

	// Check the email early so an obvious duplicate does not upload an
	// orphaned image. The store's unique constraint still backstops races.
	start := time.Now()
	_, err = s.store.GetUserByEmail(r.Context(), email)
	s.observe("GetUserByEmail", start, nil)
	if err == nil {
		httputil.WriteConflict(w, "User already exists. Please log in.")
		return
	}
	if !errors.Is(err, storage.ErrNotFound) {
		log.WithError(err).Error("signup: email lookup failed")
		httputil.WriteInternalError(w, "Server error while registering user")
		return
	}

	imageURL, err := s.media.Upload(r.Context(), media.NewProfileImageKey(), file, header.Header.Get("Content-Type"))
	s.recordUpload("profiles", header.Size, err)
	if err != nil {
		log.WithError(err).Error("signup: profile image upload failed")
		httputil.WriteInternalError(w, "Server error while registering user")
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.WithError(err).Error("signup: password hashing failed")
		httputil.WriteInternalError(w, "Server error while registering user")
		return
	}

	user := &User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		ProfilePic:   imageURL,
	}

	start = time.Now()
	err = s.store.CreateUser(r.Context(), user)
	s.observe("CreateUser", start, err)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			httputil.WriteConflict(w, "User already exists. Please log in.")
			return
		}
		log.WithError(err).Error("signup: user insert failed")
		httputil.WriteInternalError(w, "Server error while registering user")
		return
	}

	token, err := s.tokens.IssueUserToken(user.ID)
	if err != nil {
		log.WithError(err).Error("signup: token issuance failed")
		httputil.WriteInternalError(w, "Server error while registering user")
		return
	}
	s.cookies.SetUserToken(w, token)

	httputil.WriteCreated(w, UserResponse{
		Success: true,
		Message: "User registered successfully",
		User:    user,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleLogin verifies credentials and issues a user session cookie
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	log := observability.FromContext(r.Context())

	var req loginRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		httputil.WriteValidationError(w, "All fields are required")
		return
	}

	start := time.Now()
	user, err := s.store.GetUserByEmail(r.Context(), req.Email)
	s.observe("GetUserByEmail", start, err)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.recordLogin("user", false)
			httputil.WriteNotFoundError(w, "User not found")
			return
		}
		log.WithError(err).Error("login: user lookup failed")
		httputil.WriteInternalError(w, "Server error during login")
		return
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		s.recordLogin("user", false)
		httputil.WriteUnauthorized(w, "Invalid credentials")
		return
	}

	token, err := s.tokens.IssueUserToken(user.ID)
	if err != nil {
		log.WithError(err).Error("login: token issuance failed")
		httputil.WriteInternalError(w, "Server error during login")
		return
	}
	s.cookies.SetUserToken(w, token)
	s.recordLogin("user", true)

	httputil.WriteSuccess(w, UserResponse{
		Success: true,
		Message: "Login successful",
		User:    user,
	})
}

// handleAuthStatus is the soft session probe: every failure path answers
// 200 with isAuthenticated false, never an error status.
func (s *Server) handleAuthStatus(w http.ResponseWriter, r *http.Request) {
	notAuthenticated := func() {
		httputil.WriteSuccess(w, AuthStatusResponse{IsAuthenticated: false})
	}

	token := auth.ReadUserToken(r)
	if token == "" {
		notAuthenticated()
		return
	}

	claims, err := s.tokens.VerifyUserToken(token)
	if err != nil {
		s.recordTokenRejected("user")
		notAuthenticated()
		return
	}

	user, err := s.store.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		notAuthenticated()
		return
	}

	httputil.WriteSuccess(w, AuthStatusResponse{
		IsAuthenticated: true,
		User:            user.Summary(),
	})
}

// handleGetOwnUser returns the acting identity's full record
func (s *Server) handleGetOwnUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	user, err := s.store.GetUserByID(r.Context(), actingUserID(r))
	s.observe("GetUserByID", start, err)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httputil.WriteNotFoundError(w, "User not found")
			return
		}
		observability.FromContext(r.Context()).WithError(err).Error("get user failed")
		httputil.WriteInternalError(w, "Server error while fetching user")
		return
	}

	httputil.WriteSuccess(w, UserResponse{Success: true, User: user})
}

// handleUpdateUser mutates the acting identity's profile fields. All fields
// are optional; a provided profilePicture overwrites the stable per-user
// media key.
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	log := observability.FromContext(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httputil.WriteValidationError(w, "Invalid form data")
		return
	}

	start := time.Now()
	user, err := s.store.GetUserByID(r.Context(), actingUserID(r))
	s.observe("GetUserByID", start, err)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httputil.WriteNotFoundError(w, "User not found")
			return
		}
		log.WithError(err).Error("update: user lookup failed")
		httputil.WriteInternalError(w, "Server error while updating user")
		return
	}

	if file, header, err := r.FormFile("profilePicture"); err == nil {
		defer file.Close()
		url, uploadErr := s.media.Upload(r.Context(), media.ProfileImageKey(user.ID), file, header.Header.Get("Content-Type"))
		s.recordUpload("profiles", header.Size, uploadErr)
		if uploadErr != nil {
			log.WithError(uploadErr).Error("update: profile image upload failed")
			httputil.WriteInternalError(w, "Server error while updating user")
			return
		}
		user.ProfilePic = url
	}

	if name := r.FormValue("name"); name != "" {
		user.Name = name
	}
	if description := r.FormValue("description"); description != "" {
		user.Description = description
	}
	if portfolio := r.FormValue("portfolio"); portfolio != "" {
		user.Portfolio = portfolio
	}
	if password := r.FormValue("password"); password != "" {
		hash, hashErr := auth.HashPassword(password)
		if hashErr != nil {
			log.WithError(hashErr).Error("update: password hashing failed")
			httputil.WriteInternalError(w, "Server error while updating user")
			return
		}
		user.PasswordHash = hash
	}

	start = time.Now()
	err = s.store.UpdateUser(r.Context(), user)
	s.observe("UpdateUser", start, err)
	if err != nil {
		log.WithError(err).Error("update: user persist failed")
		httputil.WriteInternalError(w, "Server error while updating user")
		return
	}

	httputil.WriteSuccess(w, UserResponse{
		Success: true,
		Message: "User updated successfully",
		User:    user,
	})
}

// handleLogout clears the user session cookie. The token itself stays valid
// until expiry; there is no server-side revocation list.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.cookies.ClearUserToken(w)
	httputil.WriteSuccessMessage(w, "User logged out successfully")
}

// handleGetUserByID returns a public profile
func (s *Server) handleGetUserByID(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	start := time.Now()
	user, err := s.store.GetUserByID(r.Context(), id)
	s.observe("GetUserByID", start, err)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httputil.WriteNotFoundError(w, "User not found")
			return
		}
		observability.FromContext(r.Context()).WithError(err).Error("get user by id failed")
		httputil.WriteInternalError(w, "Server error")
		return
	}

	httputil.WriteSuccess(w, UserResponse{Success: true, User: user})
}

// handleGetAllProfiles lists every profile
func (s *Server) handleGetAllProfiles(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	users, err := s.store.ListUsers(r.Context())
	s.observe("ListUsers", start, err)
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("list users failed")
		httputil.WriteInternalError(w, "Server error occurred")
		return
	}

	httputil.WriteSuccess(w, ProfilesResponse{Success: true, Profiles: users})
}

// handleSearchUsers finds users by case-insensitive name prefix
func (s *Server) handleSearchUsers(w http.ResponseWriter, r *http.Request) {
	query := httputil.ParseQueryString(r, "query", "")
	if query == "" {
		httputil.WriteValidationError(w, "Search field can't be empty")
		return
	}

	start := time.Now()
	users, err := s.store.SearchUsersByName(r.Context(), query)
	s.observe("SearchUsersByName", start, err)
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("user search failed")
		httputil.WriteInternalError(w, "Server error")
		return
	}

	httputil.WriteSuccess(w, UsersResponse{Success: true, Users: users})
}

type deleteUserRequest struct {
	ID string `json:"id"`
}

// handleDeleteUser hard-deletes an identity (admin only). Nothing cascades:
// the user's projects, comments, posts, and reactions stay behind orphaned.
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	var req deleteUserRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.ID, "id") {
		return
	}

	start := time.Now()
	user, err := s.store.DeleteUser(r.Context(), req.ID)
	s.observe("DeleteUser", start, err)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httputil.WriteNotFoundError(w, "User not found with id: "+req.ID)
			return
		}
		observability.FromContext(r.Context()).WithError(err).Error("delete user failed")
		httputil.WriteInternalError(w, "Server error")
		return
	}

	httputil.WriteSuccessMessage(w, "Deleted the user "+user.Name)
}
