package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/devlink-social/devlink/pkg/httputil"
	"github.com/devlink-social/devlink/pkg/media"
	"github.com/devlink-social/devlink/pkg/observability"
	"github.com/devlink-social/devlink/pkg/storage"
)

// handleCreateProject creates a project owned by the acting identity. The
// owner reference is set here once and never changes.
func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	log := observability.FromContext(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httputil.WriteValidationError(w, "Invalid form data")
		return
	}

	name := r.FormValue("projectName")
	if name == "" {
		httputil.WriteValidationError(w, "Project name is required")
		return
	}

	var imageURL string
	if file, header, err := r.FormFile("projectImage"); err == nil {
		defer file.Close()
		url, uploadErr := s.media.Upload(r.Context(), media.NewProjectImageKey(), file, header.Header.Get("Content-Type"))
		s.recordUpload("projects", header.Size, uploadErr)
		if uploadErr != nil {
			log.WithError(uploadErr).Error("create project: image upload failed")
			httputil.WriteInternalError(w, "Server error while uploading project image")
			return
		}
		imageURL = url
	}

	project := &Project{
		ID:          uuid.NewString(),
		OwnerID:     actingUserID(r),
		Name:        name,
		Description: r.FormValue("projectDescription"),
		Image:       imageURL,
		Link:        r.FormValue("projectLink"),
	}

	start := time.Now()
	err := s.store.CreateProject(r.Context(), project)
	s.observe("CreateProject", start, err)
	if err != nil {
		log.WithError(err).Error("create project: insert failed")
		httputil.WriteInternalError(w, "Server error while creating project")
		return
	}

	httputil.WriteCreated(w, ProjectResponse{
		Success: true,
		Message: "Project uploaded successfully",
		Data:    project,
	})
}

// handleGetOwnProjects lists the acting identity's projects, newest first
func (s *Server) handleGetOwnProjects(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	projects, err := s.store.ListProjectsByOwner(r.Context(), actingUserID(r))
	s.observe("ListProjectsByOwner", start, err)
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("list own projects failed")
		httputil.WriteInternalError(w, "Server error while fetching projects")
		return
	}

	httputil.WriteSuccess(w, ProjectsResponse{Success: true, Projects: projects})
}

// handleDeleteProject deletes an owned project. Ownership is enforced here
// regardless of any advisory check the client ran: absent project is 404,
// someone else's project is 403, and a rejected request deletes nothing.
func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	start := time.Now()
	project, err := s.store.GetProject(r.Context(), id)
	s.observe("GetProject", start, err)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httputil.WriteNotFoundError(w, "Project not found")
			return
		}
		observability.FromContext(r.Context()).WithError(err).Error("delete project: lookup failed")
		httputil.WriteInternalError(w, "Server error while deleting project")
		return
	}

	if project.OwnerID != actingUserID(r) {
		httputil.WriteForbidden(w, "You do not own this project")
		return
	}

	start = time.Now()
	err = s.store.DeleteProject(r.Context(), id)
	s.observe("DeleteProject", start, err)
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("delete project failed")
		httputil.WriteInternalError(w, "Server error while deleting project")
		return
	}

	httputil.WriteSuccessMessage(w, "Project deleted successfully")
}

// handleGetProjectsByUser lists a given user's projects (public)
func (s *Server) handleGetProjectsByUser(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	start := time.Now()
	projects, err := s.store.ListProjectsByOwner(r.Context(), id)
	s.observe("ListProjectsByOwner", start, err)
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("list projects by user failed")
		httputil.WriteInternalError(w, "Server error while fetching projects")
		return
	}

	if len(projects) == 0 {
		httputil.WriteNotFoundError(w, "No projects found for this user")
		return
	}

	httputil.WriteSuccess(w, ProjectsResponse{Success: true, Projects: projects})
}

// handleGetAllProjects lists every project
func (s *Server) handleGetAllProjects(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	projects, err := s.store.ListProjects(r.Context())
	s.observe("ListProjects", start, err)
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("list projects failed")
		httputil.WriteInternalError(w, "Error fetching data from the server")
		return
	}

	httputil.WriteSuccess(w, ProjectsResponse{Success: true, Projects: projects})
}
