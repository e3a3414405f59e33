package api

import (
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/devlink-social/devlink/pkg/httputil"
	"github.com/devlink-social/devlink/pkg/observability"
	"github.com/devlink-social/devlink/pkg/storage"
)

const (
	// Board posts need a title longer than 4 characters and a body longer
	// than 10. Boundaries are strict: exactly 4 and exactly 10 are rejected.
	minTitleLength = 4
	minBodyLength  = 10
)

type createPostRequest struct {
	Title string `json:"title"`
	Body  string `json:"post"`
}

// handleCreatePost creates a community board post
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	title := strings.TrimSpace(req.Title)
	body := strings.TrimSpace(req.Body)
	if utf8.RuneCountInString(title) <= minTitleLength {
		httputil.WriteValidationError(w, "Title must be longer than 4 characters")
		return
	}
	if utf8.RuneCountInString(body) <= minBodyLength {
		httputil.WriteValidationError(w, "Post must be longer than 10 characters")
		return
	}

	post := &CommunityPost{
		ID:       uuid.NewString(),
		AuthorID: actingUserID(r),
		Title:    title,
		Body:     body,
	}

	start := time.Now()
	err := s.store.CreateCommunityPost(r.Context(), post)
	s.observe("CreateCommunityPost", start, err)
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("create post failed")
		httputil.WriteInternalError(w, "Could not create the community post")
		return
	}

	httputil.WriteCreated(w, PostResponse{
		Success: true,
		Message: "Post successfully created",
		Post:    post,
	})
}

// handleGetAllPosts lists the board, newest first, authors populated
func (s *Server) handleGetAllPosts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	posts, err := s.store.ListCommunityPosts(r.Context())
	s.observe("ListCommunityPosts", start, err)
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("list posts failed")
		httputil.WriteInternalError(w, "Server error")
		return
	}

	httputil.WriteSuccess(w, PostsResponse{
		Success: true,
		Message: "Fetched all community posts",
		Posts:   posts,
	})
}

// handleGetPost returns a single board post
func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	start := time.Now()
	post, err := s.store.GetCommunityPost(r.Context(), id)
	s.observe("GetCommunityPost", start, err)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httputil.WriteNotFoundError(w, "Post not found")
			return
		}
		observability.FromContext(r.Context()).WithError(err).Error("get post failed")
		httputil.WriteInternalError(w, "Server error")
		return
	}

	httputil.WriteSuccess(w, PostResponse{Success: true, Post: post})
}

// handleVerifyPostOwner answers the advisory ownership probe. The client
// uses it to decide whether to show a delete affordance; the delete handler
// never trusts it and re-checks on its own.
func (s *Server) handleVerifyPostOwner(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	start := time.Now()
	post, err := s.store.GetCommunityPost(r.Context(), id)
	s.observe("GetCommunityPost", start, err)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httputil.WriteNotFoundError(w, "Post not found")
			return
		}
		observability.FromContext(r.Context()).WithError(err).Error("verify owner: lookup failed")
		httputil.WriteInternalError(w, "Server error")
		return
	}

	httputil.WriteSuccess(w, OwnershipResponse{
		Success: true,
		IsOwner: post.AuthorID == actingUserID(r),
	})
}

// handleDeletePost deletes an owned board post and its comments. Ownership
// is enforced here: 404 for an absent post, 403 for someone else's.
func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	start := time.Now()
	post, err := s.store.GetCommunityPost(r.Context(), id)
	s.observe("GetCommunityPost", start, err)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httputil.WriteNotFoundError(w, "Post not found")
			return
		}
		observability.FromContext(r.Context()).WithError(err).Error("delete post: lookup failed")
		httputil.WriteInternalError(w, "Server error")
		return
	}

	if post.AuthorID != actingUserID(r) {
		httputil.WriteForbidden(w, "You do not own this post")
		return
	}

	start = time.Now()
	err = s.store.DeleteCommunityPost(r.Context(), id)
	s.observe("DeleteCommunityPost", start, err)
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("delete post failed")
		httputil.WriteInternalError(w, "Server error")
		return
	}

	httputil.WriteSuccessMessage(w, "Post deleted successfully")
}

type createPostCommentRequest struct {
	Comment string `json:"comment"`
}

// handleCreatePostComment comments on a board post
func (s *Server) handleCreatePostComment(w http.ResponseWriter, r *http.Request) {
	postID, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	var req createPostCommentRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	body := strings.TrimSpace(req.Comment)
	if body == "" {
		httputil.WriteValidationError(w, "Comment cannot be empty")
		return
	}

	start := time.Now()
	_, err := s.store.GetCommunityPost(r.Context(), postID)
	s.observe("GetCommunityPost", start, err)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httputil.WriteNotFoundError(w, "Post not found")
			return
		}
		observability.FromContext(r.Context()).WithError(err).Error("create post comment: post lookup failed")
		httputil.WriteInternalError(w, "Server error")
		return
	}

	comment := &PostComment{
		ID:       uuid.NewString(),
		PostID:   postID,
		AuthorID: actingUserID(r),
		Body:     body,
	}

	start = time.Now()
	err = s.store.CreatePostComment(r.Context(), comment)
	s.observe("CreatePostComment", start, err)
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("create post comment failed")
		httputil.WriteInternalError(w, "Server error")
		return
	}

	if author, err := s.store.GetUserByID(r.Context(), comment.AuthorID); err == nil {
		comment.Author = author.Summary()
	}

	httputil.WriteCreated(w, PostCommentResponse{
		Success: true,
		Message: "Comment added successfully",
		Comment: comment,
	})
}

// handleGetPostComments lists a board post's comments, oldest first
func (s *Server) handleGetPostComments(w http.ResponseWriter, r *http.Request) {
	postID, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	start := time.Now()
	comments, err := s.store.ListPostComments(r.Context(), postID)
	s.observe("ListPostComments", start, err)
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("list post comments failed")
		httputil.WriteInternalError(w, "Server error")
		return
	}

	httputil.WriteSuccess(w, PostCommentsResponse{Success: true, Comments: comments})
}
