package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/devlink-social/devlink/pkg/httputil"
	"github.com/devlink-social/devlink/pkg/observability"
	"github.com/devlink-social/devlink/pkg/storage"
)

type addCommentRequest struct {
	Content string `json:"content"`
}

// handleAddComment leaves a comment on another user's profile. Commenting
// on your own profile is rejected before any write.
func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	targetID, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}
	actorID := actingUserID(r)

	var req addCommentRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		httputil.WriteValidationError(w, "Comment content cannot be empty")
		return
	}
	if targetID == actorID {
		httputil.WriteValidationError(w, "You cannot comment on your own profile")
		return
	}

	// The receiver must exist; dangling receiver ids would surface as
	// phantom profiles in the comment feed.
	start := time.Now()
	_, err := s.store.GetUserByID(r.Context(), targetID)
	s.observe("GetUserByID", start, err)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httputil.WriteNotFoundError(w, "User not found")
			return
		}
		observability.FromContext(r.Context()).WithError(err).Error("add comment: receiver lookup failed")
		httputil.WriteInternalError(w, "Internal server error")
		return
	}

	comment := &Comment{
		ID:         uuid.NewString(),
		SenderID:   actorID,
		ReceiverID: targetID,
		Content:    content,
	}

	start = time.Now()
	err = s.store.CreateComment(r.Context(), comment)
	s.observe("CreateComment", start, err)
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("add comment: insert failed")
		httputil.WriteInternalError(w, "Internal server error")
		return
	}

	// Echo the sender's summary so the client can render without refetching
	if sender, err := s.store.GetUserByID(r.Context(), actorID); err == nil {
		comment.Sender = sender.Summary()
	}

	httputil.WriteCreated(w, CommentResponse{
		Success: true,
		Message: "Comment added successfully",
		Comment: comment,
	})
}

// handleGetComments lists the comments received by a user, newest first
func (s *Server) handleGetComments(w http.ResponseWriter, r *http.Request) {
	targetID, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	start := time.Now()
	comments, err := s.store.ListCommentsForUser(r.Context(), targetID)
	s.observe("ListCommentsForUser", start, err)
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("list comments failed")
		httputil.WriteInternalError(w, "Internal server error")
		return
	}

	message := "Comments retrieved successfully"
	if len(comments) == 0 {
		message = "No comments found"
	}

	httputil.WriteSuccess(w, CommentsResponse{
		Success:  true,
		Message:  message,
		Comments: comments,
	})
}
