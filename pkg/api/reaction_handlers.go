package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/devlink-social/devlink/pkg/httputil"
	"github.com/devlink-social/devlink/pkg/observability"
	"github.com/devlink-social/devlink/pkg/storage"
)

// handleSetLike moves the acting identity into the liked state for the
// target profile. Self-likes and repeated likes are rejected before and by
// the state transition respectively; there is no way back to neutral.
func (s *Server) handleSetLike(w http.ResponseWriter, r *http.Request) {
	targetID, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}
	actorID := actingUserID(r)

	if targetID == actorID {
		httputil.WriteValidationError(w, "You can't like your own profile")
		return
	}

	start := time.Now()
	err := s.store.SetReaction(r.Context(), targetID, actorID, ReactionLike)
	s.observe("SetReaction", start, err)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyReacted) {
			httputil.WriteValidationError(w, "You already liked this user")
			return
		}
		observability.FromContext(r.Context()).WithError(err).Error("set like failed")
		httputil.WriteInternalError(w, "Server error")
		return
	}

	httputil.WriteSuccessMessage(w, "Successfully liked user")
}

// handleSetDislike is the symmetric transition into the disliked state
func (s *Server) handleSetDislike(w http.ResponseWriter, r *http.Request) {
	targetID, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}
	actorID := actingUserID(r)

	if targetID == actorID {
		httputil.WriteValidationError(w, "You can't dislike your own profile")
		return
	}

	start := time.Now()
	err := s.store.SetReaction(r.Context(), targetID, actorID, ReactionDislike)
	s.observe("SetReaction", start, err)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyReacted) {
			httputil.WriteValidationError(w, "You already disliked this profile")
			return
		}
		observability.FromContext(r.Context()).WithError(err).Error("set dislike failed")
		httputil.WriteInternalError(w, "Server error")
		return
	}

	httputil.WriteSuccessMessage(w, "Successfully disliked the user")
}

// handleGetLikes returns the like set for a profile. A target nobody has
// reacted to reports an empty set, not an error.
func (s *Server) handleGetLikes(w http.ResponseWriter, r *http.Request) {
	targetID, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	start := time.Now()
	actors, err := s.store.ListReactions(r.Context(), targetID, ReactionLike)
	s.observe("ListReactions", start, err)
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("list likes failed")
		httputil.WriteInternalError(w, "Server error")
		return
	}

	httputil.WriteSuccess(w, LikesResponse{
		Success:   true,
		LikedBy:   actors,
		LikeCount: len(actors),
	})
}

// handleGetDislikes returns the dislike set for a profile
func (s *Server) handleGetDislikes(w http.ResponseWriter, r *http.Request) {
	targetID, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	start := time.Now()
	actors, err := s.store.ListReactions(r.Context(), targetID, ReactionDislike)
	s.observe("ListReactions", start, err)
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("list dislikes failed")
		httputil.WriteInternalError(w, "Server error")
		return
	}

	httputil.WriteSuccess(w, DislikesResponse{
		Success:      true,
		DislikedBy:   actors,
		DislikeCount: len(actors),
	})
}
