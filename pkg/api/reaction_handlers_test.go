package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setReaction(srv *Server, cookie *http.Cookie, kind, targetID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/likedislike/set"+kind+"/"+targetID, nil)
	req.AddCookie(cookie)
	return doRequest(srv, req)
}

func getLikes(t *testing.T, srv *Server, targetID string) LikesResponse {
	t.Helper()
	rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/likedislike/getlikes/"+targetID, nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp LikesResponse
	decodeJSON(t, rec, &resp)
	return resp
}

func getDislikes(t *testing.T, srv *Server, targetID string) DislikesResponse {
	t.Helper()
	rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/likedislike/getdislikes/"+targetID, nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp DislikesResponse
	decodeJSON(t, rec, &resp)
	return resp
}

func TestReactions(t *testing.T) {
	srv, store := newTestServer(t)
	adaID, adaCookie := signupUser(t, srv, store, "Ada", "ada@example.com")
	alanID, _ := signupUser(t, srv, store, "Alan", "alan@example.com")

	t.Run("self reaction is rejected", func(t *testing.T) {
		rec := setReaction(srv, adaCookie, "like", adaID)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "You can't like your own profile")

		rec = setReaction(srv, adaCookie, "dislike", adaID)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "You can't dislike your own profile")
	})

	t.Run("like then repeated like", func(t *testing.T) {
		rec := setReaction(srv, adaCookie, "like", alanID)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), "Successfully liked user")

		rec = setReaction(srv, adaCookie, "like", alanID)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "You already liked this user")

		likes := getLikes(t, srv, alanID)
		assert.Equal(t, []string{adaID}, likes.LikedBy)
		assert.Equal(t, 1, likes.LikeCount)
	})

	t.Run("dislike replaces the like", func(t *testing.T) {
		rec := setReaction(srv, adaCookie, "dislike", alanID)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), "Successfully disliked the user")

		likes := getLikes(t, srv, alanID)
		assert.Empty(t, likes.LikedBy, "an actor is never in both sets")
		assert.Equal(t, 0, likes.LikeCount)

		dislikes := getDislikes(t, srv, alanID)
		assert.Equal(t, []string{adaID}, dislikes.DislikedBy)
		assert.Equal(t, 1, dislikes.DislikeCount)
	})

	t.Run("repeated dislike is rejected", func(t *testing.T) {
		rec := setReaction(srv, adaCookie, "dislike", alanID)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "You already disliked this profile")
	})

	t.Run("requires a session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/likedislike/setlike/"+alanID, nil)
		rec := doRequest(srv, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

// The read side reports empty sets, never an error, for targets nobody has
// reacted to. The arrays must serialize even when empty.
func TestGetReactionsEmpty(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/likedislike/getlikes/unknown", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"likedBy":[]`)
	assert.Contains(t, rec.Body.String(), `"likeCount":0`)

	rec = doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/likedislike/getdislikes/unknown", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"dislikedBy":[]`)
	assert.Contains(t, rec.Body.String(), `"dislikeCount":0`)
}
