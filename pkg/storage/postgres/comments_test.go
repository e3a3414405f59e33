package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devlink-social/devlink/pkg/api"
)

func TestCreateComment(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectQuery("INSERT INTO profile_comments").
		WithArgs("c1", "sender", "receiver", "great work").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	comment := &api.Comment{
		ID:         "c1",
		SenderID:   "sender",
		ReceiverID: "receiver",
		Content:    "great work",
	}
	err := s.CreateComment(context.Background(), comment)
	require.NoError(t, err)
	assert.False(t, comment.CreatedAt.IsZero())
}

func TestListCommentsForUser(t *testing.T) {
	t.Run("senders populated, orphans nil", func(t *testing.T) {
		s, mock := newMockStorage(t)

		mock.ExpectQuery("SELECT (.+) FROM profile_comments").
			WithArgs("receiver").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "sender_id", "receiver_id", "content", "created_at",
				"u_id", "u_name", "u_profile_pic",
			}).
				AddRow("c1", "sender", "receiver", "great work", time.Now(), "sender", "Ada", "pic").
				AddRow("c2", "gone", "receiver", "older note", time.Now(), nil, nil, nil))

		comments, err := s.ListCommentsForUser(context.Background(), "receiver")
		require.NoError(t, err)
		require.Len(t, comments, 2)
		require.NotNil(t, comments[0].Sender)
		assert.Equal(t, "Ada", comments[0].Sender.Name)
		assert.Nil(t, comments[1].Sender)
	})

	t.Run("no comments yields an empty slice", func(t *testing.T) {
		s, mock := newMockStorage(t)

		mock.ExpectQuery("SELECT (.+) FROM profile_comments").
			WithArgs("receiver").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "sender_id", "receiver_id", "content", "created_at",
				"u_id", "u_name", "u_profile_pic",
			}))

		comments, err := s.ListCommentsForUser(context.Background(), "receiver")
		require.NoError(t, err)
		require.NotNil(t, comments)
		assert.Empty(t, comments)
	})
}
