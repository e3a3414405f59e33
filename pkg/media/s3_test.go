package media

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectURL(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		key      string
		expected string
	}{
		{
			name: "public base URL wins",
			config: Config{
				Bucket:        "devlink-media",
				Region:        "us-east-1",
				PublicBaseURL: "https://cdn.devlink.example/",
			},
			key:      "profiles/abc",
			expected: "https://cdn.devlink.example/profiles/abc",
		},
		{
			name: "custom endpoint uses path style",
			config: Config{
				Bucket:   "devlink-media",
				Endpoint: "http://localhost:9000",
			},
			key:      "projects/xyz",
			expected: "http://localhost:9000/devlink-media/projects/xyz",
		},
		{
			name: "plain AWS virtual host",
			config: Config{
				Bucket: "devlink-media",
				Region: "eu-west-1",
			},
			key:      "profiles/abc",
			expected: "https://devlink-media.s3.eu-west-1.amazonaws.com/profiles/abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &S3Store{bucket: tt.config.Bucket, config: tt.config}
			assert.Equal(t, tt.expected, store.ObjectURL(tt.key))
		})
	}
}

func TestObjectKeys(t *testing.T) {
	t.Run("profile re-upload key is stable per user", func(t *testing.T) {
		key := ProfileImageKey("user-1")
		assert.Equal(t, "profiles/user-1_profile", key)
		assert.Equal(t, key, ProfileImageKey("user-1"))
	})

	t.Run("signup keys are unique", func(t *testing.T) {
		a := NewProfileImageKey()
		b := NewProfileImageKey()
		assert.True(t, strings.HasPrefix(a, "profiles/"))
		assert.NotEqual(t, a, b)
	})

	t.Run("project keys are unique", func(t *testing.T) {
		a := NewProjectImageKey()
		b := NewProjectImageKey()
		assert.True(t, strings.HasPrefix(a, "projects/"))
		assert.NotEqual(t, a, b)
	})
}
