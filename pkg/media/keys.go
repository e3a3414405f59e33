package media

import "github.com/google/uuid"

// Object keys group media by kind. Profile re-uploads overwrite a stable
// per-user key so stale avatars do not pile up; project images get a fresh
// key each time because projects are immutable once created.

// NewProfileImageKey returns a fresh key for a signup avatar
func NewProfileImageKey() string {
	return "profiles/" + uuid.NewString()
}

// ProfileImageKey returns the stable re-upload key for a user's avatar
func ProfileImageKey(userID string) string {
	return "profiles/" + userID + "_profile"
}

// NewProjectImageKey returns a fresh key for a project screenshot
func NewProjectImageKey() string {
	return "projects/" + uuid.NewString()
}
