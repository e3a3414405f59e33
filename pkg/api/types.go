package api

import (
	"context"
	"time"
)

// User is a registered identity. The password hash never serializes.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	ProfilePic   string    `json:"profilePic"`
	Description  string    `json:"description,omitempty"`
	Portfolio    string    `json:"portfolio,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserSummary is the slice of a user embedded in comments and posts
type UserSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ProfilePic string `json:"profilePic"`
}

// Summary projects a user onto its embeddable form
func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:         u.ID,
		Name:       u.Name,
		ProfilePic: u.ProfilePic,
	}
}

// Project is a portfolio project. OwnerID is set at creation and immutable;
// every authorization decision about the project compares against it.
type Project struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"userID"`
	Name        string    `json:"projectName"`
	Description string    `json:"projectDescription,omitempty"`
	Image       string    `json:"projectImage,omitempty"`
	Link        string    `json:"projectLink,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Comment is a comment left on a user's profile
type Comment struct {
	ID         string       `json:"id"`
	SenderID   string       `json:"-"`
	ReceiverID string       `json:"receiver"`
	Content    string       `json:"content"`
	CreatedAt  time.Time    `json:"createdAt"`
	Sender     *UserSummary `json:"sender,omitempty"`
}

// CommunityPost is a post on the community board
type CommunityPost struct {
	ID        string       `json:"id"`
	AuthorID  string       `json:"-"`
	Title     string       `json:"title"`
	Body      string       `json:"post"`
	CreatedAt time.Time    `json:"createdAt"`
	Author    *UserSummary `json:"postedBy,omitempty"`
}

// PostComment is a comment on a community post
type PostComment struct {
	ID        string       `json:"id"`
	PostID    string       `json:"postId"`
	AuthorID  string       `json:"-"`
	Body      string       `json:"comment"`
	CreatedAt time.Time    `json:"createdAt"`
	Author    *UserSummary `json:"commentBy,omitempty"`
}

// ReactionKind is the direction of a profile reaction
type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

// Storage is the persistence contract the API server is built against.
// Implementations map their driver errors to the sentinel errors in
// pkg/storage so handlers can translate them to HTTP statuses.
type Storage interface {
	// Users
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateUser(ctx context.Context, user *User) error
	DeleteUser(ctx context.Context, id string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	SearchUsersByName(ctx context.Context, prefix string) ([]*User, error)

	// Projects
	CreateProject(ctx context.Context, project *Project) error
	GetProject(ctx context.Context, id string) (*Project, error)
	ListProjectsByOwner(ctx context.Context, ownerID string) ([]*Project, error)
	ListProjects(ctx context.Context) ([]*Project, error)
	DeleteProject(ctx context.Context, id string) error

	// Profile comments
	CreateComment(ctx context.Context, comment *Comment) error
	ListCommentsForUser(ctx context.Context, receiverID string) ([]*Comment, error)

	// Profile reactions
	SetReaction(ctx context.Context, targetID, actorID string, kind ReactionKind) error
	ListReactions(ctx context.Context, targetID string, kind ReactionKind) ([]string, error)
	GetReaction(ctx context.Context, targetID, actorID string) (ReactionKind, error)

	// Community board
	CreateCommunityPost(ctx context.Context, post *CommunityPost) error
	GetCommunityPost(ctx context.Context, id string) (*CommunityPost, error)
	ListCommunityPosts(ctx context.Context) ([]*CommunityPost, error)
	DeleteCommunityPost(ctx context.Context, id string) error
	CreatePostComment(ctx context.Context, comment *PostComment) error
	ListPostComments(ctx context.Context, postID string) ([]*PostComment, error)
}

// Response envelopes. Every payload-carrying response still reports the
// success flag and, where useful, a message.

// UserResponse wraps a single user
type UserResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	User    *User  `json:"user"`
}

// UsersResponse wraps a list of users
type UsersResponse struct {
	Success bool    `json:"success"`
	Users   []*User `json:"users"`
}

// ProfilesResponse wraps the all-profiles listing
type ProfilesResponse struct {
	Success  bool    `json:"success"`
	Profiles []*User `json:"profiles"`
}

// AuthStatusResponse answers the soft session probe
type AuthStatusResponse struct {
	IsAuthenticated bool         `json:"isAuthenticated"`
	User            *UserSummary `json:"user,omitempty"`
}

// ProjectResponse wraps a single project
type ProjectResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Data    *Project `json:"data"`
}

// ProjectsResponse wraps a list of projects
type ProjectsResponse struct {
	Success  bool       `json:"success"`
	Projects []*Project `json:"projects"`
}

// CommentResponse wraps a single profile comment
type CommentResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Comment *Comment `json:"comment"`
}

// CommentsResponse wraps a list of profile comments
type CommentsResponse struct {
	Success  bool       `json:"success"`
	Message  string     `json:"message,omitempty"`
	Comments []*Comment `json:"comment"`
}

// LikesResponse wraps the like set of a target profile. The fields never
// omit: an unknown target reports an empty set and a zero count.
type LikesResponse struct {
	Success   bool     `json:"success"`
	LikedBy   []string `json:"likedBy"`
	LikeCount int      `json:"likeCount"`
}

// DislikesResponse wraps the dislike set of a target profile
type DislikesResponse struct {
	Success      bool     `json:"success"`
	DislikedBy   []string `json:"dislikedBy"`
	DislikeCount int      `json:"dislikeCount"`
}

// PostResponse wraps a single community post
type PostResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Post    *CommunityPost `json:"post"`
}

// PostsResponse wraps the community board listing
type PostsResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message,omitempty"`
	Posts   []*CommunityPost `json:"posts"`
}

// PostCommentResponse wraps a single community post comment
type PostCommentResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Comment *PostComment `json:"comment"`
}

// PostCommentsResponse wraps the comments of a community post
type PostCommentsResponse struct {
	Success  bool           `json:"success"`
	Comments []*PostComment `json:"comments"`
}

// OwnershipResponse answers the advisory ownership probe. The result is
// informational only; delete handlers re-check ownership themselves.
type OwnershipResponse struct {
	Success bool `json:"success"`
	IsOwner bool `json:"isOwner"`
}
