package community

import (
	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ForumPostStatus controls visibility of a forum post
type ForumPostStatus string

const (
	ForumPostStatusVisible ForumPostStatus = "VISIBLE"
	ForumPostStatusHidden  ForumPostStatus = "HIDDEN"
)

// IsValid checks if the status is valid
func (s ForumPostStatus) IsValid() bool {
	return s == ForumPostStatusVisible || s == ForumPostStatusHidden
}

// ForumPost is a discussion post. Replies reference the root post through
// ParentID and form a single level of nesting.
type ForumPost struct {
	shared.BaseEntity
	UserID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ParentID *uuid.UUID      `gorm:"type:uuid;index"`
	Title    string          `gorm:"type:varchar(200)"`
	Content  string          `gorm:"type:text;not null"`
	Status   ForumPostStatus `gorm:"type:varchar(20);not null;default:'VISIBLE'"`
	Replies  []ForumPost     `gorm:"foreignKey:ParentID"`
}

// TableName returns the table name for GORM
func (ForumPost) TableName() string {
	return "forum_posts"
}

// NewForumPost creates a new root post. Root posts require a title.
func NewForumPost(userID uuid.UUID, title, content string) (*ForumPost, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if content == "" {
		return nil, shared.NewDomainError("INVALID_CONTENT", "Content cannot be empty")
	}
	return &ForumPost{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Title:      title,
		Content:    content,
		Status:     ForumPostStatusVisible,
	}, nil
}

// NewForumReply creates a reply to an existing post
func NewForumReply(userID, parentID uuid.UUID, content string) (*ForumPost, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if parentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARENT", "Parent post ID cannot be empty")
	}
	if content == "" {
		return nil, shared.NewDomainError("INVALID_CONTENT", "Content cannot be empty")
	}
	return &ForumPost{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		ParentID:   &parentID,
		Content:    content,
		Status:     ForumPostStatusVisible,
	}, nil
}
