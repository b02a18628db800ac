package community

import (
	"regexp"
	"strings"
	"time"

	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BlogPostStatus represents the publication state of a blog post
type BlogPostStatus string

const (
	BlogPostStatusDraft     BlogPostStatus = "DRAFT"
	BlogPostStatusPublished BlogPostStatus = "PUBLISHED"
	BlogPostStatusArchived  BlogPostStatus = "ARCHIVED"
)

// IsValid checks if the status is valid
func (s BlogPostStatus) IsValid() bool {
	switch s {
	case BlogPostStatusDraft, BlogPostStatusPublished, BlogPostStatusArchived:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s BlogPostStatus) CanTransitionTo(target BlogPostStatus) bool {
	switch s {
	case BlogPostStatusDraft:
		return target == BlogPostStatusPublished || target == BlogPostStatusArchived
	case BlogPostStatusPublished:
		return target == BlogPostStatusArchived
	case BlogPostStatusArchived:
		return target == BlogPostStatusPublished
	}
	return false
}

var slugStripper = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the title and collapses non-alphanumeric runs to hyphens
func Slugify(title string) string {
	s := slugStripper.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(s, "-")
}

// BlogPost is an editorial article written by staff or vendors
type BlogPost struct {
	shared.BaseEntity
	AuthorID    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Title       string         `gorm:"type:varchar(200);not null"`
	Slug        string         `gorm:"type:varchar(220);not null;uniqueIndex"`
	Summary     string         `gorm:"type:varchar(500)"`
	Content     string         `gorm:"type:text;not null"`
	Tags        string         `gorm:"type:jsonb;default:'[]'"`
	Status      BlogPostStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	PublishedAt *time.Time
}

// TableName returns the table name for GORM
func (BlogPost) TableName() string {
	return "blog_posts"
}

// NewBlogPost creates a new draft post with a slug derived from the title
func NewBlogPost(authorID uuid.UUID, title, summary, content string) (*BlogPost, error) {
	if authorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AUTHOR", "Author ID cannot be empty")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if content == "" {
		return nil, shared.NewDomainError("INVALID_CONTENT", "Content cannot be empty")
	}
	slug := Slugify(title)
	if slug == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title does not produce a usable slug")
	}
	return &BlogPost{
		BaseEntity: shared.NewBaseEntity(),
		AuthorID:   authorID,
		Title:      title,
		Slug:       slug,
		Summary:    summary,
		Content:    content,
		Tags:       "[]",
		Status:     BlogPostStatusDraft,
	}, nil
}

// Publish moves the post to PUBLISHED and stamps the publication time
func (p *BlogPost) Publish() error {
	if !p.Status.CanTransitionTo(BlogPostStatusPublished) {
		return shared.NewDomainError("INVALID_BLOG_TRANSITION", "Post cannot be published from its current state")
	}
	p.Status = BlogPostStatusPublished
	if p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}
	p.Touch()
	return nil
}

// Archive moves the post to ARCHIVED
func (p *BlogPost) Archive() error {
	if !p.Status.CanTransitionTo(BlogPostStatusArchived) {
		return shared.NewDomainError("INVALID_BLOG_TRANSITION", "Post cannot be archived from its current state")
	}
	p.Status = BlogPostStatusArchived
	p.Touch()
	return nil
}
