package persistence

import (
	"context"
	"errors"

	"github.com/agrimarket/backend/internal/domain/community"
	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormForumPostRepository implements ForumPostRepository using GORM
type GormForumPostRepository struct {
	*GormRepository[community.ForumPost]
}

var _ community.ForumPostRepository = (*GormForumPostRepository)(nil)

// NewGormForumPostRepository creates a new GormForumPostRepository
func NewGormForumPostRepository(db *gorm.DB) *GormForumPostRepository {
	return &GormForumPostRepository{GormRepository: NewGormRepository[community.ForumPost](db)}
}

// FindRootPosts finds visible top-level posts, newest first
func (r *GormForumPostRepository) FindRootPosts(ctx context.Context, filter shared.Filter) (shared.Paginated[community.ForumPost], error) {
	return r.paginateForum(ctx, filter, "parent_id IS NULL AND status = ?", community.ForumPostStatusVisible)
}

// FindByIDWithReplies finds a post with its visible replies preloaded
func (r *GormForumPostRepository) FindByIDWithReplies(ctx context.Context, id uuid.UUID) (*community.ForumPost, error) {
	var post community.ForumPost
	if err := r.DB().WithContext(ctx).
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", community.ForumPostStatusVisible).Order("created_at ASC")
		}).
		First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// FindByUser finds a user's posts and replies, newest first
func (r *GormForumPostRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (shared.Paginated[community.ForumPost], error) {
	return r.paginateForum(ctx, filter, "user_id = ?", userID)
}

func (r *GormForumPostRepository) paginateForum(ctx context.Context, filter shared.Filter, condition string, args ...any) (shared.Paginated[community.ForumPost], error) {
	filter.Normalize()

	var total int64
	if err := r.DB().WithContext(ctx).Model(&community.ForumPost{}).
		Where(condition, args...).
		Count(&total).Error; err != nil {
		return shared.Paginated[community.ForumPost]{}, err
	}

	var posts []community.ForumPost
	if err := r.DB().WithContext(ctx).
		Where(condition, args...).
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&posts).Error; err != nil {
		return shared.Paginated[community.ForumPost]{}, err
	}

	return shared.NewPaginated(posts, total, filter.Page, filter.PageSize), nil
}

// Hide marks a post hidden without deleting it
func (r *GormForumPostRepository) Hide(ctx context.Context, id uuid.UUID) error {
	result := r.DB().WithContext(ctx).Model(&community.ForumPost{}).
		Where("id = ?", id).
		Update("status", community.ForumPostStatusHidden)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormBlogPostRepository implements BlogPostRepository using GORM
type GormBlogPostRepository struct {
	*GormRepository[community.BlogPost]
}

var _ community.BlogPostRepository = (*GormBlogPostRepository)(nil)

// NewGormBlogPostRepository creates a new GormBlogPostRepository
func NewGormBlogPostRepository(db *gorm.DB) *GormBlogPostRepository {
	return &GormBlogPostRepository{GormRepository: NewGormRepository[community.BlogPost](db)}
}

// FindBySlug finds a post by its unique slug
func (r *GormBlogPostRepository) FindBySlug(ctx context.Context, slug string) (*community.BlogPost, error) {
	var post community.BlogPost
	if err := r.DB().WithContext(ctx).
		Where("slug = ?", slug).
		First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// FindPublished finds published posts, most recently published first
func (r *GormBlogPostRepository) FindPublished(ctx context.Context, filter shared.Filter) (shared.Paginated[community.BlogPost], error) {
	return r.paginateBlog(ctx, filter, "published_at DESC", "status = ?", community.BlogPostStatusPublished)
}

// FindByAuthor finds an author's posts in any state, newest first
func (r *GormBlogPostRepository) FindByAuthor(ctx context.Context, authorID uuid.UUID, filter shared.Filter) (shared.Paginated[community.BlogPost], error) {
	return r.paginateBlog(ctx, filter, "created_at DESC", "author_id = ?", authorID)
}

func (r *GormBlogPostRepository) paginateBlog(ctx context.Context, filter shared.Filter, orderBy string, condition string, args ...any) (shared.Paginated[community.BlogPost], error) {
	filter.Normalize()

	var total int64
	if err := r.DB().WithContext(ctx).Model(&community.BlogPost{}).
		Where(condition, args...).
		Count(&total).Error; err != nil {
		return shared.Paginated[community.BlogPost]{}, err
	}

	var posts []community.BlogPost
	if err := r.DB().WithContext(ctx).
		Where(condition, args...).
		Order(orderBy).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&posts).Error; err != nil {
		return shared.Paginated[community.BlogPost]{}, err
	}

	return shared.NewPaginated(posts, total, filter.Page, filter.PageSize), nil
}

// GormChatbotRepository implements ChatbotRepository using GORM
type GormChatbotRepository struct {
	db *gorm.DB
}

var _ community.ChatbotRepository = (*GormChatbotRepository)(nil)

// NewGormChatbotRepository creates a new GormChatbotRepository
func NewGormChatbotRepository(db *gorm.DB) *GormChatbotRepository {
	return &GormChatbotRepository{db: db}
}

// FindConversationBySession finds a session's conversation with messages
// preloaded in turn order
func (r *GormChatbotRepository) FindConversationBySession(ctx context.Context, sessionKey string) (*community.ChatbotConversation, error) {
	var conversation community.ChatbotConversation
	if err := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("session_key = ?", sessionKey).
		First(&conversation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &conversation, nil
}

// FindConversationsByUser finds a user's conversations, newest first
func (r *GormChatbotRepository) FindConversationsByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (shared.Paginated[community.ChatbotConversation], error) {
	filter.Normalize()

	var total int64
	if err := r.db.WithContext(ctx).Model(&community.ChatbotConversation{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return shared.Paginated[community.ChatbotConversation]{}, err
	}

	var conversations []community.ChatbotConversation
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&conversations).Error; err != nil {
		return shared.Paginated[community.ChatbotConversation]{}, err
	}

	return shared.NewPaginated(conversations, total, filter.Page, filter.PageSize), nil
}

// SaveConversation inserts or updates a conversation
func (r *GormChatbotRepository) SaveConversation(ctx context.Context, conversation *community.ChatbotConversation) error {
	return r.db.WithContext(ctx).Omit("Messages").Save(conversation).Error
}

// AppendMessage appends one turn to a conversation
func (r *GormChatbotRepository) AppendMessage(ctx context.Context, message *community.ChatbotMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// FindMessages returns a conversation's messages in turn order
func (r *GormChatbotRepository) FindMessages(ctx context.Context, conversationID uuid.UUID) ([]community.ChatbotMessage, error) {
	var messages []community.ChatbotMessage
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}
