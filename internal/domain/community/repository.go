package community

import (
	"context"

	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ForumPostRepository defines persistence operations for forum posts
type ForumPostRepository interface {
	shared.Repository[ForumPost]
	FindRootPosts(ctx context.Context, filter shared.Filter) (shared.Paginated[ForumPost], error)
	FindByIDWithReplies(ctx context.Context, id uuid.UUID) (*ForumPost, error)
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (shared.Paginated[ForumPost], error)
	Hide(ctx context.Context, id uuid.UUID) error
}

// BlogPostRepository defines persistence operations for blog posts
type BlogPostRepository interface {
	shared.Repository[BlogPost]
	FindBySlug(ctx context.Context, slug string) (*BlogPost, error)
	FindPublished(ctx context.Context, filter shared.Filter) (shared.Paginated[BlogPost], error)
	FindByAuthor(ctx context.Context, authorID uuid.UUID, filter shared.Filter) (shared.Paginated[BlogPost], error)
}

// ChatbotRepository defines persistence operations for chatbot sessions
type ChatbotRepository interface {
	FindConversationBySession(ctx context.Context, sessionKey string) (*ChatbotConversation, error)
	FindConversationsByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (shared.Paginated[ChatbotConversation], error)
	SaveConversation(ctx context.Context, conversation *ChatbotConversation) error
	AppendMessage(ctx context.Context, message *ChatbotMessage) error
	FindMessages(ctx context.Context, conversationID uuid.UUID) ([]ChatbotMessage, error)
}
