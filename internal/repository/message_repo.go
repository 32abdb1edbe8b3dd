//go:generate go run go.uber.org/mock/mockgen -source=message_repo.go -destination=mocks/mock_message_repository.go -package=mocks
package repository

import (
	"context"

	"github.com/mmuslimabdulj/shop-chat-relay/internal/domain"
)

// MessageRepository is the external store the relay persists through.
// RecentMessages returns at most limit messages of room, oldest first.
type MessageRepository interface {
	InsertMessage(ctx context.Context, msg domain.NewMessage) (domain.ChatMessage, error)
	RecentMessages(ctx context.Context, room string, limit int) ([]domain.ChatMessage, error)
}
