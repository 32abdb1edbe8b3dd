package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/mmuslimabdulj/shop-chat-relay/internal/domain"
)

// BadgerMessageRepository stores messages in an embedded BadgerDB.
// Keys are "msg:{len(room)}:{room}:{unix_nano padded to 19 digits}:{id}" so a
// prefix scan walks exactly one room in chronological order. The length keeps
// room "shop" from matching keys of room "shop:vip".
type BadgerMessageRepository struct {
	db   *badger.DB
	mu   sync.Mutex
	last time.Time
}

// OpenBadger opens (or creates) a BadgerDB directory at path
func OpenBadger(path string) (*badger.DB, error) {
	return badger.Open(badger.DefaultOptions(path).WithLoggingLevel(badger.ERROR))
}

func NewBadgerMessageRepository(db *badger.DB) *BadgerMessageRepository {
	return &BadgerMessageRepository{db: db}
}

func roomPrefix(room string) []byte {
	return []byte(fmt.Sprintf("msg:%d:%s:", len(room), room))
}

func messageKey(msg domain.ChatMessage) []byte {
	return []byte(fmt.Sprintf("%s%019d:%s", roomPrefix(msg.Room), msg.CreatedAt.UnixNano(), msg.ID))
}

func (r *BadgerMessageRepository) nextTimestamp() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if !now.After(r.last) {
		now = r.last.Add(time.Nanosecond)
	}
	r.last = now
	return now
}

func (r *BadgerMessageRepository) InsertMessage(ctx context.Context, msg domain.NewMessage) (domain.ChatMessage, error) {
	if err := ctx.Err(); err != nil {
		return domain.ChatMessage{}, err
	}

	saved := domain.ChatMessage{
		ID:          uuid.NewString(),
		Text:        msg.Text,
		Sender:      msg.Sender,
		Room:        msg.Room,
		MessageType: msg.MessageType,
		CreatedAt:   r.nextTimestamp(),
	}

	value, err := json.Marshal(saved)
	if err != nil {
		return domain.ChatMessage{}, err
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(messageKey(saved), value)
	})
	if err != nil {
		return domain.ChatMessage{}, err
	}
	return saved, nil
}

// RecentMessages scans the room backwards from its newest key and returns
// the collected messages oldest first.
func (r *BadgerMessageRepository) RecentMessages(ctx context.Context, room string, limit int) ([]domain.ChatMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []domain.ChatMessage{}, nil
	}

	newestFirst := make([]domain.ChatMessage, 0, limit)
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := roomPrefix(room)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		options.Prefix = prefix
		it := txn.NewIterator(options)
		defer it.Close()

		// '~' sorts after every digit, so this lands on the newest key
		seekKey := append(append([]byte{}, prefix...), '~')
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if len(newestFirst) == limit {
				break
			}
			err := it.Item().Value(func(value []byte) error {
				var msg domain.ChatMessage
				if err := json.Unmarshal(value, &msg); err != nil {
					return err
				}
				newestFirst = append(newestFirst, msg)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	messages := make([]domain.ChatMessage, len(newestFirst))
	for i, msg := range newestFirst {
		messages[len(newestFirst)-1-i] = msg
	}
	return messages, nil
}

// Close releases the underlying BadgerDB
func (r *BadgerMessageRepository) Close() error {
	return r.db.Close()
}
