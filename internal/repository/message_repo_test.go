package repository

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/mmuslimabdulj/shop-chat-relay/internal/domain"
)

// exerciseRepository runs the same contract checks against any implementation
func exerciseRepository(t *testing.T, repo MessageRepository, room string) {
	t.Helper()
	ctx := context.Background()

	t.Run("insert assigns id and created_at", func(t *testing.T) {
		req := require.New(t)
		saved, err := repo.InsertMessage(ctx, domain.NewMessage{
			Text: "hi", Sender: "bob", Room: room, MessageType: domain.MessageTypeMessage,
		})
		req.NoError(err)
		req.NotEmpty(saved.ID)
		req.False(saved.CreatedAt.IsZero())
		req.Equal("hi", saved.Text)
		req.Equal("bob", saved.Sender)
		req.Equal(room, saved.Room)
		req.Equal(domain.MessageTypeMessage, saved.MessageType)
	})

	t.Run("recent messages are the newest, oldest first", func(t *testing.T) {
		req := require.New(t)
		for _, text := range []string{"one", "two", "three", "four"} {
			_, err := repo.InsertMessage(ctx, domain.NewMessage{
				Text: text, Sender: "alice", Room: room, MessageType: domain.MessageTypeMessage,
			})
			req.NoError(err)
		}

		recent, err := repo.RecentMessages(ctx, room, 3)
		req.NoError(err)
		req.Equal([]string{"two", "three", "four"}, texts(recent))
		for i := 1; i < len(recent); i++ {
			req.True(recent[i-1].CreatedAt.Before(recent[i].CreatedAt))
		}
	})

	t.Run("rooms are isolated", func(t *testing.T) {
		req := require.New(t)
		_, err := repo.InsertMessage(ctx, domain.NewMessage{
			Text: "elsewhere", Sender: "carol", Room: room + "-other", MessageType: domain.MessageTypeJoin,
		})
		req.NoError(err)

		recent, err := repo.RecentMessages(ctx, room, 50)
		req.NoError(err)
		req.NotContains(texts(recent), "elsewhere")
	})

	t.Run("room name prefixes do not leak", func(t *testing.T) {
		req := require.New(t)
		_, err := repo.InsertMessage(ctx, domain.NewMessage{Text: "mine", Room: "shop", MessageType: domain.MessageTypeMessage})
		req.NoError(err)
		_, err = repo.InsertMessage(ctx, domain.NewMessage{Text: "leaked", Room: "shop:vip", MessageType: domain.MessageTypeMessage})
		req.NoError(err)

		recent, err := repo.RecentMessages(ctx, "shop", 50)
		req.NoError(err)
		req.Contains(texts(recent), "mine")
		req.NotContains(texts(recent), "leaked")

		vip, err := repo.RecentMessages(ctx, "shop:vip", 50)
		req.NoError(err)
		req.Contains(texts(vip), "leaked")
		req.NotContains(texts(vip), "mine")
	})

	t.Run("unknown room is empty not nil", func(t *testing.T) {
		recent, err := repo.RecentMessages(ctx, "nobody-here", 50)
		require.NoError(t, err)
		require.NotNil(t, recent)
		require.Empty(t, recent)
	})
}

func TestMemoryMessageRepository(t *testing.T) {
	exerciseRepository(t, NewMemoryMessageRepository(0), "general")
}

func TestMemoryMessageRepository_CapacityBoundsHistory(t *testing.T) {
	req := require.New(t)
	repo := NewMemoryMessageRepository(2)
	ctx := context.Background()

	for _, text := range []string{"a", "b", "c"} {
		_, err := repo.InsertMessage(ctx, domain.NewMessage{Text: text, Room: "general"})
		req.NoError(err)
	}

	recent, err := repo.RecentMessages(ctx, "general", 50)
	req.NoError(err)
	req.Equal([]string{"b", "c"}, texts(recent))
}

func TestBadgerMessageRepository(t *testing.T) {
	db, err := OpenBadger(t.TempDir())
	require.NoError(t, err)
	repo := NewBadgerMessageRepository(db)
	defer repo.Close()

	exerciseRepository(t, repo, "general")
}

func TestBadgerMessageRepository_SurvivesReopen(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	ctx := context.Background()

	db, err := OpenBadger(dir)
	req.NoError(err)
	repo := NewBadgerMessageRepository(db)
	saved, err := repo.InsertMessage(ctx, domain.NewMessage{Text: "kept", Sender: "bob", Room: "general"})
	req.NoError(err)
	req.NoError(repo.Close())

	db, err = OpenBadger(dir)
	req.NoError(err)
	repo = NewBadgerMessageRepository(db)
	defer repo.Close()

	recent, err := repo.RecentMessages(ctx, "general", 50)
	req.NoError(err)
	req.Len(recent, 1)
	req.Equal(saved.ID, recent[0].ID)
	req.True(saved.CreatedAt.Equal(recent[0].CreatedAt))
}

func TestBadgerMessageRepository_CancelledContext(t *testing.T) {
	db, err := OpenBadger(t.TempDir())
	require.NoError(t, err)
	repo := NewBadgerMessageRepository(db)
	defer repo.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = repo.InsertMessage(ctx, domain.NewMessage{Text: "late"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestPgMessageRepository(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	repo := NewPgMessageRepository(pool)
	require.NoError(t, repo.EnsureSchema(ctx))

	room := "test-" + t.Name()
	_, err = pool.Exec(ctx, "DELETE FROM messages WHERE room LIKE $1", room+"%")
	require.NoError(t, err)

	exerciseRepository(t, repo, room)
}
