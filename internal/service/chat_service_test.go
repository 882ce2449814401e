package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/classroom-api/internal/dto"
	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/repository"
	"github.com/noah-isme/classroom-api/internal/utils"
)

func setupChatService(t *testing.T) (*gorm.DB, *miniredis.Miniredis, ChatService, *recordingPublisher) {
	t.Helper()

	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)

	redisClient := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	db := setupServiceDB(t)
	events := &recordingPublisher{}
	svc := NewChatService(
		repository.NewChatRepository(db),
		repository.NewUserRepository(db),
		redisClient,
		"test",
		events,
		utils.NewValidator(),
		zerolog.Nop(),
	)
	return db, mini, svc, events
}

func TestChatServiceSendValidatesReceiver(t *testing.T) {
	db, _, svc, _ := setupChatService(t)
	ctx := context.Background()

	ann := createAccount(t, db, "Ann", models.RoleStudent)

	_, err := svc.Send(ctx, actorOf(ann), dto.ChatSendRequest{Receiver: ann.ID, Content: "hello me"})
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	require.Contains(t, validationErr.Fields, "receiver")

	_, err = svc.Send(ctx, actorOf(ann), dto.ChatSendRequest{Receiver: 999, Content: "hello"})
	require.ErrorIs(t, err, ErrAccountNotFound)

	_, err = svc.Send(ctx, actorOf(ann), dto.ChatSendRequest{Receiver: 999, Content: "<script>alert(1)</script>"})
	var validationErrs validator.ValidationErrors
	require.True(t, errors.As(err, &validationErrs))
}

func TestChatServiceSendSanitizesAndCaches(t *testing.T) {
	db, mini, svc, events := setupChatService(t)
	ctx := context.Background()

	ann := createAccount(t, db, "Ann", models.RoleStudent)
	ben := createAccount(t, db, "Ben", models.RoleTeacher)

	message, err := svc.Send(ctx, actorOf(ben), dto.ChatSendRequest{
		Receiver: ann.ID,
		Content:  "<script>alert(1)</script>see you <b>soon</b>",
	})
	require.NoError(t, err)
	require.NotContains(t, message.Content, "<script")
	require.Contains(t, message.Content, "see you")
	require.Equal(t, ben.ID, message.Sender.ID)
	require.Equal(t, "Ann", message.Receiver.Name)

	key := fmt.Sprintf("test:chat:last:%d:%d", ann.ID, ben.ID)
	require.True(t, mini.Exists(key))
	require.True(t, mini.TTL(key) > 0)
	require.Equal(t, []string{TopicChatMessageCreated}, events.topics())

	history, err := svc.List(ctx, actorOf(ann), dto.ChatListQuery{UserID: &ben.ID})
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, message.ID, history[0].ID)
}

func TestChatServiceContactsPreferCachedLastMessage(t *testing.T) {
	db, mini, svc, _ := setupChatService(t)
	ctx := context.Background()

	ann := createAccount(t, db, "Ann", models.RoleStudent)
	ben := createAccount(t, db, "Ben", models.RoleTeacher)
	cat := createAccount(t, db, "Cat", models.RoleStudent)

	_, err := svc.Send(ctx, actorOf(ann), dto.ChatSendRequest{Receiver: ben.ID, Content: "question"})
	require.NoError(t, err)
	_, err = svc.Send(ctx, actorOf(cat), dto.ChatSendRequest{Receiver: ann.ID, Content: "hi there"})
	require.NoError(t, err)

	key := fmt.Sprintf("test:chat:last:%d:%d", ann.ID, ben.ID)
	cached := cachedMessage{
		ID:         42,
		SenderID:   ben.ID,
		ReceiverID: ann.ID,
		Content:    "from cache",
	}
	payload, err := json.Marshal(cached)
	require.NoError(t, err)
	require.NoError(t, mini.Set(key, string(payload)))

	contacts, err := svc.Contacts(ctx, actorOf(ann))
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	require.Equal(t, ben.ID, contacts[0].User.ID)
	require.Equal(t, "from cache", contacts[0].LastMessage.Content)
	require.Equal(t, "Ben", contacts[0].LastMessage.Sender.Name)
	require.Equal(t, "Ann", contacts[0].LastMessage.Receiver.Name)
	require.Equal(t, cat.ID, contacts[1].User.ID)
	require.Equal(t, "hi there", contacts[1].LastMessage.Content)

	mini.FlushAll()
	contacts, err = svc.Contacts(ctx, actorOf(ann))
	require.NoError(t, err)
	require.Equal(t, "question", contacts[0].LastMessage.Content)
	require.True(t, mini.Exists(key))

	empty, err := svc.Contacts(ctx, Actor{ID: 999, Role: models.RoleStudent})
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestChatServiceSendKeepsPlainTextVerbatim(t *testing.T) {
	db, _, svc, _ := setupChatService(t)
	ctx := context.Background()

	ann := createAccount(t, db, "Ann", models.RoleStudent)
	ben := createAccount(t, db, "Ben", models.RoleTeacher)

	content := `Q&A at 5 < 6, "bring" it's ok`
	message, err := svc.Send(ctx, actorOf(ben), dto.ChatSendRequest{Receiver: ann.ID, Content: content})
	require.NoError(t, err)
	require.Equal(t, content, message.Content)

	history, err := svc.List(ctx, actorOf(ann), dto.ChatListQuery{UserID: &ben.ID})
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, content, history[0].Content)

	tagged, err := svc.Send(ctx, actorOf(ben), dto.ChatSendRequest{Receiver: ann.ID, Content: "see you <b>soon</b> & bye"})
	require.NoError(t, err)
	require.Equal(t, "see you soon & bye", tagged.Content)
}

func TestChatServiceContactsShowCurrentNames(t *testing.T) {
	db, _, svc, _ := setupChatService(t)
	ctx := context.Background()

	ann := createAccount(t, db, "Ann", models.RoleStudent)
	ben := createAccount(t, db, "Ben", models.RoleTeacher)

	_, err := svc.Send(ctx, actorOf(ben), dto.ChatSendRequest{Receiver: ann.ID, Content: "hello"})
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", ben.ID).Update("name", "Benjamin").Error)

	contacts, err := svc.Contacts(ctx, actorOf(ann))
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	require.Equal(t, "Benjamin", contacts[0].User.Name)
	require.NotNil(t, contacts[0].LastMessage)
	require.Equal(t, "hello", contacts[0].LastMessage.Content)
	require.Equal(t, "Benjamin", contacts[0].LastMessage.Sender.Name)
}
