package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/classroom-api/internal/database"
	"github.com/noah-isme/classroom-api/internal/models"
)

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.ConnectSQLite(fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func createAccount(t *testing.T, db *gorm.DB, name, role string) models.User {
	t.Helper()

	user := models.User{
		Email:        strings.ToLower(name) + "@example.com",
		Name:         name,
		Role:         role,
		PasswordHash: "hash",
	}
	require.NoError(t, db.Create(&user).Error)

	switch role {
	case models.RoleStudent:
		require.NoError(t, db.Create(&models.StudentProfile{UserID: user.ID}).Error)
	case models.RoleTeacher:
		require.NoError(t, db.Create(&models.TeacherProfile{UserID: user.ID}).Error)
	}
	return user
}

func actorOf(user models.User) Actor {
	return Actor{ID: user.ID, Role: user.Role}
}

type publishedEvent struct {
	topic   string
	payload interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{topic: topic, payload: payload})
	return nil
}

func (p *recordingPublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, event := range p.events {
		out = append(out, event.topic)
	}
	return out
}

type stubEncoder struct {
	calls int
}

func (e *stubEncoder) Encode(payload string) ([]byte, error) {
	e.calls++
	return []byte("png:" + payload), nil
}
