package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/repository"
)

func setupStreakService(t *testing.T, now time.Time) (*gorm.DB, StreakService, *recordingPublisher) {
	t.Helper()

	db := setupServiceDB(t)
	events := &recordingPublisher{}
	svc := NewStreakService(
		repository.NewUserRepository(db),
		repository.NewTaskRepository(db),
		repository.NewProfileRepository(db),
		events,
		time.UTC,
		zerolog.Nop(),
	)
	svc.(*streakService).now = func() time.Time { return now }
	return db, svc, events
}

func seedCompletion(t *testing.T, db *gorm.DB, student models.User, taskID uint, day time.Time, streak int) {
	t.Helper()

	require.NoError(t, db.Create(&models.TaskCompletion{
		StudentID:     student.ID,
		TaskID:        taskID,
		CompletedDate: models.DateOf(day),
	}).Error)
	require.NoError(t, db.Model(&models.StudentProfile{}).Where("user_id = ?", student.ID).Update("streak", streak).Error)
}

func streakOf(t *testing.T, db *gorm.DB, userID uint) int {
	t.Helper()

	var profile models.StudentProfile
	require.NoError(t, db.Where("user_id = ?", userID).First(&profile).Error)
	return profile.Streak
}

func TestStreakServiceResetsStaleStreaksOnWeekday(t *testing.T) {
	monday := time.Date(2024, 3, 4, 5, 0, 0, 0, time.UTC)
	db, svc, events := setupStreakService(t, monday)

	teacher := createAccount(t, db, "Teach", models.RoleTeacher)
	task := models.Task{Title: "Daily", Description: "Read", CreatedByID: teacher.ID}
	require.NoError(t, db.Create(&task).Error)

	friday := createAccount(t, db, "Friday", models.RoleStudent)
	sunday := createAccount(t, db, "Sunday", models.RoleStudent)
	today := createAccount(t, db, "Today", models.RoleStudent)
	idle := createAccount(t, db, "Idle", models.RoleStudent)

	seedCompletion(t, db, friday, task.ID, monday.AddDate(0, 0, -3), 4)
	seedCompletion(t, db, sunday, task.ID, monday.AddDate(0, 0, -1), 6)
	seedCompletion(t, db, today, task.ID, monday, 2)
	require.NoError(t, db.Model(&models.StudentProfile{}).Where("user_id = ?", idle.ID).Update("streak", 5).Error)

	result, err := svc.Reset(context.Background())
	require.NoError(t, err)
	require.True(t, result.Weekday)
	require.Equal(t, 3, result.Checked)
	require.Equal(t, 1, result.Reset)

	require.Zero(t, streakOf(t, db, friday.ID))
	require.Equal(t, 6, streakOf(t, db, sunday.ID))
	require.Equal(t, 2, streakOf(t, db, today.ID))
	require.Equal(t, 5, streakOf(t, db, idle.ID))

	require.Equal(t, []string{TopicStreakReset}, events.topics())
}

func TestStreakServiceSkipsWeekends(t *testing.T) {
	saturday := time.Date(2024, 3, 9, 5, 0, 0, 0, time.UTC)
	db, svc, events := setupStreakService(t, saturday)

	teacher := createAccount(t, db, "Teach", models.RoleTeacher)
	task := models.Task{Title: "Daily", Description: "Read", CreatedByID: teacher.ID}
	require.NoError(t, db.Create(&task).Error)

	stale := createAccount(t, db, "Stale", models.RoleStudent)
	seedCompletion(t, db, stale, task.ID, saturday.AddDate(0, 0, -10), 3)

	result, err := svc.Reset(context.Background())
	require.NoError(t, err)
	require.False(t, result.Weekday)
	require.Zero(t, result.Checked)
	require.Equal(t, 3, streakOf(t, db, stale.ID))
	require.Empty(t, events.topics())
}

func TestStreakServiceUsesConfiguredLocation(t *testing.T) {
	// 23:30 UTC on Sunday is already Monday in Jakarta.
	sundayNight := time.Date(2024, 3, 3, 23, 30, 0, 0, time.UTC)
	jakarta := time.FixedZone("WIB", 7*60*60)

	db := setupServiceDB(t)
	svc := NewStreakService(
		repository.NewUserRepository(db),
		repository.NewTaskRepository(db),
		repository.NewProfileRepository(db),
		nil,
		jakarta,
		zerolog.Nop(),
	)
	svc.(*streakService).now = func() time.Time { return sundayNight }

	result, err := svc.Reset(context.Background())
	require.NoError(t, err)
	require.True(t, result.Weekday)
}
