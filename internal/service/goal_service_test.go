package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/classroom-api/internal/dto"
	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/repository"
	"github.com/noah-isme/classroom-api/internal/utils"
)

func setupGoalService(t *testing.T, now time.Time) (*gorm.DB, GoalService) {
	t.Helper()

	db := setupServiceDB(t)
	svc := NewGoalService(repository.NewGoalRepository(db), repository.NewClassRepository(db), utils.NewValidator(), zerolog.Nop())
	svc.(*goalService).now = func() time.Time { return now }
	return db, svc
}

func TestGoalServiceTeacherGoalsRequireOwnedClass(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	db, svc := setupGoalService(t, now)
	ctx := context.Background()

	teacher := createAccount(t, db, "Teach", models.RoleTeacher)
	rival := createAccount(t, db, "Rival", models.RoleTeacher)
	student := createAccount(t, db, "Stu", models.RoleStudent)

	class := models.Class{Name: "Chemistry", TeacherID: teacher.ID}
	require.NoError(t, db.Create(&class).Error)
	require.NoError(t, db.Model(&class).Association("Students").Append(&student))

	_, err := svc.Create(ctx, actorOf(teacher), dto.GoalCreateRequest{Title: "Lab", Deadline: now.Add(time.Hour)})
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	require.Contains(t, validationErr.Fields, "class_id")

	_, err = svc.Create(ctx, actorOf(rival), dto.GoalCreateRequest{Title: "Lab", Deadline: now.Add(time.Hour), ClassID: &class.ID})
	require.ErrorIs(t, err, ErrClassNotFound)

	goal, err := svc.Create(ctx, actorOf(teacher), dto.GoalCreateRequest{Title: "Lab", Deadline: now.Add(-time.Hour), ClassID: &class.ID})
	require.NoError(t, err)
	require.NotNil(t, goal.ClassName)
	require.Equal(t, "Chemistry", *goal.ClassName)
	require.True(t, goal.IsOverdue)

	listed, err := svc.List(ctx, actorOf(teacher))
	require.NoError(t, err)
	require.Len(t, listed, 1)

	classGoals, err := svc.ListClassGoals(ctx, actorOf(teacher), class.ID)
	require.NoError(t, err)
	require.Len(t, classGoals, 1)

	buckets, err := svc.StudentGoals(ctx, actorOf(student))
	require.NoError(t, err)
	require.Empty(t, buckets.PersonalGoals)
	require.Len(t, buckets.ClassGoals, 1)

	require.ErrorIs(t, svc.Delete(ctx, actorOf(rival), goal.ID), ErrGoalNotFound)
	require.ErrorIs(t, svc.Delete(ctx, actorOf(student), goal.ID), ErrGoalNotFound)
	require.NoError(t, svc.Delete(ctx, actorOf(teacher), goal.ID))
}

func TestGoalServicePersonalGoalLifecycle(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	db, svc := setupGoalService(t, now)
	ctx := context.Background()

	student := createAccount(t, db, "Stu", models.RoleStudent)
	other := createAccount(t, db, "Other", models.RoleStudent)

	goal, err := svc.Create(ctx, actorOf(student), dto.GoalCreateRequest{Title: " Read a book ", Deadline: now.Add(-24 * time.Hour)})
	require.NoError(t, err)
	require.Equal(t, "Read a book", goal.Title)
	require.NotNil(t, goal.UserID)
	require.Nil(t, goal.ClassID)
	require.True(t, goal.IsOverdue)

	done := true
	_, err = svc.Update(ctx, actorOf(other), goal.ID, dto.GoalUpdateRequest{IsCompleted: &done})
	require.ErrorIs(t, err, ErrGoalNotFound)

	updated, err := svc.Update(ctx, actorOf(student), goal.ID, dto.GoalUpdateRequest{IsCompleted: &done})
	require.NoError(t, err)
	require.True(t, updated.IsCompleted)
	require.False(t, updated.IsOverdue)

	own, err := svc.List(ctx, actorOf(student))
	require.NoError(t, err)
	require.Len(t, own, 1)

	teacherBuckets, err := svc.StudentGoals(ctx, Actor{ID: 42, Role: models.RoleTeacher})
	require.NoError(t, err)
	require.Empty(t, teacherBuckets.PersonalGoals)
	require.Empty(t, teacherBuckets.ClassGoals)

	_, err = svc.Update(ctx, actorOf(student), 999, dto.GoalUpdateRequest{IsCompleted: &done})
	require.ErrorIs(t, err, ErrGoalNotFound)
}
