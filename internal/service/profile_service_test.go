package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/repository"
)

func TestProfileServiceRecountsCompletedGoals(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewProfileService(
		repository.NewUserRepository(db),
		repository.NewProfileRepository(db),
		repository.NewGoalRepository(db),
		repository.NewClassRepository(db),
		zerolog.Nop(),
	)
	ctx := context.Background()

	student := createAccount(t, db, "Stu", models.RoleStudent)
	teacher := createAccount(t, db, "Teach", models.RoleTeacher)
	admin := createAccount(t, db, "Root", models.RoleAdmin)

	deadline := time.Now().Add(24 * time.Hour)
	for i, done := range []bool{true, true, false} {
		goal := models.Goal{Title: "Goal", Deadline: deadline.Add(time.Duration(i) * time.Hour), IsCompleted: done, UserID: &student.ID, CreatedByID: &student.ID}
		require.NoError(t, db.Create(&goal).Error)
	}

	profile, err := svc.StudentProfile(ctx, actorOf(student))
	require.NoError(t, err)
	require.Equal(t, 2, profile.CompletedGoals)
	require.Equal(t, student.ID, profile.User.ID)

	var stored models.StudentProfile
	require.NoError(t, db.Where("user_id = ?", student.ID).First(&stored).Error)
	require.Equal(t, 2, stored.CompletedGoals)

	_, err = svc.StudentProfile(ctx, actorOf(admin))
	require.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, db.Create(&models.Class{Name: "Art", TeacherID: teacher.ID}).Error)
	teacherProfile, err := svc.TeacherProfile(ctx, actorOf(teacher))
	require.NoError(t, err)
	require.Equal(t, int64(1), teacherProfile.ClassesCount)
	require.NotNil(t, teacherProfile.User.Classes)
	require.Len(t, *teacherProfile.User.Classes, 1)

	_, err = svc.TeacherProfile(ctx, actorOf(student))
	require.ErrorIs(t, err, ErrForbidden)

	_, err = svc.StudentProfile(ctx, Actor{ID: 999, Role: models.RoleStudent})
	require.ErrorIs(t, err, ErrAccountNotFound)
}
