package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-api/internal/models"
)

func TestClassRepositoryEnrollmentIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewClassRepository(db)
	ctx := context.Background()

	teacher := seedUser(t, db, "Teach", models.RoleTeacher)
	zoe := seedUser(t, db, "Zoe", models.RoleStudent)
	amy := seedUser(t, db, "Amy", models.RoleStudent)

	class := models.Class{Name: "Algebra", TeacherID: teacher.ID}
	require.NoError(t, repo.Create(ctx, &class))

	require.NoError(t, repo.AddStudents(ctx, &class, []models.User{zoe, amy}))
	require.NoError(t, repo.AddStudents(ctx, &class, []models.User{zoe}))

	var memberships int64
	require.NoError(t, db.Table("class_students").Where("class_id = ?", class.ID).Count(&memberships).Error)
	require.Equal(t, int64(2), memberships)

	students, err := repo.ListStudents(ctx, class.ID)
	require.NoError(t, err)
	require.Len(t, students, 2)
	require.Equal(t, "Amy", students[0].Name)

	require.NoError(t, repo.RemoveStudent(ctx, &class, amy.ID))
	students, err = repo.ListStudents(ctx, class.ID)
	require.NoError(t, err)
	require.Len(t, students, 1)
	require.Equal(t, zoe.ID, students[0].ID)
}

func TestClassRepositoryOwnershipAndCount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewClassRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "Owner", models.RoleTeacher)
	other := seedUser(t, db, "Other", models.RoleTeacher)

	class := models.Class{Name: "Biology", TeacherID: owner.ID}
	require.NoError(t, repo.Create(ctx, &class))

	_, err := repo.GetOwned(ctx, class.ID, other.ID)
	require.Error(t, err)

	owned, err := repo.GetOwned(ctx, class.ID, owner.ID)
	require.NoError(t, err)
	require.Equal(t, "Biology", owned.Name)

	count, err := repo.CountByTeacher(ctx, owner.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}
