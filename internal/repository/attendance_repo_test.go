package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-api/internal/models"
)

func TestAttendanceRepositoryMarkPresentIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAttendanceRepository(db)
	ctx := context.Background()

	student := seedUser(t, db, "Stu", models.RoleStudent)
	day := models.DateOf(time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC))

	absent := models.Attendance{UserID: student.ID, Date: day, IsPresent: false}
	require.NoError(t, db.Create(&absent).Error)

	first, err := repo.MarkPresent(ctx, student.ID, day)
	require.NoError(t, err)
	require.True(t, first.IsPresent)
	require.Equal(t, absent.ID, first.ID)

	second, err := repo.MarkPresent(ctx, student.ID, day)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	records, err := repo.ListByDate(ctx, day)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.True(t, records[0].IsPresent)

	other, err := repo.ListByDate(ctx, models.DateOf(time.Date(2024, 5, 3, 8, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	require.Empty(t, other)
}
