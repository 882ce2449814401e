package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-api/internal/dto"
	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/repository"
	"github.com/noah-isme/classroom-api/internal/utils"
)

func TestAttendanceServiceMarkByCode(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewAttendanceService(
		repository.NewAttendanceRepository(db),
		repository.NewUserRepository(db),
		time.UTC,
		utils.NewValidator(),
		zerolog.Nop(),
	)
	svc.(*attendanceService).now = func() time.Time { return time.Date(2024, 4, 2, 7, 30, 0, 0, time.UTC) }
	ctx := context.Background()

	student := createAccount(t, db, "Stu", models.RoleStudent)
	teacher := createAccount(t, db, "Teach", models.RoleTeacher)

	_, err := svc.MarkByCode(ctx, dto.AttendanceScanRequest{Email: "ghost@example.com"})
	require.ErrorIs(t, err, ErrInvalidCode)

	_, err = svc.MarkByCode(ctx, dto.AttendanceScanRequest{Email: teacher.Email})
	require.ErrorIs(t, err, ErrInvalidCode)

	record, err := svc.MarkByCode(ctx, dto.AttendanceScanRequest{Email: "STU@example.com"})
	require.NoError(t, err)
	require.Equal(t, student.ID, record.User)
	require.Equal(t, "2024-04-02", record.Date)
	require.True(t, record.IsPresent)

	again, err := svc.MarkByID(ctx, dto.AttendanceMarkRequest{UserID: student.ID})
	require.NoError(t, err)
	require.Equal(t, record.ID, again.ID)

	_, err = svc.MarkByID(ctx, dto.AttendanceMarkRequest{UserID: 999})
	require.ErrorIs(t, err, ErrAccountNotFound)

	today, err := svc.ListByDate(ctx, dto.AttendanceListQuery{})
	require.NoError(t, err)
	require.Len(t, today, 1)

	other, err := svc.ListByDate(ctx, dto.AttendanceListQuery{Date: "2024-04-01"})
	require.NoError(t, err)
	require.Empty(t, other)

	_, err = svc.ListByDate(ctx, dto.AttendanceListQuery{Date: "02/04/2024"})
	var validationErrs validator.ValidationErrors
	require.True(t, errors.As(err, &validationErrs))
}
