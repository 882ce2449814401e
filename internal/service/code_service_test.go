package service

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/repository"
)

func TestCodeServiceRegeneratesStaleCode(t *testing.T) {
	db := setupServiceDB(t)
	encoder := &stubEncoder{}
	svc := NewCodeService(repository.NewUserRepository(db), repository.NewIdentifierCodeRepository(db), encoder, zerolog.Nop())
	ctx := context.Background()

	user := createAccount(t, db, "Stu", models.RoleStudent)

	code, image, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, user.Email, code.Payload)
	require.Equal(t, []byte("png:"+user.Email), image)
	require.Equal(t, base64.StdEncoding.EncodeToString(image), code.ImageBase64)
	require.Equal(t, 1, encoder.calls)

	_, _, err = svc.Get(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 1, encoder.calls)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("email", "renamed@example.com").Error)
	code, _, err = svc.Get(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "renamed@example.com", code.Payload)
	require.Equal(t, 2, encoder.calls)

	var rows int64
	require.NoError(t, db.Model(&models.IdentifierCode{}).Where("user_id = ?", user.ID).Count(&rows).Error)
	require.Equal(t, int64(1), rows)

	_, _, err = svc.Get(ctx, 999)
	require.ErrorIs(t, err, ErrAccountNotFound)
}
