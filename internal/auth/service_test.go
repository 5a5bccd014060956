package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/backoffice-retail/backoffice/internal/shared"
)

func TestLogin(t *testing.T) {
	svc := NewService()
	require.NoError(t, svc.SeedDefaults())
	ctx := context.Background()

	u, err := svc.Login(ctx, "ayse", "ayse123")
	require.NoError(t, err)
	require.Equal(t, "Ayse Demir", u.Name)
	require.Equal(t, RoleAdmin, u.Role)

	_, err = svc.Login(ctx, "ayse", "wrong")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody", "ayse123")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}
