package service

import (
	"context"
	"testing"

	"foodshare-service/internal/commands"
	"foodshare-service/internal/domain"
	"foodshare-service/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	env := newTestEnv(t, 1)
	svc := NewAccountService(env.deps)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, commands.CreateUserCommand{Name: "Dana", Email: " Dana@Example.com ", Phone: "555-0110"})
	require.NoError(t, err)
	assert.Equal(t, "dana@example.com", user.Email)
	assert.Equal(t, domain.RoleUser, user.Role)

	got, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dana", got.Name)

	_, err = svc.CreateUser(ctx, commands.CreateUserCommand{Name: "Dana 2", Email: "DANA@example.com"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	_, err = svc.CreateUser(ctx, commands.CreateUserCommand{Name: "Eve", Email: "eve@example.com", Role: "superuser"})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestCreateRestaurantPromotesUser(t *testing.T) {
	env := newTestEnv(t, 1)
	svc := NewAccountService(env.deps)
	ctx := context.Background()
	user := env.newUser(t, "Frank")

	_, err := svc.RestaurantForUser(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrRestaurantRequired)

	restaurant, err := svc.CreateRestaurant(ctx, commands.CreateRestaurantCommand{
		UserID:  user.ID,
		Name:    "Frank's Deli",
		Address: "2 Side St",
		Phone:   "555-0120",
	})
	require.NoError(t, err)
	assert.False(t, restaurant.Verified)

	promoted, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleRestaurant, promoted.Role)

	mine, err := svc.RestaurantForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, restaurant.ID, mine.ID)

	_, err = svc.CreateRestaurant(ctx, commands.CreateRestaurantCommand{
		UserID: user.ID, Name: "Second", Address: "3 Side St", Phone: "555-0121",
	})
	assert.ErrorIs(t, err, domain.ErrRestaurantExists)

	_, err = svc.CreateRestaurant(ctx, commands.CreateRestaurantCommand{
		UserID: uuid.New(), Name: "Nobody's", Address: "4 Side St", Phone: "555-0122",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVerifyRestaurant(t *testing.T) {
	env := newTestEnv(t, 1)
	svc := NewAccountService(env.deps)
	ctx := context.Background()

	verified, err := svc.VerifyRestaurant(ctx, commands.VerifyRestaurantCommand{RestaurantID: env.fx.Restaurant.ID})
	require.NoError(t, err)
	assert.True(t, verified.Verified)

	stored, err := svc.GetRestaurant(ctx, env.fx.Restaurant.ID)
	require.NoError(t, err)
	assert.True(t, stored.Verified)

	inbox, _, err := env.store.Notifications().List(ctx, repository.NotificationFilter{
		UserID: env.fx.Owner.ID,
		Page:   repository.Page{Page: 1, Limit: 10},
	})
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, domain.NotificationRestaurantVerified, inbox[0].Type)

	// Verifying twice does not notify again.
	_, err = svc.VerifyRestaurant(ctx, commands.VerifyRestaurantCommand{RestaurantID: env.fx.Restaurant.ID})
	require.NoError(t, err)
	_, total, err := env.store.Notifications().List(ctx, repository.NotificationFilter{
		UserID: env.fx.Owner.ID,
		Page:   repository.Page{Page: 1, Limit: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}
