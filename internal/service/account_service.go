package service

import (
	"context"
	"errors"
	"strings"

	"foodshare-service/internal/commands"
	"foodshare-service/internal/domain"
	"foodshare-service/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccountService manages users and their restaurant profiles.
type AccountService struct {
	deps Deps
}

func NewAccountService(deps Deps) *AccountService {
	return &AccountService{deps: deps.withDefaults()}
}

// CreateUser registers a new account. Emails are unique case-insensitively.
func (s *AccountService) CreateUser(ctx context.Context, cmd commands.CreateUserCommand) (*domain.User, error) {
	role := domain.RoleUser
	if cmd.Role != "" {
		parsed, err := domain.ParseRole(string(cmd.Role))
		if err != nil {
			return nil, err
		}
		role = parsed
	}

	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	user, err := domain.NewUser(strings.TrimSpace(cmd.Name), email, cmd.Phone, role, s.deps.Now())
	if err != nil {
		return nil, err
	}

	if _, err := s.deps.Store.Users().FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if err := s.deps.Store.Users().Create(ctx, user); err != nil {
		return nil, err
	}

	s.deps.Logger.Info("User created", zap.String("user_id", user.ID.String()), zap.String("role", string(user.Role)))
	return user, nil
}

func (s *AccountService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.deps.Store.Users().FindByID(ctx, id)
}

// CreateRestaurant creates the caller's restaurant profile and promotes a plain user
// to the RESTAURANT role.
func (s *AccountService) CreateRestaurant(ctx context.Context, cmd commands.CreateRestaurantCommand) (*domain.Restaurant, error) {
	restaurant, err := domain.NewRestaurant(cmd.UserID, strings.TrimSpace(cmd.Name), cmd.Description, strings.TrimSpace(cmd.Address), strings.TrimSpace(cmd.Phone), s.deps.Now())
	if err != nil {
		return nil, err
	}

	err = s.deps.Store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		user, err := tx.Users().FindByID(ctx, cmd.UserID)
		if err != nil {
			return err
		}
		if _, err := tx.Restaurants().FindByUserID(ctx, cmd.UserID); err == nil {
			return domain.ErrRestaurantExists
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if err := tx.Restaurants().Create(ctx, restaurant); err != nil {
			return err
		}
		if user.Role == domain.RoleUser {
			return tx.Users().UpdateRole(ctx, user.ID, domain.RoleRestaurant)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.deps.Logger.Info("Restaurant created",
		zap.String("restaurant_id", restaurant.ID.String()),
		zap.String("user_id", restaurant.UserID.String()),
	)
	return restaurant, nil
}

func (s *AccountService) GetRestaurant(ctx context.Context, id uuid.UUID) (*domain.Restaurant, error) {
	return s.deps.Store.Restaurants().FindByID(ctx, id)
}

// RestaurantForUser returns the profile owned by the user, or ErrRestaurantRequired.
func (s *AccountService) RestaurantForUser(ctx context.Context, userID uuid.UUID) (*domain.Restaurant, error) {
	restaurant, err := s.deps.Store.Restaurants().FindByUserID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrRestaurantRequired
	}
	return restaurant, err
}

// VerifyRestaurant marks a restaurant as verified and tells its owner.
func (s *AccountService) VerifyRestaurant(ctx context.Context, cmd commands.VerifyRestaurantCommand) (*domain.Restaurant, error) {
	now := s.deps.Now()
	restaurant, err := s.deps.Store.Restaurants().FindByID(ctx, cmd.RestaurantID)
	if err != nil {
		return nil, err
	}
	if restaurant.Verified {
		return restaurant, nil
	}
	if err := s.deps.Store.Restaurants().SetVerified(ctx, restaurant.ID, true, now); err != nil {
		return nil, err
	}
	restaurant.Verified = true
	restaurant.UpdatedAt = now

	notifyUser(ctx, s.deps, restaurant.UserID,
		"Restaurant Verified",
		"Your restaurant "+restaurant.Name+" has been verified",
		domain.NotificationRestaurantVerified,
	)
	return restaurant, nil
}
