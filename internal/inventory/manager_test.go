package inventory

import (
	"context"
	"testing"
	"time"

	"foodshare-service/internal/domain"
	"foodshare-service/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// MockListingRepository is a mock implementation of repository.ListingRepository
type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) Create(ctx context.Context, listing *domain.FoodListing) error {
	return m.Called(ctx, listing).Error(0)
}

func (m *MockListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.FoodListing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FoodListing), args.Error(1)
}

func (m *MockListingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.FoodListing, error) {
	return m.FindByID(ctx, id)
}

func (m *MockListingRepository) List(ctx context.Context, filter repository.ListingFilter) ([]domain.FoodListing, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.FoodListing), args.Int(1), args.Error(2)
}

func (m *MockListingRepository) Update(ctx context.Context, listing *domain.FoodListing, expectedVersion int) error {
	return m.Called(ctx, listing, expectedVersion).Error(0)
}

func (m *MockListingRepository) UpdateInventory(ctx context.Context, listing *domain.FoodListing, expectedVersion, decrement int) error {
	return m.Called(ctx, listing, expectedVersion, decrement).Error(0)
}

func (m *MockListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func newListing(t *testing.T, quantity int) *domain.FoodListing {
	t.Helper()
	listing, err := domain.NewFoodListing(uuid.New(), "Pasta", "", quantity, "portions", now.Add(time.Hour), now)
	require.NoError(t, err)
	return listing
}

func TestManager_CheckAvailability(t *testing.T) {
	m := NewManager(zap.NewNop())
	listing := newListing(t, 3)

	assert.NoError(t, m.CheckAvailability(listing, 3, now))
	assert.ErrorIs(t, m.CheckAvailability(listing, 4, now), domain.ErrInsufficientQuantity)
	assert.ErrorIs(t, m.CheckAvailability(listing, 0, now), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, m.CheckAvailability(listing, 1, now.Add(2*time.Hour)), domain.ErrListingNotAvailable)
}

func TestManager_ApplyApproval(t *testing.T) {
	m := NewManager(zap.NewNop())
	listing := newListing(t, 10)
	repo := new(MockListingRepository)

	repo.On("UpdateInventory", mock.Anything, mock.MatchedBy(func(l *domain.FoodListing) bool {
		return l.Quantity == 6 && l.Status == domain.ListingAvailable && l.Version == 2
	}), 1, 4).Return(nil)

	err := m.ApplyApproval(context.Background(), repo, listing, 4, now)

	assert.NoError(t, err)
	assert.Equal(t, 6, listing.Quantity)
	assert.Equal(t, 2, listing.Version)
	repo.AssertExpectations(t)
}

func TestManager_ApplyApproval_ReservesWhenExhausted(t *testing.T) {
	m := NewManager(zap.NewNop())
	listing := newListing(t, 5)
	repo := new(MockListingRepository)
	repo.On("UpdateInventory", mock.Anything, mock.Anything, 1, 5).Return(nil)

	require.NoError(t, m.ApplyApproval(context.Background(), repo, listing, 5, now))

	assert.Equal(t, 0, listing.Quantity)
	assert.Equal(t, domain.ListingReserved, listing.Status)
}

func TestManager_ApplyApproval_StaleWriteLeavesListing(t *testing.T) {
	m := NewManager(zap.NewNop())
	listing := newListing(t, 5)
	repo := new(MockListingRepository)
	repo.On("UpdateInventory", mock.Anything, mock.Anything, 1, 2).Return(domain.ErrConcurrentUpdate)

	err := m.ApplyApproval(context.Background(), repo, listing, 2, now)

	assert.ErrorIs(t, err, domain.ErrConcurrentUpdate)
	assert.Equal(t, 5, listing.Quantity)
	assert.Equal(t, 1, listing.Version)
}

func TestManager_ApplyApproval_InvariantViolation(t *testing.T) {
	m := NewManager(zap.NewNop())
	listing := newListing(t, 2)
	repo := new(MockListingRepository)

	err := m.ApplyApproval(context.Background(), repo, listing, 3, now)

	assert.ErrorIs(t, err, domain.ErrInvariantViolation)
	assert.Equal(t, 2, listing.Quantity)
	repo.AssertNotCalled(t, "UpdateInventory", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
