package service

import (
	"context"
	"testing"
	"time"

	"foodshare-service/internal/commands"
	"foodshare-service/internal/domain"
	"foodshare-service/internal/events"
	"foodshare-service/internal/repository/memory"
	"foodshare-service/internal/repository/repotest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockSink is a mock implementation of notify.Sink
type MockSink struct {
	mock.Mock
}

func (m *MockSink) Append(ctx context.Context, userID uuid.UUID, title, message, typeTag string) error {
	args := m.Called(ctx, userID, title, message, typeTag)
	return args.Error(0)
}

type testEnv struct {
	store     *memory.Store
	publisher *events.InMemoryEventPublisher
	deps      Deps
	fx        *repotest.Fixture
}

func newTestEnv(t *testing.T, quantity int) *testEnv {
	t.Helper()
	store := memory.NewStore()
	publisher := events.NewEventPublisher(zap.NewNop())
	return &testEnv{
		store:     store,
		publisher: publisher,
		fx:        repotest.Seed(t, store, quantity),
		deps: Deps{
			Store:     store,
			Publisher: publisher,
			Logger:    zap.NewNop(),
			Now:       func() time.Time { return repotest.Now },
		},
	}
}

// newUser adds another plain user to the store.
func (e *testEnv) newUser(t *testing.T, name string) *domain.User {
	t.Helper()
	u, err := domain.NewUser(name, uuid.NewString()+"@example.com", "555-0199", domain.RoleUser, repotest.Now)
	require.NoError(t, err)
	require.NoError(t, e.store.Users().Create(context.Background(), u))
	return u
}

func (e *testEnv) request(t *testing.T, svc *RequestService, userID uuid.UUID, quantity int) *domain.FoodRequest {
	t.Helper()
	r, err := svc.CreateFoodRequest(context.Background(), commands.CreateFoodRequestCommand{
		UserID:    userID,
		ListingID: e.fx.Listing.ID,
		Quantity:  quantity,
	})
	require.NoError(t, err)
	return r
}

func (e *testEnv) listing(t *testing.T) *domain.FoodListing {
	t.Helper()
	l, err := e.store.Listings().FindByID(context.Background(), e.fx.Listing.ID)
	require.NoError(t, err)
	return l
}

func (e *testEnv) eventTypes() []string {
	var types []string
	for _, ev := range e.publisher.Events() {
		types = append(types, ev.EventType())
	}
	return types
}
