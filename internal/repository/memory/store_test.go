package memory

import (
	"testing"

	"foodshare-service/internal/repository"
	"foodshare-service/internal/repository/repotest"
)

func TestStore(t *testing.T) {
	repotest.RunStoreSuite(t, func(t *testing.T) repository.Store {
		return NewStore()
	})
}
