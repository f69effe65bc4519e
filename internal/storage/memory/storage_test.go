package memory

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rps-matchmaker/internal/storage"
	"github.com/mcoot/rps-matchmaker/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
}

func TestStorageSuite(t *testing.T) {
	s := new(StorageSuite)
	s.NewStorage = func() storage.Storage { return New() }
	suite.Run(t, s)
}

func (s *StorageSuite) TestStaleActivityEmpty() {
	stale, err := s.Storage.StaleActivity(s.Ctx, s.Now)
	s.Require().NoError(err)
	s.Empty(stale)
}
