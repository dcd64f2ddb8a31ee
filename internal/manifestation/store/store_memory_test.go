package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"ouvidoria/internal/manifestation"
	id "ouvidoria/pkg/domain"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
}

func (s *InMemoryStoreSuite) newManifestation(owner id.UserID, protocolo string, createdAt time.Time) manifestation.Manifestation {
	p, err := id.ParseProtocol(protocolo)
	require.NoError(s.T(), err)
	return manifestation.Manifestation{
		ID:        id.NewManifestationID(),
		Protocolo: p,
		Texto:     "Metro atrasou",
		Assunto:   "Transporte Metrô",
		Status:    manifestation.StatusPendente,
		Owner:     owner,
		CreatedAt: createdAt,
	}
}

func (s *InMemoryStoreSuite) TestCreateAndFind() {
	owner := id.NewUserID()
	m := s.newManifestation(owner, "AAAA000001", time.Now())

	require.NoError(s.T(), s.store.Create(context.Background(), m))

	found, err := s.store.FindByID(context.Background(), m.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), m.Protocolo, found.Protocolo)
	assert.Equal(s.T(), manifestation.StatusPendente, found.Status)
}

func (s *InMemoryStoreSuite) TestFindNotFound() {
	_, err := s.store.FindByID(context.Background(), id.NewManifestationID())
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *InMemoryStoreSuite) TestDuplicateProtocolConflicts() {
	owner := id.NewUserID()
	first := s.newManifestation(owner, "AAAA000001", time.Now())
	second := s.newManifestation(owner, "AAAA000001", time.Now())

	require.NoError(s.T(), s.store.Create(context.Background(), first))
	err := s.store.Create(context.Background(), second)
	assert.ErrorIs(s.T(), err, ErrConflict)

	// The conflicting create must leave no partial record behind.
	_, err = s.store.FindByID(context.Background(), second.ID)
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *InMemoryStoreSuite) TestListByOwnerNewestFirst() {
	owner := id.NewUserID()
	other := id.NewUserID()
	base := time.Now()

	older := s.newManifestation(owner, "AAAA000001", base.Add(-time.Hour))
	newer := s.newManifestation(owner, "AAAA000002", base)
	foreign := s.newManifestation(other, "AAAA000003", base)

	require.NoError(s.T(), s.store.Create(context.Background(), older))
	require.NoError(s.T(), s.store.Create(context.Background(), newer))
	require.NoError(s.T(), s.store.Create(context.Background(), foreign))

	got, err := s.store.ListByOwner(context.Background(), owner)
	require.NoError(s.T(), err)
	require.Len(s.T(), got, 2)
	assert.Equal(s.T(), newer.ID, got[0].ID)
	assert.Equal(s.T(), older.ID, got[1].ID)
}

func (s *InMemoryStoreSuite) TestUpdateStatus() {
	m := s.newManifestation(id.NewUserID(), "AAAA000001", time.Now())
	require.NoError(s.T(), s.store.Create(context.Background(), m))

	require.NoError(s.T(), s.store.UpdateStatus(context.Background(), m.ID, manifestation.StatusEmAndamento))

	found, err := s.store.FindByID(context.Background(), m.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), manifestation.StatusEmAndamento, found.Status)
}

func (s *InMemoryStoreSuite) TestUpdateStatusNotFound() {
	err := s.store.UpdateStatus(context.Background(), id.NewManifestationID(), manifestation.StatusResolvida)
	assert.ErrorIs(s.T(), err, ErrNotFound)
}
