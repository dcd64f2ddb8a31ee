//go:build integration

package draftstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"ouvidoria/internal/manifestation"
	"ouvidoria/internal/submission"
	"ouvidoria/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite

	redis *containers.RedisContainer
	store *RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = NewRedisStore(s.redis.Client, time.Minute)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestSaveLoadRoundTrip() {
	ctx := context.Background()
	draft := submission.Draft{
		Texto:   "Creche sem vagas no bairro",
		Assunto: "Educação",
		Anonima: true,
		Anexos: []manifestation.Attachment{
			{Name: "protocolo.pdf", ContentType: "application/pdf", SizeBytes: 4096, StorageKey: "anexos/protocolo.pdf"},
		},
	}

	s.Require().NoError(s.store.Save(ctx, "user-1", draft))

	got, err := s.store.Load(ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(draft, got)
}

func (s *RedisStoreSuite) TestSaveOverwrites() {
	ctx := context.Background()
	s.Require().NoError(s.store.Save(ctx, "user-1", submission.Draft{Texto: "primeira versão"}))
	s.Require().NoError(s.store.Save(ctx, "user-1", submission.Draft{Texto: "segunda versão"}))

	got, err := s.store.Load(ctx, "user-1")
	s.Require().NoError(err)
	s.Equal("segunda versão", got.Texto)
}

func (s *RedisStoreSuite) TestLoadMissingNotFound() {
	_, err := s.store.Load(context.Background(), "nobody")
	s.ErrorIs(err, ErrNotFound)
}

func (s *RedisStoreSuite) TestClear() {
	ctx := context.Background()
	s.Require().NoError(s.store.Save(ctx, "user-1", submission.Draft{Texto: "rascunho"}))

	s.Require().NoError(s.store.Clear(ctx, "user-1"))
	_, err := s.store.Load(ctx, "user-1")
	s.ErrorIs(err, ErrNotFound)

	// Clearing again is a no-op.
	s.Require().NoError(s.store.Clear(ctx, "user-1"))
}

func (s *RedisStoreSuite) TestExpiry() {
	ctx := context.Background()
	short := NewRedisStore(s.redis.Client, time.Second)
	s.Require().NoError(short.Save(ctx, "user-1", submission.Draft{Texto: "efêmero"}))

	time.Sleep(1500 * time.Millisecond)

	_, err := short.Load(ctx, "user-1")
	s.ErrorIs(err, ErrNotFound)
}
