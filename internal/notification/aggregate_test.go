package notification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ouvidoria/internal/manifestation"
	"ouvidoria/internal/response"
	respstore "ouvidoria/internal/response/store"
	id "ouvidoria/pkg/domain"
)

func TestComputeUnread(t *testing.T) {
	readResp := response.Response{ID: id.NewResponseID(), Lida: true}
	unreadResp := response.Response{ID: id.NewResponseID(), Lida: false}

	t.Run("no manifestations means nothing unread", func(t *testing.T) {
		summary := ComputeUnread(nil)
		assert.False(t, summary.Global)
		assert.Empty(t, summary.PerItem)
	})

	t.Run("per item true iff any response unread", func(t *testing.T) {
		allRead := id.NewManifestationID()
		someUnread := id.NewManifestationID()
		noResponses := id.NewManifestationID()

		summary := ComputeUnread([]ManifestationResponses{
			{ManifestationID: allRead, Responses: []response.Response{readResp, readResp}},
			{ManifestationID: someUnread, Responses: []response.Response{readResp, unreadResp}},
			{ManifestationID: noResponses},
		})

		assert.False(t, summary.PerItem[allRead])
		assert.True(t, summary.PerItem[someUnread])
		assert.False(t, summary.PerItem[noResponses])
		assert.True(t, summary.Global)
	})

	t.Run("global false when every response read", func(t *testing.T) {
		summary := ComputeUnread([]ManifestationResponses{
			{ManifestationID: id.NewManifestationID(), Responses: []response.Response{readResp}},
			{ManifestationID: id.NewManifestationID()},
		})
		assert.False(t, summary.Global)
	})
}

// TestSummaryFor_RecomputesAfterMarkRead covers the notification lifecycle:
// unread appears with a new response and disappears once everything is read.
func TestSummaryFor_RecomputesAfterMarkRead(t *testing.T) {
	ctx := context.Background()
	responses := respstore.NewInMemoryStore()
	svc := NewService(responses)

	m := manifestation.Manifestation{ID: id.NewManifestationID()}
	other := manifestation.Manifestation{ID: id.NewManifestationID()}
	all := []manifestation.Manifestation{m, other}

	summary, err := svc.SummaryFor(ctx, all)
	require.NoError(t, err)
	assert.False(t, summary.Global)

	r := response.Response{
		ID:             id.NewResponseID(),
		ManifestacaoID: m.ID,
		Orgao:          "Secretaria de Transporte",
		Texto:          "Em análise.",
		CreatedAt:      time.Now(),
	}
	require.NoError(t, responses.Append(ctx, r))

	summary, err = svc.SummaryFor(ctx, all)
	require.NoError(t, err)
	assert.True(t, summary.PerItem[m.ID])
	assert.False(t, summary.PerItem[other.ID])
	assert.True(t, summary.Global)

	require.NoError(t, responses.MarkRead(ctx, r.ID))

	summary, err = svc.SummaryFor(ctx, all)
	require.NoError(t, err)
	assert.False(t, summary.PerItem[m.ID], "marking the only response read clears the item flag")
	assert.False(t, summary.Global, "no other manifestation has unread responses")
}
