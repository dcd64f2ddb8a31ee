package notification

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"ouvidoria/internal/manifestation"
	"ouvidoria/internal/response"
	id "ouvidoria/pkg/domain"
)

// ResponseLister is the slice of the response store the aggregator needs.
type ResponseLister interface {
	ListByManifestation(ctx context.Context, mid id.ManifestationID) ([]response.Response, error)
}

// Service recomputes unread summaries from freshly fetched responses.
type Service struct {
	responses ResponseLister
}

func NewService(responses ResponseLister) *Service {
	return &Service{responses: responses}
}

// fanOutLimit bounds concurrent response listings per summary computation.
const fanOutLimit = 8

// SummaryFor fetches the response set of every given manifestation and
// derives the unread summary. Fetches fan out concurrently with shared
// cancellation: the first store failure aborts the remainder.
func (s *Service) SummaryFor(ctx context.Context, manifestations []manifestation.Manifestation) (Summary, error) {
	sets := make([]ManifestationResponses, len(manifestations))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)
	for i, m := range manifestations {
		g.Go(func() error {
			responses, err := s.responses.ListByManifestation(ctx, m.ID)
			if err != nil {
				return fmt.Errorf("list responses for %s: %w", m.ID, err)
			}
			sets[i] = ManifestationResponses{ManifestationID: m.ID, Responses: responses}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	return ComputeUnread(sets), nil
}
