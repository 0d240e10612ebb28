package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/poi-parking/internal/model"
	"github.com/sells-group/poi-parking/internal/resilience"
	"github.com/sells-group/poi-parking/pkg/nominatim"
)

// ResultFromPlace converts a reverse-geocode response into a success result.
func ResultFromPlace(place *nominatim.Place) model.GeocodeResult {
	if place == nil {
		return model.FailedLookup("empty response")
	}
	return model.GeocodeResult{
		ResolvedName: place.Name,
		DisplayName:  place.DisplayName,
		PlaceType:    place.Type,
		Category:     place.PlaceCategory(),
		Address:      place.Address,
		ExtraTags:    place.ExtraTags,
		ExternalID:   place.OSMID.String(),
	}
}

// Lookup reverse-geocodes poi, retrying per the configured policy. It never
// fails: once the attempts are exhausted it returns the error variant carrying
// the last failure's message.
func (p *Pipeline) Lookup(ctx context.Context, poi model.POI) model.GeocodeResult {
	retry := p.cfg.Retry
	if retry.OnRetry == nil {
		retry.OnRetry = resilience.RetryLogger("nominatim.reverse",
			zap.Int("rowid", poi.ID),
			zap.String("run_id", p.runID),
		)
	}

	place, err := resilience.DoVal(ctx, retry, func(ctx context.Context) (*nominatim.Place, error) {
		return p.geocoder.Reverse(ctx, poi.Latitude, poi.Longitude)
	})
	if err != nil {
		zap.L().Warn("pipeline: lookup failed",
			zap.Int("rowid", poi.ID),
			zap.String("poi", poi.Name),
			zap.Error(err),
		)
		return model.FailedLookup(err.Error())
	}
	return ResultFromPlace(place)
}
