package nominatim

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/poi-parking/internal/resilience"
)

// ErrUnableToGeocode is returned when the service answers that there is
// nothing at the given coordinates.
var ErrUnableToGeocode = errors.New("unable to geocode")

// Place is the subset of the /reverse response the pipeline consumes.
type Place struct {
	Name        string            `json:"name"`
	DisplayName string            `json:"display_name"`
	Type        string            `json:"type"`
	Category    string            `json:"category"`
	Class       string            `json:"class"`
	OSMType     string            `json:"osm_type"`
	OSMID       json.Number       `json:"osm_id"`
	Address     map[string]string `json:"address"`
	ExtraTags   map[string]string `json:"extratags"`
	NameDetails map[string]string `json:"namedetails"`
	Error       string            `json:"error"`
}

// PlaceCategory returns the category, falling back to the class key that
// format=json responses use.
func (p *Place) PlaceCategory() string {
	if p.Category != "" {
		return p.Category
	}
	return p.Class
}

func (c *client) reverseURL(lat, lon float64) string {
	params := url.Values{
		"format":         {"json"},
		"lat":            {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":            {strconv.FormatFloat(lon, 'f', -1, 64)},
		"zoom":           {strconv.Itoa(c.zoom)},
		"addressdetails": {"1"},
	}
	if c.extraTags {
		params.Set("extratags", "1")
		params.Set("namedetails", "1")
	}
	return strings.TrimRight(c.baseURL, "/") + "/reverse?" + params.Encode()
}

// Reverse performs one reverse lookup. Transport errors and 408/429/5xx
// responses are returned as resilience.TransientError; an "error" body is
// returned as a permanent ErrUnableToGeocode.
func (c *client) Reverse(ctx context.Context, lat, lon float64) (*Place, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "nominatim: rate limit")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.reverseURL(lat, lon), nil)
	if err != nil {
		return nil, eris.Wrap(err, "nominatim: build request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "nominatim: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		statusErr := eris.Errorf("nominatim: returned status %d", resp.StatusCode)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(statusErr, resp.StatusCode)
		}
		return nil, statusErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "nominatim: read body")
	}

	var place Place
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&place); err != nil {
		return nil, eris.Wrap(err, "nominatim: parse response")
	}

	if place.Error != "" {
		return nil, resilience.Permanent(eris.Wrapf(ErrUnableToGeocode, "nominatim: %s", place.Error))
	}

	return &place, nil
}
