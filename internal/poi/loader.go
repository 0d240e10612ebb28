// Package poi loads points of interest from a GeoJSON feature collection.
package poi

import (
	"encoding/json"
	"io"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/poi-parking/internal/model"
)

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

// feature keeps the geometry raw so go-geom decodes it, and the properties
// loose because rowid may arrive as a number or a string.
type feature struct {
	Geometry   json.RawMessage `json:"geometry"`
	Properties map[string]any  `json:"properties"`
}

// Filter selects which features of the collection are in scope.
type Filter struct {
	// Limit keeps only the first Limit features of the file. 0 keeps all.
	Limit int
	// Region keeps only features whose geog property equals it. Empty keeps all.
	Region string
}

// Apply filters pois in order: limit first, then region.
func (f Filter) Apply(pois []model.POI) []model.POI {
	if f.Limit > 0 && f.Limit < len(pois) {
		pois = pois[:f.Limit]
	}
	if f.Region == "" {
		return pois
	}
	out := make([]model.POI, 0, len(pois))
	for _, p := range pois {
		if p.Region == f.Region {
			out = append(out, p)
		}
	}
	return out
}

// Load reads the collection at path and applies filter.
func Load(path string, filter Filter) ([]model.POI, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "poi: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	pois, err := Decode(f)
	if err != nil {
		return nil, eris.Wrapf(err, "poi: load %s", path)
	}
	return filter.Apply(pois), nil
}

// Decode parses every feature of a collection into a POI. Any feature missing
// a Point geometry, a rowid or a name is an error.
func Decode(r io.Reader) ([]model.POI, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var fc featureCollection
	if err := dec.Decode(&fc); err != nil {
		return nil, eris.Wrap(err, "poi: decode feature collection")
	}
	if fc.Type != "" && fc.Type != "FeatureCollection" {
		return nil, eris.Errorf("poi: unexpected GeoJSON type %q", fc.Type)
	}

	pois := make([]model.POI, 0, len(fc.Features))
	for i, ft := range fc.Features {
		p, err := decodeFeature(ft)
		if err != nil {
			return nil, eris.Wrapf(err, "poi: feature %d", i)
		}
		pois = append(pois, p)
	}
	return pois, nil
}

func decodeFeature(ft feature) (model.POI, error) {
	if len(ft.Geometry) == 0 {
		return model.POI{}, eris.New("missing geometry")
	}
	var g geom.T
	if err := geojson.Unmarshal(ft.Geometry, &g); err != nil {
		return model.POI{}, eris.Wrap(err, "decode geometry")
	}
	pt, ok := g.(*geom.Point)
	if !ok {
		return model.POI{}, eris.Errorf("geometry is %T, want Point", g)
	}

	id, err := rowID(ft.Properties["rowid"])
	if err != nil {
		return model.POI{}, err
	}
	name, ok := ft.Properties["name"].(string)
	if !ok {
		return model.POI{}, eris.New("missing name property")
	}
	region, _ := ft.Properties["geog"].(string)
	if region == "" {
		region = model.UnknownRegion
	}

	return model.POI{
		ID:        id,
		Name:      name,
		Region:    region,
		Longitude: pt.X(),
		Latitude:  pt.Y(),
	}, nil
}

func rowID(v any) (int, error) {
	switch id := v.(type) {
	case json.Number:
		n, err := id.Int64()
		if err != nil {
			return 0, eris.Wrapf(err, "rowid %q", id.String())
		}
		return int(n), nil
	case string:
		n, err := strconv.Atoi(id)
		if err != nil {
			return 0, eris.Wrapf(err, "rowid %q", id)
		}
		return n, nil
	case nil:
		return 0, eris.New("missing rowid property")
	default:
		return 0, eris.Errorf("rowid has type %T", v)
	}
}
