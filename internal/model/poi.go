// Package model holds the records that flow through the parking pipeline.
package model

// UnknownRegion is the region tag used when an input feature has none.
const UnknownRegion = "Unknown"

// POI is a named point of interest loaded from the input feature collection.
type POI struct {
	ID        int     `json:"rowid"`
	Name      string  `json:"name"`
	Region    string  `json:"geography"`
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// GeocodeResult is the reverse-geocoded description of a POI's coordinates.
// A non-empty Err makes it the error variant; all other fields are then empty.
type GeocodeResult struct {
	ResolvedName string            `json:"name,omitempty"`
	DisplayName  string            `json:"display_name,omitempty"`
	PlaceType    string            `json:"type,omitempty"`
	Category     string            `json:"category,omitempty"`
	Address      map[string]string `json:"address,omitempty"`
	ExtraTags    map[string]string `json:"extratags,omitempty"`
	ExternalID   string            `json:"osm_id,omitempty"`
	Err          string            `json:"error,omitempty"`
}

// FailedLookup returns the error variant carrying msg.
func FailedLookup(msg string) GeocodeResult {
	return GeocodeResult{Err: msg}
}

// Failed reports whether r is the error variant.
func (r GeocodeResult) Failed() bool {
	return r.Err != ""
}

// addressOrder is the order in which address parts are joined.
var addressOrder = []string{"house_number", "road", "neighbourhood", "city", "state", "postcode"}

// FormattedAddress joins the known address parts with ", ", skipping empty ones.
func (r GeocodeResult) FormattedAddress() string {
	var out string
	for _, key := range addressOrder {
		v := r.Address[key]
		if v == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += v
	}
	return out
}
