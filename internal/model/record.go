package model

// Confidence is how strongly the evidence supports a parking facility.
type Confidence string

const (
	ConfidenceHigh    Confidence = "high"
	ConfidenceMedium  Confidence = "medium"
	ConfidenceAssumed Confidence = "assumed"
	ConfidenceLow     Confidence = "low"
	ConfidenceNone    Confidence = "none"
	ConfidenceError   Confidence = "error"
)

// Tiers lists confidence tiers in report order.
var Tiers = []Confidence{
	ConfidenceHigh,
	ConfidenceMedium,
	ConfidenceAssumed,
	ConfidenceLow,
	ConfidenceNone,
	ConfidenceError,
}

// Source names the evidence a classification was derived from.
type Source string

const (
	SourcePOIName        Source = "poi_name"
	SourceGeocodedName   Source = "geocoded_name"
	SourceOSMCategory    Source = "osm_category"
	SourceAddressContext Source = "address_context"
	SourceBusinessType   Source = "business_type"
	SourceNone           Source = "none"
)

// ParkingClassification is the parking guess for one POI.
type ParkingClassification struct {
	FacilityName string     `json:"parking_facility_name"`
	Confidence   Confidence `json:"parking_confidence"`
	Source       Source     `json:"parking_source"`
}

// Unclassified is the result when no rule matches.
var Unclassified = ParkingClassification{Confidence: ConfidenceNone, Source: SourceNone}

// Identified reports whether the classification names a facility the reports
// count as parking (high, medium or assumed).
func (c ParkingClassification) Identified() bool {
	switch c.Confidence {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceAssumed:
		return true
	default:
		return false
	}
}

// Record is the merged output row for one POI.
type Record struct {
	RowID        int        `json:"rowid"`
	POIName      string     `json:"poi_name"`
	Geography    string     `json:"geography"`
	Latitude     float64    `json:"latitude"`
	Longitude    float64    `json:"longitude"`
	GeocodedName string     `json:"geocoded_name"`
	DisplayName  string     `json:"display_name"`
	PlaceType    string     `json:"place_type"`
	Category     string     `json:"category"`
	FacilityName string     `json:"parking_facility_name"`
	Confidence   Confidence `json:"parking_confidence"`
	Source       Source     `json:"parking_source"`
	Address      string     `json:"address"`
	OSMID        string     `json:"osm_id"`
	Error        string     `json:"error"`
}

// Columns is the fixed column order of a Record in CSV output.
var Columns = []string{
	"rowid",
	"poi_name",
	"geography",
	"latitude",
	"longitude",
	"geocoded_name",
	"display_name",
	"place_type",
	"category",
	"parking_facility_name",
	"parking_confidence",
	"parking_source",
	"address",
	"osm_id",
	"error",
}

// NewRecord merges a POI, its lookup result and its classification. For the
// error variant the classification is ignored and every derived field is left
// empty.
func NewRecord(poi POI, res GeocodeResult, pc ParkingClassification) Record {
	r := Record{
		RowID:     poi.ID,
		POIName:   poi.Name,
		Geography: poi.Region,
		Latitude:  poi.Latitude,
		Longitude: poi.Longitude,
	}
	if res.Failed() {
		r.Confidence = ConfidenceError
		r.Source = SourceNone
		r.Error = res.Err
		return r
	}
	r.GeocodedName = res.ResolvedName
	r.DisplayName = res.DisplayName
	r.PlaceType = res.PlaceType
	r.Category = res.Category
	r.FacilityName = pc.FacilityName
	r.Confidence = pc.Confidence
	r.Source = pc.Source
	r.Address = res.FormattedAddress()
	r.OSMID = res.ExternalID
	return r
}

// Classification returns the parking fields of r.
func (r Record) Classification() ParkingClassification {
	return ParkingClassification{FacilityName: r.FacilityName, Confidence: r.Confidence, Source: r.Source}
}
