// Package classify guesses whether a point of interest has a parking facility
// from its name and its reverse-geocoded description.
package classify

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/sells-group/poi-parking/internal/model"
)

// Input is what a rule sees: the folded and raw text of one POI and its
// lookup result.
type Input struct {
	POIName      string
	ResolvedName string
	PlaceType    string
	Category     string
	DisplayName  string

	poiName      string
	resolvedName string
	placeType    string
	category     string
	displayName  string
}

func newInput(poiName string, res model.GeocodeResult) Input {
	return Input{
		POIName:      poiName,
		ResolvedName: res.ResolvedName,
		PlaceType:    res.PlaceType,
		Category:     res.Category,
		DisplayName:  res.DisplayName,
		poiName:      fold(poiName),
		resolvedName: fold(res.ResolvedName),
		placeType:    fold(res.PlaceType),
		category:     fold(res.Category),
		displayName:  fold(res.DisplayName),
	}
}

// Rule is one step of the ordered rule list. Match decides whether the rule
// applies and Facility names the facility when it does.
type Rule struct {
	Name       string
	Confidence model.Confidence
	Source     model.Source
	Match      func(in Input) bool
	Facility   func(in Input) string
}

// Classifier evaluates rules in order and returns the first match.
type Classifier struct {
	rules    []Rule
	nameScan []string
}

// New builds the standard rule list from kw.
func New(kw Keywords) *Classifier {
	parking := foldAll(kw.Parking)
	business := foldAll(kw.Business)
	placeTypes := foldAll(kw.BusinessPlaceTypes)
	term := fold(kw.CategoryTerm)

	rules := []Rule{
		{
			Name:       "poi_name",
			Confidence: model.ConfidenceHigh,
			Source:     model.SourcePOIName,
			Match:      func(in Input) bool { return containsAny(in.poiName, parking) },
			Facility:   func(in Input) string { return in.POIName },
		},
		{
			Name:       "geocoded_name",
			Confidence: model.ConfidenceHigh,
			Source:     model.SourceGeocodedName,
			Match: func(in Input) bool {
				return in.resolvedName != "" && containsAny(in.resolvedName, parking)
			},
			Facility: func(in Input) string { return in.ResolvedName },
		},
		{
			Name:       "osm_category",
			Confidence: model.ConfidenceMedium,
			Source:     model.SourceOSMCategory,
			Match: func(in Input) bool {
				return term != "" && (strings.Contains(in.placeType, term) || strings.Contains(in.category, term))
			},
			Facility: func(in Input) string {
				if in.ResolvedName != "" {
					return in.ResolvedName
				}
				return "Parking Facility"
			},
		},
		{
			Name:       "address_context",
			Confidence: model.ConfidenceLow,
			Source:     model.SourceAddressContext,
			Match:      func(in Input) bool { return containsAny(in.displayName, parking) },
			Facility:   func(Input) string { return "Parking available" },
		},
		{
			Name:       "business_type",
			Confidence: model.ConfidenceAssumed,
			Source:     model.SourceBusinessType,
			Match: func(in Input) bool {
				return containsAny(in.poiName, business) ||
					containsAny(in.resolvedName, business) ||
					slices.Contains(placeTypes, in.placeType)
			},
			Facility: func(in Input) string { return in.POIName + " Parking" },
		},
	}

	return &Classifier{rules: rules, nameScan: foldAll(kw.NameScan)}
}

// NewDefault builds a classifier over the built-in keywords.
func NewDefault() *Classifier {
	return New(DefaultKeywords())
}

// Rules returns the ordered rule list.
func (c *Classifier) Rules() []Rule {
	return slices.Clone(c.rules)
}

// Classify returns the classification of the first matching rule, or
// model.Unclassified when none match.
func (c *Classifier) Classify(poiName string, res model.GeocodeResult) model.ParkingClassification {
	in := newInput(poiName, res)
	for _, r := range c.rules {
		if r.Match(in) {
			return model.ParkingClassification{
				FacilityName: r.Facility(in),
				Confidence:   r.Confidence,
				Source:       r.Source,
			}
		}
	}
	return model.Unclassified
}

// ScanName reports the first name-scan keyword contained in name.
func (c *Classifier) ScanName(name string) (string, bool) {
	folded := fold(name)
	for _, kw := range c.nameScan {
		if kw != "" && strings.Contains(folded, kw) {
			return kw, true
		}
	}
	return "", false
}

func fold(s string) string {
	return cases.Fold().String(s)
}

func foldAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, fold(s))
	}
	return out
}

func containsAny(s string, keywords []string) bool {
	if s == "" {
		return false
	}
	for _, kw := range keywords {
		if kw != "" && strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
