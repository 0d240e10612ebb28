package report

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/poi-parking/internal/model"
)

// Options shapes the detailed report for a profile.
type Options struct {
	// Area names the analysed area in the report title.
	Area string
	// Cities are matched against address parts to group assumed parking by
	// city. Empty disables city grouping.
	Cities []string
	// HighlightKeywords and HighlightPlaceTypes select POIs for the
	// highlighted section. Both empty disables it.
	HighlightKeywords   []string
	HighlightPlaceTypes []string
	// HighlightTitle heads the highlighted section.
	HighlightTitle string
}

const (
	wide   = 80
	narrow = 50
	// collapseAbove is the group size from which a place type gets a heading
	// and only its first collapseShow entries are listed.
	collapseAbove = 3
	collapseShow  = 5
)

var upper = cases.Upper(language.Und)

// sourceLevel is the confidence label printed in the all-facilities summary.
var sourceLevel = map[model.Source]string{
	model.SourcePOIName:        "HIGH",
	model.SourceGeocodedName:   "HIGH",
	model.SourceOSMCategory:    "MEDIUM",
	model.SourceBusinessType:   "ASSUMED",
	model.SourceAddressContext: "LOW",
}

// CityOf returns the first address part that is one of cities, or
// model.UnknownRegion.
func CityOf(address string, cities []string) string {
	parts := strings.Split(address, ", ")
	if len(parts) < 2 {
		return model.UnknownRegion
	}
	for _, part := range parts {
		if slices.Contains(cities, part) {
			return part
		}
	}
	return model.UnknownRegion
}

// Highlighted reports whether r matches the highlight keywords (in the POI
// name) or place types of opts.
func (o Options) Highlighted(r model.Record) bool {
	name := strings.ToLower(r.POIName)
	for _, kw := range o.HighlightKeywords {
		if kw != "" && strings.Contains(name, strings.ToLower(kw)) {
			return true
		}
	}
	return slices.Contains(o.HighlightPlaceTypes, r.PlaceType)
}

func formatCoord(v float64) string {
	return fmt.Sprintf("%.6f", v)
}

func placeType(r model.Record) string {
	if r.PlaceType == "" {
		return "unknown"
	}
	return r.PlaceType
}

// groupByType buckets records by place type in first-seen order.
func groupByType(records []model.Record) ([]string, map[string][]model.Record) {
	var order []string
	groups := make(map[string][]model.Record)
	for _, r := range records {
		t := placeType(r)
		if _, ok := groups[t]; !ok {
			order = append(order, t)
		}
		groups[t] = append(groups[t], r)
	}
	return order, groups
}

// WriteDetailed prints the grouped parking report.
func WriteDetailed(w io.Writer, records []model.Record, opts Options) error {
	p := &printer{w: w}
	groups := Group(records)
	t := Count(records)
	cityGrouping := len(opts.Cities) > 0

	city := func(r model.Record) string { return CityOf(r.Address, opts.Cities) }
	coords := func(r model.Record) string {
		return "(" + formatCoord(r.Longitude) + ", " + formatCoord(r.Latitude) + ")"
	}
	banner := func(width int, title string) {
		p.printf("\n%s\n%s\n%s\n", strings.Repeat("=", width), title, strings.Repeat("=", width))
	}

	p.printf("%s\n", strings.Repeat("=", wide))
	p.printf("COMPREHENSIVE PARKING LOT IDENTIFICATION REPORT\n")
	if opts.Area != "" {
		p.printf("Top %d POIs - %s\n", t.Total, opts.Area)
	}
	p.printf("%s\n", strings.Repeat("=", wide))
	p.printf("\nTOTAL POIs ANALYZED: %d\n", t.Total)
	p.printf("PARKING FACILITIES IDENTIFIED: %d\n", t.Identified())

	high := groups[model.ConfidenceHigh]
	banner(narrow, fmt.Sprintf("HIGH CONFIDENCE PARKING FACILITIES (%d)", len(high)))
	p.printf("These POIs explicitly mention parking in their names:\n")
	for i, r := range high {
		p.printf("\n%2d. %s\n", i+1, r.FacilityName)
		p.printf("    POI: %s\n", r.POIName)
		p.printf("    Coordinates: %s\n", coords(r))
		p.printf("    Address: %s\n", r.Address)
		if cityGrouping {
			p.printf("    City: %s\n", city(r))
		}
		p.printf("    Source: %s\n", r.Source)
	}

	medium := groups[model.ConfidenceMedium]
	banner(narrow, fmt.Sprintf("MEDIUM CONFIDENCE PARKING FACILITIES (%d)", len(medium)))
	p.printf("These locations are categorized as parking facilities by OpenStreetMap:\n")
	for i, r := range medium {
		p.printf("\n%2d. %s\n", i+1, r.POIName)
		p.printf("    Parking Name: %s\n", r.FacilityName)
		p.printf("    Coordinates: %s\n", coords(r))
		p.printf("    Address: %s\n", r.Address)
		if cityGrouping {
			p.printf("    City: %s\n", city(r))
		}
		p.printf("    OSM Type: %s\n", r.PlaceType)
	}

	assumed := groups[model.ConfidenceAssumed]
	if cityGrouping {
		banner(narrow, fmt.Sprintf("ASSUMED PARKING FACILITIES BY CITY (%d)", len(assumed)))
		p.printf("Hotels, offices, tech companies, and venues that likely have parking:\n")

		byCity := make(map[string][]model.Record)
		for _, r := range assumed {
			byCity[city(r)] = append(byCity[city(r)], r)
		}
		names := make([]string, 0, len(byCity))
		for name := range byCity {
			names = append(names, name)
		}
		slices.Sort(names)

		for _, name := range names {
			inCity := byCity[name]
			p.printf("\n%s (%d facilities):\n", upper.String(name), len(inCity))
			order, types := groupByType(inCity)
			for _, pt := range order {
				venues := types[pt]
				if len(venues) > collapseAbove {
					p.printf("\n  %s (%d locations):\n", upper.String(pt), len(venues))
					for _, r := range venues[:min(len(venues), collapseShow)] {
						p.printf("    • %s\n", r.POIName)
						p.printf("      %s\n", r.FacilityName)
						p.printf("      %s\n", coords(r))
					}
					if len(venues) > collapseShow {
						p.printf("    ... and %d more\n", len(venues)-collapseShow)
					}
					p.printf("\n")
					continue
				}
				for _, r := range venues {
					p.printf("  • %s (%s)\n", r.POIName, pt)
					p.printf("    %s\n", r.FacilityName)
					p.printf("    %s\n\n", coords(r))
				}
			}
		}
	} else {
		banner(narrow, fmt.Sprintf("ASSUMED PARKING FACILITIES (%d)", len(assumed)))
		p.printf("Hotels, hospitals, venues, and centers that likely have parking:\n")
		order, types := groupByType(assumed)
		for _, pt := range order {
			venues := types[pt]
			p.printf("\n%s (%d facilities):\n", upper.String(pt), len(venues))
			for _, r := range venues {
				p.printf("  • %s\n", r.POIName)
				p.printf("    Parking: %s\n", r.FacilityName)
				p.printf("    Coordinates: %s\n", coords(r))
				p.printf("    Address: %s\n\n", r.Address)
			}
		}
	}

	all := slices.Concat(high, medium, assumed)
	slices.SortStableFunc(all, func(a, b model.Record) int { return cmp.Compare(a.RowID, b.RowID) })
	banner(wide, "SUMMARY: ALL IDENTIFIED PARKING FACILITIES WITH COORDINATES")
	p.printf("Total parking facilities identified: %d\n\n", len(all))
	for i, r := range all {
		level, ok := sourceLevel[r.Source]
		if !ok {
			level = "UNKNOWN"
		}
		p.printf("%3d. %s\n", i+1, r.FacilityName)
		p.printf("     POI Name: %s\n", r.POIName)
		p.printf("     Coordinates: %s\n", coords(r))
		p.printf("     Address: %s\n", r.Address)
		if cityGrouping {
			p.printf("     City: %s\n", city(r))
		}
		p.printf("     Confidence: %s\n\n", level)
	}

	none := groups[model.ConfidenceNone]
	banner(narrow, fmt.Sprintf("POIs WITHOUT IDENTIFIED PARKING (%d)", len(none)))
	p.printf("These POIs do not appear to have dedicated parking facilities:\n")
	order, types := groupByType(none)
	for _, pt := range order {
		pois := types[pt]
		p.printf("\n%s (%d locations):\n", upper.String(pt), len(pois))
		for _, r := range pois {
			p.printf("  • %s - %s\n", r.POIName, coords(r))
		}
	}

	if len(opts.HighlightKeywords) > 0 || len(opts.HighlightPlaceTypes) > 0 {
		var picked []model.Record
		for _, r := range slices.Concat(assumed, none) {
			if opts.Highlighted(r) {
				picked = append(picked, r)
			}
		}
		if len(picked) > 0 {
			title := opts.HighlightTitle
			if title == "" {
				title = "HIGHLIGHTED POIs"
			}
			banner(narrow, fmt.Sprintf("%s (%d)", title, len(picked)))
			for _, r := range picked {
				status := "NO PARKING IDENTIFIED"
				if r.FacilityName != "" {
					status = "HAS PARKING"
				}
				p.printf("  • %s - %s\n", r.POIName, status)
				p.printf("    %s\n", coords(r))
				p.printf("    %s\n\n", r.Address)
			}
		}
	}

	if errs := groups[model.ConfidenceError]; len(errs) > 0 {
		banner(narrow, fmt.Sprintf("LOOKUP ERRORS (%d)", len(errs)))
		for _, r := range errs {
			p.printf("  • %s (rowid %d): %s\n", r.POIName, r.RowID, r.Error)
		}
	}

	p.printf("\n%s\nEND OF REPORT\n%s\n", strings.Repeat("=", wide), strings.Repeat("=", wide))
	return eris.Wrap(p.err, "report: write detailed")
}
