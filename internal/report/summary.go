package report

import (
	"fmt"
	"io"

	"github.com/sells-group/poi-parking/internal/model"
)

// Tally counts records per confidence tier.
type Tally struct {
	Total   int
	High    int
	Medium  int
	Assumed int
	Low     int
	None    int
	Errors  int
}

// Identified is the number of records the reports treat as having parking.
func (t Tally) Identified() int {
	return t.High + t.Medium + t.Assumed
}

// Count tallies records by confidence.
func Count(records []model.Record) Tally {
	t := Tally{Total: len(records)}
	for _, r := range records {
		switch r.Confidence {
		case model.ConfidenceHigh:
			t.High++
		case model.ConfidenceMedium:
			t.Medium++
		case model.ConfidenceAssumed:
			t.Assumed++
		case model.ConfidenceLow:
			t.Low++
		case model.ConfidenceError:
			t.Errors++
		default:
			t.None++
		}
	}
	return t
}

// Group splits records by confidence, keeping input order within each tier.
func Group(records []model.Record) map[model.Confidence][]model.Record {
	groups := make(map[model.Confidence][]model.Record, len(model.Tiers))
	for _, r := range records {
		c := r.Confidence
		if c == "" {
			c = model.ConfidenceNone
		}
		groups[c] = append(groups[c], r)
	}
	return groups
}

// WriteSummary prints the end-of-run counts and the high-confidence list.
// outputPath is echoed when non-empty.
func WriteSummary(w io.Writer, records []model.Record, outputPath string) error {
	t := Count(records)
	p := &printer{w: w}

	p.printf("\n=== GEOCODING COMPLETE ===\n")
	p.printf("Total POIs processed: %d\n", t.Total)
	p.printf("High confidence parking facilities: %d\n", t.High)
	p.printf("Medium confidence parking facilities: %d\n", t.Medium)
	p.printf("Assumed parking (hotels/venues): %d\n", t.Assumed)
	p.printf("Low confidence: %d\n", t.Low)
	p.printf("Errors: %d\n", t.Errors)

	if high := Group(records)[model.ConfidenceHigh]; len(high) > 0 {
		p.printf("\nHigh confidence parking facilities:\n")
		for _, r := range high {
			p.printf("  - %s (%s)\n", r.FacilityName, r.POIName)
		}
	}
	if outputPath != "" {
		p.printf("\nResults saved to: %s\n", outputPath)
	}
	return p.err
}

// printer remembers the first write error so report bodies stay linear.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
