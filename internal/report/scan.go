package report

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/poi-parking/internal/model"
)

// ScanResult is the name-only parking check of one POI. An empty Indicator
// means no keyword matched.
type ScanResult struct {
	POI       model.POI
	Indicator string
}

// IsParking reports whether the name scan matched.
func (s ScanResult) IsParking() bool { return s.Indicator != "" }

// ScanColumns is the header of the all-POI scan CSV.
var ScanColumns = []string{"rowid", "poi_name", "geography", "longitude", "latitude", "is_parking_facility", "parking_indicator"}

// ParkingColumns is the header of the parking-only scan CSV.
var ParkingColumns = []string{"rowid", "poi_name", "geography", "longitude", "latitude", "parking_indicator"}

// WriteScanCSV writes every result, or only the matches when parkingOnly is
// set.
func WriteScanCSV(w io.Writer, results []ScanResult, parkingOnly bool) error {
	cw := csv.NewWriter(w)
	header := ScanColumns
	if parkingOnly {
		header = ParkingColumns
	}
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "csv: write header")
	}
	for _, s := range results {
		if parkingOnly && !s.IsParking() {
			continue
		}
		fields := []string{
			strconv.Itoa(s.POI.ID),
			s.POI.Name,
			s.POI.Region,
			formatFloat(s.POI.Longitude),
			formatFloat(s.POI.Latitude),
		}
		if !parkingOnly {
			fields = append(fields, strconv.FormatBool(s.IsParking()))
		}
		fields = append(fields, s.Indicator)
		if err := cw.Write(fields); err != nil {
			return eris.Wrapf(err, "csv: write row %d", s.POI.ID)
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "csv: flush")
}

// WriteScanCSVFile writes results to path.
func WriteScanCSVFile(path string, results []ScanResult, parkingOnly bool) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "csv: create %s", path)
	}
	if err := WriteScanCSV(f, results, parkingOnly); err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	return eris.Wrapf(f.Close(), "csv: close %s", path)
}

// WriteScanSummary prints the counts and every matched POI.
func WriteScanSummary(w io.Writer, results []ScanResult) error {
	p := &printer{w: w}
	var matched []ScanResult
	for _, s := range results {
		if s.IsParking() {
			matched = append(matched, s)
		}
	}

	p.printf("\n=== RESULTS ===\n")
	p.printf("Total POIs analyzed: %d\n", len(results))
	p.printf("Parking facilities identified: %d\n", len(matched))
	if len(matched) > 0 {
		p.printf("\nParking facilities found by name analysis:\n")
		p.printf("%s\n", strings.Repeat("-", wide))
		for i, s := range matched {
			p.printf("%2d. %s\n", i+1, s.POI.Name)
			p.printf("    Coordinates: (%s, %s)\n", formatCoord(s.POI.Longitude), formatCoord(s.POI.Latitude))
			p.printf("    Geography: %s\n", s.POI.Region)
			p.printf("    Parking indicator: '%s'\n\n", s.Indicator)
		}
	}
	return p.err
}
