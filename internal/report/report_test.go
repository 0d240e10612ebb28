package report

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/poi-parking/internal/model"
)

func fixtureRecords() []model.Record {
	return []model.Record{
		{RowID: 3, POIName: "Marriott Palo Alto", Geography: "South_Bay", Latitude: 37.44, Longitude: -122.16,
			PlaceType: "hotel", FacilityName: "Marriott Palo Alto Parking", Confidence: model.ConfidenceAssumed,
			Source: model.SourceBusinessType, Address: "1 University Ave, Palo Alto, California, 94301"},
		{RowID: 1, POIName: "City Hall Parking Garage", Geography: "Houston", Latitude: 29.75, Longitude: -95.36,
			FacilityName: "City Hall Parking Garage", Confidence: model.ConfidenceHigh, Source: model.SourcePOIName,
			Address: "901 Bagby St, Houston, Texas", OSMID: "12345"},
		{RowID: 2, POIName: "Lot 7", Latitude: 29.7, Longitude: -95.3, PlaceType: "parking", Category: "amenity",
			FacilityName: "Lot 7", Confidence: model.ConfidenceMedium, Source: model.SourceOSMCategory},
		{RowID: 4, POIName: "Googleplex", PlaceType: "company", Confidence: model.ConfidenceNone, Source: model.SourceNone,
			Address: "1600 Amphitheatre Pkwy, Mountain View, California"},
		{RowID: 5, POIName: "Quiet Street", Confidence: model.ConfidenceLow, Source: model.SourceAddressContext,
			FacilityName: "Parking available", DisplayName: "Parking Way, Houston"},
		{RowID: 6, POIName: "Nowhere, \"quoted\"", Confidence: model.ConfidenceError, Source: model.SourceNone, Error: "timeout"},
	}
}

func TestCSV_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, fixtureRecords()))

	header, _, _ := strings.Cut(buf.String(), "\n")
	assert.Equal(t, strings.Join(model.Columns, ","), header)

	got, err := ReadCSV(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(fixtureRecords(), got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCSVFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteCSVFile(path, fixtureRecords()))

	got, err := ReadCSVFile(path)
	require.NoError(t, err)
	assert.Len(t, got, len(fixtureRecords()))
}

func TestReadCSV_Errors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.Error(t, err)

	_, err = ReadCSV(strings.NewReader("name,lat\nx,1\n"))
	assert.ErrorContains(t, err, "missing column")

	_, err = ReadCSV(strings.NewReader("rowid,poi_name,parking_confidence\nabc,x,high\n"))
	assert.ErrorContains(t, err, "line 2")
}

func TestReadCSV_ToleratesColumnOrder(t *testing.T) {
	got, err := ReadCSV(strings.NewReader("parking_confidence,poi_name,rowid\nhigh,Deck A,9\n"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.Record{RowID: 9, POIName: "Deck A", Confidence: model.ConfidenceHigh}, got[0])
}

func TestCount(t *testing.T) {
	tally := Count(fixtureRecords())
	assert.Equal(t, Tally{Total: 6, High: 1, Medium: 1, Assumed: 1, Low: 1, None: 1, Errors: 1}, tally)
	assert.Equal(t, 3, tally.Identified())
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, fixtureRecords(), "complete_parking_analysis.csv"))

	out := buf.String()
	assert.Contains(t, out, "Total POIs processed: 6")
	assert.Contains(t, out, "High confidence parking facilities: 1")
	assert.Contains(t, out, "Errors: 1")
	assert.Contains(t, out, "  - City Hall Parking Garage (City Hall Parking Garage)")
	assert.Contains(t, out, "Results saved to: complete_parking_analysis.csv")
}

func TestCityOf(t *testing.T) {
	cities := []string{"Palo Alto", "Mountain View"}
	assert.Equal(t, "Palo Alto", CityOf("1 University Ave, Palo Alto, California", cities))
	assert.Equal(t, "Unknown", CityOf("Palo Alto", cities), "single part addresses are not split")
	assert.Equal(t, "Unknown", CityOf("1 Main St, Houston, Texas", cities))
	assert.Equal(t, "Unknown", CityOf("", nil))
}

func TestWriteDetailed_Citywide(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDetailed(&buf, fixtureRecords(), Options{Area: "Houston, Texas"}))
	out := buf.String()

	assert.Contains(t, out, "Top 6 POIs - Houston, Texas")
	assert.Contains(t, out, "PARKING FACILITIES IDENTIFIED: 3")
	assert.Contains(t, out, "HIGH CONFIDENCE PARKING FACILITIES (1)")
	assert.Contains(t, out, "Coordinates: (-95.360000, 29.750000)")
	assert.Contains(t, out, "ASSUMED PARKING FACILITIES (1)")
	assert.Contains(t, out, "HOTEL (1 facilities):")
	assert.Contains(t, out, "POIs WITHOUT IDENTIFIED PARKING (1)")
	assert.Contains(t, out, "COMPANY (1 locations):")
	assert.Contains(t, out, "LOOKUP ERRORS (1)")
	assert.NotContains(t, out, "City:")
	assert.NotContains(t, out, "HIGHLIGHTED")

	// Summary section lists identified facilities by rowid.
	summary := out[strings.Index(out, "SUMMARY:"):]
	first := strings.Index(summary, "  1. City Hall Parking Garage")
	second := strings.Index(summary, "  2. Lot 7")
	third := strings.Index(summary, "  3. Marriott Palo Alto Parking")
	assert.True(t, first >= 0 && first < second && second < third, "summary sorted by rowid")
	assert.Contains(t, summary, "Confidence: MEDIUM")
}

func TestWriteDetailed_CityGroupingAndHighlights(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{
		Area:                "South Bay Area, California",
		Cities:              []string{"Palo Alto", "Mountain View"},
		HighlightKeywords:   []string{"google"},
		HighlightPlaceTypes: []string{"company"},
		HighlightTitle:      "TECH COMPANY CAMPUSES",
	}
	require.NoError(t, WriteDetailed(&buf, fixtureRecords(), opts))
	out := buf.String()

	assert.Contains(t, out, "ASSUMED PARKING FACILITIES BY CITY (1)")
	assert.Contains(t, out, "PALO ALTO (1 facilities):")
	assert.Contains(t, out, "  • Marriott Palo Alto (hotel)")
	assert.Contains(t, out, "City: Palo Alto")
	assert.Contains(t, out, "TECH COMPANY CAMPUSES (1)")
	assert.Contains(t, out, "  • Googleplex - NO PARKING IDENTIFIED")
}

func TestWriteDetailed_CollapsesLargeTypeGroups(t *testing.T) {
	var records []model.Record
	for i := 1; i <= 7; i++ {
		records = append(records, model.Record{
			RowID: i, POIName: "Office " + string(rune('A'+i-1)), PlaceType: "office",
			Confidence: model.ConfidenceAssumed, Source: model.SourceBusinessType,
			Address: "1 Castro St, Mountain View, California",
		})
	}
	var buf bytes.Buffer
	require.NoError(t, WriteDetailed(&buf, records, Options{Cities: []string{"Mountain View"}}))
	out := buf.String()

	assert.Contains(t, out, "MOUNTAIN VIEW (7 facilities):")
	assert.Contains(t, out, "  OFFICE (7 locations):")
	assert.Contains(t, out, "    • Office E")
	assert.NotContains(t, out, "    • Office F")
	assert.Contains(t, out, "    ... and 2 more")
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parking.xlsx")
	require.NoError(t, WriteXLSX(path, fixtureRecords()))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	names := make([]string, 0, len(f.Sheets))
	for _, s := range f.Sheets {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"summary", "high", "medium", "assumed", "low", "none", "error"}, names)

	summary := f.Sheet[SummarySheet]
	require.Len(t, summary.Rows, len(model.Tiers)+2)
	assert.Equal(t, "total", summary.Rows[len(summary.Rows)-1].Cells[0].String())
	assert.Equal(t, "6", summary.Rows[len(summary.Rows)-1].Cells[1].String())

	high := f.Sheet["high"]
	require.Len(t, high.Rows, 2)
	assert.Equal(t, "rowid", high.Rows[0].Cells[0].String())
	assert.Equal(t, "City Hall Parking Garage", high.Rows[1].Cells[1].String())
}
