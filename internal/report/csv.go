// Package report writes pipeline records as CSV, text reports and workbooks.
package report

import (
	"encoding/csv"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/poi-parking/internal/model"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// row renders r in model.Columns order.
func row(r model.Record) []string {
	return []string{
		strconv.Itoa(r.RowID),
		r.POIName,
		r.Geography,
		formatFloat(r.Latitude),
		formatFloat(r.Longitude),
		r.GeocodedName,
		r.DisplayName,
		r.PlaceType,
		r.Category,
		r.FacilityName,
		string(r.Confidence),
		string(r.Source),
		r.Address,
		r.OSMID,
		r.Error,
	}
}

// WriteCSV writes the header and one row per record.
func WriteCSV(w io.Writer, records []model.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(model.Columns); err != nil {
		return eris.Wrap(err, "csv: write header")
	}
	for _, r := range records {
		if err := cw.Write(row(r)); err != nil {
			return eris.Wrapf(err, "csv: write row %d", r.RowID)
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "csv: flush")
}

// WriteCSVFile creates (or truncates) path and writes records to it.
func WriteCSVFile(path string, records []model.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "csv: create %s", path)
	}
	if err := WriteCSV(f, records); err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	return eris.Wrapf(f.Close(), "csv: close %s", path)
}

// ReadCSV parses a file written by WriteCSV. Columns are matched by header
// name so extra or reordered columns are tolerated.
func ReadCSV(r io.Reader) ([]model.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, eris.New("csv: empty file")
	}
	if err != nil {
		return nil, eris.Wrap(err, "csv: read header")
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	for _, required := range []string{"rowid", "poi_name", "parking_confidence"} {
		if !slices.Contains(header, required) {
			return nil, eris.Errorf("csv: missing column %q", required)
		}
	}

	var records []model.Record
	for line := 2; ; line++ {
		fields, err := cr.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, eris.Wrapf(err, "csv: read line %d", line)
		}
		rec, err := parseRow(fields, idx)
		if err != nil {
			return nil, eris.Wrapf(err, "csv: line %d", line)
		}
		records = append(records, rec)
	}
}

func parseRow(fields []string, idx map[string]int) (model.Record, error) {
	get := func(col string) string {
		i, ok := idx[col]
		if !ok || i >= len(fields) {
			return ""
		}
		return fields[i]
	}
	num := func(col string) (float64, error) {
		s := get(col)
		if s == "" {
			return 0, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		return v, eris.Wrapf(err, "parse %s", col)
	}

	id, err := strconv.Atoi(get("rowid"))
	if err != nil {
		return model.Record{}, eris.Wrap(err, "parse rowid")
	}
	lat, err := num("latitude")
	if err != nil {
		return model.Record{}, err
	}
	lon, err := num("longitude")
	if err != nil {
		return model.Record{}, err
	}

	return model.Record{
		RowID:        id,
		POIName:      get("poi_name"),
		Geography:    get("geography"),
		Latitude:     lat,
		Longitude:    lon,
		GeocodedName: get("geocoded_name"),
		DisplayName:  get("display_name"),
		PlaceType:    get("place_type"),
		Category:     get("category"),
		FacilityName: get("parking_facility_name"),
		Confidence:   model.Confidence(get("parking_confidence")),
		Source:       model.Source(get("parking_source")),
		Address:      get("address"),
		OSMID:        get("osm_id"),
		Error:        get("error"),
	}, nil
}

// ReadCSVFile opens path and parses it with ReadCSV.
func ReadCSVFile(path string) ([]model.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "csv: open %s", path)
	}
	defer f.Close() //nolint:errcheck
	return ReadCSV(f)
}
