package main

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ParseLocations reads the country/region table. The first two rows
// (license notice and header) are skipped.
func ParseLocations(r io.Reader) ([]CountryRecord, error) {
	br := bufio.NewReader(r)
	k := 0
	for ; k < locationSkipRows; k++ {
		if _, err := br.ReadString('\n'); err != nil {
			if err == io.EOF {
				return []CountryRecord{}, nil
			}
			return nil, newParseError(k+1, err)
		}
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	records := make([]CountryRecord, 0, countriesInitCount)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		k++
		if err != nil {
			return nil, newParseError(k, err)
		}
		rec, err := countryRecordFromRow(row)
		if err != nil {
			return nil, newParseError(k, err)
		}
		records = append(records, rec)
	}

	logrus.Debugf("parsed %d location rows", len(records))

	return records, nil
}

func countryRecordFromRow(row []string) (CountryRecord, error) {
	if len(row) < locationFields {
		return CountryRecord{}, errors.Errorf("expected %d fields, got %d", locationFields, len(row))
	}
	for _, extra := range row[locationFields:] {
		if extra != "" {
			return CountryRecord{}, errors.Errorf("expected %d fields, got %d", locationFields, len(row))
		}
	}
	return CountryRecord{
		Name:                   row[0],
		Alpha2:                 row[1],
		Alpha3:                 row[2],
		CountryCode:            row[3],
		ISO31662:               row[4],
		Region:                 row[5],
		SubRegion:              row[6],
		IntermediateRegion:     row[7],
		RegionCode:             row[8],
		SubRegionCode:          row[9],
		IntermediateRegionCode: row[10],
	}, nil
}

// BuildLocationTables builds the three country mappings. Later rows
// overwrite earlier ones sharing a key.
func BuildLocationTables(records []CountryRecord) (*LocationTables, error) {
	t := &LocationTables{
		Countries: newOrderedMap(len(records)),
		Regions:   newOrderedMap(len(records)),
		Alpha2:    newOrderedMap(len(records)),
	}
	for i, rec := range records {
		code := strings.TrimLeft(rec.CountryCode, "0")
		if err := setNormalized(t.Countries, code, rec.Name); err != nil {
			return nil, errors.Wrapf(err, "location record %d (%s)", i+1, rec.Name)
		}
		if err := setNormalized(t.Regions, rec.Name, rec.Region); err != nil {
			return nil, errors.Wrapf(err, "location record %d (%s)", i+1, rec.Name)
		}
		if err := setNormalized(t.Alpha2, rec.Name, rec.Alpha2); err != nil {
			return nil, errors.Wrapf(err, "location record %d (%s)", i+1, rec.Name)
		}
	}

	logrus.Debugf("built location tables: %d countries, %d regions",
		t.Countries.Len(), len(t.Regions.Values()))

	return t, nil
}

// setNormalized stores Normalize(key) -> Normalize(value), rejecting empty strings.
func setNormalized(m *orderedMap, key, value string) error {
	if key == "" || value == "" {
		return errors.Errorf("empty key or value (%q: %q)", key, value)
	}
	k, v := Normalize(key), Normalize(value)
	if k == "" || v == "" {
		return errors.Errorf("key or value %q: %q is empty after normalization", key, value)
	}
	m.Set(k, v)
	return nil
}

// LoadLocations parses and builds the location tables from a file.
func LoadLocations(path string) (*LocationTables, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newConfigError("unable to open location file: %v", err)
	}
	defer f.Close()

	records, err := ParseLocations(f)
	if err != nil {
		return nil, errors.Wrapf(err, "location file %s", path)
	}
	return BuildLocationTables(records)
}
