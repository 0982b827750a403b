package main

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ParseNetworks reads every row of a DB-IP country table into memory.
func ParseNetworks(r io.Reader) ([]NetworkRange, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = networkFields
	cr.ReuseRecord = true
	ranges := make([]NetworkRange, 0, rangesInitCount)
	k := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		k++
		if err != nil {
			return nil, newParseError(k, err)
		}
		ranges = append(ranges, NetworkRange{
			First:  row[0],
			Last:   row[1],
			Alpha2: row[2],
		})
	}

	logrus.Debugf("parsed %d network rows", len(ranges))

	return ranges, nil
}

// LoadNetworks parses the network table at path.
func LoadNetworks(path string) ([]NetworkRange, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newConfigError("unable to open address file: %v", err)
	}
	defer f.Close()

	ranges, err := ParseNetworks(f)
	if err != nil {
		return nil, errors.Wrapf(err, "address file %s", path)
	}
	return ranges, nil
}

// Key returns the nft element literal for the range: a single address
// when both ends match, "first-last" otherwise.
func (n NetworkRange) Key() string {
	if n.First == n.Last {
		return n.First
	}
	return n.First + "-" + n.Last
}

// BuildNetworkTables splits ranges into IPv4 and IPv6 tables, keeping only
// ranges whose country is in known. The family is decided by the first address.
func BuildNetworkTables(ranges []NetworkRange, known map[string]struct{}) (*NetworkTables, error) {
	t := &NetworkTables{
		IPv4: newOrderedMap(len(ranges)),
		IPv6: newOrderedMap(len(ranges) / 4),
	}
	skipped := 0
	for i, n := range ranges {
		alpha2 := strings.ToLower(n.Alpha2)
		if alpha2 == unknownAlpha2 {
			skipped++
			continue
		}
		if _, ok := known[alpha2]; !ok {
			skipped++
			continue
		}

		dst := t.IPv6
		if isIPv4(n.First) {
			dst = t.IPv4
		}
		if err := setNormalized(dst, n.Key(), alpha2); err != nil {
			return nil, errors.Wrapf(err, "network record %d", i+1)
		}
	}

	logrus.Debugf("built network tables: %d ipv4, %d ipv6, %d skipped",
		t.IPv4.Len(), t.IPv6.Len(), skipped)

	return t, nil
}
