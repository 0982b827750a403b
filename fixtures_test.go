package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testLocationCSV = `"Country list by lukes/ISO-3166-Countries-with-Regional-Codes, CC BY-SA 4.0"
name,alpha-2,alpha-3,country-code,iso_3166-2,region,sub-region,intermediate-region,region-code,sub-region-code,intermediate-region-code
France,FR,FRA,250,ISO 3166-2:FR,Europe,Western Europe,,150,155,
Côte d'Ivoire,CI,CIV,384,ISO 3166-2:CI,Africa,Sub-Saharan Africa,Western Africa,002,202,011
Japan,JP,JPN,392,ISO 3166-2:JP,Asia,Eastern Asia,,142,030,
Afghanistan,AF,AFG,004,ISO 3166-2:AF,Asia,Southern Asia,,142,034,
"Korea, Republic of",KR,KOR,410,ISO 3166-2:KR,Asia,Eastern Asia,,142,030,
`

const testNetworkCSV = `1.2.3.0,1.2.3.255,FR
5.6.7.8,5.6.7.8,JP
9.9.9.0,9.9.9.255,ZZ
10.0.0.0,10.0.0.255,XK
2001:db8::,2001:db8::ffff,CI
2001:db9::1,2001:db9::1,KR
11.0.0.0,11.0.0.255,af
`

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func readTestFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(b)
}

func testLocationTables(t *testing.T) *LocationTables {
	t.Helper()
	records, err := ParseLocations(strings.NewReader(testLocationCSV))
	if err != nil {
		t.Fatalf("failed to parse locations: %v", err)
	}
	tables, err := BuildLocationTables(records)
	if err != nil {
		t.Fatalf("failed to build location tables: %v", err)
	}
	return tables
}

func testNetworkRanges(t *testing.T) []NetworkRange {
	t.Helper()
	ranges, err := ParseNetworks(strings.NewReader(testNetworkCSV))
	if err != nil {
		t.Fatalf("failed to parse networks: %v", err)
	}
	return ranges
}

func entries(m *orderedMap) [][2]string {
	out := make([][2]string, 0, m.Len())
	m.Each(func(k, v string) bool {
		out = append(out, [2]string{k, v})
		return true
	})
	return out
}
