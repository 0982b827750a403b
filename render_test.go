package main

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func testRenderer(t *testing.T) (*Renderer, string) {
	t.Helper()
	dir := t.TempDir()
	r := NewRenderer(dir)
	r.now = func() time.Time {
		return time.Date(2019, time.June, 1, 12, 30, 0, 0, time.UTC)
	}
	return r, dir
}

func TestRenderer_WriteDefinitions(t *testing.T) {
	r, dir := testRenderer(t)
	if err := r.WriteDefinitions(testLocationTables(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		file string
		want string
	}{
		{file: "geoip-def-europe.nft", want: "define FR = 250\n"},
		{file: "geoip-def-africa.nft", want: "define CI = 384\n"},
		{file: "geoip-def-asia.nft", want: "define JP = 392\ndefine AF = 4\ndefine KR = 410\n"},
		{
			file: "geoip-def-all.nft",
			want: "define FR = 250\n" +
				"define CI = 384\n" +
				"define JP = 392\n" +
				"define AF = 4\n" +
				"define KR = 410\n" +
				"\n\n" +
				"define africa = 1\n" +
				"define asia = 2\n" +
				"define europe = 3\n" +
				"define americas = 4\n" +
				"define oceania = 5\n" +
				"define antarctica = 6\n" +
				"\n" +
				"map continent_code {\n" +
				"\ttype mark : mark\n" +
				"\tflags interval\n" +
				"\telements = {\n" +
				"\t\t$FR : $europe,\n" +
				"\t\t$CI : $africa,\n" +
				"\t\t$JP : $asia,\n" +
				"\t\t$AF : $asia,\n" +
				"\t\t$KR : $asia\n" +
				"\t}\n" +
				"}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			if got := readTestFile(t, filepath.Join(dir, tt.file)); got != tt.want {
				t.Errorf("expected:\n%s\ngot:\n%s", tt.want, got)
			}
		})
	}
}

func TestRenderer_WriteDefinitions_SkipsUnresolvedRegion(t *testing.T) {
	tables := testLocationTables(t)
	// a numeric code pointing at a country with no region entry
	tables.Countries.Set("999", "atlantis")
	tables.Alpha2.Set("atlantis", "at")

	hook := test.NewGlobal()
	defer hook.Reset()

	r, dir := testRenderer(t)
	if err := r.WriteDefinitions(tables); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "define JP = 392\ndefine AF = 4\ndefine KR = 410\n"
	if got := readTestFile(t, filepath.Join(dir, "geoip-def-asia.nft")); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if got := readTestFile(t, filepath.Join(dir, "geoip-def-all.nft")); !strings.Contains(got, "define AT = 999\n") {
		t.Errorf("expected AT definition in geoip-def-all.nft, got:\n%s", got)
	}

	skips := 0
	for _, e := range hook.AllEntries() {
		if strings.Contains(e.Message, "no region for atlantis") {
			skips++
			if e.Level != logrus.InfoLevel {
				t.Errorf("expected info level for skip, got %s", e.Level)
			}
		}
	}
	if skips == 0 {
		t.Error("expected the skipped country to be logged")
	}
}

func TestRenderer_ContinentMapRoundTrip(t *testing.T) {
	tables := testLocationTables(t)
	r, dir := testRenderer(t)
	if err := r.WriteDefinitions(tables); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content := readTestFile(t, filepath.Join(dir, "geoip-def-all.nft"))
	elementRe := regexp.MustCompile(`(?m)^\t\t\$([A-Z]+) : \$(\S+?),?$`)

	var got []string
	seen := make(map[string]bool)
	for _, m := range elementRe.FindAllStringSubmatch(content, -1) {
		pair := strings.ToLower(m[1]) + " " + m[2]
		if seen[pair] {
			t.Errorf("duplicate element %s", pair)
		}
		seen[pair] = true
		got = append(got, pair)
	}

	var want []string
	tables.Regions.Each(func(country, region string) bool {
		alpha2, _ := tables.Alpha2.Get(country)
		want = append(want, alpha2+" "+region)
		return true
	})

	sort.Strings(got)
	sort.Strings(want)
	if strings.Join(got, ";") != strings.Join(want, ";") {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestRenderer_WriteMaps(t *testing.T) {
	networks, err := BuildNetworkTables(testNetworkRanges(t), testLocationTables(t).KnownAlpha2())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r, dir := testRenderer(t)
	if err := r.WriteMaps(networks, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	header := "# Generated by nft-geoip on Sat Jun 01 12:30 2019\n" +
		"# IP Geolocation by DB-IP (https://db-ip.com) licensed under CC-BY-SA 4.0\n\n"

	wantIPv4 := header +
		"map geoip4 {\n" +
		"\ttype ipv4_addr : mark\n" +
		"\tflags interval\n" +
		"\telements = {\n" +
		"\t\t1.2.3.0-1.2.3.255 : $FR,\n" +
		"\t\t5.6.7.8 : $JP,\n" +
		"\t\t11.0.0.0-11.0.0.255 : $AF\n" +
		"\t}\n" +
		"}\n"
	if got := readTestFile(t, filepath.Join(dir, "geoip-ipv4.nft")); got != wantIPv4 {
		t.Errorf("ipv4 expected:\n%s\ngot:\n%s", wantIPv4, got)
	}

	wantIPv6 := header +
		"map geoip6 {\n" +
		"\ttype ipv6_addr : mark\n" +
		"\tflags interval\n" +
		"\telements = {\n" +
		"\t\t2001:db8::-2001:db8::ffff : $CI,\n" +
		"\t\t2001:db9::1 : $KR\n" +
		"\t}\n" +
		"}\n"
	if got := readTestFile(t, filepath.Join(dir, "geoip-ipv6.nft")); got != wantIPv6 {
		t.Errorf("ipv6 expected:\n%s\ngot:\n%s", wantIPv6, got)
	}
}

func TestRenderer_WriteMaps_Suffix(t *testing.T) {
	r, dir := testRenderer(t)
	empty := &NetworkTables{IPv4: newOrderedMap(0), IPv6: newOrderedMap(0)}
	if err := r.WriteMaps(empty, interestingSuffix); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := readTestFile(t, filepath.Join(dir, "geoip-ipv4-interesting.nft"))
	if !strings.HasSuffix(got, "\telements = {\n\t\t\n\t}\n}\n") {
		t.Errorf("unexpected empty map rendering:\n%s", got)
	}
	readTestFile(t, filepath.Join(dir, "geoip-ipv6-interesting.nft"))
}

func TestRenderer_TruncatesExistingFile(t *testing.T) {
	r, dir := testRenderer(t)
	path := writeTestFile(t, dir, "geoip-def-europe.nft", strings.Repeat("stale\n", 100))

	if err := r.WriteDefinitions(testLocationTables(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := readTestFile(t, path); got != "define FR = 250\n" {
		t.Errorf("expected file to be rewritten, got %q", got)
	}
}

func TestRenderer_InvalidDir(t *testing.T) {
	r := NewRenderer("/nonexistent/output")
	if err := r.WriteDefinitions(testLocationTables(t)); err == nil {
		t.Fatal("expected error for missing output directory")
	}
}
