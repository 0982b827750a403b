package main

const (
	locationFields = 11
	networkFields  = 3

	// license notice and header
	locationSkipRows = 2

	// DB-IP marks addresses with no known country as ZZ
	unknownAlpha2 = "zz"

	countriesInitCount = 250
	rangesInitCount    = 5000
)

// CountryRecord is one row of the country/region reference table.
type CountryRecord struct {
	Name                   string
	Alpha2                 string
	Alpha3                 string
	CountryCode            string
	ISO31662               string
	Region                 string
	SubRegion              string
	IntermediateRegion     string
	RegionCode             string
	SubRegionCode          string
	IntermediateRegionCode string
}

// NetworkRange is one row of the DB-IP country lite table.
type NetworkRange struct {
	First  string
	Last   string
	Alpha2 string
}

// LocationTables holds the normalized country mappings.
type LocationTables struct {
	Countries *orderedMap // numeric country code -> country name
	Regions   *orderedMap // country name -> region
	Alpha2    *orderedMap // country name -> alpha-2 code
}

// NetworkTables maps an address or "first-last" range to a lowercase alpha-2 code.
type NetworkTables struct {
	IPv4 *orderedMap
	IPv6 *orderedMap
}

// KnownAlpha2 returns the set of alpha-2 codes present in the tables.
func (t *LocationTables) KnownAlpha2() map[string]struct{} {
	known := make(map[string]struct{}, t.Alpha2.Len())
	t.Alpha2.Each(func(_, alpha2 string) bool {
		known[alpha2] = struct{}{}
		return true
	})
	return known
}
