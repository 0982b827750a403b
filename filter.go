package main

import (
	"github.com/sirupsen/logrus"
)

// FilterCountries selects the countries whose normalized name or alpha-2 code
// matches one of tokens. The result maps alpha-2 code to country name.
func FilterCountries(t *LocationTables, tokens []string) *orderedMap {
	wanted := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		wanted[Normalize(tok)] = struct{}{}
	}

	out := newOrderedMap(len(tokens))
	t.Alpha2.Each(func(name, alpha2 string) bool {
		_, byName := wanted[name]
		_, byCode := wanted[alpha2]
		if byName || byCode {
			out.Set(alpha2, name)
		}
		return true
	})

	logrus.Debugf("country filter matched %d of %d tokens", out.Len(), len(tokens))

	return out
}

// knownSet returns the keys of m as a set.
func knownSet(m *orderedMap) map[string]struct{} {
	known := make(map[string]struct{}, m.Len())
	for _, k := range m.Keys() {
		known[k] = struct{}{}
	}
	return known
}
