package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/btree"
)

type countryItem struct {
	alpha2 string
	name   string
}

func (c countryItem) Less(than btree.Item) bool {
	return c.alpha2 < than.(countryItem).alpha2
}

// ListCountries prints "ALPHA2<TAB>name" for every known country, ordered by code.
func ListCountries(w io.Writer, t *LocationTables) error {
	tree := btree.New(2)
	t.Alpha2.Each(func(name, alpha2 string) bool {
		tree.ReplaceOrInsert(countryItem{alpha2: strings.ToUpper(alpha2), name: name})
		return true
	})

	var err error
	tree.Ascend(func(i btree.Item) bool {
		c := i.(countryItem)
		_, err = fmt.Fprintf(w, "%s\t%s\n", c.alpha2, c.name)
		return err == nil
	})
	return err
}
