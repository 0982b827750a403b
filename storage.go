package main

import (
	"fmt"
	"io"
	"strings"

	btree "github.com/Rikanishu/btree/ui32"
	"github.com/sirupsen/logrus"
)

// RangeIndex answers which country an IPv4 address falls into.
type RangeIndex struct {
	tree *btree.BTree
}

// NewRangeIndex indexes the IPv4 ranges that made it into the network tables.
func NewRangeIndex(ranges []NetworkRange, t *NetworkTables) *RangeIndex {
	treeMap := make(map[uint32]map[uint32]string)
	for _, n := range ranges {
		alpha2, ok := t.IPv4.Get(Normalize(n.Key()))
		if !ok {
			continue
		}
		start, end, err := rangeBounds(n)
		if err != nil {
			logrus.Debugf("not indexing range %s: %v", n.Key(), err)
			continue
		}
		if _, ok := treeMap[start]; !ok {
			treeMap[start] = make(map[uint32]string)
		}
		treeMap[start][end] = alpha2
	}

	t4 := btree.New(2)
	for start, ends := range treeMap {
		et := btree.New(2)
		for end, alpha2 := range ends {
			et.ReplaceOrInsert(&btree.Item{
				Key:     end,
				Payload: alpha2,
			})
		}
		t4.ReplaceOrInsert(&btree.Item{
			Key:     start,
			SubTree: et,
		})
	}

	return &RangeIndex{tree: t4}
}

// Find returns the lowercase alpha-2 code of the range holding ip.
func (s *RangeIndex) Find(ip uint32) (string, bool) {
	var found string
	s.tree.DescendLessOrEqual(&btree.Item{
		Key: ip,
	}, func(item *btree.Item) bool {
		item.SubTree.AscendGreaterOrEqual(&btree.Item{
			Key: ip,
		}, func(item *btree.Item) bool {
			found = item.Payload.(string)
			return false
		})
		return found == ""
	})

	return found, found != ""
}

// Len returns the number of indexed ranges.
func (s *RangeIndex) Len() int {
	n := 0
	s.tree.Ascend(func(i *btree.Item) bool {
		if i.SubTree != nil {
			n += i.SubTree.Len()
		}
		return true
	})
	return n
}

// Probe prints the country each address would be mapped to.
func (s *RangeIndex) Probe(w io.Writer, addrs []string) error {
	for _, addr := range addrs {
		result := "-"
		ip, err := ipv4toUint32(addr)
		if err != nil {
			logrus.Warnf("cannot probe %s: only ipv4 addresses are supported", addr)
		} else if alpha2, ok := s.Find(ip); ok {
			result = strings.ToUpper(alpha2)
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\n", addr, result); err != nil {
			return err
		}
	}
	return nil
}
