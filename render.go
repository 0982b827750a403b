package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	headerTimeLayout = "Mon Jan 02 15:04 2006"
	attribution      = "# IP Geolocation by DB-IP (https://db-ip.com) licensed under CC-BY-SA 4.0\n\n"

	continentDefinitions = "define africa = 1\n" +
		"define asia = 2\n" +
		"define europe = 3\n" +
		"define americas = 4\n" +
		"define oceania = 5\n" +
		"define antarctica = 6\n"

	interestingSuffix = "-interesting"
)

// Renderer writes nft definition and map files into a directory.
type Renderer struct {
	dir string
	now func() time.Time
}

func NewRenderer(dir string) *Renderer {
	return &Renderer{
		dir: dir,
		now: time.Now,
	}
}

// WriteDefinitions writes geoip-def-<region>.nft for every region and
// geoip-def-all.nft with the continent_code map.
func (r *Renderer) WriteDefinitions(t *LocationTables) error {
	for _, region := range t.Regions.Values() {
		name := fmt.Sprintf("geoip-def-%s.nft", region)
		err := r.writeFile(name, func(w io.Writer) error {
			return writeRegionDefinitions(w, t, region)
		})
		if err != nil {
			return err
		}
	}

	return r.writeFile("geoip-def-all.nft", func(w io.Writer) error {
		return writeAllDefinitions(w, t)
	})
}

// WriteMaps writes the geoip4 and geoip6 maps. A non-empty suffix is
// appended to the file names.
func (r *Renderer) WriteMaps(t *NetworkTables, suffix string) error {
	maps := []struct {
		file    string
		name    string
		keyType string
		table   *orderedMap
	}{
		{file: "geoip-ipv4" + suffix + ".nft", name: "geoip4", keyType: "ipv4_addr", table: t.IPv4},
		{file: "geoip-ipv6" + suffix + ".nft", name: "geoip6", keyType: "ipv6_addr", table: t.IPv6},
	}
	for _, m := range maps {
		m := m
		err := r.writeFile(m.file, func(w io.Writer) error {
			if err := r.writeHeader(w); err != nil {
				return err
			}
			return writeIntervalMap(w, m.name, m.keyType, addressElements(m.table))
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) writeHeader(w io.Writer) error {
	_, err := fmt.Fprintf(w, "# Generated by nft-geoip on %s\n%s", r.now().Format(headerTimeLayout), attribution)
	return err
}

// writeFile truncates dir/name and fills it with fn.
func (r *Renderer) writeFile(name string, fn func(w io.Writer) error) error {
	path := filepath.Join(r.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "unable to create output file")
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := fn(bw); err != nil {
		return errors.Wrapf(err, "unable to write %s", path)
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrapf(err, "unable to write %s", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "unable to close %s", path)
	}

	logrus.Debugf("wrote %s", path)

	return nil
}

func writeRegionDefinitions(w io.Writer, t *LocationTables, region string) error {
	var err error
	t.Countries.Each(func(code, country string) bool {
		r, ok := t.Regions.Get(country)
		if !ok {
			logrus.Infof("no region for %s, skipping it in geoip-def-%s.nft", country, region)
			return true
		}
		if r != region {
			return true
		}
		alpha2, ok := t.Alpha2.Get(country)
		if !ok {
			logrus.Infof("no alpha-2 code for %s, skipping it in geoip-def-%s.nft", country, region)
			return true
		}
		err = writeDefinition(w, alpha2, code)
		return err == nil
	})
	return err
}

func writeAllDefinitions(w io.Writer, t *LocationTables) error {
	var err error
	t.Countries.Each(func(code, country string) bool {
		alpha2, ok := t.Alpha2.Get(country)
		if !ok {
			err = errors.Errorf("no alpha-2 code for %s", country)
			return false
		}
		err = writeDefinition(w, alpha2, code)
		return err == nil
	})
	if err != nil {
		return err
	}

	if _, err := io.WriteString(w, "\n\n"+continentDefinitions+"\n"); err != nil {
		return err
	}
	return writeIntervalMap(w, "continent_code", "mark", continentElements(t))
}

func writeDefinition(w io.Writer, alpha2, code string) error {
	_, err := fmt.Fprintf(w, "define %s = %s\n", strings.ToUpper(alpha2), code)
	return err
}

func writeIntervalMap(w io.Writer, name, keyType string, elements []string) error {
	_, err := fmt.Fprintf(w, "map %s {\n\ttype %s : mark\n\tflags interval\n\telements = {\n\t\t%s\n\t}\n}\n",
		name, keyType, strings.Join(elements, ",\n\t\t"))
	return err
}

// addressElements renders "<literal> : $<ALPHA2>" elements.
func addressElements(m *orderedMap) []string {
	out := make([]string, 0, m.Len())
	m.Each(func(key, alpha2 string) bool {
		out = append(out, fmt.Sprintf("%s : $%s", key, strings.ToUpper(alpha2)))
		return true
	})
	return out
}

// continentElements renders "$<ALPHA2> : $<region>" elements, one per alpha-2 code.
func continentElements(t *LocationTables) []string {
	byAlpha2 := newOrderedMap(t.Regions.Len())
	t.Regions.Each(func(country, region string) bool {
		if alpha2, ok := t.Alpha2.Get(country); ok {
			byAlpha2.Set(strings.ToUpper(alpha2), region)
		}
		return true
	})

	out := make([]string, 0, byAlpha2.Len())
	byAlpha2.Each(func(alpha2, region string) bool {
		out = append(out, fmt.Sprintf("$%s : $%s", alpha2, region))
		return true
	})
	return out
}
