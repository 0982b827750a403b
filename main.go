package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

func main() {
	logrus.SetLevel(logrus.InfoLevel)

	fs, conf, err := parseArgs(os.Args[1:], os.Stderr)
	if err == pflag.ErrHelp {
		os.Exit(0)
	}
	if err == nil {
		err = run(conf, os.Stdout)
	}
	if err != nil {
		os.Exit(fail(os.Stderr, fs, err))
	}
}

// fail reports err, with usage for configuration errors, and returns the exit status.
func fail(w io.Writer, fs *pflag.FlagSet, err error) int {
	if _, ok := errors.Cause(err).(configError); ok {
		fs.Usage()
	}
	fmt.Fprintf(w, "\n%v\n", err)
	return exitCode(err)
}

func parseArgs(args []string, stderr io.Writer) (*pflag.FlagSet, *Config, error) {
	fs := pflag.NewFlagSet("nft-geoip", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Creates nftables geoip definitions and maps.\n\nUsage of nft-geoip:")
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "path to a YAML file with default settings")
	location := fs.String("file-location", "", "path to csv file containing information about countries")
	address := fs.String("file-address", "", "path to db-ip.com lite csv file with ipv4 and ipv6 geoip information")
	download := fs.BoolP("download", "d", false, "fetch geoip data from db-ip.com, overrides --file-address")
	outputDir := fs.StringP("output-dir", "o", "", "existing directory where downloads and output will be saved (default working directory)")
	interesting := fs.StringP("interesting-countries", "c", "", "comma separated country names or alpha-2 codes to build geoip-ipv{4,6}-interesting.nft for")
	list := fs.BoolP("list-countries", "l", false, "print known alpha-2 codes and country names, then exit")
	probe := fs.String("probe", "", "comma separated ipv4 addresses to look up in the generated ipv4 map")
	verbose := fs.BoolP("verbose", "v", false, "debug logging")

	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return fs, nil, err
		}
		return fs, nil, newConfigError("%v", err)
	}
	if fs.NArg() > 0 {
		return fs, nil, newConfigError("unexpected arguments: %v", fs.Args())
	}

	conf := DefaultConfig()
	if *configPath != "" {
		var err error
		conf, err = ParseConfig(*configPath)
		if err != nil {
			return fs, nil, err
		}
	}

	if fs.Changed("file-location") {
		conf.LocationFile = *location
	}
	if fs.Changed("file-address") {
		conf.AddressFile = *address
	}
	if fs.Changed("download") {
		conf.Download = *download
	}
	if fs.Changed("output-dir") {
		conf.OutputDir = *outputDir
	}
	if fs.Changed("interesting-countries") {
		conf.InterestingCountries = *interesting
	}
	conf.ListCountries = *list
	conf.Probe = *probe
	if *verbose {
		conf.LogLevel = uint32(logrus.DebugLevel)
	}

	return fs, conf, nil
}

func run(conf *Config, stdout io.Writer) error {
	if err := conf.Validate(); err != nil {
		return err
	}
	logrus.SetLevel(logrus.Level(conf.LogLevel))

	locations, err := LoadLocations(conf.LocationFile)
	if err != nil {
		return err
	}
	if conf.ListCountries {
		return ListCountries(stdout, locations)
	}

	addressFile := conf.AddressFile
	if conf.Download {
		addressFile, err = NewDownloader(conf).Fetch()
		if err != nil {
			return err
		}
	}
	ranges, err := LoadNetworks(addressFile)
	if err != nil {
		return err
	}

	// every table is built before the first file is written
	networks, err := BuildNetworkTables(ranges, locations.KnownAlpha2())
	if err != nil {
		return err
	}
	var interesting *NetworkTables
	if conf.InterestingCountries != "" {
		interesting, err = buildInteresting(locations, ranges, splitList(conf.InterestingCountries))
		if err != nil {
			return err
		}
	}

	renderer := NewRenderer(conf.OutputDir)

	logrus.Info("writing country definition files...")
	if err := renderer.WriteDefinitions(locations); err != nil {
		return err
	}

	logrus.Info("writing nftables maps (geoip-ipv{4,6}.nft)...")
	if err := renderer.WriteMaps(networks, ""); err != nil {
		return err
	}

	if interesting != nil {
		logrus.Info("writing nftables maps (geoip-ipv{4,6}-interesting.nft)...")
		if err := renderer.WriteMaps(interesting, interestingSuffix); err != nil {
			return err
		}
	}

	if conf.Probe != "" {
		index := NewRangeIndex(ranges, networks)
		logrus.Debugf("indexed %d ipv4 ranges for probing", index.Len())
		if err := index.Probe(stdout, splitList(conf.Probe)); err != nil {
			return err
		}
	}

	logrus.Info("done!")

	return nil
}

// buildInteresting returns nil tables when no country matches tokens.
func buildInteresting(locations *LocationTables, ranges []NetworkRange, tokens []string) (*NetworkTables, error) {
	countries := FilterCountries(locations, tokens)
	if countries.Len() == 0 {
		logrus.Info("no matching countries for --interesting-countries, skipping geoip-ipv{4,6}-interesting.nft")
		return nil, nil
	}

	logrus.Infof("building nftables maps for %d interesting countries", countries.Len())
	return BuildNetworkTables(ranges, knownSet(countries))
}
