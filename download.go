package main

import (
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	DefaultDownloadURL = "https://download.db-ip.com/free/dbip-country-lite-%s.csv.gz"

	downloadArchiveName = "dbip.csv.gz"
	downloadCSVName     = "dbip.csv"
)

// Downloader fetches the monthly DB-IP country lite table.
type Downloader struct {
	urlTemplate string
	dir         string
	client      *http.Client
	now         func() time.Time
}

func NewDownloader(conf *Config) *Downloader {
	tmpl := conf.DownloadURL
	if tmpl == "" {
		tmpl = DefaultDownloadURL
	}
	return &Downloader{
		urlTemplate: tmpl,
		dir:         conf.OutputDir,
		client:      &http.Client{},
		now:         time.Now,
	}
}

func (d *Downloader) URL() string {
	return fmt.Sprintf(d.urlTemplate, d.now().Format("2006-01"))
}

// Fetch downloads and decompresses the table, returning the path of the CSV.
func (d *Downloader) Fetch() (string, error) {
	url := d.URL()
	archive := filepath.Join(d.dir, downloadArchiveName)
	target := filepath.Join(d.dir, downloadCSVName)

	logrus.Infof("downloading db-ip.com geoip csv file from %s", url)

	defer os.Remove(archive)
	if err := d.download(url, archive); err != nil {
		return "", err
	}

	if err := gunzipFile(archive, target); err != nil {
		return "", errors.Wrap(err, "unable to decompress geoip csv file")
	}

	logrus.Debugf("decompressed %s to %s", archive, target)

	return target, nil
}

func (d *Downloader) download(url, dst string) error {
	resp, err := d.client.Get(url)
	if err != nil {
		return newFetchError("unable to get geoip data: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newFetchError("unable to get geoip data: %s returned %s", url, resp.Status)
	}

	out, err := os.Create(dst)
	if err != nil {
		return errors.Wrap(err, "unable to create download file")
	}
	defer out.Close()

	n, err := io.Copy(out, resp.Body)
	if err != nil {
		return newFetchError("unable to read response bytes: %v", err)
	}

	logrus.Debugf("downloaded gzip file, %d bytes", n)

	return out.Close()
}

func gunzipFile(source, destination string) error {
	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	gz, err := gzip.NewReader(in)
	if err != nil {
		return err
	}
	defer gz.Close()

	out, err := os.Create(destination)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, gz); err != nil {
		return err
	}
	return out.Close()
}
