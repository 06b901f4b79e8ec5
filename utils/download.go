package utils

import (
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/pkg/errors"
)

// IsURL reports whether source is an http(s) address.
func IsURL(source string) bool {
	u, err := url.Parse(source)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// DownloadImage fetches the image at uri into a temporary file, rewound to its
// beginning. The caller removes the file when done.
func DownloadImage(uri string) (*os.File, error) {
	res, err := http.Get(uri)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to download image file from URI: %s", uri)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unable to download image file from URI: %s, status %v", uri, res.Status)
	}

	tmpfile, err := os.CreateTemp("", "lowpoly-*")
	if err != nil {
		return nil, errors.Wrap(err, "unable to create temporary file")
	}
	if _, err := io.Copy(tmpfile, res.Body); err != nil {
		tmpfile.Close()
		os.Remove(tmpfile.Name())
		return nil, errors.Wrap(err, "unable to copy the source URI into the destination file")
	}
	if _, err := tmpfile.Seek(0, io.SeekStart); err != nil {
		tmpfile.Close()
		os.Remove(tmpfile.Name())
		return nil, errors.Wrap(err, "unable to rewind the downloaded file")
	}
	return tmpfile, nil
}
