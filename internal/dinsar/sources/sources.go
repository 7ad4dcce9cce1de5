// Package sources provides the locations CSV exports are read from.
package sources

import (
	"net/http"
	"strings"

	"github.com/gisellucero1507/Proyecto-DInSAR/internal/common"
	"github.com/gisellucero1507/Proyecto-DInSAR/internal/dinsar"
)

// New returns an HTTPSource for http(s) locations and a FileSource otherwise.
func New(location string, client *http.Client) (dinsar.Source, error) {
	location = strings.TrimSpace(location)
	if common.HasAnyPrefix(strings.ToLower(location), "http://", "https://") {
		src, err := NewHTTPSource(location, HTTPClientConfig{Client: client, Backoff: DefaultBackoff})
		if err != nil {
			return nil, err
		}
		return src, nil
	}
	return NewFileSource(location), nil
}

// NewAll builds one source per location, in order.
func NewAll(locations []string, client *http.Client) ([]dinsar.Source, error) {
	out := make([]dinsar.Source, 0, len(locations))
	for _, loc := range locations {
		src, err := New(loc, client)
		if err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	return out, nil
}
