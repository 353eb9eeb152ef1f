package geoip

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/oschwald/geoip2-golang"

	"charityhub/internal/domain"
)

// ErrUnavailable is returned when the resolver is not initialized.
var ErrUnavailable = errors.New("geoip resolver unavailable")

// Resolver provides approximate coordinates for client IPs backed by a
// MaxMind GeoIP2 City database. It satisfies service.Locator.
type Resolver struct {
	reader *geoip2.Reader
}

// NewResolver opens the GeoIP database at the given path. When the path
// is empty, nil is returned and location defaulting is disabled.
func NewResolver(path string) (*Resolver, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("geoip: open database: %w", err)
	}
	return &Resolver{reader: reader}, nil
}

// Locate returns the coordinates recorded for the IP. A nil point with
// nil error means the database has no location for it.
func (r *Resolver) Locate(ip string) (*domain.GeoPoint, error) {
	if r == nil || r.reader == nil {
		return nil, ErrUnavailable
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return nil, fmt.Errorf("geoip: invalid ip %q", ip)
	}
	record, err := r.reader.City(parsed)
	if err != nil {
		return nil, fmt.Errorf("geoip: lookup city: %w", err)
	}
	if record == nil || (record.Location.Latitude == 0 && record.Location.Longitude == 0) {
		return nil, nil
	}
	return &domain.GeoPoint{Lat: record.Location.Latitude, Lng: record.Location.Longitude}, nil
}

// Close closes the underlying database reader.
func (r *Resolver) Close() error {
	if r == nil || r.reader == nil {
		return nil
	}
	return r.reader.Close()
}
