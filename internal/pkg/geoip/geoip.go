// Package geoip provides best-effort location lookups backed by a local
// MaxMind GeoLite2 database. The database is optional: without it every
// lookup degrades to an "Unknown" location.
package geoip

import (
	"log/slog"
	"net"
	"os"

	"github.com/oschwald/geoip2-golang"
	"github.com/pariz/gountries"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"webstat/internal/events"
)

// Resolver wraps an optional GeoLite2 reader.
type Resolver struct {
	reader    *geoip2.Reader
	countries *gountries.Query
	logger    *slog.Logger
	titleCase cases.Caser
}

// NewResolver opens the GeoLite2 database at path. A missing or unreadable
// database disables lookups rather than failing startup.
func NewResolver(path string, logger *slog.Logger) *Resolver {
	r := &Resolver{
		countries: gountries.New(),
		logger:    logger,
		titleCase: cases.Title(language.English),
	}

	if path == "" {
		logger.Debug("GeoIP database path not configured - location lookups disabled")
		return r
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info("GeoLite2 database not found - location lookups disabled",
			slog.String("path", path),
			slog.String("hint", "Download from https://www.maxmind.com/en/geolite2/signup"))
		return r
	}

	reader, err := geoip2.Open(path)
	if err != nil {
		logger.Error("Failed to open GeoLite2 database",
			slog.String("path", path),
			slog.Any("error", err))
		return r
	}

	logger.Info("GeoLite2 database initialized", slog.String("path", path))
	r.reader = reader
	return r
}

// unknownLocation is the fallback for every failed lookup.
func unknownLocation(ip string) events.Location {
	return events.Location{IP: ip, City: "Unknown", Country: "Unknown"}
}

// Lookup resolves an IP address to a location, degrading to Unknown on any
// failure.
func (r *Resolver) Lookup(ipStr string) events.Location {
	if r.reader == nil {
		return unknownLocation(ipStr)
	}

	ip := net.ParseIP(ipStr)
	if ip == nil {
		r.logger.Debug("Unparseable client IP for geo lookup", slog.String("ip", ipStr))
		return unknownLocation(ipStr)
	}

	city, err := r.reader.City(ip)
	if err != nil {
		r.logger.Debug("GeoIP lookup failed", slog.String("ip", ipStr), slog.Any("error", err))
		return unknownLocation(ipStr)
	}

	loc := events.Location{
		IP:      ipStr,
		City:    city.City.Names["en"],
		Country: r.countryName(city.Country.IsoCode, city.Country.Names["en"]),
	}
	if len(city.Subdivisions) > 0 {
		loc.Region = city.Subdivisions[0].Names["en"]
	}
	loc.Timezone = city.Location.TimeZone

	if loc.City == "" {
		loc.City = "Unknown"
	} else {
		loc.City = r.titleCase.String(loc.City)
	}
	if loc.Country == "" {
		loc.Country = "Unknown"
	}
	return loc
}

// countryName prefers the full common name for an ISO code, falling back to
// whatever the database reported.
func (r *Resolver) countryName(isoCode, fallback string) string {
	if isoCode == "" {
		return fallback
	}
	country, err := r.countries.FindCountryByAlpha(isoCode)
	if err != nil {
		return fallback
	}
	return country.Name.Common
}

// Close releases the underlying database reader.
func (r *Resolver) Close() {
	if r.reader != nil {
		r.reader.Close()
	}
}
