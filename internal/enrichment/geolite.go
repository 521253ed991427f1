package enrichment

import (
	"net"
	"os"
	"path/filepath"
	"sync"

	"pureproxy/internal/domain"

	"github.com/charmbracelet/log"
	"github.com/oschwald/geoip2-golang"
)

// Optional on-disk GeoLite2 databases used when the HTTP lookup provider is
// unreachable. Their absence is not an error; the fallback simply stays
// disabled.
const (
	geoLiteDataDir      = "data/geolite"
	geoLiteCityFilename = "GeoLite2-City.mmdb"
	geoLiteASNFilename  = "GeoLite2-ASN.mmdb"
)

var (
	geoLiteMu sync.RWMutex
	cityDB    *geoip2.Reader
	asnDB     *geoip2.Reader
)

func LoadGeoLiteFromDisk() {
	geoLiteMu.Lock()
	defer geoLiteMu.Unlock()

	if reader, err := readerFromDisk(geoLiteCityFilename); err == nil {
		if cityDB != nil {
			_ = cityDB.Close()
		}
		cityDB = reader
	}
	if reader, err := readerFromDisk(geoLiteASNFilename); err == nil {
		if asnDB != nil {
			_ = asnDB.Close()
		}
		asnDB = reader
	}

	if cityDB == nil && asnDB == nil {
		log.Debug("No local GeoLite databases found, HTTP-only enrichment")
		return
	}
	log.Info("Local GeoLite fallback enabled", "city", cityDB != nil, "asn", asnDB != nil)
}

func readerFromDisk(filename string) (*geoip2.Reader, error) {
	data, err := os.ReadFile(filepath.Join(geoLiteDataDir, filename))
	if err != nil {
		return nil, err
	}
	return geoip2.FromBytes(data)
}

func lookupGeoLite(ip string) (Result, bool) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return Result{}, false
	}

	geoLiteMu.RLock()
	defer geoLiteMu.RUnlock()

	if cityDB == nil && asnDB == nil {
		return Result{}, false
	}

	result := UnknownResult()
	found := false

	if cityDB != nil {
		if record, err := cityDB.City(parsed); err == nil {
			if name := record.Country.Names["en"]; name != "" {
				result.Country = name
				found = true
			}
			if record.Country.IsoCode != "" {
				result.CountryCode = record.Country.IsoCode
				found = true
			}
			if len(record.Subdivisions) > 0 {
				result.Region = record.Subdivisions[0].Names["en"]
			}
			result.City = record.City.Names["en"]
		}
	}

	if asnDB != nil {
		if record, err := asnDB.ASN(parsed); err == nil && record.AutonomousSystemOrganization != "" {
			result.ISP = record.AutonomousSystemOrganization
			found = true
		}
	}

	if !found {
		return Result{}, false
	}
	if result.ISP == "" {
		result.ISP = domain.UnknownISP
	}
	return result, true
}
