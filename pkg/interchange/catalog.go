package interchange

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	iso8601 "github.com/senseyeio/duration"
	"github.com/travigo/liverail/pkg/ctdf"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML string

var crsRegex = regexp.MustCompile(`^[A-Z]{3}$`)

type catalogFile struct {
	CapitalTermini []string            `yaml:"capital_termini"`
	Interchanges   map[string][]string `yaml:"interchanges"`

	FallbackInterchanges struct {
		Capital  []string `yaml:"capital"`
		Regional []string `yaml:"regional"`
	} `yaml:"fallback_interchanges"`

	StationPairs []struct {
		Stations []string `yaml:"stations"`
		Walk     string   `yaml:"walk"`
	} `yaml:"station_pairs"`

	TypicalDurations struct {
		DefaultOutbound string                       `yaml:"default_outbound"`
		DefaultInbound  string                       `yaml:"default_inbound"`
		Outbound        map[string]map[string]string `yaml:"outbound"`
		Inbound         map[string]map[string]string `yaml:"inbound"`
	} `yaml:"typical_durations"`

	GetHome GetHomeSettings `yaml:"get_home"`
}

type GetHomeSettings struct {
	MetroBounds     ctdf.BoundingBox `yaml:"metro_bounds"`
	MetroTermini    []string         `yaml:"metro_termini"`
	NearestStations int              `yaml:"nearest_stations"`
}

type StationPair struct {
	Station string
	Walk    time.Duration
}

// Catalog is the read-only knowledge the smart planner needs about the network
type Catalog struct {
	capitalTermini []string
	interchanges   map[string][]string

	fallbackCapital  []string
	fallbackRegional []string

	stationPairs map[string]StationPair

	defaultOutbound time.Duration
	defaultInbound  time.Duration
	outbound        map[string]map[string]time.Duration
	inbound         map[string]map[string]time.Duration

	GetHome GetHomeSettings
}

var defaultCatalog = sync.OnceValues(func() (*Catalog, error) {
	return Load(strings.NewReader(defaultCatalogYAML))
})

// Default returns the catalog built into the binary
func Default() (*Catalog, error) {
	return defaultCatalog()
}

func LoadFile(path string) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Load(file)
}

func Load(r io.Reader) (*Catalog, error) {
	var file catalogFile

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("decoding interchange catalog: %w", err)
	}

	catalog := &Catalog{
		interchanges: map[string][]string{},
		stationPairs: map[string]StationPair{},
		outbound:     map[string]map[string]time.Duration{},
		inbound:      map[string]map[string]time.Duration{},
		GetHome:      file.GetHome,
	}

	var err error
	if catalog.capitalTermini, err = normaliseCodes(file.CapitalTermini); err != nil {
		return nil, err
	}
	if catalog.fallbackCapital, err = normaliseCodes(file.FallbackInterchanges.Capital); err != nil {
		return nil, err
	}
	if catalog.fallbackRegional, err = normaliseCodes(file.FallbackInterchanges.Regional); err != nil {
		return nil, err
	}
	if catalog.GetHome.MetroTermini, err = normaliseCodes(file.GetHome.MetroTermini); err != nil {
		return nil, err
	}

	for origin, candidates := range file.Interchanges {
		originCrs, err := normaliseCode(origin)
		if err != nil {
			return nil, err
		}

		normalised, err := normaliseCodes(candidates)
		if err != nil {
			return nil, err
		}
		catalog.interchanges[originCrs] = normalised
	}

	for _, pair := range file.StationPairs {
		if len(pair.Stations) != 2 {
			return nil, fmt.Errorf("station pair %v must name exactly two stations", pair.Stations)
		}

		stations, err := normaliseCodes(pair.Stations)
		if err != nil {
			return nil, err
		}

		walk, err := parseDuration(pair.Walk)
		if err != nil {
			return nil, fmt.Errorf("station pair %v: %w", pair.Stations, err)
		}

		catalog.stationPairs[stations[0]] = StationPair{Station: stations[1], Walk: walk}
		catalog.stationPairs[stations[1]] = StationPair{Station: stations[0], Walk: walk}
	}

	durations := file.TypicalDurations
	if catalog.defaultOutbound, err = parseDuration(durations.DefaultOutbound); err != nil {
		return nil, fmt.Errorf("default outbound duration: %w", err)
	}
	if catalog.defaultInbound, err = parseDuration(durations.DefaultInbound); err != nil {
		return nil, fmt.Errorf("default inbound duration: %w", err)
	}
	if catalog.outbound, err = parseDurationTable(durations.Outbound); err != nil {
		return nil, fmt.Errorf("outbound durations: %w", err)
	}
	if catalog.inbound, err = parseDurationTable(durations.Inbound); err != nil {
		return nil, fmt.Errorf("inbound durations: %w", err)
	}

	log.Debug().
		Int("origins", len(catalog.interchanges)).
		Int("pairs", len(file.StationPairs)).
		Msg("Loaded interchange catalog")

	return catalog, nil
}

func (c *Catalog) IsCapitalTerminus(crs string) bool {
	return slices.Contains(c.capitalTermini, strings.ToUpper(crs))
}

// Interchanges lists the stations worth changing at between origin and destination, in order.
// It is empty for a hub origin headed to the capital, which should be served by a direct train.
func (c *Catalog) Interchanges(origin string, destination string) []string {
	origin = strings.ToUpper(origin)
	destination = strings.ToUpper(destination)

	candidates, known := c.interchanges[origin]
	if !known {
		if c.IsCapitalTerminus(destination) {
			candidates = c.fallbackCapital
		} else {
			candidates = c.fallbackRegional
		}
	}

	var filtered []string
	for _, candidate := range candidates {
		if candidate == origin || candidate == destination || slices.Contains(filtered, candidate) {
			continue
		}
		filtered = append(filtered, candidate)
	}

	return filtered
}

// DepartureStation is where the second leg leaves from when changing at interchange
func (c *Catalog) DepartureStation(interchange string) StationPair {
	interchange = strings.ToUpper(interchange)

	if pair, ok := c.stationPairs[interchange]; ok {
		return pair
	}

	return StationPair{Station: interchange}
}

func (c *Catalog) OutboundDuration(origin string, interchange string) time.Duration {
	return lookupDuration(c.outbound, origin, interchange, c.defaultOutbound)
}

func (c *Catalog) InboundDuration(interchange string, destination string) time.Duration {
	return lookupDuration(c.inbound, interchange, destination, c.defaultInbound)
}

func lookupDuration(table map[string]map[string]time.Duration, from string, to string, fallback time.Duration) time.Duration {
	if row, ok := table[strings.ToUpper(from)]; ok {
		if duration, ok := row[strings.ToUpper(to)]; ok {
			return duration
		}
	}

	return fallback
}

func parseDurationTable(table map[string]map[string]string) (map[string]map[string]time.Duration, error) {
	parsed := map[string]map[string]time.Duration{}

	for from, row := range table {
		fromCrs, err := normaliseCode(from)
		if err != nil {
			return nil, err
		}

		parsed[fromCrs] = map[string]time.Duration{}
		for to, value := range row {
			toCrs, err := normaliseCode(to)
			if err != nil {
				return nil, err
			}

			duration, err := parseDuration(value)
			if err != nil {
				return nil, fmt.Errorf("%s to %s: %w", fromCrs, toCrs, err)
			}
			parsed[fromCrs][toCrs] = duration
		}
	}

	return parsed, nil
}

func parseDuration(value string) (time.Duration, error) {
	duration, err := iso8601.ParseISO8601(value)
	if err != nil {
		return 0, fmt.Errorf("invalid ISO8601 duration %q: %w", value, err)
	}

	reference := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	return duration.Shift(reference).Sub(reference), nil
}

func normaliseCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !crsRegex.MatchString(code) {
		return "", fmt.Errorf("invalid CRS code %q", code)
	}

	return code, nil
}

func normaliseCodes(codes []string) ([]string, error) {
	normalised := make([]string, 0, len(codes))
	for _, code := range codes {
		crs, err := normaliseCode(code)
		if err != nil {
			return nil, err
		}
		normalised = append(normalised, crs)
	}

	return normalised, nil
}
