package interchange

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogInterchanges(t *testing.T) {
	catalog, err := Default()
	require.NoError(t, err)

	assert.Equal(t, []string{"WGW", "MCV"}, catalog.Interchanges("WKD", "EUS"))
	assert.Equal(t, []string{"WGW", "MCV"}, catalog.Interchanges("wkd", "eus"))

	// hub origins headed to the capital have no interchanges
	assert.Empty(t, catalog.Interchanges("PRE", "EUS"))
	assert.Empty(t, catalog.Interchanges("CRE", "PAD"))

	// unknown origins fall back on the hub lists
	assert.Equal(t, []string{"WGW", "MCV", "MAN", "BHM", "CRE", "PRE", "RDG", "DHM", "NCL", "EDB"}, catalog.Interchanges("ZZZ", "KGX"))
	assert.Equal(t, []string{"MAN", "MCV", "BHM", "CRE", "YRK", "NCL", "GCQ", "CDF", "BRI"}, catalog.Interchanges("ZZZ", "EDB"))

	// the destination is never offered as its own interchange
	assert.Equal(t, []string{"WGW"}, catalog.Interchanges("WKD", "MCV"))
}

func TestDefaultCatalogDepartureStation(t *testing.T) {
	catalog, err := Default()
	require.NoError(t, err)

	assert.Equal(t, StationPair{Station: "WGN", Walk: 7 * time.Minute}, catalog.DepartureStation("WGW"))
	assert.Equal(t, StationPair{Station: "WGW", Walk: 7 * time.Minute}, catalog.DepartureStation("WGN"))
	assert.Equal(t, StationPair{Station: "MAN", Walk: 15 * time.Minute}, catalog.DepartureStation("MCV"))
	assert.Equal(t, StationPair{Station: "CRE"}, catalog.DepartureStation("CRE"))
}

func TestDefaultCatalogDurations(t *testing.T) {
	catalog, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 24*time.Minute, catalog.OutboundDuration("WKD", "WGW"))
	assert.Equal(t, 65*time.Minute, catalog.OutboundDuration("BPW", "MAN"))
	assert.Equal(t, 30*time.Minute, catalog.OutboundDuration("ZZZ", "MAN"))

	assert.Equal(t, 2*time.Hour, catalog.InboundDuration("WGN", "EUS"))
	assert.Equal(t, 2*time.Hour+15*time.Minute, catalog.InboundDuration("WGW", "EUS"))
	assert.Equal(t, 4*time.Hour+30*time.Minute, catalog.InboundDuration("EDB", "KGX"))
	assert.Equal(t, 2*time.Hour, catalog.InboundDuration("ZZZ", "EUS"))
}

func TestDefaultCatalogGetHome(t *testing.T) {
	catalog, err := Default()
	require.NoError(t, err)

	assert.Len(t, catalog.GetHome.MetroTermini, 9)
	assert.Equal(t, 5, catalog.GetHome.NearestStations)
	assert.True(t, catalog.IsCapitalTerminus("eus"))
	assert.False(t, catalog.IsCapitalTerminus("MAN"))
}

func TestLoadCustomCatalog(t *testing.T) {
	catalog, err := Load(strings.NewReader(`
capital_termini: [EUS]
interchanges:
  ABC: [DEF]
fallback_interchanges:
  capital: [GHI]
  regional: [JKL]
station_pairs:
  - stations: [DEF, DEG]
    walk: PT3M
typical_durations:
  default_outbound: PT20M
  default_inbound: PT1H30M
  outbound:
    ABC: {DEF: PT12M}
  inbound: {}
get_home:
  metro_termini: [EUS]
  nearest_stations: 3
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"DEF"}, catalog.Interchanges("ABC", "EUS"))
	assert.Equal(t, []string{"GHI"}, catalog.Interchanges("XYZ", "EUS"))
	assert.Equal(t, 12*time.Minute, catalog.OutboundDuration("ABC", "DEF"))
	assert.Equal(t, 90*time.Minute, catalog.InboundDuration("DEF", "EUS"))
	assert.Equal(t, StationPair{Station: "DEG", Walk: 3 * time.Minute}, catalog.DepartureStation("DEF"))
}

func TestLoadRejectsInvalidCatalogs(t *testing.T) {
	tests := map[string]string{
		"bad crs":          "capital_termini: [EUSTON]",
		"bad duration":     "typical_durations: {default_outbound: thirty, default_inbound: PT2H}",
		"bad pair":         "station_pairs: [{stations: [AAA], walk: PT1M}]",
		"unknown field":    "unknown: true",
		"missing defaults": "capital_termini: [EUS]",
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(strings.NewReader(body))
			assert.Error(t, err)
		})
	}
}
