package stations

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gocarina/gocsv"
	"github.com/paulcager/osgridref"
	"github.com/travigo/liverail/pkg/ctdf"
)

//go:embed stations.csv
var defaultStationsCSV string

type stationRecord struct {
	Crs       string `csv:"crs"`
	Name      string `csv:"name"`
	Latitude  string `csv:"latitude"`
	Longitude string `csv:"longitude"`
	Easting   string `csv:"easting"`
	Northing  string `csv:"northing"`
}

// Directory maps CRS codes onto named, located stations
type Directory struct {
	stations map[string]*ctdf.Station
	ordered  []*ctdf.Station
}

// GlobalDirectory is the directory the API and planners share, set during setup
var GlobalDirectory *Directory

var defaultDirectory = sync.OnceValues(func() (*Directory, error) {
	return Load(strings.NewReader(defaultStationsCSV))
})

func Default() (*Directory, error) {
	return defaultDirectory()
}

func LoadFile(path string) (*Directory, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Load(file)
}

func Load(r io.Reader) (*Directory, error) {
	var records []*stationRecord
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, fmt.Errorf("decoding stations: %w", err)
	}

	directory := &Directory{
		stations: map[string]*ctdf.Station{},
	}

	for _, record := range records {
		location, err := record.location()
		if err != nil {
			return nil, fmt.Errorf("station %s: %w", record.Crs, err)
		}

		station := &ctdf.Station{
			Crs:      strings.ToUpper(strings.TrimSpace(record.Crs)),
			Name:     record.Name,
			Location: location,
		}

		if _, exists := directory.stations[station.Crs]; exists {
			return nil, fmt.Errorf("duplicate station %s", station.Crs)
		}

		directory.stations[station.Crs] = station
		directory.ordered = append(directory.ordered, station)
	}

	return directory, nil
}

// location prefers WGS84 coordinates and falls back on an OS grid reference
func (r *stationRecord) location() (*ctdf.Location, error) {
	if r.Latitude != "" && r.Longitude != "" {
		latitude, err := strconv.ParseFloat(r.Latitude, 64)
		if err != nil {
			return nil, err
		}
		longitude, err := strconv.ParseFloat(r.Longitude, 64)
		if err != nil {
			return nil, err
		}

		return ctdf.NewPointLocation(latitude, longitude), nil
	}

	if r.Easting != "" && r.Northing != "" {
		gridRef, err := osgridref.ParseOsGridRef(fmt.Sprintf("%s,%s", r.Easting, r.Northing))
		if err != nil {
			return nil, err
		}

		latitude, longitude := gridRef.ToLatLon()
		return ctdf.NewPointLocation(latitude, longitude), nil
	}

	return nil, fmt.Errorf("no coordinates")
}

func (d *Directory) Get(crs string) *ctdf.Station {
	return d.stations[strings.ToUpper(crs)]
}

func (d *Directory) All() []*ctdf.Station {
	return d.ordered
}

// Nearest returns up to count stations ordered by distance from location
func (d *Directory) Nearest(location *ctdf.Location, count int, exclude ...string) []*ctdf.Station {
	type candidate struct {
		station  *ctdf.Station
		distance float64
	}

	var candidates []candidate
	for _, station := range d.ordered {
		if containsFold(exclude, station.Crs) {
			continue
		}

		candidates = append(candidates, candidate{
			station:  station,
			distance: location.DistanceTo(station.Location),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	var nearest []*ctdf.Station
	for i := 0; i < len(candidates) && i < count; i++ {
		nearest = append(nearest, candidates[i].station)
	}

	return nearest
}

func (d *Directory) Search(text string) []*ctdf.Station {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return nil
	}

	var matches []*ctdf.Station
	for _, station := range d.ordered {
		if strings.EqualFold(station.Crs, text) || strings.Contains(strings.ToLower(station.Name), text) {
			matches = append(matches, station)
		}
	}

	return matches
}

func containsFold(values []string, value string) bool {
	for _, v := range values {
		if strings.EqualFold(v, value) {
			return true
		}
	}

	return false
}
