// Package grid buckets coordinates into fixed size cells for nearest neighbor lookups.
package grid

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/lintang-b-s/place-search/pkg"
	"github.com/lintang-b-s/place-search/pkg/compress"
	"github.com/lintang-b-s/place-search/pkg/dataset"
	"github.com/lintang-b-s/place-search/pkg/datastructure"
)

// CellSize is the cell edge in degrees.
const CellSize = 0.1

type Cell struct {
	Lat int
	Lon int
}

func (c Cell) String() string {
	return strconv.Itoa(c.Lat) + "," + strconv.Itoa(c.Lon)
}

func CellOf(lat, lon float64) Cell {
	return Cell{
		Lat: int(math.Floor(lat / CellSize)),
		Lon: int(math.Floor(lon / CellSize)),
	}
}

type Entry struct {
	Lat     float64
	Lon     float64
	Ordinal int
}

type Neighbor struct {
	Ordinal  int
	Lat      float64
	Lon      float64
	Distance float64
}

// Grid is read only once built.
type Grid struct {
	cells map[Cell][]Entry
	size  int
}

func New() *Grid {
	return &Grid{cells: make(map[Cell][]Entry)}
}

func (g *Grid) Add(lat, lon float64, ordinal int) {
	cell := CellOf(lat, lon)
	g.cells[cell] = append(g.cells[cell], Entry{Lat: lat, Lon: lon, Ordinal: ordinal})
	g.size++
}

// Len returns the number of entries.
func (g *Grid) Len() int {
	return g.size
}

// Cells returns the number of non empty cells.
func (g *Grid) Cells() int {
	return len(g.cells)
}

// NearestNeighbors scans the cell of (lat, lon) and its 8 neighbors and returns the k closest entries,
// nearest first, equal distances ordered by ordinal. the search never widens past those 9 cells.
func (g *Grid) NearestNeighbors(lat, lon float64, k int) []Neighbor {
	if k <= 0 {
		return []Neighbor{}
	}

	center := CellOf(lat, lon)
	neighbors := make([]Neighbor, 0, 16)
	for dLat := -1; dLat <= 1; dLat++ {
		for dLon := -1; dLon <= 1; dLon++ {
			for _, e := range g.cells[Cell{Lat: center.Lat + dLat, Lon: center.Lon + dLon}] {
				neighbors = append(neighbors, Neighbor{
					Ordinal:  e.Ordinal,
					Lat:      e.Lat,
					Lon:      e.Lon,
					Distance: datastructure.PlanarDistance(lat, lon, e.Lat, e.Lon),
				})
			}
		}
	}

	sort.SliceStable(neighbors, func(i, j int) bool {
		if neighbors[i].Distance != neighbors[j].Distance {
			return neighbors[i].Distance < neighbors[j].Distance
		}
		return neighbors[i].Ordinal < neighbors[j].Ordinal
	})

	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}
	return neighbors
}

// BuildFromDataset adds every row with valid coordinates. rows whose coordinates cannot be parsed
// or are out of range are skipped and counted.
func BuildFromDataset(ctx context.Context, path string, hasHeader bool) (*Grid, int, error) {
	g := New()
	skipped := 0
	err := dataset.ForEachRow(ctx, path, hasHeader, func(ordinal int, line string) error {
		lat, lon, err := dataset.Coordinates(line)
		if err != nil || !datastructure.ValidCoordinate(lat, lon) {
			skipped++
			return nil
		}
		g.Add(lat, lon, ordinal)
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("error when building grid from %s: %w", path, err)
	}
	return g, skipped, nil
}

// Save writes {"latIdx,lonIdx": [[lat, lon, ordinal], ...]} as json.
func (g *Grid) Save(w io.Writer) error {
	out := make(map[string][][3]float64, len(g.cells))
	for cell, entries := range g.cells {
		triples := make([][3]float64, 0, len(entries))
		for _, e := range entries {
			triples = append(triples, [3]float64{e.Lat, e.Lon, float64(e.Ordinal)})
		}
		out[cell.String()] = triples
	}
	return json.NewEncoder(w).Encode(out)
}

func Load(r io.Reader) (*Grid, error) {
	var in map[string][][3]float64
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, pkg.WrapErrorf(err, pkg.ErrCorruptIndex, "error when decoding grid")
	}

	g := New()
	for key, triples := range in {
		cell, err := parseCellKey(key)
		if err != nil {
			return nil, pkg.WrapErrorf(err, pkg.ErrCorruptIndex, "error when decoding grid")
		}
		entries := make([]Entry, 0, len(triples))
		for _, triple := range triples {
			ordinal := triple[2]
			if ordinal < 0 || ordinal != math.Trunc(ordinal) {
				return nil, pkg.WrapErrorf(nil, pkg.ErrCorruptIndex, "grid cell %s has invalid ordinal %v", key, ordinal)
			}
			entries = append(entries, Entry{Lat: triple[0], Lon: triple[1], Ordinal: int(ordinal)})
		}
		g.cells[cell] = entries
		g.size += len(entries)
	}
	return g, nil
}

func parseCellKey(key string) (Cell, error) {
	latStr, lonStr, ok := strings.Cut(key, ",")
	if !ok {
		return Cell{}, fmt.Errorf("invalid cell key %q", key)
	}
	lat, err := strconv.Atoi(latStr)
	if err != nil {
		return Cell{}, fmt.Errorf("invalid cell key %q", key)
	}
	lon, err := strconv.Atoi(lonStr)
	if err != nil {
		return Cell{}, fmt.Errorf("invalid cell key %q", key)
	}
	return Cell{Lat: lat, Lon: lon}, nil
}

func (g *Grid) SaveFile(path string) error {
	err := compress.WriteGzipFile(path, g.Save)
	if err != nil {
		return fmt.Errorf("error when saving grid to %s: %w", path, err)
	}
	return nil
}

func LoadFile(path string) (*Grid, error) {
	var g *Grid
	err := compress.ReadGzipFile(path, func(r io.Reader) error {
		var err error
		g, err = Load(r)
		return err
	})
	if errors.Is(err, os.ErrNotExist) {
		return nil, pkg.WrapErrorf(err, pkg.ErrMissingStorage, "grid file %s not found", path)
	}
	if err != nil {
		var perr *pkg.Error
		if errors.As(err, &perr) {
			return nil, err
		}
		return nil, pkg.WrapErrorf(err, pkg.ErrCorruptIndex, "grid file %s cannot be read", path)
	}
	return g, nil
}
