package geo

import (
	"math"
	"sort"
	"sync"

	"github.com/mmcloughlin/geohash"
)

// indexPrecision is the geohash length used for bucketing. Five characters
// give cells of roughly 4.9km x 4.9km, which keeps typical proximity radii
// (a few km to a few tens of km) within a handful of cells.
const indexPrecision = 5

// cellSizeMeters is the smaller dimension of an indexPrecision cell, used to
// decide how many neighbor rings a radius needs.
const cellSizeMeters = 4890.0

const earthRadiusMeters = 6371000.0

type Point struct {
	Longitude float64
	Latitude  float64
}

// Valid reports whether the point is a real lon/lat coordinate.
func (p Point) Valid() bool {
	return p.Longitude >= -180 && p.Longitude <= 180 && p.Latitude >= -90 && p.Latitude <= 90
}

// Hash returns the bucketing geohash for the point.
func (p Point) Hash() string {
	return geohash.EncodeWithPrecision(p.Latitude, p.Longitude, indexPrecision)
}

type Match struct {
	ID             uint
	DistanceMeters float64
}

// Index is a geohash-bucketed point set supporting radius queries without
// scanning every entry. Safe for concurrent use.
type Index struct {
	mu      sync.RWMutex
	buckets map[string]map[uint]Point
	points  map[uint]string
}

func NewIndex() *Index {
	return &Index{
		buckets: make(map[string]map[uint]Point),
		points:  make(map[uint]string),
	}
}

// Insert adds or repositions a point.
func (ix *Index) Insert(id uint, p Point) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if old, ok := ix.points[id]; ok {
		delete(ix.buckets[old], id)
		if len(ix.buckets[old]) == 0 {
			delete(ix.buckets, old)
		}
	}

	h := p.Hash()
	if ix.buckets[h] == nil {
		ix.buckets[h] = make(map[uint]Point)
	}
	ix.buckets[h][id] = p
	ix.points[id] = h
}

func (ix *Index) Remove(id uint) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	h, ok := ix.points[id]
	if !ok {
		return
	}
	delete(ix.buckets[h], id)
	if len(ix.buckets[h]) == 0 {
		delete(ix.buckets, h)
	}
	delete(ix.points, id)
}

func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.points)
}

// Near returns every indexed point within radiusMeters of center, closest
// first. Candidate cells are gathered by expanding neighbor rings around the
// center cell, so the scan stays proportional to the area covered by the
// radius rather than to the index size.
func (ix *Index) Near(center Point, radiusMeters float64) []Match {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	rings := int(math.Ceil(radiusMeters/cellSizeMeters)) + 1

	seen := map[string]bool{center.Hash(): true}
	frontier := []string{center.Hash()}
	for i := 0; i < rings; i++ {
		var next []string
		for _, cell := range frontier {
			for _, n := range geohash.Neighbors(cell) {
				if !seen[n] {
					seen[n] = true
					next = append(next, n)
				}
			}
		}
		frontier = next
	}

	var matches []Match
	for cell := range seen {
		for id, p := range ix.buckets[cell] {
			d := Haversine(center, p)
			if d <= radiusMeters {
				matches = append(matches, Match{ID: id, DistanceMeters: d})
			}
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].DistanceMeters < matches[j].DistanceMeters
	})
	return matches
}

// Haversine returns the great-circle distance between two points in meters.
func Haversine(a, b Point) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}
