package sim

import "math"

// RandSource is the randomness terrain generation draws from.
// *math/rand.Rand satisfies it.
type RandSource interface {
	Float64() float64
	Intn(n int) int
}

// SafeZone is the one flat segment where a landing can succeed.
// StartRange and EndRange are in physical horizontal units.
type SafeZone struct {
	Index      int
	StartRange float64
	EndRange   float64
	Height     float64
}

// Contains reports whether a horizontal position lies inside the zone (inclusive).
func (z SafeZone) Contains(x float64) bool {
	return x >= z.StartRange && x <= z.EndRange
}

// Terrain is a height profile of Segments+1 normalized samples spanning the
// horizontal range in equal segments.
type Terrain struct {
	Heights  []float64
	Safe     SafeZone
	MaxRange float64
}

// Segments returns the number of segments in the profile.
func (t *Terrain) Segments() int {
	if len(t.Heights) < 2 {
		return 0
	}
	return len(t.Heights) - 1
}

// SegmentWidth returns the width of one segment in physical units.
func (t *Terrain) SegmentWidth() float64 {
	n := t.Segments()
	if n == 0 {
		return 0
	}
	return t.MaxRange / float64(n)
}

// GenerateTerrain draws a random height profile with a flat, interior safe zone.
func GenerateTerrain(rng RandSource, segments int, maxRange float64) Terrain {
	if segments < MinSegments {
		segments = MinSegments
	}

	heights := make([]float64, segments+1)
	for i := range heights {
		heights[i] = TerrainMinHeight + rng.Float64()*(TerrainMaxHeight-TerrainMinHeight)
	}

	// Interior only: never the first or last segment.
	idx := 1 + rng.Intn(segments-2)

	pad := math.Min(math.Min(heights[idx], heights[idx+1]), SafeZoneCap)
	heights[idx] = pad
	heights[idx+1] = pad

	segW := maxRange / float64(segments)
	return Terrain{
		Heights:  heights,
		MaxRange: maxRange,
		Safe: SafeZone{
			Index:      idx,
			StartRange: float64(idx) * segW,
			EndRange:   float64(idx+1) * segW,
			Height:     pad,
		},
	}
}

// Viewport is the pixel-space surface the simulation is projected onto.
// The origin is top-left; Y grows downward.
type Viewport struct {
	Width  float64
	Height float64
}

// Sampler interpolates terrain height at arbitrary viewport positions.
type Sampler struct {
	terrain *Terrain
	view    Viewport
}

// NewSampler creates a sampler over the terrain for the given viewport.
func NewSampler(t *Terrain, view Viewport) Sampler {
	return Sampler{terrain: t, view: view}
}

// HeightAt returns the pixel Y of the surface at viewport x. Returns the
// viewport height when no terrain has been generated.
func (s Sampler) HeightAt(x float64) float64 {
	n := 0
	if s.terrain != nil {
		n = s.terrain.Segments()
	}
	if n == 0 || s.view.Width <= 0 {
		return s.view.Height
	}

	segW := s.view.Width / float64(n)
	idx := int(math.Floor(x / segW))
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	t := (x - float64(idx)*segW) / segW
	return s.segmentY(idx, t)
}

// segmentY interpolates within segment idx at local offset t.
func (s Sampler) segmentY(idx int, t float64) float64 {
	t = math.Max(0, math.Min(1, t))
	h0 := s.terrain.Heights[idx]
	h1 := s.terrain.Heights[idx+1]
	h := h0 + (h1-h0)*t
	return s.view.Height - h*s.view.Height
}

// SafeZoneSpan returns the safe zone's horizontal extent in pixels.
func (s Sampler) SafeZoneSpan() (x0, x1 float64) {
	if s.terrain == nil || s.terrain.MaxRange <= 0 {
		return 0, 0
	}
	w, r := s.view.Width, s.terrain.MaxRange
	return s.terrain.Safe.StartRange * w / r, s.terrain.Safe.EndRange * w / r
}

// ToPixelX maps a physical horizontal position into viewport x.
func (s Sampler) ToPixelX(pos float64) float64 {
	if s.terrain == nil || s.terrain.MaxRange <= 0 {
		return 0
	}
	return pos / s.terrain.MaxRange * s.view.Width
}
