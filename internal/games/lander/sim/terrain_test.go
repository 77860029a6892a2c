package sim

import (
	"math"
	"math/rand"
	"testing"
)

// scriptedRand replays fixed values so terrain tests can assert exact structure.
type scriptedRand struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (r *scriptedRand) Float64() float64 {
	v := r.floats[r.fi%len(r.floats)]
	r.fi++
	return v
}

func (r *scriptedRand) Intn(n int) int {
	v := r.ints[r.ii%len(r.ints)]
	r.ii++
	if v >= n {
		v = n - 1
	}
	return v
}

func TestGenerateTerrainScripted(t *testing.T) {
	rng := &scriptedRand{
		floats: []float64{0, 0.5, 1, 0.25, 0.75},
		ints:   []int{1}, // picks segment 2
	}

	terr := GenerateTerrain(rng, 4, 100)

	if len(terr.Heights) != 5 {
		t.Fatalf("expected 5 heights, got %d", len(terr.Heights))
	}
	if terr.Safe.Index != 2 {
		t.Fatalf("Safe.Index = %d, expected 2", terr.Safe.Index)
	}
	// Original heights 0.4 and 0.175 -> min 0.175, under the 0.2 cap.
	want := 0.1 + 0.25*0.3
	if math.Abs(terr.Heights[2]-want) > 1e-12 || math.Abs(terr.Heights[3]-want) > 1e-12 {
		t.Errorf("safe pad heights = %f, %f; expected %f", terr.Heights[2], terr.Heights[3], want)
	}
	if terr.Safe.StartRange != 50 || terr.Safe.EndRange != 75 {
		t.Errorf("safe zone = [%f, %f], expected [50, 75]", terr.Safe.StartRange, terr.Safe.EndRange)
	}
}

func TestGenerateTerrainSafeZoneCapped(t *testing.T) {
	rng := &scriptedRand{
		floats: []float64{1}, // every sample at the 0.4 maximum
		ints:   []int{0},
	}

	terr := GenerateTerrain(rng, 5, 100)

	if terr.Safe.Height != SafeZoneCap {
		t.Errorf("Safe.Height = %f, expected cap %f", terr.Safe.Height, SafeZoneCap)
	}
	if terr.Heights[terr.Safe.Index] != SafeZoneCap || terr.Heights[terr.Safe.Index+1] != SafeZoneCap {
		t.Error("safe pad endpoints should be capped")
	}
}

func TestGenerateTerrainInvariants(t *testing.T) {
	for seed := int64(1); seed <= 200; seed++ {
		rng := rand.New(rand.NewSource(seed))
		terr := GenerateTerrain(rng, 10, 100)
		n := terr.Segments()

		if n != 10 {
			t.Fatalf("seed %d: Segments = %d, expected 10", seed, n)
		}
		idx := terr.Safe.Index
		if idx <= 0 || idx >= n-1 {
			t.Fatalf("seed %d: safe index %d is an edge segment", seed, idx)
		}
		if terr.Heights[idx] != terr.Heights[idx+1] {
			t.Fatalf("seed %d: safe pad not flat: %f vs %f", seed, terr.Heights[idx], terr.Heights[idx+1])
		}
		if terr.Heights[idx] > SafeZoneCap {
			t.Fatalf("seed %d: safe pad %f above cap", seed, terr.Heights[idx])
		}
		for i, h := range terr.Heights {
			if h < TerrainMinHeight || h > TerrainMaxHeight {
				t.Fatalf("seed %d: height[%d] = %f out of range", seed, i, h)
			}
		}
	}
}

func TestGenerateTerrainMinimumSegments(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	terr := GenerateTerrain(rng, 1, 100)

	if terr.Segments() != MinSegments {
		t.Errorf("Segments = %d, expected %d", terr.Segments(), MinSegments)
	}
	if terr.Safe.Index != 1 {
		t.Errorf("Safe.Index = %d, expected the only interior segment 1", terr.Safe.Index)
	}
}

func TestSamplerContinuousAtBoundaries(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	terr := GenerateTerrain(rng, 8, 100)
	s := NewSampler(&terr, Viewport{Width: 80, Height: 24})

	for k := 1; k < terr.Segments(); k++ {
		fromLeft := s.segmentY(k-1, 1)
		fromRight := s.segmentY(k, 0)
		if math.Abs(fromLeft-fromRight) > 1e-12 {
			t.Errorf("boundary %d: left %f != right %f", k, fromLeft, fromRight)
		}
	}
}

func TestSamplerHeightAt(t *testing.T) {
	terr := Terrain{
		Heights:  []float64{0.1, 0.3, 0.2},
		MaxRange: 100,
	}
	s := NewSampler(&terr, Viewport{Width: 100, Height: 200})

	tests := []struct {
		name     string
		x        float64
		expected float64
	}{
		{"left edge", 0, 200 - 0.1*200},
		{"mid first segment", 25, 200 - 0.2*200},
		{"segment boundary", 50, 200 - 0.3*200},
		{"right edge uses last segment", 100, 200 - 0.2*200},
		{"past right edge clamps", 150, 200 - 0.2*200},
		{"negative x clamps", -10, 200 - 0.1*200},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := s.HeightAt(tc.x)
			if math.Abs(got-tc.expected) > 1e-9 {
				t.Errorf("HeightAt(%f) = %f, expected %f", tc.x, got, tc.expected)
			}
		})
	}
}

func TestSamplerFiniteAcrossViewport(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	terr := GenerateTerrain(rng, 10, 100)
	s := NewSampler(&terr, Viewport{Width: 77, Height: 23})

	for x := 0.0; x <= 77; x += 0.5 {
		y := s.HeightAt(x)
		if math.IsNaN(y) || math.IsInf(y, 0) {
			t.Fatalf("HeightAt(%f) not finite", x)
		}
	}
}

func TestSamplerEmptyTerrain(t *testing.T) {
	s := NewSampler(&Terrain{}, Viewport{Width: 80, Height: 24})
	if got := s.HeightAt(10); got != 24 {
		t.Errorf("HeightAt on empty terrain = %f, expected viewport height 24", got)
	}

	var nilSampler Sampler
	if got := nilSampler.HeightAt(10); got != 0 {
		t.Errorf("zero Sampler HeightAt = %f, expected 0", got)
	}
}

func TestSafeZoneSpan(t *testing.T) {
	terr := Terrain{
		Heights:  []float64{0.1, 0.2, 0.2, 0.3},
		MaxRange: 90,
		Safe:     SafeZone{Index: 1, StartRange: 30, EndRange: 60, Height: 0.2},
	}
	s := NewSampler(&terr, Viewport{Width: 60, Height: 20})

	x0, x1 := s.SafeZoneSpan()
	if x0 != 20 || x1 != 40 {
		t.Errorf("SafeZoneSpan = (%f, %f), expected (20, 40)", x0, x1)
	}
}
