// Copyright © 2024 Galvanized Logic Inc.

package land

// generate.go is the exported entry point into the noise/topo machinery
// below, used by world/terrain.go to build an openzone heightmap from a
// seed. Generate was added so callers outside this package can drive a
// single topology section without reaching into the unexported
// noise/generate plumbing topo.go already had.

// Generate allocates and fills a width x height Topo using simplex noise
// combined as fractional brownian motion (see Topo.generate), seeded so
// that a given non-zero seed always reproduces the same heights; seed 0
// is replaced by a time-based seed (see newNoise).
func Generate(width, height uint, seed int64) Topo {
	t := NewTopo(width, height)
	n := newNoise(seed)
	t.generate(0, 0, 0, n)
	return t
}
