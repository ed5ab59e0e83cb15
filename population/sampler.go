// Package population generates the stratified, density-weighted set of
// population probes a city is sampled at.
//
// Grounded on _examples/original_source/procedural/probing/population.py:
// same core-mixture sampling pipeline (uniform core placement, isotropic
// bivariate exponential local offsets, grid snapping, Riemann-integrated
// density estimate). Parallel dispatch of the per-probe density integration
// follows the teacher's own worker-pool idiom (github.com/Emeline-1/pool,
// as used in rib.go/rib_reader.go/anaximander_driver.go). Probe
// deduplication (gridindex.go) is a plain map keyed on snapped millimeter
// coordinates -- see DESIGN.md for why github.com/Emeline-1/radix was
// dropped from this package.
package population

import (
	"math"
	"math/rand"
	"strconv"

	pool "github.com/Emeline-1/pool"

	"github.com/Emeline-1/citygen/geom"
)

// Tunable constants from §4.D, with the baseline's defaults.
const (
	SqmPerCore      = 7e6
	ProbesPerSqm    = 30.0 / 1e6
	GridSize        = 200.0
	PersonsPerProbe = 6.7
	BasePopPerSqm   = 4.6e-3

	riemannConcurrency = 16
)

// Probe is a stratified spatial sample carrying a local population
// estimate. Probes are produced once per run and shared read-only by every
// downstream stage.
type Probe struct {
	Location geom.Point3
	Pop200   float64
	Pop1000  float64
}

// cityCores holds the Gaussian-like anchors a city's population mixture is
// built from. Internal to this package, per §3.
type cityCores struct {
	locations     []geom.Point2
	bases         []geom.Basis2
	expectedRadii []float64
	weights       []float64 // importance weights, sums to 1
}

func (c cityCores) count() int { return len(c.locations) }

func generateCityCores(size float64, rng *rand.Rand) cityCores {
	coreCount := int(size * size / SqmPerCore)
	if coreCount == 0 {
		return cityCores{}
	}

	cores := cityCores{
		locations:     make([]geom.Point2, coreCount),
		bases:         make([]geom.Basis2, coreCount),
		expectedRadii: make([]float64, coreCount),
		weights:       make([]float64, coreCount),
	}

	expectedRadius := math.Sqrt(SqmPerCore / math.Pi)
	importanceSum := 0.0
	for i := 0; i < coreCount; i++ {
		cores.locations[i] = geom.Point2{
			X: uniform(rng, -size/2, size/2),
			Y: uniform(rng, -size/2, size/2),
		}
		cores.expectedRadii[i] = expectedRadius
		cores.bases[i] = geom.NewBasis2(uniform(rng, 0, 2*math.Pi))

		cores.weights[i] = rng.Float64()
		importanceSum += cores.weights[i]
	}
	for i := range cores.weights {
		cores.weights[i] /= importanceSum
	}

	return cores
}

func uniform(rng *rand.Rand, low, high float64) float64 {
	return low + rng.Float64()*(high-low)
}

// chooseCore performs a weighted draw over the cores' importance simplex.
func chooseCore(rng *rand.Rand, cores cityCores) int {
	target := rng.Float64()
	cumulative := 0.0
	for i, w := range cores.weights {
		cumulative += w
		if target <= cumulative {
			return i
		}
	}
	return len(cores.weights) - 1
}

// sampleIsotropicBivariateExponential draws a single local offset from the
// isotropic bivariate exponential distribution with the given expected
// radius.
func sampleIsotropicBivariateExponential(rng *rand.Rand, expectedRadius float64) geom.Point2 {
	q := rng.Float64()
	r := -expectedRadius * math.Log(1-math.Sqrt(q))
	phi := uniform(rng, 0, 2*math.Pi)
	return geom.Point2{X: r * math.Cos(phi), Y: r * math.Sin(phi)}
}

// snapToGrid discretizes a local offset to the lower corner of its cell in a
// GridSize-wide square mesh, using floor-division semantics (so negative
// coordinates snap consistently toward -infinity, matching `//` in the
// reference).
func snapToGrid(p geom.Point2) geom.Point2 {
	return geom.Point2{
		X: math.Floor(p.X/GridSize) * GridSize,
		Y: math.Floor(p.Y/GridSize) * GridSize,
	}
}

func estimatePopulationSize(size float64, probeCount int) float64 {
	return float64(probeCount)*PersonsPerProbe + BasePopPerSqm*size*size
}

// evaluateDensityAt computes the mixture-of-exponentials population density
// at loc.
func evaluateDensityAt(loc geom.Point2, cores cityCores) float64 {
	density := 0.0
	for i := 0; i < cores.count(); i++ {
		e := cores.expectedRadii[i]
		lambda := 1 / e
		r := loc.Sub(cores.locations[i]).Norm()
		coreDensity := lambda / (2 * math.Pi * (1 + e)) * math.Exp(-lambda*r)
		density += cores.weights[i] * coreDensity
	}
	return density
}

// linspace mirrors numpy.linspace(start, stop, num): num evenly spaced
// samples over [start, stop], inclusive. num <= 1 returns {start}.
func linspace(start, stop float64, num int) []float64 {
	if num <= 1 {
		return []float64{start}
	}
	out := make([]float64, num)
	step := (stop - start) / float64(num-1)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

// computePopulationEstimate Riemann-integrates the density mixture over an
// areaWidth x areaWidth square centered at loc, using sub-patches of
// patchWidth, then scales by the estimated total population.
func computePopulationEstimate(loc geom.Point2, populationSize float64, cores cityCores, areaWidth, patchWidth float64) float64 {
	num := int(areaWidth / patchWidth)
	xs := linspace(loc.X-areaWidth/2, loc.X+areaWidth/2, num)
	ys := linspace(loc.Y-areaWidth/2, loc.Y+areaWidth/2, num)

	sum := 0.0
	for _, x := range xs {
		for _, y := range ys {
			sum += patchWidth * patchWidth * evaluateDensityAt(geom.Point2{X: x, Y: y}, cores)
		}
	}
	return populationSize * sum
}

// Generate produces the population probes for a city of the given size and
// seed, following §4.D exactly: core placement, mixture sampling, grid
// snap, dedup, then per-probe density integration dispatched over a worker
// pool. A single *rand.Rand is created here and threaded through every draw
// in order — never a package-level generator (§9).
func Generate(size float64, seed uint64) []Probe {
	rng := rand.New(rand.NewSource(int64(seed)))

	cores := generateCityCores(size, rng)
	if cores.count() == 0 {
		return nil
	}

	locations := generateProbeLocations(size, cores, rng)
	if len(locations) == 0 {
		return nil
	}

	populationSize := estimatePopulationSize(size, len(locations))

	probes := make([]Probe, len(locations))
	jobs := make([]string, len(locations))
	for i := range jobs {
		jobs[i] = strconv.Itoa(i)
	}

	pool.Launch_pool(riemannConcurrency, jobs, func(job string) {
		i, _ := strconv.Atoi(job)
		loc := locations[i]
		probes[i] = Probe{
			Location: geom.Point3{X: loc.X, Y: loc.Y, Z: 0},
			Pop200:   computePopulationEstimate(loc, populationSize, cores, 200, 50),
			Pop1000:  computePopulationEstimate(loc, populationSize, cores, 1000, 100),
		}
	})

	return probes
}

// generateProbeLocations samples probe_count 2D offsets from the core
// mixture, snaps them to the grid, transforms them into world coordinates,
// and deduplicates via the grid index (see gridindex.go).
func generateProbeLocations(size float64, cores cityCores, rng *rand.Rand) []geom.Point2 {
	probeCount := int(size * size * ProbesPerSqm)

	index := newGridIndex()
	ordered := make([]geom.Point2, 0, probeCount)

	for i := 0; i < probeCount; i++ {
		core := chooseCore(rng, cores)
		local := sampleIsotropicBivariateExponential(rng, cores.expectedRadii[core])
		snapped := snapToGrid(local)
		world := cores.locations[core].Add(cores.bases[core].Apply(snapped))

		if index.insert(world) {
			ordered = append(ordered, world)
		}
	}

	return ordered
}
