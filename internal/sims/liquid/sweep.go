package liquid

import (
	"runtime"
	"sort"
	"sync"
)

// SettleResult captures telemetry from a deterministic spring run.
type SettleResult struct {
	EvaporationChance float64
	Seed              int64

	// StepsSimulated reports how many world steps ran.
	StepsSimulated int
	// Injected counts units the springs added.
	Injected int
	// Evaporated counts units destroyed in transit.
	Evaporated int
	// Remaining is the liquid left on the grid after the last step.
	Remaining int
	// WetCells is the number of cells holding liquid after the last step.
	WetCells int
	// PeakActive is the largest current-set size seen.
	PeakActive int
	// LastTransferStep is the final step that moved liquid.
	LastTransferStep int
}

// SettleRun resets a world built from cfg with seed and runs it for steps.
func SettleRun(cfg Config, seed int64, steps int) SettleResult {
	result := SettleResult{EvaporationChance: cfg.Params.EvaporationChance, Seed: seed}
	if steps <= 0 {
		return result
	}
	world := NewWithConfig(cfg)
	world.Reset(seed)

	for step := 1; step <= steps; step++ {
		world.Step()
		stats := world.Stats()
		result.Injected += stats.Injected
		result.Evaporated += stats.Evaporated
		if stats.Current > result.PeakActive {
			result.PeakActive = stats.Current
		}
		if stats.Transferred > 0 {
			result.LastTransferStep = step
		}
	}
	result.StepsSimulated = steps
	result.Remaining = world.TotalLiquid()
	result.WetCells = len(world.Grid().WetCells())
	return result
}

// EvaporationSweep runs SettleRun for every chance/seed pair on a pool of
// workers. Results are ordered by chance, then seed.
func EvaporationSweep(cfg Config, chances []float64, seeds []int64, steps, workers int) []SettleResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	type job struct {
		chance float64
		seed   int64
	}

	jobs := make(chan job)
	results := make(chan SettleResult)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				c := cfg
				c.Params.EvaporationChance = clamp01(j.chance)
				results <- SettleRun(c, j.seed, steps)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, chance := range chances {
			for _, seed := range seeds {
				jobs <- job{chance: chance, seed: seed}
			}
		}
		close(jobs)
	}()

	var all []SettleResult
	for res := range results {
		all = append(all, res)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].EvaporationChance != all[j].EvaporationChance {
			return all[i].EvaporationChance < all[j].EvaporationChance
		}
		return all[i].Seed < all[j].Seed
	})
	return all
}
