package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/Garsondee/Iso-Map/internal/config"
	"github.com/Garsondee/Iso-Map/internal/iso"
	"github.com/Garsondee/Iso-Map/internal/level"
)

type runStats struct {
	runIndex int
	seed     int64

	target      iso.Cell
	hit         iso.Cell
	hitOK       bool
	direction   iso.Direction
	arriveFrame int // -1 if the walk did not finish

	blits          int
	terrainDraws   int
	behindDraws    int
	inFrontDraws   int
	characterDraws int
}

func main() {
	var runs int
	var frames int
	var seedBase int64
	var seedStep int64
	var levelSrc string
	var rows, cols int

	flag.IntVar(&runs, "runs", 5, "number of headless walks")
	flag.IntVar(&frames, "frames", 600, "frames per walk")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&levelSrc, "level", "", "level file or URL (default: generated grassland)")
	flag.IntVar(&rows, "rows", 15, "rows of the generated level")
	flag.IntVar(&cols, "cols", 15, "cols of the generated level")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if frames <= 0 {
		fmt.Println("error: -frames must be > 0")
		return
	}

	cfg := config.Default()
	lv, err := loadLevel(levelSrc, rows, cols, seedBase)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	if err := lv.Validate(cfg.TerrainSprites, cfg.ObjectSprites); err != nil {
		fmt.Printf("error: level: %v\n", err)
		return
	}

	b := lv.Bounds()
	fmt.Printf("=== Headless Walk Report ===\n")
	fmt.Printf("level=%s size=%dx%d runs=%d frames=%d seed_base=%d seed_step=%d\n\n",
		levelName(levelSrc), b.Rows, b.Cols, runs, frames, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		rs, err := runWalk(cfg, lv, i+1, seed, frames)
		if err != nil {
			fmt.Printf("error: run %d: %v\n", i+1, err)
			return
		}
		all = append(all, rs)
		printRun(rs)
	}

	printAggregate(all)
}

func loadLevel(src string, rows, cols int, seed int64) (*level.Level, error) {
	if src == "" {
		return generatedLevel(rows, cols, seed), nil
	}
	return level.Load(context.Background(), src, nil)
}

func levelName(src string) string {
	if src == "" {
		return "generated"
	}
	return src
}

// generatedLevel is a grassland field with a scattering of trees.
func generatedLevel(rows, cols int, seed int64) *level.Level {
	rng := rand.New(rand.NewSource(seed))
	objects := iso.FilledMatrix(rows, cols, "")
	for r := range objects {
		for c := range objects[r] {
			if rng.Intn(8) == 0 {
				objects[r][c] = fmt.Sprintf("trees:0:%d", rng.Intn(4))
			}
		}
	}
	return &level.Level{
		Terrain: iso.FilledMatrix(rows, cols, "grassland:0:0"),
		Objects: objects,
	}
}

// runWalk clicks the centre of a random cell and renders until the character
// arrives or frames run out. Draw counts are from the last frame.
func runWalk(cfg config.Config, lv *level.Level, runIndex int, seed int64, frames int) (runStats, error) {
	rng := rand.New(rand.NewSource(seed))
	h := iso.NewHeadless(
		iso.WithEngineConfig(cfg.Engine()),
		iso.WithLevel(lv.Terrain, lv.Objects),
		iso.WithAllImages(),
	)
	b := lv.Bounds()
	rs := runStats{
		runIndex:    runIndex,
		seed:        seed,
		target:      iso.Cell{Row: rng.Intn(b.Rows), Col: rng.Intn(b.Cols)},
		arriveFrame: -1,
	}

	p := h.Config.Geometry.TileCenter(rs.target).Add(h.Engine.Shift())
	rs.hit, rs.hitOK = h.Engine.CellAt(p)
	h.Click(p)
	rs.direction = h.Engine.Character().Direction()

	for f := 1; f <= frames; f++ {
		if err := h.RunFrames(1); err != nil {
			return rs, err
		}
		if _, walking := h.Engine.Character().Target(); !walking && rs.arriveFrame < 0 {
			rs.arriveFrame = f
		}
	}

	rs.blits = h.Surface.Count(iso.DrawBlit, "")
	for _, r := range h.Engine.Requests() {
		switch r.Depth {
		case iso.DepthTerrain:
			rs.terrainDraws++
		case iso.DepthBehindCharacter:
			rs.behindDraws++
		case iso.DepthInFrontOfCharacter:
			rs.inFrontDraws++
		case iso.DepthCharacter:
			rs.characterDraws++
		}
	}
	return rs, nil
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("click: target=%s hit=%s hit_ok=%v direction=%s\n", rs.target, rs.hit, rs.hitOK, rs.direction)
	fmt.Printf("walk: arrive_frame=%s\n", frameString(rs.arriveFrame))
	fmt.Printf("last_frame: blits=%d terrain=%d behind=%d character=%d in_front=%d\n\n",
		rs.blits, rs.terrainDraws, rs.behindDraws, rs.characterDraws, rs.inFrontDraws)
}

func printAggregate(all []runStats) {
	arrived := make([]int, 0, len(all))
	misses := 0
	dirs := map[string]int{}
	for _, rs := range all {
		if rs.arriveFrame >= 0 {
			arrived = append(arrived, rs.arriveFrame)
		}
		if !rs.hitOK || rs.hit != rs.target {
			misses++
		}
		dirs[rs.direction.String()]++
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d arrived=%d hit_test_misses=%d\n", len(all), len(arrived), misses)
	fmt.Printf("avg_arrive_frame=%s\n", avgFrameString(arrived))
	fmt.Printf("directions: %s\n", formatCounts(dirs))
}

func frameString(f int) string {
	if f < 0 {
		return "n/a"
	}
	return fmt.Sprintf("%d", f)
}

func avgFrameString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return strings.Join(parts, " ")
}
