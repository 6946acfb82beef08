// Map generation using layered simplex noise: a fertility field decides
// where berry bushes grow, a second independent layer places apple trees.
package world

import (
	"log/slog"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/wildmind/internal/knowledge"
)

// Config holds map generation and physics parameters.
type Config struct {
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	Seed         int64   `yaml:"seed"` // 0 = random
	BushLevel    float64 `yaml:"bush_level"`
	TreeLevel    float64 `yaml:"tree_level"`
	RegenSeconds float64 `yaml:"regen_seconds"`
	VisionRadius int     `yaml:"vision_radius"`
}

func DefaultConfig() Config {
	return Config{
		Width: 48, Height: 48,
		Seed:      0,
		BushLevel: 0.78, TreeLevel: 0.84,
		RegenSeconds: 90,
		VisionRadius: 8,
	}
}

// SmallTestConfig returns a tiny, fully deterministic map for tests.
func SmallTestConfig() Config {
	return Config{
		Width: 12, Height: 12,
		Seed:      42,
		BushLevel: 0.7, TreeLevel: 0.8,
		RegenSeconds: 30,
		VisionRadius: 12,
	}
}

// Generate builds the resource field. The same seed always yields the
// same map.
func Generate(cfg Config, log *slog.Logger) *World {
	if log == nil {
		log = slog.Default()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	bushNoise := opensimplex.NewNormalized(seed)
	treeNoise := opensimplex.NewNormalized(seed + 1)

	w := &World{
		cfg:       cfg,
		log:       log,
		rng:       rand.New(rand.NewSource(seed + 2)),
		byID:      make(map[knowledge.EntityID]*Resource),
		creatures: make(map[knowledge.EntityID]*Creature),
	}

	nextID := knowledge.EntityID(1)
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			fx, fy := float64(x), float64(y)
			bush := octaveNoise(bushNoise, fx, fy, 3, 0.12, 0.5)
			tree := octaveNoise(treeNoise, fx, fy, 3, 0.09, 0.5)

			var r *Resource
			switch {
			case tree > cfg.TreeLevel:
				r = &Resource{
					Kind: knowledge.ConceptAppleTree, Item: knowledge.ConceptApple,
					Stock: 3, MaxStock: 3,
				}
			case bush > cfg.BushLevel:
				r = &Resource{
					Kind: knowledge.ConceptBerryBush, Item: knowledge.ConceptBerry,
					Stock: 5, MaxStock: 5,
				}
			default:
				continue
			}
			r.ID = nextID
			nextID++
			r.Cell = knowledge.Cell{X: x, Y: y}
			r.regenAt = cfg.RegenSeconds
			w.resources = append(w.resources, r)
			w.byID[r.ID] = r
		}
	}

	log.Info("world generated",
		"size", cfg.Width*cfg.Height, "resources", len(w.resources), "seed", seed)
	return w
}

// octaveNoise layers multiple noise frequencies for a natural field.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0
	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	return total / maxVal
}
