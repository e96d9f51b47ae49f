package strategy

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/wricardo/mcp-training/deepsea/game/engine"
)

// DefaultGreedyDepth is how deep a greedy diver goes before grabbing.
const DefaultGreedyDepth = 24

var ErrUnknownStrategy = errors.New("unknown strategy")

// Grabber picks up the first N treasures on the way down, then turns
// around and ignores everything else. It never drops.
type Grabber struct {
	N int
}

func (g Grabber) Forward(obs engine.Observation) int {
	if obs.Weight() >= g.N {
		return 0
	}
	return 1
}

func (g Grabber) Pick(obs engine.Observation) int {
	if obs.Forward() {
		return 1
	}
	return 0
}

func (g Grabber) Drop(engine.Observation) int { return 0 }

// Diver swims to position Depth, turns around, and grabs treasures on the
// way back until it carries N. A tile at or below Depth is taken even on
// the way down, but never past N.
type Diver struct {
	Depth int
	N     int
}

func (d Diver) Forward(obs engine.Observation) int {
	if obs.Position() >= d.Depth {
		return 0
	}
	return 1
}

func (d Diver) Pick(obs engine.Observation) int {
	switch {
	case obs.Weight() >= d.N:
		return 0
	case obs.Position() >= d.Depth:
		return 1
	case obs.Forward():
		return 0
	default:
		return 1
	}
}

func (d Diver) Drop(engine.Observation) int { return 0 }

// Greedy heads straight for the deep tiles, takes the first treasure past
// Depth and turns for home.
type Greedy struct {
	Depth int
}

func (g Greedy) Forward(obs engine.Observation) int {
	if obs.Weight() > 0 || obs.Position() > g.Depth {
		return 0
	}
	return 1
}

func (g Greedy) Pick(obs engine.Observation) int {
	if obs.Position() > g.Depth {
		return 1
	}
	return 0
}

func (g Greedy) Drop(engine.Observation) int { return 0 }

// Random answers every query with a coin flip from its own generator.
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a random strategy with a deterministic seed.
func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewPCG(uint64(seed), 0x5851f42d4c957f2d))}
}

func (r *Random) Forward(engine.Observation) int { return r.rng.IntN(2) }
func (r *Random) Pick(engine.Observation) int    { return r.rng.IntN(2) }
func (r *Random) Drop(engine.Observation) int    { return r.rng.IntN(2) }

// builder turns a player spec's params into a provider.
type builder func(params map[string]int, seed int64) (engine.DecisionProvider, error)

var registry = map[string]builder{
	"grabber": func(params map[string]int, _ int64) (engine.DecisionProvider, error) {
		n, err := param(params, "n", 1)
		if err != nil {
			return nil, err
		}
		return Grabber{N: n}, nil
	},
	"diver": func(params map[string]int, _ int64) (engine.DecisionProvider, error) {
		depth, err := param(params, "depth", 16)
		if err != nil {
			return nil, err
		}
		n, err := param(params, "n", 1)
		if err != nil {
			return nil, err
		}
		return Diver{Depth: depth, N: n}, nil
	},
	"greedy": func(params map[string]int, _ int64) (engine.DecisionProvider, error) {
		depth, err := param(params, "depth", DefaultGreedyDepth)
		if err != nil {
			return nil, err
		}
		return Greedy{Depth: depth}, nil
	},
	"random": func(_ map[string]int, seed int64) (engine.DecisionProvider, error) {
		return NewRandom(seed), nil
	},
}

// allowedParams lists the parameter names each strategy understands.
var allowedParams = map[string][]string{
	"grabber": {"n"},
	"diver":   {"depth", "n"},
	"greedy":  {"depth"},
	"random":  {},
}

func param(params map[string]int, key string, def int) (int, error) {
	v, ok := params[key]
	if !ok {
		return def, nil
	}
	if v < 0 || v > engine.PathLength {
		return 0, fmt.Errorf("param %s=%d out of range [0, %d]", key, v, engine.PathLength)
	}
	return v, nil
}

// Build creates the decision provider described by spec. The seed only
// matters for strategies that draw random numbers.
func Build(spec engine.PlayerSpec, seed int64) (engine.DecisionProvider, error) {
	name := strings.ToLower(strings.TrimSpace(spec.Strategy))
	b, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, spec.Strategy)
	}

	allowed := allowedParams[name]
	for key := range spec.Params {
		known := false
		for _, a := range allowed {
			if a == key {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("strategy %s: unknown param %q", name, key)
		}
	}

	p, err := b(spec.Params, seed)
	if err != nil {
		return nil, fmt.Errorf("strategy %s: %w", name, err)
	}
	return p, nil
}

// BuildTable creates one provider per seat of a table config. Seat i gets
// seed+i so random seats stay independent but reproducible.
func BuildTable(config *engine.TableConfig, seed int64) ([]engine.DecisionProvider, error) {
	providers := make([]engine.DecisionProvider, len(config.Players))
	for i, spec := range config.Players {
		p, err := Build(spec, seed+int64(i))
		if err != nil {
			return nil, fmt.Errorf("players[%d]: %w", i, err)
		}
		providers[i] = p
	}
	return providers, nil
}

// Names returns the registered strategy names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns a short human description of a player spec.
func Describe(spec engine.PlayerSpec) string {
	if len(spec.Params) == 0 {
		return spec.Strategy
	}
	keys := make([]string, 0, len(spec.Params))
	for k := range spec.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, spec.Params[k])
	}
	return fmt.Sprintf("%s(%s)", spec.Strategy, strings.Join(parts, ","))
}
