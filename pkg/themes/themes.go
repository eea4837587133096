// Package themes loads room theme packs from YAML and applies their feature
// rewrites during map generation. The pack format and cached-loader pattern
// are adapted from a dungeon generator's theme loader; the theme kinds and
// rewrite semantics are the spec's own.
package themes

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/duskward/core/pkg/geometry"
	"github.com/duskward/core/pkg/rng"
	"github.com/duskward/core/pkg/worldmap"
)

// Kind enumerates the eight room themes the spec names.
type Kind string

const (
	Plain   Kind = "plain"
	Human   Kind = "human"
	Ritual  Kind = "ritual"
	Spider  Kind = "spider"
	Crypt   Kind = "crypt"
	Monster Kind = "monster"
	Flooded Kind = "flooded"
	Muddy   Kind = "muddy"
)

// FeatureRewrite describes one probabilistic terrain substitution a theme
// applies to its room's floor cells (webs for spider, bloodstains for
// crypt, water for flooded and muddy).
type FeatureRewrite struct {
	Feature    string  `yaml:"feature"`
	Chance     float64 `yaml:"chance"`
	RoomMobKnd string  `yaml:"mob_kind,omitempty"`
}

// WeightedEntry is a name/weight pair used by a theme's spawn tables.
type WeightedEntry struct {
	ID     string `yaml:"id"`
	Weight int    `yaml:"weight"`
}

// Pack is one theme's complete data: its name, its feature rewrites, and
// the weighted monster/item pools it prefers.
type Pack struct {
	Name       Kind             `yaml:"name"`
	Rewrites   []FeatureRewrite `yaml:"rewrites"`
	Monsters   []WeightedEntry  `yaml:"monsters"`
	Items      []WeightedEntry  `yaml:"items"`
	TrapChance int              `yaml:"trap_chance"`
	TrapMin    int              `yaml:"trap_min"`
	TrapMax    int              `yaml:"trap_max"`
}

// Loader provides cached loading of theme packs from a base directory, one
// YAML file per theme at baseDir/<name>.yml.
type Loader struct {
	baseDir string
	cache   map[Kind]*Pack
	mu      sync.RWMutex
}

// NewLoader creates a theme loader rooted at baseDir.
func NewLoader(baseDir string) *Loader {
	return &Loader{baseDir: baseDir, cache: make(map[Kind]*Pack)}
}

// Load reads and caches a theme pack by kind.
func (l *Loader) Load(k Kind) (*Pack, error) {
	if strings.ContainsAny(string(k), "./\\") {
		return nil, fmt.Errorf("invalid theme name: %s", k)
	}

	l.mu.RLock()
	if p, ok := l.cache[k]; ok {
		l.mu.RUnlock()
		return p, nil
	}
	l.mu.RUnlock()

	data, err := os.ReadFile(filepath.Join(l.baseDir, string(k)+".yml"))
	if err != nil {
		if p := defaultPack(k); p != nil {
			l.mu.Lock()
			l.cache[k] = p
			l.mu.Unlock()
			return p, nil
		}
		return nil, fmt.Errorf("reading theme %s: %w", k, err)
	}

	var p Pack
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing theme %s: %w", k, err)
	}
	p.Name = k

	l.mu.Lock()
	l.cache[k] = &p
	l.mu.Unlock()
	return &p, nil
}

// defaultPack supplies a minimal built-in pack for a theme when no YAML
// file is present on disk, so generation never fails for want of asset
// data in a fresh checkout.
func defaultPack(k Kind) *Pack {
	switch k {
	case Spider:
		return &Pack{Name: Spider, Rewrites: []FeatureRewrite{{Feature: "web", Chance: 0.3}}, TrapChance: 75, TrapMin: 1, TrapMax: 3}
	case Crypt:
		return &Pack{Name: Crypt, Rewrites: []FeatureRewrite{{Feature: "bloodstain", Chance: 0.2}}, TrapChance: 75, TrapMin: 1, TrapMax: 3}
	case Flooded:
		return &Pack{Name: Flooded, Rewrites: []FeatureRewrite{{Feature: "puddle", Chance: 0.4}}, TrapChance: 25, TrapMin: 0, TrapMax: 2}
	case Muddy:
		return &Pack{Name: Muddy, Rewrites: []FeatureRewrite{{Feature: "mud", Chance: 0.4}}, TrapChance: 25, TrapMin: 0, TrapMax: 2}
	case Human, Ritual, Monster:
		return &Pack{Name: k, TrapChance: 25, TrapMin: 0, TrapMax: 2}
	default:
		return &Pack{Name: Plain, TrapChance: 0}
	}
}

// AllKinds lists every theme kind in roll order.
var AllKinds = []Kind{Plain, Human, Ritual, Spider, Crypt, Monster, Flooded, Muddy}

// Roll picks a theme uniformly at random.
func Roll(r *rng.RNG) Kind {
	return AllKinds[r.IndexOf(len(AllKinds))]
}

// Apply runs a pack's feature rewrites over every floor cell of a room
// rectangle, each cell independently rolling its rewrite chance.
func Apply(p *Pack, m *worldmap.Map, room geometry.Rect, r *rng.RNG) {
	if p == nil {
		return
	}
	for y := room.P0.Y; y <= room.P1.Y; y++ {
		for x := room.P0.X; x <= room.P1.X; x++ {
			pos := geometry.Pos{X: x, Y: y}
			c := m.At(pos)
			if c == nil || c.Rigid.Kind != worldmap.FeatureFloor {
				continue
			}
			for _, rw := range p.Rewrites {
				if r.Fraction(int(rw.Chance*100), 100) {
					applyRewrite(m, pos, rw)
					break
				}
			}
		}
	}
}

func applyRewrite(m *worldmap.Map, pos geometry.Pos, rw FeatureRewrite) {
	switch rw.Feature {
	case "web":
		m.AddMob(worldmap.Mob{Kind: worldmap.MobWebTrigger, Pos: pos, TurnsLeft: -1})
	case "bloodstain":
		m.AddMob(worldmap.Mob{Kind: worldmap.MobBloodstain, Pos: pos, TurnsLeft: -1})
	case "puddle", "mud":
		m.SetFeature(pos, worldmap.RigidFeature{Kind: worldmap.FeatureLiquidWater})
	}
}
