package mapgen

import (
	"github.com/duskward/core/pkg/actor"
	"github.com/duskward/core/pkg/geometry"
	"github.com/duskward/core/pkg/item"
	"github.com/duskward/core/pkg/rng"
	"github.com/duskward/core/pkg/themes"
	"github.com/duskward/core/pkg/worldmap"
)

// trapTheme gives each theme its trap-room chance and count bounds;
// human/monster/ritual rooms trap 25% of the time, spider/crypt 75%, and
// the remaining flavors never do.
func trapTheme(k themes.Kind) (chance, min, max int) {
	switch k {
	case themes.Human, themes.Monster, themes.Ritual:
		return 25, 1, 2
	case themes.Spider, themes.Crypt:
		return 75, 1, 4
	default:
		return 0, 0, 0
	}
}

// populateMonsters places a species pool compatible with dlvl into rooms,
// preferring species whose native_rooms lists the room's theme and using the
// whole pool when none does, respecting the leader-chain depth-1
// rule: a placed group's followers get the first monster as their leader,
// never a follower of a follower.
func populateMonsters(m *worldmap.Map, rooms []*Room, p Params, r *rng.RNG) []*actor.Actor {
	if p.MonsterPool == nil {
		return nil
	}
	pool := p.MonsterPool(p.Dlvl)
	if len(pool) == 0 {
		return nil
	}

	var spawned []*actor.Actor
	for _, room := range rooms[1:] {
		if !r.OneIn(2) {
			continue
		}
		candidates := filterByNativeRoom(pool, room.Theme)
		if len(candidates) == 0 {
			candidates = pool
		}
		data := candidates[r.IndexOf(len(candidates))]
		groupSize := 1
		if r.OneIn(3) {
			groupSize = r.Range(2, 3)
		}

		var leader *actor.Actor
		for i := 0; i < groupSize; i++ {
			pos, ok := randomFloorCell(m, room, r)
			if !ok {
				break
			}
			a := actor.Mk(data, pos, false, r)
			if i == 0 {
				leader = a
			} else if leader != nil {
				a.LeaderID = leader.ID()
			}
			spawned = append(spawned, a)
		}
	}
	return spawned
}

func filterByNativeRoom(pool []*actor.Data, theme themes.Kind) []*actor.Data {
	var out []*actor.Data
	for _, d := range pool {
		for _, room := range d.NativeRooms {
			if room == string(theme) {
				out = append(out, d)
				break
			}
		}
	}
	return out
}

func randomFloorCell(m *worldmap.Map, room *Room, r *rng.RNG) (geometry.Pos, bool) {
	for tries := 0; tries < 20; tries++ {
		x := room.Rect.P0.X + 1 + r.Range(0, room.Rect.W()-3)
		y := room.Rect.P0.Y + 1 + r.Range(0, room.Rect.H()-3)
		p := geometry.Pos{X: x, Y: y}
		if c := m.At(p); c != nil && c.Rigid.Kind == worldmap.FeatureFloor && len(c.Items) == 0 {
			return p, true
		}
	}
	return geometry.Pos{}, false
}

// populateItems gives each room, with a 1-in-3 chance, one item drawn
// uniformly from ItemPool(dlvl), placed on a random free floor cell.
func populateItems(m *worldmap.Map, rooms []*Room, p Params, r *rng.RNG) {
	if p.ItemPool == nil {
		return
	}
	pool := p.ItemPool(p.Dlvl)
	if len(pool) == 0 {
		return
	}
	for _, room := range rooms {
		if !r.Fraction(1, 3) {
			continue
		}
		id := pool[r.IndexOf(len(pool))]
		if item.Lookup(id) == nil {
			continue
		}
		pos, ok := randomFloorCell(m, room, r)
		if !ok {
			continue
		}
		c := m.At(pos)
		c.Items = append(c.Items, item.New(id))
	}
}

// Trap is a placed trap instance: its template id and cell.
type Trap struct {
	ID  string
	Pos geometry.Pos
}

// populateTraps seeds each non-plain room with traps per its theme's
// chance and count bounds; spider rooms force trap_spiderWeb, every other
// themed room picks a generic trap_any template. Each placement blocks its
// cell so a second trap cannot share it.
func populateTraps(m *worldmap.Map, rooms []*Room, r *rng.RNG) []Trap {
	var traps []Trap
	for _, room := range rooms {
		chance, themeMin, themeMax := trapTheme(room.Theme)
		if chance == 0 || !r.Fraction(chance, 100) {
			continue
		}
		n := candidateFloorCount(m, room)
		lo := minInt(n/4, themeMin)
		hi := minInt(n/2, themeMax)
		if hi < lo {
			hi = lo
		}
		count := lo
		if hi > lo {
			count = lo + r.Range(0, hi-lo)
		}

		id := "trap_any"
		if room.Theme == themes.Spider {
			id = "trap_spiderWeb"
		}

		blocked := make(map[geometry.Pos]bool)
		for i := 0; i < count; i++ {
			pos, ok := randomUnblockedFloorCell(m, room, blocked, r)
			if !ok {
				break
			}
			blocked[pos] = true
			traps = append(traps, Trap{ID: id, Pos: pos})
		}
	}
	return traps
}

func candidateFloorCount(m *worldmap.Map, room *Room) int {
	n := 0
	for y := room.Rect.P0.Y + 1; y < room.Rect.P1.Y; y++ {
		for x := room.Rect.P0.X + 1; x < room.Rect.P1.X; x++ {
			if c := m.At(geometry.Pos{X: x, Y: y}); c != nil && c.Rigid.Kind == worldmap.FeatureFloor {
				n++
			}
		}
	}
	return n
}

func randomUnblockedFloorCell(m *worldmap.Map, room *Room, blocked map[geometry.Pos]bool, r *rng.RNG) (geometry.Pos, bool) {
	for tries := 0; tries < 20; tries++ {
		p, ok := randomFloorCell(m, room, r)
		if ok && !blocked[p] {
			return p, true
		}
	}
	return geometry.Pos{}, false
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
