// Package mapgen builds a playable level: rooms, corridors, doors, themes,
// template stamps, and population. Generation always starts from a map of
// solid rock (worldmap.New) and carves outward; a failed attempt is
// discarded and the next one starts from a fresh worldmap.New map, drawing
// on the same RNG stream, rather than ever leaving a half-carved map in play.
package mapgen

import (
	"github.com/duskward/core/pkg/actor"
	"github.com/duskward/core/pkg/geometry"
	"github.com/duskward/core/pkg/item"
	"github.com/duskward/core/pkg/mapparse"
	"github.com/duskward/core/pkg/pathfind"
	"github.com/duskward/core/pkg/rng"
	"github.com/duskward/core/pkg/themes"
	"github.com/duskward/core/pkg/worldmap"
)

// Room is a generation-time rectangle; by play time its back-reference is
// discarded from every cell (worldmap.Map.ClearRoomRefs), matching the
// spec's room lifecycle note.
type Room struct {
	ID            int
	Rect          geometry.Rect
	Theme         themes.Kind
	ConnectedTo   map[int]bool
}

// Params configures one generation attempt.
type Params struct {
	NumRooms      int
	MinRoomSize   int
	MaxRoomSize   int
	RoomMargin    int
	MaxAttempts   int // generation attempts before falling back to a minimal template
	Dlvl          int
	ThemeLoader   *themes.Loader
	MonsterPool   func(dlvl int) []*actor.Data
	ItemPool      func(dlvl int) []string
}

// DefaultParams returns sane defaults for a standard-sized level.
func DefaultParams(dlvl int, loader *themes.Loader) Params {
	return Params{
		NumRooms:    10,
		MinRoomSize: 4,
		MaxRoomSize: 9,
		RoomMargin:  1,
		MaxAttempts: 5,
		Dlvl:        dlvl,
		ThemeLoader: loader,
	}
}

// Result is everything a freshly generated level hands back to the caller.
type Result struct {
	Map         *worldmap.Map
	Rooms       []*Room
	PlayerSpawn geometry.Pos
	StairsDown  geometry.Pos
	Monsters    []*actor.Actor
	Traps       []Trap
}

// Generate runs the full pipeline, retrying up to Params.MaxAttempts times
// on a generation-impossible outcome (unreachable stairs) before falling
// back to a minimal single-room template that can never fail.
func Generate(w, h int, p Params, r *rng.RNG) *Result {
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		m := worldmap.New(w, h)
		rooms := placeRooms(m, w, h, p, r)
		if len(rooms) < 2 {
			continue
		}
		connectRooms(m, rooms, r)
		seedDoors(m, rooms, r)
		assignThemes(m, rooms, p, r)

		spawn := rooms[0].Rect.Center()
		stairs, ok := placeStairs(m, rooms, spawn, r)
		if !ok {
			continue
		}
		if !reachable(m, spawn, stairs) {
			continue
		}

		m.ClearRoomRefs()
		monsters := populateMonsters(m, rooms, p, r)
		populateItems(m, rooms, p, r)
		traps := populateTraps(m, rooms, r)

		return &Result{Map: m, Rooms: rooms, PlayerSpawn: spawn, StairsDown: stairs, Monsters: monsters, Traps: traps}
	}
	return minimalFallback(w, h)
}

// minimalFallback builds a single empty room with spawn and stairs in
// opposite interior corners, the generation-impossible recovery path: it can
// never fail to produce a reachable level.
func minimalFallback(w, h int) *Result {
	m := worldmap.New(w, h)
	room := geometry.NewRect(geometry.Pos{X: 2, Y: 2}, geometry.Pos{X: w - 3, Y: h - 3})
	carveRoom(m, room)
	spawn := geometry.Pos{X: room.P0.X + 1, Y: room.P0.Y + 1}
	stairs := geometry.Pos{X: room.P1.X - 1, Y: room.P1.Y - 1}
	m.SetFeature(stairs, worldmap.RigidFeature{Kind: worldmap.FeatureStairsDown})
	m.ClearRoomRefs()
	return &Result{Map: m, Rooms: nil, PlayerSpawn: spawn, StairsDown: stairs}
}

func reachable(m *worldmap.Map, src, dst geometry.Pos) bool {
	grid := mapparse.FromMap(m)
	mapparse.Run(m, func(m *worldmap.Map, p geometry.Pos) bool {
		c := m.At(p)
		if c == nil {
			return true
		}
		if c.Rigid.BlocksMove() && !(c.Rigid.IsDoor() && c.Rigid.IsBashable) {
			return true
		}
		return false
	}, grid, mapparse.Overwrite, nil)
	return pathfind.Distance(src, dst, grid) >= 0
}

func carveRoom(m *worldmap.Map, rect geometry.Rect) {
	for y := rect.P0.Y; y <= rect.P1.Y; y++ {
		for x := rect.P0.X; x <= rect.P1.X; x++ {
			p := geometry.Pos{X: x, Y: y}
			onEdge := x == rect.P0.X || x == rect.P1.X || y == rect.P0.Y || y == rect.P1.Y
			if onEdge {
				m.SetFeature(p, worldmap.RigidFeature{Kind: worldmap.FeatureWall})
			} else {
				m.SetFeature(p, worldmap.RigidFeature{Kind: worldmap.FeatureFloor})
			}
		}
	}
}

// placeRooms seeds NumRooms candidate rectangles, rejecting any that
// overlaps (expanded by RoomMargin) an already-placed room.
func placeRooms(m *worldmap.Map, w, h int, p Params, r *rng.RNG) []*Room {
	var rooms []*Room
	const rejectLimit = 200
	for i, tries := 0, 0; i < p.NumRooms && tries < rejectLimit; tries++ {
		rw := p.MinRoomSize + r.Range(0, p.MaxRoomSize-p.MinRoomSize)
		rh := p.MinRoomSize + r.Range(0, p.MaxRoomSize-p.MinRoomSize)
		x := r.Range(1, w-rw-2)
		y := r.Range(1, h-rh-2)
		rect := geometry.NewRect(geometry.Pos{X: x, Y: y}, geometry.Pos{X: x + rw - 1, Y: y + rh - 1})

		overlaps := false
		for _, existing := range rooms {
			if rect.Expanded(p.RoomMargin).Intersects(existing.Rect) {
				overlaps = true
				break
			}
		}
		if overlaps {
			continue
		}

		room := &Room{ID: i, Rect: rect, ConnectedTo: make(map[int]bool)}
		carveRoom(m, rect)
		if r.OneIn(4) {
			cutRoomCorners(m, room, r)
		} else if r.OneIn(3) {
			mkPillarsInRoom(m, room, r)
		}
		for y := rect.P0.Y; y <= rect.P1.Y; y++ {
			for x := rect.P0.X; x <= rect.P1.X; x++ {
				c := m.At(geometry.Pos{X: x, Y: y})
				if c != nil {
					c.RoomID = room.ID
				}
			}
		}
		rooms = append(rooms, room)
		i++
	}
	return rooms
}

// cutRoomCorners carves one interior sub-rectangle of floor and walls off
// the four corners, giving the room a non-rectangular silhouette.
func cutRoomCorners(m *worldmap.Map, room *Room, r *rng.RNG) {
	rect := room.Rect
	if rect.W() < 5 || rect.H() < 5 {
		return
	}
	cut := r.Range(1, 2)
	for _, corner := range []geometry.Pos{rect.P0, {X: rect.P1.X, Y: rect.P0.Y}, {X: rect.P0.X, Y: rect.P1.Y}, rect.P1} {
		for dy := 0; dy <= cut; dy++ {
			for dx := 0; dx <= cut; dx++ {
				sign := func(c, edge int) int {
					if c == edge {
						return 1
					}
					return -1
				}
				p := geometry.Pos{
					X: corner.X + dx*sign(corner.X, rect.P1.X),
					Y: corner.Y + dy*sign(corner.Y, rect.P1.Y),
				}
				if rect.Contains(p) {
					m.SetFeature(p, worldmap.RigidFeature{Kind: worldmap.FeatureWall})
				}
			}
		}
	}
}

// mkPillarsInRoom jitters single-tile wall pillars into the room's
// interior, never adjacent to the outer wall.
func mkPillarsInRoom(m *worldmap.Map, room *Room, r *rng.RNG) {
	rect := room.Rect
	inner := geometry.NewRect(
		geometry.Pos{X: rect.P0.X + 2, Y: rect.P0.Y + 2},
		geometry.Pos{X: rect.P1.X - 2, Y: rect.P1.Y - 2},
	)
	if inner.W() <= 0 || inner.H() <= 0 {
		return
	}
	n := r.Range(1, 3)
	for i := 0; i < n; i++ {
		p := geometry.Pos{
			X: inner.P0.X + r.Range(0, inner.W()-1),
			Y: inner.P0.Y + r.Range(0, inner.H()-1),
		}
		m.SetFeature(p, worldmap.RigidFeature{Kind: worldmap.FeaturePillar})
	}
}

// corridorEntryCells returns every wall cell of room that qualifies as a
// corridor entry per the exact predicate: a wall with no room back-ref,
// not on the outermost two map rings, cardinally adjacent to a floor cell
// of the room, and cardinally adjacent to a cell outside the room's
// 1-cell expansion.
func corridorEntryCells(m *worldmap.Map, room *Room) []geometry.Pos {
	var out []geometry.Pos
	expanded := room.Rect.Expanded(1)
	cardinal := []geometry.Pos{{X: 0, Y: -1}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 1, Y: 0}}

	for y := room.Rect.P0.Y - 1; y <= room.Rect.P1.Y+1; y++ {
		for x := room.Rect.P0.X - 1; x <= room.Rect.P1.X+1; x++ {
			p := geometry.Pos{X: x, Y: y}
			c := m.At(p)
			if c == nil || c.Rigid.Kind != worldmap.FeatureWall || c.RoomID != -1 {
				continue
			}
			if x < 2 || y < 2 || x >= m.W-2 || y >= m.H-2 {
				continue
			}
			adjFloor, adjOutside := false, false
			for _, d := range cardinal {
				n := p.Add(d)
				nc := m.At(n)
				if nc == nil {
					continue
				}
				if nc.Rigid.Kind == worldmap.FeatureFloor && nc.RoomID == room.ID {
					adjFloor = true
				}
				if !expanded.Contains(n) {
					adjOutside = true
				}
			}
			if adjFloor && adjOutside {
				out = append(out, p)
			}
		}
	}
	return out
}

// wrapsAround reports whether a corridor path enters room on both opposite
// sides (left & right, or top & bottom), which the spec rejects as an
// invalid connection.
func wrapsAround(path []geometry.Pos, room geometry.Rect) bool {
	left, right, top, bottom := false, false, false, false
	for _, p := range path {
		if p.X <= room.P0.X {
			left = true
		}
		if p.X >= room.P1.X {
			right = true
		}
		if p.Y <= room.P0.Y {
			top = true
		}
		if p.Y >= room.P1.Y {
			bottom = true
		}
	}
	return (left && right) || (top && bottom)
}

// connectRooms links every room to its king-distance-nearest unconnected
// neighbor, carving a corridor between their closest entry-cell pair and
// dropping a junction room every fifth carved step.
func connectRooms(m *worldmap.Map, rooms []*Room, r *rng.RNG) {
	blocked := mapparse.FromMap(m)
	mapparse.Run(m, mapparse.BlocksMoveCommon, blocked, mapparse.Overwrite, nil)
	mask := mapparse.NewBoolGrid(m.W, m.H)
	mapparse.Expand(blocked, mask, 1, true)

	nextJunctionID := len(rooms)
	for i, room := range rooms {
		var target *Room
		bestDist := -1
		for j, other := range rooms {
			if i == j || room.ConnectedTo[other.ID] {
				continue
			}
			d := geometry.KingDist(room.Rect.Center(), other.Rect.Center())
			if target == nil || d < bestDist {
				target, bestDist = other, d
			}
		}
		if target == nil {
			continue
		}

		srcCells := corridorEntryCells(m, room)
		dstCells := corridorEntryCells(m, target)
		if len(srcCells) == 0 || len(dstCells) == 0 {
			continue
		}
		src, dst := closestPair(srcCells, dstCells)

		path := pathfind.Run(src, dst, mask)
		if len(path) == 0 || wrapsAround(append([]geometry.Pos{src}, pathPositions(src, path)...), room.Rect) {
			continue
		}

		carveCorridor(m, src, path, room, target, r, &nextJunctionID, rooms)
		room.ConnectedTo[target.ID] = true
		target.ConnectedTo[room.ID] = true
	}
}

func pathPositions(src geometry.Pos, path []geometry.Dir) []geometry.Pos {
	out := make([]geometry.Pos, 0, len(path))
	cur := src
	for _, d := range path {
		cur = cur.Add(geometry.Offsets[d])
		out = append(out, cur)
	}
	return out
}

func closestPair(a, b []geometry.Pos) (geometry.Pos, geometry.Pos) {
	bestA, bestB := a[0], b[0]
	best := geometry.KingDist(a[0], b[0])
	for _, pa := range a {
		for _, pb := range b {
			d := geometry.KingDist(pa, pb)
			if d < best {
				best, bestA, bestB = d, pa, pb
			}
		}
	}
	return bestA, bestB
}

func carveCorridor(m *worldmap.Map, src geometry.Pos, path []geometry.Dir, from, to *Room, r *rng.RNG, nextJunctionID *int, rooms []*Room) {
	m.SetFeature(src, worldmap.RigidFeature{Kind: worldmap.FeatureFloor})
	seedDoorAt(m, src)

	cur := src
	for i, d := range path {
		cur = cur.Add(geometry.Offsets[d])
		m.SetFeature(cur, worldmap.RigidFeature{Kind: worldmap.FeatureFloor})

		if (i+1)%5 == 0 {
			spawnJunctionRoom(m, cur, from, to, r, nextJunctionID, rooms)
		}
	}
	seedDoorAt(m, cur)
}

// seedDoorAt marks a corridor endpoint as a closed door proposal; the
// actual spawn-state roll happens in seedDoors so every door (corridor or
// template) goes through one code path.
func seedDoorAt(m *worldmap.Map, p geometry.Pos) {
	c := m.At(p)
	if c != nil && c.Rigid.Kind == worldmap.FeatureFloor {
		m.SetFeature(p, worldmap.RigidFeature{Kind: worldmap.FeatureDoorClosed})
	}
}

// spawnJunctionRoom records a 1x1 junction room at p and links it
// bidirectionally to both corridor endpoints through ConnectedTo, matching
// the every-fifth-step junction rule. It does not change the map (p stays
// corridor floor) and does not add the junction to rooms.
func spawnJunctionRoom(m *worldmap.Map, p geometry.Pos, from, to *Room, r *rng.RNG, nextJunctionID *int, rooms []*Room) {
	junction := &Room{ID: *nextJunctionID, Rect: geometry.Rect{P0: p, P1: p}, ConnectedTo: make(map[int]bool)}
	*nextJunctionID++
	junction.ConnectedTo[from.ID] = true
	junction.ConnectedTo[to.ID] = true
	from.ConnectedTo[junction.ID] = true
	to.ConnectedTo[junction.ID] = true
}

// seedDoors rolls the spawn state for every closed-door proposal left by
// corridor carving: secret+stuck 5%, secret 35%, stuck 10%, broken 10%,
// open 15%, closed 25%.
func seedDoors(m *worldmap.Map, rooms []*Room, r *rng.RNG) {
	for i := range m.Cells {
		c := &m.Cells[i]
		if c.Rigid.Kind != worldmap.FeatureDoorClosed {
			continue
		}
		roll := r.Range(1, 100)
		switch {
		case roll <= 5:
			c.Rigid = worldmap.RigidFeature{Kind: worldmap.FeatureDoorSecret, IsSecret: true, IsStuck: true}
		case roll <= 40:
			c.Rigid = worldmap.RigidFeature{Kind: worldmap.FeatureDoorSecret, IsSecret: true}
		case roll <= 50:
			c.Rigid = worldmap.RigidFeature{Kind: worldmap.FeatureDoorStuck, IsStuck: true, IsBashable: true}
		case roll <= 60:
			c.Rigid = worldmap.RigidFeature{Kind: worldmap.FeatureDoorBroken}
		case roll <= 75:
			c.Rigid = worldmap.RigidFeature{Kind: worldmap.FeatureDoorOpen}
		default:
			c.Rigid = worldmap.RigidFeature{Kind: worldmap.FeatureDoorClosed, IsBashable: true}
		}
	}
}

// assignThemes rolls and applies a theme per room.
func assignThemes(m *worldmap.Map, rooms []*Room, p Params, r *rng.RNG) {
	for _, room := range rooms {
		room.Theme = themes.Roll(r)
		if p.ThemeLoader == nil {
			continue
		}
		pack, err := p.ThemeLoader.Load(room.Theme)
		if err != nil {
			continue
		}
		themes.Apply(pack, m, room.Rect, r)
	}
}

// StampTemplate overwrites cells with fixed (feature,id) pairs and seeds
// (actor,id)/(item,id) marks, used by scripted set-piece levels.
type StampTemplate struct {
	Origin   geometry.Pos
	Features map[geometry.Pos]worldmap.RigidFeature
	Actors   map[geometry.Pos]string
	Items    map[geometry.Pos]string
}

// Stamp applies a template's fixed layout onto m, offset by its Origin.
func Stamp(m *worldmap.Map, t StampTemplate, table *actor.Table, r *rng.RNG) []*actor.Actor {
	for rel, f := range t.Features {
		m.SetFeature(t.Origin.Add(rel), f)
	}
	var spawned []*actor.Actor
	for rel, id := range t.Actors {
		data := actor.Registry[id]
		if data == nil {
			continue
		}
		a := actor.Mk(data, t.Origin.Add(rel), false, r)
		spawned = append(spawned, a)
	}
	for rel, id := range t.Items {
		if item.Lookup(id) == nil {
			continue
		}
		p := t.Origin.Add(rel)
		if c := m.At(p); c != nil {
			c.Items = append(c.Items, item.New(id))
		}
	}
	return spawned
}

// placeStairs picks the first non-edge floor cell, in row order, of a
// randomly chosen room other than the spawn room. It does not check
// occupancy or reachability; Generate checks that the stairs are reachable
// from spawn.
func placeStairs(m *worldmap.Map, rooms []*Room, spawn geometry.Pos, r *rng.RNG) (geometry.Pos, bool) {
	candidates := rooms
	if len(candidates) > 1 {
		candidates = candidates[1:]
	}
	for _, room := range shuffledRooms(candidates, r) {
		for y := room.Rect.P0.Y + 1; y < room.Rect.P1.Y; y++ {
			for x := room.Rect.P0.X + 1; x < room.Rect.P1.X; x++ {
				p := geometry.Pos{X: x, Y: y}
				c := m.At(p)
				if c == nil || c.Rigid.Kind != worldmap.FeatureFloor {
					continue
				}
				m.SetFeature(p, worldmap.RigidFeature{Kind: worldmap.FeatureStairsDown})
				return p, true
			}
		}
	}
	return geometry.Pos{}, false
}

func shuffledRooms(rooms []*Room, r *rng.RNG) []*Room {
	out := append([]*Room(nil), rooms...)
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
