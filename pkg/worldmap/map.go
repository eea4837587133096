package worldmap

import "github.com/duskward/core/pkg/geometry"

// Mob is a mobile, non-actor map occupant: smoke, gore, a bloodstain, a web
// trigger. Unlike actors, multiple mobs may share a cell.
type Mob struct {
	Kind      MobKind
	Pos       geometry.Pos
	TurnsLeft int // <=0 means permanent until explicitly cleared
}

// Map is the full grid of cells for one dungeon level, stored row-major:
// index = y*W + x.
type Map struct {
	W, H  int
	Cells []Cell
	Mobs  []Mob
}

// New allocates a W x H map with every cell defaulted to wall, matching how
// generation starts from solid rock and carves rooms/corridors out of it.
func New(w, h int) *Map {
	m := &Map{W: w, H: h, Cells: make([]Cell, w*h)}
	for i := range m.Cells {
		m.Cells[i] = Cell{Rigid: RigidFeature{Kind: FeatureWall}, RoomID: -1}
	}
	return m
}

// InBounds reports whether p lies within the map.
func (m *Map) InBounds(p geometry.Pos) bool {
	return p.X >= 0 && p.X < m.W && p.Y >= 0 && p.Y < m.H
}

func (m *Map) index(p geometry.Pos) int {
	return p.Y*m.W + p.X
}

// At returns a pointer to the cell at p, or nil if out of bounds.
func (m *Map) At(p geometry.Pos) *Cell {
	if !m.InBounds(p) {
		return nil
	}
	return &m.Cells[m.index(p)]
}

// SetFeature replaces the rigid feature at p.
func (m *Map) SetFeature(p geometry.Pos, f RigidFeature) {
	if c := m.At(p); c != nil {
		c.Rigid = f
	}
}

// AddMob appends a mob to the map's mob list.
func (m *Map) AddMob(mob Mob) {
	m.Mobs = append(m.Mobs, mob)
}

// MobsAt returns every mob currently occupying p.
func (m *Map) MobsAt(p geometry.Pos) []*Mob {
	var found []*Mob
	for i := range m.Mobs {
		if m.Mobs[i].Pos.Eq(p) {
			found = append(found, &m.Mobs[i])
		}
	}
	return found
}

// TickMobs decrements every mob's countdown, removing those that expire.
// Mobs with TurnsLeft<=0 at creation are permanent and are left untouched.
func (m *Map) TickMobs() {
	kept := m.Mobs[:0]
	for _, mob := range m.Mobs {
		if mob.TurnsLeft > 0 {
			mob.TurnsLeft--
			if mob.TurnsLeft == 0 {
				continue
			}
		}
		kept = append(kept, mob)
	}
	m.Mobs = kept
}

// Backup returns a deep copy of the feature grid, used by generation to
// snapshot before a retry attempt.
func (m *Map) Backup() []RigidFeature {
	backup := make([]RigidFeature, len(m.Cells))
	for i, c := range m.Cells {
		backup[i] = c.Rigid
	}
	return backup
}

// Restore overwrites every cell's rigid feature from a prior Backup.
func (m *Map) Restore(backup []RigidFeature) {
	for i := range m.Cells {
		if i < len(backup) {
			m.Cells[i].Rigid = backup[i]
		}
	}
}

// ClearRoomRefs nulls every cell's room back-reference, matching the
// lifecycle rule that rooms do not survive into play.
func (m *Map) ClearRoomRefs() {
	for i := range m.Cells {
		m.Cells[i].RoomID = -1
	}
}
