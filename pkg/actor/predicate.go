package actor

import (
	"github.com/duskward/core/pkg/geometry"
	"github.com/duskward/core/pkg/mapparse"
	"github.com/duskward/core/pkg/worldmap"
)

// LivingActorAdjacentPredicate builds a mapparse.Predicate matching cells
// with at least one living actor in an adjacent (8-connected) cell. It
// lives here, rather than in mapparse, so mapparse does not need to depend
// on the actor table.
func LivingActorAdjacentPredicate(t *Table) mapparse.Predicate {
	return func(_ *worldmap.Map, p geometry.Pos) bool {
		for _, d := range geometry.AllDirs {
			if t.AliveAt(p.Add(geometry.Offsets[d])) != nil {
				return true
			}
		}
		return false
	}
}
