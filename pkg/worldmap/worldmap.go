// Package worldmap provides the map grid substrate: rigid terrain features,
// ground item stacks, cell flags, and mobile non-actor features (mobs) such
// as smoke or bloodstains. Rooms exist only during generation; by play time
// a cell's RoomID has been nulled out, per the spec's lifecycle note.
package worldmap

import "github.com/duskward/core/pkg/item"

// FeatureKind enumerates the rigid terrain kinds a cell can hold.
type FeatureKind int

const (
	FeatureFloor FeatureKind = iota
	FeatureWall
	FeatureDoorClosed
	FeatureDoorOpen
	FeatureDoorSecret
	FeatureDoorStuck
	FeatureDoorBroken
	FeatureStairsDown
	FeatureStairsUp
	FeatureRubble
	FeatureLiquidWater
	FeatureLiquidLava
	FeaturePillar
)

// RigidFeature is the immovable terrain occupying a cell. Exactly one is
// present per cell at all times; it is freely replaceable (a door opens
// into FeatureDoorOpen, rubble forms from a collapsed wall, and so on).
type RigidFeature struct {
	Kind       FeatureKind
	IsStuck    bool
	IsSecret   bool
	IsBashable bool
}

// BlocksMove reports whether this feature, on its own, blocks actor
// movement.
func (f RigidFeature) BlocksMove() bool {
	switch f.Kind {
	case FeatureWall, FeaturePillar, FeatureLiquidLava:
		return true
	case FeatureDoorClosed, FeatureDoorStuck, FeatureDoorSecret:
		return true
	default:
		return false
	}
}

// BlocksLOS reports whether this feature, on its own, blocks line of sight.
func (f RigidFeature) BlocksLOS() bool {
	switch f.Kind {
	case FeatureWall, FeaturePillar:
		return true
	case FeatureDoorClosed, FeatureDoorStuck, FeatureDoorSecret:
		return true
	default:
		return false
	}
}

// IsDoor reports whether this feature is any door variant.
func (f RigidFeature) IsDoor() bool {
	switch f.Kind {
	case FeatureDoorClosed, FeatureDoorOpen, FeatureDoorSecret, FeatureDoorStuck, FeatureDoorBroken:
		return true
	default:
		return false
	}
}

// CellFlags tracks per-cell lighting and exploration state.
type CellFlags struct {
	IsLit         bool
	IsDark        bool
	IsExplored    bool
	IsSeenByPlayer bool
}

// Cell is one map grid point.
type Cell struct {
	Rigid  RigidFeature
	Items  []*item.Item
	Flags  CellFlags
	RoomID int // -1 once generation discards room back-references
}

// MobKind enumerates the non-actor mobile map occupant kinds.
type MobKind int

const (
	MobSmoke MobKind = iota
	MobGore
	MobBloodstain
	MobWebTrigger
)
