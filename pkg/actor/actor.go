// Package actor implements the player/monster actor model: shared HP/SP/
// shock state, the property handler and inventory every actor carries, and
// the actor table that resolves leader/target references by stable integer
// id rather than raw pointers (so cyclic or stale references can never
// outlive a save/load round trip).
package actor

import (
	"sort"

	"github.com/duskward/core/pkg/geometry"
	"github.com/duskward/core/pkg/item"
	"github.com/duskward/core/pkg/property"
	"github.com/duskward/core/pkg/rng"
)

// State is an actor's coarse lifecycle state.
type State int

const (
	StateAlive State = iota
	StateCorpse
	StateDestroyed
)

// ID is a stable actor identifier. 0 means "no actor".
type ID int

// AIFlags are the species-level behavior toggles the AI ladder consults.
type AIFlags struct {
	Attacks             bool
	Paths               bool
	SimpleSteps         bool
	Wanders             bool
	OpensDoors          bool
	BashesDoors         bool
	LooksToBecomeAware  bool
	IsAlertingMon       bool
	MakesRoomForFriend  bool
}

// Data is the immutable per-species template shared by every instance of a
// monster kind (or the single player template).
type Data struct {
	ID             string
	Name           string
	Glyph          rune
	Color          [3]byte
	AIFlags        AIFlags
	NrTurnsAware   int
	ErraticMovePct int
	NativeRooms    []string
	Spells         []string
	HPDiceRolls    int
	HPDiceSides    int
	SpiritMax      int
	StealthBase    int
	StartItems     []string
	CarryWeightCap int
}

// Registry is the global species/template table.
var Registry = map[string]*Data{}

// Register adds a template to the registry.
func Register(d *Data) { Registry[d.ID] = d }

// Actor is the union of player and monster state. Monster-only and
// player-only fields are zero-valued on the other variant.
type Actor struct {
	id ID

	Pos        geometry.Pos
	StateV     State
	HP, HPMax  int
	Spirit     int
	SpiritMax  int
	Properties *property.Handler
	Inventory  *item.Inventory
	Data       *Data
	IsPlayer   bool

	// Monster-only.
	AwareCounter           int
	PlayerAwareOfMeCounter int
	LeaderID               ID
	TargetID               ID
	LastDirMoved           geometry.Dir
	SpellCooldown          int
	SpellsKnown            []string
	LairCell               geometry.Pos
	IsSneaking             bool
	NrTurnsUntilUnsummoned int
	Waiting                bool
	HasResurrected         bool

	// Player-only.
	ShockBase        float64
	ShockTemp        float64
	Insanity         int
	Mth              int
	Phobias          []string
	Obsessions       []string
	CarryWeightBase  int
	ActiveMedicalBag bool
	DynamiteFuse     int
	MolotovFuse      int
	FlareFuse        int
}

// OwnerID implements property.Owner.
func (a *Actor) OwnerID() int { return int(a.id) }

// ID returns the actor's stable identifier.
func (a *Actor) ID() ID { return a.id }

// IsAlive reports whether the actor can still act.
func (a *Actor) IsAlive() bool { return a.StateV == StateAlive }

// TakeDamage applies damage and transitions to StateCorpse at or below
// zero HP. Monsters that die outright (no corpse in their template) are
// handled by callers via Destroy.
func (a *Actor) TakeDamage(n int) {
	if n <= 0 || a.StateV != StateAlive {
		return
	}
	a.HP -= n
	if a.HP <= 0 {
		a.HP = 0
		a.StateV = StateCorpse
	}
}

// Heal restores HP, capped at HPMax. Healing a corpse or destroyed actor is
// a no-op.
func (a *Actor) Heal(n int) {
	if a.StateV != StateAlive {
		return
	}
	a.HP += n
	if a.HP > a.HPMax {
		a.HP = a.HPMax
	}
}

// Destroy removes the actor from play entirely (distinct from leaving a
// corpse).
func (a *Actor) Destroy() { a.StateV = StateDestroyed }

// Table owns every live actor and assigns stable ids.
type Table struct {
	byID map[ID]*Actor
	next ID
}

// NewTable creates an empty actor table.
func NewTable() *Table {
	return &Table{byID: make(map[ID]*Actor), next: 1}
}

// Add assigns a fresh id to an actor and registers it.
func (t *Table) Add(a *Actor) ID {
	id := t.next
	t.next++
	a.id = id
	t.byID[id] = a
	return id
}

// AddWithID re-registers an actor under an explicit id, used by load to
// reproduce the ids a save file recorded.
func (t *Table) AddWithID(a *Actor, id ID) {
	a.id = id
	t.byID[id] = a
	if id >= t.next {
		t.next = id + 1
	}
}

// Get resolves an id to its actor, or nil if unknown (e.g. already
// destroyed and removed).
func (t *Table) Get(id ID) *Actor {
	if id == 0 {
		return nil
	}
	return t.byID[id]
}

// Remove drops an actor from the table entirely.
func (t *Table) Remove(id ID) {
	delete(t.byID, id)
}

// All returns every registered actor ordered by id. The underlying table is
// a map, whose iteration order Go deliberately randomizes per pass; sorting
// here keeps every caller that depends on a stable walk order (turn
// scheduling, tie-break candidate lists, save/load) reproducible for a
// given seed.
func (t *Table) All() []*Actor {
	out := make([]*Actor, 0, len(t.byID))
	for _, a := range t.byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// AliveAt returns the living actor occupying p, or nil.
func (t *Table) AliveAt(p geometry.Pos) *Actor {
	for _, a := range t.byID {
		if a.IsAlive() && a.Pos.Eq(p) {
			return a
		}
	}
	return nil
}

// Leader resolves a monster's leader reference through the table.
func (a *Actor) Leader(t *Table) *Actor {
	return t.Get(a.LeaderID)
}

// Target resolves a monster's target reference through the table.
func (a *Actor) Target(t *Table) *Actor {
	return t.Get(a.TargetID)
}

// ValidateLeaderChain enforces the max-depth-1 leader invariant: no
// monster's leader may itself have a leader. Violations are corrected by
// nulling the offending leader reference, per the invariant-violated
// recovery policy (clamp to the safest state rather than crash).
func ValidateLeaderChain(t *Table) {
	for _, a := range t.All() {
		leader := a.Leader(t)
		if leader == nil {
			continue
		}
		if leader.LeaderID != 0 {
			leader.LeaderID = 0
		}
	}
}

// Mk constructs a new actor from a template, mirroring actor_factory::mk:
// rolls starting HP/spirit, attaches an empty property handler and
// inventory, and seeds starting items.
func Mk(data *Data, pos geometry.Pos, isPlayer bool, r *rng.RNG) *Actor {
	hpMax := r.Dice(data.HPDiceRolls, data.HPDiceSides)
	if hpMax <= 0 {
		hpMax = 1
	}
	carryCap := data.CarryWeightCap
	if carryCap <= 0 {
		carryCap = 100
	}

	a := &Actor{
		Pos:        pos,
		StateV:     StateAlive,
		HP:         hpMax,
		HPMax:      hpMax,
		Spirit:     data.SpiritMax,
		SpiritMax:  data.SpiritMax,
		Properties: property.NewHandler(),
		Inventory:  item.NewInventory(carryCap),
		Data:       data,
		IsPlayer:   isPlayer,
		SpellsKnown: append([]string(nil), data.Spells...),
		LairCell:    pos,
	}
	for _, itemID := range data.StartItems {
		if item.Lookup(itemID) != nil {
			a.Inventory.Pickup(item.New(itemID))
		}
	}
	return a
}
