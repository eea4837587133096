// Package property implements timed status effects attached to actors. A
// Handler holds an ordered list of active properties and answers the
// ability/permission queries the rest of the simulation consults before
// letting an actor see, move, attack, or cast.
package property

// Kind enumerates the status effect kinds the spec names.
type Kind int

const (
	Burning Kind = iota
	Blinded
	Confused
	Paralyzed
	Frenzied
	Slowed
	Hasted
	Infravision
	Invisible
	Ethereal
	Ooze
	Seeing
	DisabledRanged
	PossessedByZuul
	Terrified
	Poisoned
	Diseased
)

// DurKind distinguishes the three duration modes a property can have.
type DurKind int

const (
	// DurSpecific counts down a fixed number of standard turns.
	DurSpecific DurKind = iota
	// DurStandard uses the species/template-defined default duration.
	DurStandard
	// DurIndefinite never expires on its own; something must remove it.
	DurIndefinite
)

// Duration is a property's lifetime.
type Duration struct {
	Kind  DurKind
	Turns int // meaningful only when Kind == DurSpecific
}

// Specific builds a fixed-turn-count duration.
func Specific(turns int) Duration { return Duration{Kind: DurSpecific, Turns: turns} }

// Standard builds the species-default duration.
func Standard() Duration { return Duration{Kind: DurStandard} }

// Indefinite builds a duration with no natural expiry.
func Indefinite() Duration { return Duration{Kind: DurIndefinite} }

// Owner is the minimal interface a property's OnEnd hook needs from the
// actor it is attached to. Defining it here (rather than importing the
// actor package) avoids a dependency cycle, since actor.Actor embeds a
// property.Handler.
type Owner interface {
	OwnerID() int
}

// Property is one active timed modifier.
type Property struct {
	Kind      Kind
	Duration  Duration
	AbilityMods map[string]int
	OnEnd     func(owner Owner)
}

// Handler stores the ordered list of properties active on one actor.
type Handler struct {
	Active []*Property
}

// NewHandler creates an empty property handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Add attaches a property. If a property of the same kind is already
// active: an indefinite addition replaces the existing duration outright,
// while a specific-turn addition extends the existing specific duration by
// its turn count (both per the composition rule in the spec).
func (h *Handler) Add(p *Property) {
	for _, existing := range h.Active {
		if existing.Kind != p.Kind {
			continue
		}
		if p.Duration.Kind == DurIndefinite {
			existing.Duration = p.Duration
		} else if existing.Duration.Kind == DurSpecific && p.Duration.Kind == DurSpecific {
			existing.Duration.Turns += p.Duration.Turns
		} else {
			existing.Duration = p.Duration
		}
		return
	}
	h.Active = append(h.Active, p)
}

// Has reports whether a property kind is currently active.
func (h *Handler) Has(k Kind) bool {
	for _, p := range h.Active {
		if p.Kind == k {
			return true
		}
	}
	return false
}

// Remove strips a property kind outright, without firing OnEnd.
func (h *Handler) Remove(k Kind) {
	out := h.Active[:0]
	for _, p := range h.Active {
		if p.Kind != k {
			out = append(out, p)
		}
	}
	h.Active = out
}

// Tick decays every specific-turn property by one standard turn, firing
// OnEnd and removing any that reach zero. Standard- and indefinite-duration
// properties are untouched here; callers expire DurStandard properties via
// their own species-defined hooks.
func (h *Handler) Tick(owner Owner) {
	remaining := h.Active[:0]
	for _, p := range h.Active {
		if p.Duration.Kind == DurSpecific {
			p.Duration.Turns--
			if p.Duration.Turns <= 0 {
				if p.OnEnd != nil {
					p.OnEnd(owner)
				}
				continue
			}
		}
		remaining = append(remaining, p)
	}
	h.Active = remaining
}

// permission booleans are min-wins: any active property that vetoes an
// action overrides every property that would allow it.

// AllowSee reports whether the actor can currently see at all.
func (h *Handler) AllowSee() bool {
	return !h.Has(Blinded)
}

// AllowMove reports whether the actor can currently move under its own
// power.
func (h *Handler) AllowMove() bool {
	return !h.Has(Paralyzed)
}

// AllowAttackMelee reports whether the actor may make a melee attack.
func (h *Handler) AllowAttackMelee() bool {
	return !h.Has(Paralyzed)
}

// AllowAttackRanged reports whether the actor may make a ranged attack.
func (h *Handler) AllowAttackRanged() bool {
	return !h.Has(Paralyzed) && !h.Has(DisabledRanged)
}

// AllowCastSpell reports whether the actor may cast a spell.
func (h *Handler) AllowCastSpell() bool {
	return !h.Has(Paralyzed) && !h.Has(PossessedByZuul)
}

// AbilityMod sums the additive modifier every active property contributes
// to the named ability (hit chance, dodge, etc).
func (h *Handler) AbilityMod(ability string) int {
	total := 0
	for _, p := range h.Active {
		total += p.AbilityMods[ability]
	}
	return total
}
