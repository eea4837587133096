// Package combat resolves melee, ranged, thrown, and explosion damage. It
// mirrors the host engine's CombatSystem.Attack pattern — roll to hit,
// compute damage, apply armor, trigger on-hit properties — but replaces the
// continuous cooldown/animation model with the spec's discrete dice
// resolution.
package combat

import (
	"github.com/duskward/core/pkg/actor"
	"github.com/duskward/core/pkg/geometry"
	"github.com/duskward/core/pkg/item"
	"github.com/duskward/core/pkg/property"
	"github.com/duskward/core/pkg/rng"
	"github.com/duskward/core/pkg/sound"
	"github.com/duskward/core/pkg/worldmap"
)

// MeleeResult reports the outcome of a single melee exchange.
type MeleeResult struct {
	Hit       bool
	Damage    int
	Knockback bool
	Killed    bool
}

// situationalMod folds in the attacker's blind/stunned/adjacency penalties
// via its property handler, and the defender's dodge via its own.
func situationalMod(a *actor.Actor) int {
	return a.Properties.AbilityMod("hit_chance")
}

func dodgeMod(a *actor.Actor) int {
	return a.Properties.AbilityMod("dodge")
}

// ResolveMelee resolves one melee attack from attacker against defender
// using weapon (the wielded item's template, or an intrinsic). The roll is
// hit-chance-mod + situational vs defender dodge; on a hit, damage dice
// plus bonuses are rolled, armor is applied, and knockback/on-hit
// properties fire per the weapon's melee block.
func ResolveMelee(r *rng.RNG, attacker, defender *actor.Actor, weapon *item.Data) MeleeResult {
	var result MeleeResult
	if !attacker.Properties.AllowAttackMelee() || !defender.IsAlive() {
		return result
	}

	hitMod := 50
	var melee *item.MeleeBlock
	if weapon != nil && weapon.Melee != nil {
		melee = weapon.Melee
		hitMod += melee.HitMod
	}
	hitMod += situationalMod(attacker)
	hitMod -= dodgeMod(defender)

	roll := r.Percent()
	if roll > clampPercent(hitMod) {
		return result
	}
	result.Hit = true

	dmg := 1
	if melee != nil {
		dmg = r.Dice(melee.DiceRolls, melee.DiceSides)
	}
	dmg += attacker.Properties.AbilityMod("melee_damage")

	if armored := defender.Inventory.Slots[item.SlotBody]; armored != nil {
		if ad := armored.Data(); ad != nil && ad.Armor != nil {
			dmg -= ad.Armor.ArmorPoints
		}
	}
	if dmg < 1 {
		dmg = 1
	}

	defender.TakeDamage(dmg)
	result.Damage = dmg
	result.Killed = !defender.IsAlive()

	if melee != nil {
		result.Knockback = melee.Knockback
		if melee.PropertyKind != "" {
			defender.Properties.Add(&property.Property{
				Kind:     property.Burning,
				Duration: property.Specific(5),
			})
		}
	}
	return result
}

func clampPercent(p int) int {
	if p < 5 {
		return 5
	}
	if p > 95 {
		return 95
	}
	return p
}

// RangedResult reports the outcome of one ranged shot, possibly across
// several projectiles (shotgun cone, machine-gun burst).
type RangedResult struct {
	Hits   int
	Misses int
	Killed []actor.ID
}

// ResolveRanged fires weapon from attacker towards target's position,
// walking the rasterized line and testing each intervening living actor in
// turn. Hit chance decays with distance past the weapon's effective range.
// Shotguns fire one roll per pellet along slightly diverging lines
// (approximated here as repeated rolls against the same line, since the
// cone's angular spread is a rendering concern); machine guns fire a fixed
// burst count of independent shots.
func ResolveRanged(r *rng.RNG, table *actor.Table, m *worldmap.Map, fovTable *geometry.FOVTable, attacker, target *actor.Actor, weapon *item.Data) RangedResult {
	var result RangedResult
	if weapon == nil || weapon.Ranged == nil || !attacker.Properties.AllowAttackRanged() {
		return result
	}
	rb := weapon.Ranged

	shots := 1
	if rb.IsMachineGun && rb.BurstCount > 0 {
		shots = rb.BurstCount
	}
	if rb.IsShotgun {
		shots = 5
	}

	delta := target.Pos.Sub(attacker.Pos)
	line := geometry.RasterLine(delta.X, delta.Y)
	dist := geometry.KingDist(attacker.Pos, target.Pos)

	for shot := 0; shot < shots; shot++ {
		hitChance := 70
		if dist > rb.EffectiveRange {
			hitChance -= (dist - rb.EffectiveRange) * 10
		}
		hitChance = clampPercent(hitChance)

		hitActor := fireOneShot(r, table, m, attacker, line, hitChance)
		if hitActor == nil {
			result.Misses++
			continue
		}
		dmg := r.Dice(rb.DiceRolls, rb.DiceSides)
		hitActor.TakeDamage(dmg)
		result.Hits++
		if !hitActor.IsAlive() {
			result.Killed = append(result.Killed, hitActor.ID())
		}
	}
	return result
}

// fireOneShot walks a projectile line and returns the first living actor
// struck, honoring the per-shot hit chance. Misses on a struck actor pass
// the shot through to the next cell.
func fireOneShot(r *rng.RNG, table *actor.Table, m *worldmap.Map, attacker *actor.Actor, line []geometry.Pos, hitChance int) *actor.Actor {
	pos := attacker.Pos
	for _, d := range line {
		pos = attacker.Pos.Add(d)
		if !m.InBounds(pos) {
			return nil
		}
		if c := m.At(pos); c != nil && c.Rigid.BlocksLOS() {
			return nil
		}
		occupant := table.AliveAt(pos)
		if occupant == nil || occupant == attacker {
			continue
		}
		if r.Percent() <= hitChance {
			return occupant
		}
	}
	return nil
}

// Throw resolves a thrown item using its own throw-damage dice, independent
// of any melee/ranged block the item may also carry.
func Throw(r *rng.RNG, table *actor.Table, thrower *actor.Actor, dest geometry.Pos, diceRolls, diceSides int) *actor.Actor {
	target := table.AliveAt(dest)
	if target == nil {
		return nil
	}
	dmg := r.Dice(diceRolls, diceSides)
	target.TakeDamage(dmg)
	return target
}

// Explode applies damage to every living actor within radius of origin,
// iterating concentric rings so damage can be tapered by ring if callers
// want falloff (the base implementation applies full dice damage to
// every actor within the blast, matching grenade/dynamite behavior).
func Explode(r *rng.RNG, table *actor.Table, snd *sound.Emitter, origin geometry.Pos, radius, diceRolls, diceSides int) []actor.ID {
	var killed []actor.ID
	for ring := 0; ring <= radius; ring++ {
		for _, a := range table.All() {
			if !a.IsAlive() {
				continue
			}
			if geometry.KingDist(a.Pos, origin) != ring {
				continue
			}
			dmg := r.Dice(diceRolls, diceSides)
			a.TakeDamage(dmg)
			if !a.IsAlive() {
				killed = append(killed, a.ID())
			}
		}
	}
	if snd != nil {
		snd.Emit(sound.Snd{
			Message:        "An explosion rocks the area!",
			Origin:         origin,
			Vol:            sound.VolumeHigh,
			AlertsMonsters: true,
		})
	}
	return killed
}
