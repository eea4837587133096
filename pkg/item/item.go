// Package item implements the item data model: immutable item templates,
// mutable item instances, and the inventory/slot/stacking rules described in
// the inventory and combat component of the spec.
package item

import "github.com/duskward/core/pkg/errs"

// WeightClass buckets an item template's carry weight.
type WeightClass int

const (
	WeightLight WeightClass = iota
	WeightMedium
	WeightHeavy
)

// DamageType distinguishes melee/ranged damage for armor and resistance
// lookups.
type DamageType int

const (
	DamagePhysical DamageType = iota
	DamageFire
	DamageAcid
	DamageCold
	DamagePoison
)

// MeleeBlock describes a weapon's (or intrinsic's) melee properties.
type MeleeBlock struct {
	DiceRolls, DiceSides int
	HitMod               int
	PropertyKind         string // property.Kind name applied on hit; empty = none
	DamageType           DamageType
	Knockback            bool
}

// RangedBlock describes a weapon's ranged-fire properties.
type RangedBlock struct {
	DiceRolls, DiceSides int
	MaxAmmo              int
	EffectiveRange       int
	ProjectileGlyph      rune
	TrailGlyph           rune
	SoundID              string
	AmmoID               string
	IsShotgun            bool
	IsMachineGun         bool
	BurstCount           int
}

// ArmorBlock describes an item's defensive properties.
type ArmorBlock struct {
	ArmorPoints      int
	DurabilityFactor float64
}

// Data is the immutable template shared by every instance of an item kind.
type Data struct {
	ID         string
	Names      []string
	Weight     WeightClass
	Value      int
	Stackable  bool
	Glyph      rune
	Color      [3]byte
	Melee      *MeleeBlock
	Ranged     *RangedBlock
	Armor      *ArmorBlock
	SlotMods   map[string]int
	ShockCarry int
	ShockWear  int
	BoundSpell string
}

// Registry is the global item template table, populated at startup by the
// data loader. It is read-only once generation begins.
var Registry = map[string]*Data{}

// Register adds a template to the registry. Called during data loading.
func Register(d *Data) {
	Registry[d.ID] = d
}

// Lookup returns the template for an id, or nil if unknown.
func Lookup(id string) *Data {
	return Registry[id]
}

// Item is a concrete item instance: a reference to its template plus
// per-instance mutable state.
type Item struct {
	DataID       string
	Count        int
	AmmoLoaded   int
	MeleeDmgPlus int
	Identified   bool
	Tried        bool
}

// New creates a single item instance of the given template id.
func New(dataID string) *Item {
	return &Item{DataID: dataID, Count: 1}
}

// Data returns the item's immutable template.
func (it *Item) Data() *Data {
	return Registry[it.DataID]
}

// Slot names an equipment slot.
type Slot int

const (
	SlotWielded Slot = iota
	SlotWieldedAlt
	SlotBody
	SlotHead
	SlotNeck
	SlotRing1
	SlotRing2
)

// allowedInSlot restricts which item kinds may occupy which slots; it is
// intentionally coarse (melee/ranged weapons go in wield slots, armor-block
// items go in body/head, items with slot modifiers go in neck/ring slots,
// everything else is backpack-only).
func allowedInSlot(d *Data, slot Slot) bool {
	switch slot {
	case SlotWielded, SlotWieldedAlt:
		return d.Melee != nil || d.Ranged != nil
	case SlotBody, SlotHead:
		return d.Armor != nil
	case SlotNeck, SlotRing1, SlotRing2:
		return len(d.SlotMods) > 0
	default:
		return false
	}
}

// Inventory holds a player or monster's carried items: an ordered backpack
// stack, a fixed set of equipment slots, and innate (intrinsic) weapons that
// never occupy a slot.
type Inventory struct {
	Backpack         []*Item
	Slots            map[Slot]*Item
	Intrinsics       []*Data
	CarryWeightLimit int
}

// NewInventory creates an empty inventory with the given carry limit.
func NewInventory(carryWeightLimit int) *Inventory {
	return &Inventory{
		Slots:            make(map[Slot]*Item),
		CarryWeightLimit: carryWeightLimit,
	}
}

func weightOf(d *Data) int {
	switch d.Weight {
	case WeightHeavy:
		return 3
	case WeightMedium:
		return 2
	default:
		return 1
	}
}

// TotalWeight sums the weight of every backpack and equipped item.
func (inv *Inventory) TotalWeight() int {
	total := 0
	for _, it := range inv.Backpack {
		if d := it.Data(); d != nil {
			total += weightOf(d) * it.Count
		}
	}
	for _, it := range inv.Slots {
		if it == nil {
			continue
		}
		if d := it.Data(); d != nil {
			total += weightOf(d)
		}
	}
	return total
}

// Pickup adds an item to the backpack, stacking with an existing entry of
// the same template when the template allows stacking. Exceeding the carry
// limit is a user-visible warning, not a rejected pickup: it returns false
// to signal the caller should warn, but the item is still picked up.
func (inv *Inventory) Pickup(it *Item) bool {
	if d := it.Data(); d != nil && d.Stackable {
		for _, existing := range inv.Backpack {
			if existing.DataID == it.DataID {
				existing.Count += it.Count
				return inv.TotalWeight() <= inv.CarryWeightLimit
			}
		}
	}
	inv.Backpack = append(inv.Backpack, it)
	return inv.TotalWeight() <= inv.CarryWeightLimit
}

// Drop removes an item from the backpack.
func (inv *Inventory) Drop(it *Item) {
	for i, existing := range inv.Backpack {
		if existing == it {
			inv.Backpack = append(inv.Backpack[:i], inv.Backpack[i+1:]...)
			return
		}
	}
}

// Wield equips an item into a slot. It returns a user-action-illegal error
// if the item's template cannot occupy that slot; no turn is consumed by
// callers when this errors.
func (inv *Inventory) Wield(it *Item, slot Slot) error {
	d := it.Data()
	if d == nil {
		return errs.UserActionIllegal("unknown item template")
	}
	if !allowedInSlot(d, slot) {
		return errs.UserActionIllegal("that item cannot go in that slot")
	}
	if prev, ok := inv.Slots[slot]; ok && prev != nil {
		inv.Backpack = append(inv.Backpack, prev)
	}
	inv.Drop(it)
	inv.Slots[slot] = it
	return nil
}

// Unwield returns a slot's item to the backpack.
func (inv *Inventory) Unwield(slot Slot) {
	it, ok := inv.Slots[slot]
	if !ok || it == nil {
		return
	}
	delete(inv.Slots, slot)
	inv.Backpack = append(inv.Backpack, it)
}

// Wielded returns the item in the primary weapon slot, or nil if empty-handed.
func (inv *Inventory) Wielded() *Item {
	return inv.Slots[SlotWielded]
}
