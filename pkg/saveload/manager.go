package saveload

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/duskward/core/pkg/actor"
	"github.com/duskward/core/pkg/errs"
	"github.com/duskward/core/pkg/gametime"
	"github.com/duskward/core/pkg/geometry"
	"github.com/duskward/core/pkg/item"
	"github.com/duskward/core/pkg/property"
	"github.com/duskward/core/pkg/worldmap"
)

// Manager handles save/load operations for one save directory.
type Manager struct {
	saveDir string
	logger  *logrus.Entry
}

// NewManager creates a save manager rooted at saveDir, creating it if
// necessary.
func NewManager(saveDir string, logger *logrus.Logger) (*Manager, error) {
	var entry *logrus.Entry
	if logger != nil {
		entry = logger.WithField("component", "saveload")
	}
	if err := os.MkdirAll(saveDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating save directory: %w", err)
	}
	return &Manager{saveDir: saveDir, logger: entry}, nil
}

func (m *Manager) path(name string) string {
	return filepath.Join(m.saveDir, name+".sav")
}

func (m *Manager) logf(level logrus.Level, msg string, fields logrus.Fields) {
	if m.logger == nil {
		return
	}
	m.logger.WithFields(fields).Log(level, msg)
}

// State is every piece of mutable core state a save file round-trips.
type State struct {
	Table     *actor.Table
	Map       *worldmap.Map
	Scheduler *gametime.Scheduler
	Turn      int
	Seed      uint64
}

// Save writes State to name.sav. A preexisting file of the same name is
// preserved as name.sav.bak before being overwritten, so a write failure or
// a subsequently-discovered corrupt file never destroys the prior save.
func (m *Manager) Save(name string, s *State) error {
	dst := m.path(name)
	if _, err := os.Stat(dst); err == nil {
		if err := os.Rename(dst, dst+".bak"); err != nil {
			m.logf(logrus.WarnLevel, "could not back up previous save", logrus.Fields{"name": name, "error": err})
		}
	}

	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating save file: %w", err)
	}
	defer f.Close()

	w := NewWriter(f)
	w.Int(s.Turn)
	w.Int(int(s.Seed))
	writeMap(w, s.Map)
	writeActors(w, s.Table)
	writeScheduler(w, s.Scheduler)
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing save file: %w", err)
	}

	m.logf(logrus.InfoLevel, "game saved", logrus.Fields{"name": name})
	return nil
}

// Load reads name.sav. A parse failure is reported as errs.CodeSaveCorrupt;
// callers recover by starting a new game and leaving the corrupt file (plus
// its .bak sibling, if any) in place for inspection.
func (m *Manager) Load(name string) (*State, error) {
	f, err := os.Open(m.path(name))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening save file: %w", err)
	}
	defer f.Close()

	r, err := NewReader(f)
	if err != nil {
		m.logf(logrus.ErrorLevel, "save file failed to parse", logrus.Fields{"name": name, "error": err})
		return nil, err
	}

	s := &State{}
	if s.Turn, err = r.Int(); err != nil {
		return nil, err
	}
	var seed int
	if seed, err = r.Int(); err != nil {
		return nil, err
	}
	s.Seed = uint64(seed)

	if s.Map, err = readMap(r); err != nil {
		return nil, err
	}
	if s.Table, err = readActors(r); err != nil {
		return nil, err
	}
	// Scheduler is built with no sound emitter attached; callers wire their
	// own Emitter onto s.Scheduler.Sound before resuming play.
	s.Scheduler = gametime.NewScheduler(s.Table, s.Map, nil)
	if err = readScheduler(r, s.Scheduler); err != nil {
		return nil, err
	}

	m.logf(logrus.InfoLevel, "game loaded", logrus.Fields{"name": name, "turn": s.Turn})
	return s, nil
}

func writeScheduler(w *Writer, s *gametime.Scheduler) {
	order := s.Order()
	w.Int(len(order))
	for _, id := range order {
		w.Int(int(id))
	}
	w.Int(s.Cursor())
	w.Int(s.TurnCount())
	tokens := s.Tokens()
	ids := make([]actor.ID, 0, len(tokens))
	for id := range tokens {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	w.Int(len(ids))
	for _, id := range ids {
		w.Int(int(id))
		w.Int(tokens[id])
	}
}

func readScheduler(r *Reader, s *gametime.Scheduler) error {
	n, err := r.Int()
	if err != nil {
		return err
	}
	order := make([]actor.ID, n)
	for i := range order {
		id, err := r.Int()
		if err != nil {
			return err
		}
		order[i] = actor.ID(id)
	}
	s.SetOrder(order)

	cursor, err := r.Int()
	if err != nil {
		return err
	}
	s.SetCursor(cursor)

	turnCount, err := r.Int()
	if err != nil {
		return err
	}
	s.SetTurnCount(turnCount)

	nTokens, err := r.Int()
	if err != nil {
		return err
	}
	tokens := make(map[actor.ID]int, nTokens)
	for i := 0; i < nTokens; i++ {
		id, err := r.Int()
		if err != nil {
			return err
		}
		n, err := r.Int()
		if err != nil {
			return err
		}
		tokens[actor.ID(id)] = n
	}
	s.SetTokens(tokens)
	return nil
}

// Exists reports whether a named save file is present.
func (m *Manager) Exists(name string) bool {
	_, err := os.Stat(m.path(name))
	return err == nil
}

func writeMap(w *Writer, mp *worldmap.Map) {
	w.Int(mp.W)
	w.Int(mp.H)
	for _, c := range mp.Cells {
		w.Int(int(c.Rigid.Kind))
		w.Bool(c.Rigid.IsStuck)
		w.Bool(c.Rigid.IsSecret)
		w.Bool(c.Rigid.IsBashable)
		w.Bool(c.Flags.IsLit)
		w.Bool(c.Flags.IsDark)
		w.Bool(c.Flags.IsExplored)
		w.Bool(c.Flags.IsSeenByPlayer)
		w.Int(len(c.Items))
		for _, it := range c.Items {
			writeItem(w, it)
		}
	}
	w.Int(len(mp.Mobs))
	for _, mob := range mp.Mobs {
		w.Int(int(mob.Kind))
		w.Int(mob.Pos.X)
		w.Int(mob.Pos.Y)
		w.Int(mob.TurnsLeft)
	}
}

func readMap(r *Reader) (*worldmap.Map, error) {
	w, err := r.Int()
	if err != nil {
		return nil, err
	}
	h, err := r.Int()
	if err != nil {
		return nil, err
	}
	mp := worldmap.New(w, h)
	for i := range mp.Cells {
		kind, err := r.Int()
		if err != nil {
			return nil, err
		}
		stuck, err := r.Bool()
		if err != nil {
			return nil, err
		}
		secret, err := r.Bool()
		if err != nil {
			return nil, err
		}
		bashable, err := r.Bool()
		if err != nil {
			return nil, err
		}
		lit, err := r.Bool()
		if err != nil {
			return nil, err
		}
		dark, err := r.Bool()
		if err != nil {
			return nil, err
		}
		explored, err := r.Bool()
		if err != nil {
			return nil, err
		}
		seen, err := r.Bool()
		if err != nil {
			return nil, err
		}
		mp.Cells[i].Rigid = worldmap.RigidFeature{
			Kind: worldmap.FeatureKind(kind), IsStuck: stuck, IsSecret: secret, IsBashable: bashable,
		}
		mp.Cells[i].Flags = worldmap.CellFlags{IsLit: lit, IsDark: dark, IsExplored: explored, IsSeenByPlayer: seen}

		nItems, err := r.Int()
		if err != nil {
			return nil, err
		}
		for j := 0; j < nItems; j++ {
			it, err := readItem(r)
			if err != nil {
				return nil, err
			}
			mp.Cells[i].Items = append(mp.Cells[i].Items, it)
		}
	}

	nMobs, err := r.Int()
	if err != nil {
		return nil, err
	}
	for i := 0; i < nMobs; i++ {
		kind, err := r.Int()
		if err != nil {
			return nil, err
		}
		x, err := r.Int()
		if err != nil {
			return nil, err
		}
		y, err := r.Int()
		if err != nil {
			return nil, err
		}
		turns, err := r.Int()
		if err != nil {
			return nil, err
		}
		mp.AddMob(worldmap.Mob{Kind: worldmap.MobKind(kind), Pos: geometry.Pos{X: x, Y: y}, TurnsLeft: turns})
	}

	return mp, nil
}

func writeItem(w *Writer, it *item.Item) {
	w.Str(it.DataID)
	w.Int(it.Count)
	w.Int(it.AmmoLoaded)
	w.Int(it.MeleeDmgPlus)
	w.Bool(it.Identified)
	w.Bool(it.Tried)
}

func readItem(r *Reader) (*item.Item, error) {
	id, err := r.Str()
	if err != nil {
		return nil, err
	}
	count, err := r.Int()
	if err != nil {
		return nil, err
	}
	ammo, err := r.Int()
	if err != nil {
		return nil, err
	}
	dmgPlus, err := r.Int()
	if err != nil {
		return nil, err
	}
	identified, err := r.Bool()
	if err != nil {
		return nil, err
	}
	tried, err := r.Bool()
	if err != nil {
		return nil, err
	}
	return &item.Item{DataID: id, Count: count, AmmoLoaded: ammo, MeleeDmgPlus: dmgPlus, Identified: identified, Tried: tried}, nil
}

func writeActors(w *Writer, table *actor.Table) {
	all := table.All() // id-sorted, keeping the save byte-stream deterministic
	w.Int(len(all))
	for _, a := range all {
		w.Int(int(a.ID()))
		w.Str(a.Data.ID)
		w.Bool(a.IsPlayer)
		w.Int(a.Pos.X)
		w.Int(a.Pos.Y)
		w.Int(int(a.StateV))
		w.Int(a.HP)
		w.Int(a.HPMax)
		w.Int(a.Spirit)
		w.Int(a.SpiritMax)
		w.Int(int(a.LeaderID))
		w.Int(int(a.TargetID))
		w.Int(a.AwareCounter)
		w.Int(a.SpellCooldown)
		w.Int(a.LairCell.X)
		w.Int(a.LairCell.Y)
		w.Bool(a.IsSneaking)
		w.Bool(a.HasResurrected)

		w.Int(len(a.Properties.Active))
		for _, p := range a.Properties.Active {
			w.Int(int(p.Kind))
			w.Int(int(p.Duration.Kind))
			w.Int(p.Duration.Turns)
		}

		w.Int(len(a.Inventory.Backpack))
		for _, it := range a.Inventory.Backpack {
			writeItem(w, it)
		}
	}
}

func readActors(r *Reader) (*actor.Table, error) {
	table := actor.NewTable()
	n, err := r.Int()
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		id, err := r.Int()
		if err != nil {
			return nil, err
		}
		dataID, err := r.Str()
		if err != nil {
			return nil, err
		}
		isPlayer, err := r.Bool()
		if err != nil {
			return nil, err
		}
		x, err := r.Int()
		if err != nil {
			return nil, err
		}
		y, err := r.Int()
		if err != nil {
			return nil, err
		}
		state, err := r.Int()
		if err != nil {
			return nil, err
		}
		hp, err := r.Int()
		if err != nil {
			return nil, err
		}
		hpMax, err := r.Int()
		if err != nil {
			return nil, err
		}
		spirit, err := r.Int()
		if err != nil {
			return nil, err
		}
		spiritMax, err := r.Int()
		if err != nil {
			return nil, err
		}
		leaderID, err := r.Int()
		if err != nil {
			return nil, err
		}
		targetID, err := r.Int()
		if err != nil {
			return nil, err
		}
		awareCounter, err := r.Int()
		if err != nil {
			return nil, err
		}
		spellCooldown, err := r.Int()
		if err != nil {
			return nil, err
		}
		lairX, err := r.Int()
		if err != nil {
			return nil, err
		}
		lairY, err := r.Int()
		if err != nil {
			return nil, err
		}
		sneaking, err := r.Bool()
		if err != nil {
			return nil, err
		}
		resurrected, err := r.Bool()
		if err != nil {
			return nil, err
		}

		data := actor.Registry[dataID]
		if data == nil {
			return nil, errs.SaveCorrupt("unknown actor template: " + dataID)
		}

		a := &actor.Actor{
			Pos: geometry.Pos{X: x, Y: y}, StateV: actor.State(state),
			HP: hp, HPMax: hpMax, Spirit: spirit, SpiritMax: spiritMax,
			Properties: property.NewHandler(), Inventory: item.NewInventory(data.CarryWeightCap),
			Data: data, IsPlayer: isPlayer,
			LeaderID: actor.ID(leaderID), TargetID: actor.ID(targetID),
			AwareCounter: awareCounter, SpellCooldown: spellCooldown,
			LairCell: geometry.Pos{X: lairX, Y: lairY}, IsSneaking: sneaking, HasResurrected: resurrected,
		}

		nProps, err := r.Int()
		if err != nil {
			return nil, err
		}
		for p := 0; p < nProps; p++ {
			kind, err := r.Int()
			if err != nil {
				return nil, err
			}
			durKind, err := r.Int()
			if err != nil {
				return nil, err
			}
			turns, err := r.Int()
			if err != nil {
				return nil, err
			}
			a.Properties.Add(&property.Property{
				Kind:     property.Kind(kind),
				Duration: property.Duration{Kind: property.DurKind(durKind), Turns: turns},
			})
		}

		nItems, err := r.Int()
		if err != nil {
			return nil, err
		}
		for it := 0; it < nItems; it++ {
			loaded, err := readItem(r)
			if err != nil {
				return nil, err
			}
			a.Inventory.Backpack = append(a.Inventory.Backpack, loaded)
		}

		table.AddWithID(a, actor.ID(id))
	}
	return table, nil
}
