package sound_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/duskward/core/pkg/actor"
	"github.com/duskward/core/pkg/geometry"
	"github.com/duskward/core/pkg/rng"
	"github.com/duskward/core/pkg/sound"
	"github.com/duskward/core/pkg/sound/mocks"
	"github.com/duskward/core/pkg/worldmap"
)

func smallOpenMap(t *testing.T) *worldmap.Map {
	t.Helper()
	m := worldmap.New(10, 10)
	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			m.SetFeature(geometry.Pos{X: x, Y: y}, worldmap.RigidFeature{Kind: worldmap.FeatureFloor})
		}
	}
	return m
}

func TestEmitDeliversExactMessageToLog(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockMessageLog(ctrl)
	log.EXPECT().Add("a pistol shot", false).Times(1)

	m := smallOpenMap(t)
	table := actor.NewTable()
	playerData := &actor.Data{ID: "sound_test_player", Name: "you", HPDiceRolls: 1, HPDiceSides: 8, CarryWeightCap: 100}
	player := actor.Mk(playerData, geometry.Pos{X: 2, Y: 2}, true, rng.New(1))
	table.Add(player)

	fovTable := geometry.BuildFOVTable(20)
	emitter := sound.NewEmitter(table, m, log, fovTable)

	emitter.Emit(sound.Snd{
		Message:        "a pistol shot",
		Origin:         geometry.Pos{X: 3, Y: 2},
		Vol:            sound.VolumeHigh,
		AlertsMonsters: true,
	})
}

func TestEmitSetsAwareCounterExactlyToNrTurnsAware(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockMessageLog(ctrl)
	log.EXPECT().Add(gomock.Any(), gomock.Any()).AnyTimes()

	m := smallOpenMap(t)
	table := actor.NewTable()
	cultistData := &actor.Data{
		ID: "sound_test_cultist", Name: "cultist", HPDiceRolls: 1, HPDiceSides: 6, CarryWeightCap: 30,
		AIFlags:      actor.AIFlags{IsAlertingMon: true},
		NrTurnsAware: 7,
	}
	mon := actor.Mk(cultistData, geometry.Pos{X: 4, Y: 2}, false, rng.New(2))
	table.Add(mon)

	fovTable := geometry.BuildFOVTable(20)
	emitter := sound.NewEmitter(table, m, log, fovTable)
	emitter.Emit(sound.Snd{Origin: geometry.Pos{X: 3, Y: 2}, Vol: sound.VolumeHigh, AlertsMonsters: true})

	require.Equal(t, 7, mon.AwareCounter)
}

func TestEmitRateLimitsMessagesPerTurn(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockMessageLog(ctrl)
	log.EXPECT().Add(gomock.Any(), gomock.Any()).Times(3)

	m := smallOpenMap(t)
	table := actor.NewTable()
	playerData := &actor.Data{ID: "sound_test_player2", Name: "you", HPDiceRolls: 1, HPDiceSides: 8, CarryWeightCap: 100}
	player := actor.Mk(playerData, geometry.Pos{X: 2, Y: 2}, true, rng.New(3))
	table.Add(player)

	fovTable := geometry.BuildFOVTable(20)
	emitter := sound.NewEmitter(table, m, log, fovTable)

	for i := 0; i < 5; i++ {
		emitter.Emit(sound.Snd{Message: "a clatter", Origin: geometry.Pos{X: 3, Y: 2}, Vol: sound.VolumeHigh})
	}
}
