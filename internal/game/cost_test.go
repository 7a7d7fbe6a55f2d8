package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magefree/mage-rules-go/internal/game/mana"
)

func TestTryPay(t *testing.T) {
	t.Run("mana is matched colored first", func(t *testing.T) {
		g, alice, _ := newTestGame(t, nil)
		g.store.Player(alice).Pool = mana.NewPool(mana.ManaRed, mana.ManaGreen)

		events, err := g.TryPay(alice, 0, Cost{Mana: mana.MustParseCost("{1}{R}")})
		require.NoError(t, err)
		assert.Equal(t, []Event{
			PayMana{Player: alice, Mana: mana.ManaRed, Source: FromPlayer(alice)},
			PayMana{Player: alice, Mana: mana.ManaGreen, Source: FromPlayer(alice)},
		}, events)
	})

	t.Run("failure changes nothing", func(t *testing.T) {
		g, alice, _ := newTestGame(t, nil)
		g.store.Player(alice).Pool = mana.NewPool(mana.ManaRed)

		events, err := g.TryPay(alice, 0, Cost{Mana: mana.MustParseCost("{1}{R}{R}")})
		assert.ErrorIs(t, err, ErrInsufficientMana)
		assert.Nil(t, events)
		assert.Equal(t, []mana.ManaType{mana.ManaRed}, g.store.Player(alice).Pool.Units())
	})

	t.Run("tap cost taps last", func(t *testing.T) {
		g, alice, _ := newTestGame(t, nil)
		land := g.store.AddPermanent(0, alice, mountainTemplate())
		g.store.Player(alice).Pool = mana.NewPool(mana.ManaBlue)
		g.rebuild()

		events, err := g.TryPay(alice, land.ID, Cost{Mana: mana.MustParseCost("{1}"), Tap: true})
		require.NoError(t, err)
		assert.Equal(t, []Event{
			PayMana{Player: alice, Mana: mana.ManaBlue, Source: FromPlayer(alice)},
			TapPermanent{Permanent: land.ID, Source: FromPlayer(alice)},
		}, events)
		assert.False(t, land.Tapped)
	})

	t.Run("tapped permanent", func(t *testing.T) {
		g, alice, _ := newTestGame(t, nil)
		land := g.store.AddPermanent(0, alice, mountainTemplate())
		land.Tapped = true
		g.rebuild()

		_, err := g.TryPay(alice, land.ID, Cost{Tap: true})
		assert.ErrorIs(t, err, ErrAlreadyTapped)
	})

	t.Run("summoning sick creature", func(t *testing.T) {
		g, alice, _ := newTestGame(t, nil)
		elves := g.store.AddPermanent(0, alice, creatureTemplate("Llanowar Elves", "{G}", 1, 1))
		g.rebuild()
		require.True(t, elves.SummoningSick)

		_, err := g.TryPay(alice, elves.ID, Cost{Tap: true})
		assert.ErrorIs(t, err, ErrSummoningSick)

		elves.SummoningSick = false
		_, err = g.TryPay(alice, elves.ID, Cost{Tap: true})
		assert.NoError(t, err)
	})

	t.Run("tap cost needs a permanent", func(t *testing.T) {
		g, alice, _ := newTestGame(t, nil)
		_, err := g.TryPay(alice, 0, Cost{Tap: true})
		assert.ErrorIs(t, err, ErrInvalidChoice)
	})
}
