package cart_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vetrina/internal/cart"
	"vetrina/internal/models"
)

func product(id, name, price string, category models.ShopCategory) models.Product {
	return models.Product{ID: id, Name: name, Price: decimal.RequireFromString(price), Category: category}
}

func TestLedger_AddItemTwiceKeepsFirstSnapshot(t *testing.T) {
	l := cart.NewLedger()
	p := product("p1", "Olive Oil", "12.50", models.ShopCategoryGirziLine)
	l.AddItem(p)

	p.Name = "Olive Oil (renamed)"
	p.Price = decimal.RequireFromString("99.00")
	l.AddItem(p)

	lines := l.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, "Olive Oil", lines[0].Name)
	assert.True(t, decimal.RequireFromString("12.50").Equal(lines[0].Price))
}

func TestLedger_SetQuantity(t *testing.T) {
	l := cart.NewLedger()
	l.AddItem(product("p1", "Honey", "5.00", models.ShopCategoryRosarno))

	assert.True(t, l.SetQuantity("p1", 4))
	assert.Equal(t, 4, l.Lines()[0].Quantity)

	assert.True(t, l.SetQuantity("p1", 0))
	assert.Equal(t, 0, l.Len())

	assert.False(t, l.SetQuantity("p1", 3), "missing line is not recreated")
	assert.Equal(t, 0, l.Len())
}

func TestLedger_NegativeQuantityRemoves(t *testing.T) {
	l := cart.NewLedger()
	l.AddItem(product("p1", "Honey", "5.00", models.ShopCategoryRosarno))
	l.SetQuantity("p1", -3)
	assert.Equal(t, 0, l.Len())
}

func TestLedger_DecrementFromOneRemoves(t *testing.T) {
	l := cart.NewLedger()
	l.AddItem(product("p1", "Honey", "5.00", models.ShopCategoryRosarno))
	l.Increment("p1")
	assert.Equal(t, 2, l.Lines()[0].Quantity)

	l.Decrement("p1")
	assert.Equal(t, 1, l.Lines()[0].Quantity)
	l.Decrement("p1")
	assert.Equal(t, 0, l.Len())
	assert.False(t, l.Decrement("p1"))
}

func TestLedger_RemoveItemIsIdempotent(t *testing.T) {
	l := cart.NewLedger()
	l.AddItem(product("p1", "Honey", "5.00", models.ShopCategoryRosarno))
	l.AddItem(product("p2", "Jam", "3.00", models.ShopCategoryRosarno))

	l.RemoveItem("p1")
	l.RemoveItem("p1")
	l.RemoveItem("unknown")

	lines := l.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "p2", lines[0].ProductID)
}

func TestLedger_Total(t *testing.T) {
	l := cart.NewLedger()
	l.AddItem(product("a", "A", "2.50", models.ShopCategoryGirziLine))
	l.AddItem(product("b", "B", "1.00", models.ShopCategoryRosarno))
	l.SetQuantity("a", 2)
	l.SetQuantity("b", 3)

	assert.Equal(t, "8.00", l.Total().StringFixed(2))
	assert.True(t, cart.NewLedger().Total().IsZero())
}

func TestLedger_LinesIsACopy(t *testing.T) {
	l := cart.NewLedger()
	l.AddItem(product("a", "A", "2.50", models.ShopCategoryGirziLine))
	lines := l.Lines()
	lines[0].Quantity = 42
	assert.Equal(t, 1, l.Lines()[0].Quantity)
}

func TestLedger_Reset(t *testing.T) {
	l := cart.NewLedger()
	l.AddItem(product("a", "A", "2.50", models.ShopCategoryGirziLine))
	l.SetEmail("buyer@example.com")
	l.Reset()
	assert.Equal(t, 0, l.Len())
	assert.Empty(t, l.Email())
}

func TestSessions_IsolatesCarts(t *testing.T) {
	s := cart.NewSessions(0)
	p := product("a", "A", "2.50", models.ShopCategoryGirziLine)

	require.NoError(t, s.With("s1", func(l *cart.Ledger) error { l.AddItem(p); return nil }))
	require.NoError(t, s.With("s2", func(l *cart.Ledger) error { return nil }))

	var n1, n2 int
	_ = s.With("s1", func(l *cart.Ledger) error { n1 = l.Len(); return nil })
	_ = s.With("s2", func(l *cart.Ledger) error { n2 = l.Len(); return nil })
	assert.Equal(t, 1, n1)
	assert.Equal(t, 0, n2)

	s.Discard("s1")
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 0, s.Sweep(), "zero ttl never sweeps")
}

func TestSessions_Sweep(t *testing.T) {
	s := cart.NewSessions(time.Second)
	_ = s.With("old", func(l *cart.Ledger) error { return nil })
	time.Sleep(1100 * time.Millisecond)
	_ = s.With("fresh", func(l *cart.Ledger) error { return nil })

	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 1, s.Len())
}

func TestSessions_BusyCartDoesNotBlockOthers(t *testing.T) {
	s := cart.NewSessions(0)
	busy := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = s.With("a", func(l *cart.Ledger) error {
			close(busy)
			<-release
			return nil
		})
	}()
	<-busy
	defer close(release)

	done := make(chan struct{})
	go func() {
		_ = s.With("b", func(l *cart.Ledger) error { return nil })
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("session b waited on session a")
	}
	assert.Equal(t, 2, s.Len())
}
