package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/produksi-api/internal/domain/inventory"
)

func TestReconcile_MismoItemDeltaNeto(t *testing.T) {
	// consumo 20 → 25: el item recibe un único delta de -5
	old := []inventory.Effect{{ItemID: "kedelai", Delta: -20}}
	next := []inventory.Effect{{ItemID: "kedelai", Delta: -25}}

	assert.Equal(t, []inventory.Effect{{ItemID: "kedelai", Delta: -5}}, inventory.Reconcile(old, next))
}

func TestReconcile_CambioDeItem(t *testing.T) {
	old := []inventory.Effect{{ItemID: "a", Delta: 10}}
	next := []inventory.Effect{{ItemID: "b", Delta: 10}}

	got := inventory.Reconcile(old, next)
	assert.Equal(t, []inventory.Effect{{ItemID: "a", Delta: -10}, {ItemID: "b", Delta: 10}}, got)
}

func TestReconcile_SinCambiosNoProduceEfectos(t *testing.T) {
	e := []inventory.Effect{{ItemID: "a", Delta: 3}}
	assert.Empty(t, inventory.Reconcile(e, e))
}

func TestNegate(t *testing.T) {
	got := inventory.Negate([]inventory.Effect{{ItemID: "a", Delta: 4}, {ItemID: "b", Delta: -2}})
	assert.Equal(t, []inventory.Effect{{ItemID: "a", Delta: -4}, {ItemID: "b", Delta: 2}}, got)
}

func TestLookupFinishedGood(t *testing.T) {
	d, ok := inventory.LookupFinishedGood(" tahu ")
	assert.True(t, ok)
	assert.Equal(t, "Tahu", d.Name)
	assert.Equal(t, "2000", d.Price.String())
	assert.Equal(t, "buah", d.Unit)

	d, ok = inventory.LookupFinishedGood("TEMPE")
	assert.True(t, ok)
	assert.Equal(t, "2500", d.Price.String())

	_, ok = inventory.LookupFinishedGood("oncom")
	assert.False(t, ok)
}
