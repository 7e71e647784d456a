package inventory

// Effect delta de stock que una línea aplica sobre un item.
type Effect struct {
	ItemID string
	Delta  int
}

// Reconcile calcula los deltas netos para reemplazar los efectos old por los efectos next:
// revierte old, aplica next y agrupa por item. Items con delta neto cero se omiten.
// El orden de salida sigue la primera aparición de cada item.
func Reconcile(old, next []Effect) []Effect {
	net := map[string]int{}
	var order []string
	add := func(id string, d int) {
		if _, ok := net[id]; !ok {
			order = append(order, id)
		}
		net[id] += d
	}
	for _, e := range old {
		add(e.ItemID, -e.Delta)
	}
	for _, e := range next {
		add(e.ItemID, e.Delta)
	}
	out := make([]Effect, 0, len(order))
	for _, id := range order {
		if net[id] != 0 {
			out = append(out, Effect{ItemID: id, Delta: net[id]})
		}
	}
	return out
}

// Negate invierte el signo de cada efecto (borrado de líneas).
func Negate(effects []Effect) []Effect {
	out := make([]Effect, len(effects))
	for i, e := range effects {
		out[i] = Effect{ItemID: e.ItemID, Delta: -e.Delta}
	}
	return out
}
