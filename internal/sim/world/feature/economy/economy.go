package economy

import (
	"fmt"
	"strings"

	"coinfactory.ai/internal/sim/catalogs"
	"coinfactory.ai/internal/sim/world/kernel/model"
)

// DeductItems removes cost from inv. Callers check Has first.
func DeductItems(inv model.Inventory, cost map[string]int) {
	for item, c := range cost {
		if item == "" || c <= 0 {
			continue
		}
		inv.Take(item, c)
	}
}

// Craft spends the recipe inputs and credits its outputs. Nothing changes
// when any input is short.
func Craft(inv model.Inventory, r catalogs.RecipeDef) bool {
	cost := r.InputMap()
	if !inv.Has(cost) {
		return false
	}
	DeductItems(inv, cost)
	for _, out := range r.Outputs {
		inv.Add(out.Item, out.Count)
	}
	return true
}

// ShortMessage lists the full recipe cost, e.g. "Need 5 Iron, 2 Copper!".
func ShortMessage(r catalogs.RecipeDef) string {
	parts := make([]string, 0, len(r.Inputs))
	for _, in := range r.Inputs {
		parts = append(parts, fmt.Sprintf("%d %s", in.Count, titleCase(in.Item)))
	}
	return "Need " + strings.Join(parts, ", ") + "!"
}

func CraftedMessage(r catalogs.RecipeDef) string {
	if len(r.Outputs) == 0 {
		return "Crafted!"
	}
	return "Crafted " + titleCase(r.Outputs[0].Item) + "!"
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
