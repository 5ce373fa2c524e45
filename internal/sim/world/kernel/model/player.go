package model

import "sort"

// Inventory slot ids. Resources share their names with ResourceType.String().
const (
	ItemIron      = "iron"
	ItemCopper    = "copper"
	ItemFactory   = "factory"
	ItemUpgrader  = "upgrader"
	ItemGenerator = "generator"
)

// InventorySlots lists every slot a player inventory may hold.
func InventorySlots() []string {
	return []string{ItemIron, ItemCopper, ItemFactory, ItemUpgrader, ItemGenerator}
}

func IsInventorySlot(id string) bool {
	switch id {
	case ItemIron, ItemCopper, ItemFactory, ItemUpgrader, ItemGenerator:
		return true
	default:
		return false
	}
}

// Inventory counts are never negative; all spends go through Has first.
type Inventory map[string]int

func NewInventory() Inventory {
	inv := Inventory{}
	for _, s := range InventorySlots() {
		inv[s] = 0
	}
	return inv
}

func (inv Inventory) Count(id string) int { return inv[id] }

func (inv Inventory) Add(id string, n int) {
	if id == "" || n <= 0 {
		return
	}
	inv[id] += n
}

// Has reports whether every entry of cost is covered.
func (inv Inventory) Has(cost map[string]int) bool {
	for id, n := range cost {
		if n <= 0 {
			continue
		}
		if inv[id] < n {
			return false
		}
	}
	return true
}

// Take removes n of id if available.
func (inv Inventory) Take(id string, n int) bool {
	if n <= 0 {
		return true
	}
	if inv[id] < n {
		return false
	}
	inv[id] -= n
	return true
}

func (inv Inventory) Clone() Inventory {
	out := make(Inventory, len(inv))
	for k, v := range inv {
		out[k] = v
	}
	return out
}

func (inv Inventory) SortedKeys() []string {
	keys := make([]string, 0, len(inv))
	for k := range inv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Player position is continuous and measured in tiles.
type Player struct {
	X         float64
	Y         float64
	Inventory Inventory
}

// Cell is the grid cell under the player.
func (p Player) Cell() Vec2i {
	return Vec2i{X: floorInt(p.X), Y: floorInt(p.Y)}
}

func floorInt(f float64) int {
	i := int(f)
	if f < 0 && float64(i) != f {
		i--
	}
	return i
}
