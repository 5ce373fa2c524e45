package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

type Catalogs struct {
	Recipes   RecipeCatalog
	Buildings BuildingCatalog
}

type RecipeCatalog struct {
	ByID   map[string]RecipeDef
	Digest string
}

type RecipeDef struct {
	RecipeID string      `json:"recipe_id"`
	Inputs   []ItemCount `json:"inputs"`
	Outputs  []ItemCount `json:"outputs"`
}

type ItemCount struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

type BuildingCatalog struct {
	ByID   map[string]BuildingDef
	Digest string
}

// Placement values for BuildingDef.
const (
	PlacementEmpty    = "EMPTY"
	PlacementResource = "RESOURCE"
)

type BuildingDef struct {
	ID          string `json:"id"`
	Stocked     bool   `json:"stocked"`
	Refundable  bool   `json:"refundable"`
	Directional bool   `json:"directional"`
	Placement   string `json:"placement"`
}

// InputMap flattens inputs into a cost map.
func (r RecipeDef) InputMap() map[string]int {
	out := make(map[string]int, len(r.Inputs))
	for _, in := range r.Inputs {
		out[in.Item] += in.Count
	}
	return out
}

func Load(configDir string) (*Catalogs, error) {
	var c Catalogs
	if err := loadRecipes(filepath.Join(configDir, "recipes.json"), &c.Recipes); err != nil {
		return nil, err
	}
	if err := loadBuildings(filepath.Join(configDir, "buildings.json"), &c.Buildings); err != nil {
		return nil, err
	}
	return &c, nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func loadRecipes(path string, out *RecipeCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return parseRecipes(raw, out)
}

func parseRecipes(raw []byte, out *RecipeCatalog) error {
	out.Digest = sha256Hex(raw)
	var defs []RecipeDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("recipes.json: %w", err)
	}
	out.ByID = map[string]RecipeDef{}
	for _, d := range defs {
		if d.RecipeID == "" {
			return fmt.Errorf("recipes.json: empty recipe_id")
		}
		if _, dup := out.ByID[d.RecipeID]; dup {
			return fmt.Errorf("recipes.json: duplicate recipe_id %q", d.RecipeID)
		}
		if len(d.Outputs) == 0 {
			return fmt.Errorf("recipes.json: %s has no outputs", d.RecipeID)
		}
		for _, ic := range append(append([]ItemCount{}, d.Inputs...), d.Outputs...) {
			if ic.Item == "" || ic.Count <= 0 {
				return fmt.Errorf("recipes.json: %s has bad item count %+v", d.RecipeID, ic)
			}
		}
		out.ByID[d.RecipeID] = d
	}
	return nil
}

func loadBuildings(path string, out *BuildingCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return parseBuildings(raw, out)
}

func parseBuildings(raw []byte, out *BuildingCatalog) error {
	out.Digest = sha256Hex(raw)
	var defs []BuildingDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("buildings.json: %w", err)
	}
	out.ByID = map[string]BuildingDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("buildings.json: empty id")
		}
		switch d.Placement {
		case PlacementEmpty, PlacementResource:
		default:
			return fmt.Errorf("buildings.json: %s has placement %q", d.ID, d.Placement)
		}
		out.ByID[d.ID] = d
	}
	return nil
}

// RecipeIDs returns recipe ids sorted.
func (c RecipeCatalog) RecipeIDs() []string {
	ids := make([]string, 0, len(c.ByID))
	for id := range c.ByID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
