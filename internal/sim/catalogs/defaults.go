package catalogs

import "encoding/json"

var defaultRecipes = []RecipeDef{
	{RecipeID: "factory", Inputs: []ItemCount{{Item: "iron", Count: 5}, {Item: "copper", Count: 2}}, Outputs: []ItemCount{{Item: "factory", Count: 1}}},
	{RecipeID: "upgrader", Inputs: []ItemCount{{Item: "iron", Count: 10}, {Item: "copper", Count: 5}}, Outputs: []ItemCount{{Item: "upgrader", Count: 1}}},
	{RecipeID: "generator", Inputs: []ItemCount{{Item: "iron", Count: 20}, {Item: "copper", Count: 10}}, Outputs: []ItemCount{{Item: "generator", Count: 1}}},
}

var defaultBuildings = []BuildingDef{
	{ID: "conveyor", Directional: true, Placement: PlacementEmpty},
	{ID: "collector", Placement: PlacementEmpty},
	{ID: "factory", Stocked: true, Refundable: true, Placement: PlacementEmpty},
	{ID: "upgrader", Stocked: true, Refundable: true, Directional: true, Placement: PlacementEmpty},
	{ID: "generator", Stocked: true, Refundable: true, Placement: PlacementResource},
}

// Default builds the catalogs of normal play without touching disk. Digests
// cover the canonical JSON encoding.
func Default() *Catalogs {
	var c Catalogs
	rb, _ := json.Marshal(defaultRecipes)
	if err := parseRecipes(rb, &c.Recipes); err != nil {
		panic(err)
	}
	bb, _ := json.Marshal(defaultBuildings)
	if err := parseBuildings(bb, &c.Buildings); err != nil {
		panic(err)
	}
	return &c
}
