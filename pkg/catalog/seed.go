package catalog

import "github.com/shopspring/decimal"

func item(name, description, rate string) Item {
	return Item{Name: name, Description: description, DefaultDepreciationRate: decimal.RequireFromString(rate)}
}

func defaultCategories() []Category {
	return []Category{
		{
			Name:        "Structure",
			Description: "Damage to the main structure and attached components",
			Items: []Item{
				item("Roof", "Roof covering, decking, flashing", "0.05"),
				item("Exterior Walls", "Siding, stucco, brick, trim", "0.03"),
				item("Windows", "Glass, frames, screens", "0.04"),
				item("Doors", "Entry doors, sliding doors, garage doors", "0.05"),
				item("Foundation", "Concrete, footings, slabs", "0.01"),
				item("Framing", "Beams, joists, studs, trusses", "0.02"),
			},
		},
		{
			Name:        "Interior",
			Description: "Damage to interior components of the structure",
			Items: []Item{
				item("Drywall", "Wall and ceiling drywall/sheetrock", "0.02"),
				item("Flooring", "Carpet, tile, hardwood, laminate", "0.08"),
				item("Cabinets", "Kitchen and bathroom cabinets", "0.05"),
				item("Countertops", "Kitchen and bathroom countertops", "0.04"),
				item("Interior Doors", "Interior doors and hardware", "0.05"),
				item("Trim", "Baseboards, crown molding, casings", "0.03"),
				item("Paint", "Interior paint and wallpaper", "0.10"),
			},
		},
		{
			Name:        "Systems",
			Description: "Damage to building systems",
			Items: []Item{
				item("Electrical", "Wiring, outlets, switches, panels", "0.03"),
				item("Plumbing", "Pipes, fixtures, water heater", "0.04"),
				item("HVAC", "Heating, cooling, ventilation", "0.06"),
				item("Insulation", "Wall, ceiling, floor insulation", "0.05"),
			},
		},
		{
			Name:        "Contents",
			Description: "Damage to personal property/contents",
			Items: []Item{
				item("Furniture", "Tables, chairs, sofas, beds", "0.10"),
				item("Appliances", "Refrigerator, stove, washer/dryer", "0.08"),
				item("Electronics", "TVs, computers, audio equipment", "0.15"),
				item("Clothing", "All clothing items", "0.20"),
				item("Kitchenware", "Pots, pans, dishes, utensils", "0.10"),
				item("Decor", "Art, decorations, curtains, rugs", "0.12"),
			},
		},
		{
			Name:        "Exterior Features",
			Description: "Damage to exterior features of the property",
			Items: []Item{
				item("Landscaping", "Trees, shrubs, plants, lawn", "0.15"),
				item("Fencing", "All types of fencing", "0.07"),
				item("Deck/Patio", "Decks, patios, porches", "0.05"),
				item("Driveway", "Concrete, asphalt, pavers", "0.03"),
				item("Detached Structures", "Sheds, detached garages", "0.04"),
			},
		},
		{
			Name:        "Additional Expenses",
			Description: "Additional costs related to the claim",
			Items: []Item{
				item("Temporary Housing", "Hotel, rental housing", "0"),
				item("Storage", "Content storage costs", "0"),
				item("Debris Removal", "Cleanup and debris removal", "0"),
				item("Professional Services", "Engineering, architect fees", "0"),
			},
		},
	}
}
