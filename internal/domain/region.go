package domain

// Region is a hiking destination attendees can vote for.
// Regions come from a fixed catalog and are never edited at runtime.
type Region struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Area groups regions for display.
type Area struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Regions []Region `json:"regions"`
}

// Areas is the region catalog, in display order.
var Areas = []Area{
	{
		ID:   "wales",
		Name: "Wales",
		Regions: []Region{
			{ID: "brecon_beacons", Name: "Brecon Beacons"},
			{ID: "west_wales", Name: "West Wales"},
			{ID: "snowdonia", Name: "Snowdonia"},
		},
	},
	{
		ID:   "south",
		Name: "South",
		Regions: []Region{
			{ID: "south_downs", Name: "South Downs"},
			{ID: "dorset", Name: "Dorset"},
			{ID: "devon", Name: "Devon"},
			{ID: "cornwall", Name: "Cornwall"},
		},
	},
	{
		ID:   "north",
		Name: "North",
		Regions: []Region{
			{ID: "lake_district", Name: "Lake District"},
			{ID: "peak_district", Name: "Peak District"},
		},
	},
	{
		ID:   "scotland",
		Name: "Scotland",
		Regions: []Region{
			{ID: "isle_of_skye", Name: "Isle of Skye"},
			{ID: "loch_lomond", Name: "Loch Lomond"},
		},
	},
	{
		ID:   "europe",
		Name: "Europe",
		Regions: []Region{
			{ID: "maderia", Name: "Maderia"},
			{ID: "alps", Name: "Alps"},
			{ID: "sweden", Name: "Sweden"},
			{ID: "spain", Name: "Spain"},
		},
	},
}

// RegionByID looks a region up in the catalog.
func RegionByID(id string) (Region, bool) {
	for _, area := range Areas {
		for _, r := range area.Regions {
			if r.ID == id {
				return r, true
			}
		}
	}
	return Region{}, false
}

// RegionName returns the catalog name for id, or id itself when the catalog
// has no such region. Stored ids that fell out of the catalog stay displayable.
func RegionName(id string) string {
	if r, ok := RegionByID(id); ok {
		return r.Name
	}
	return id
}
