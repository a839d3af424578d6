package config

// CentralGirderElements is the central girder of the reference deck model
var CentralGirderElements = []int{15, 24, 33, 42, 51, 60, 69, 78, 83}

// DeckGirders are the five longitudinal girders of the reference deck model
var DeckGirders = []GroupConfig{
	{Name: "Girder 1", Elements: []int{13, 22, 31, 40, 49, 58, 67, 76, 81}},
	{Name: "Girder 2", Elements: []int{14, 23, 32, 41, 50, 59, 68, 77, 82}},
	{Name: "Girder 3", Elements: []int{15, 24, 33, 42, 51, 60, 69, 78, 83}},
	{Name: "Girder 4", Elements: []int{16, 25, 34, 43, 52, 61, 70, 79, 84}},
	{Name: "Girder 5", Elements: []int{17, 26, 35, 44, 53, 62, 71, 80, 85}},
}

// Default returns the reference deck configuration
func Default() *Config {
	groups := make([]GroupConfig, len(DeckGirders))
	for i, g := range DeckGirders {
		groups[i] = GroupConfig{Name: g.Name, Elements: append([]int(nil), g.Elements...)}
	}

	return &Config{
		LogLevel:  "info",
		LogFormat: "console",
		Output: OutputConfig{
			Dir:    "outputs",
			Format: "png",
			Width:  8,
			Height: 6,
		},
		Line: LineConfig{
			Name:        "Central Girder",
			Elements:    append([]int(nil), CentralGirderElements...),
			StationAxis: "x",
			Diagrams: []DiagramConfig{
				{Name: "BMD", Title: "Bending Moment Diagram", Component: "Mz"},
				{Name: "SFD", Title: "Shear Force Diagram", Component: "Vy"},
			},
		},
		Girders: GirdersConfig{
			Groups:           groups,
			DisplacementAxis: "y",
			Diagrams: []DiagramConfig{
				{Name: "SFD", Title: "3D Shear Force Diagram", Component: "Vy"},
				{Name: "BMD", Title: "3D Bending Moment Diagram", Component: "Mz"},
			},
			View: ViewConfig{Azimuth: -60, Elevation: 25},
		},
	}
}
