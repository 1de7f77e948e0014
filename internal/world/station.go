package world

// The Lost Lab research station.
const (
	StationStart       = "Rec Room"
	StationTerminal    = "Terrarium"
	StationTargetItems = 8
)

// DefaultSpec returns the fixed Lost Lab station layout.
func DefaultSpec() *Spec {
	return &Spec{
		Start:       StationStart,
		Terminal:    StationTerminal,
		TargetItems: StationTargetItems,
		Locations: []LocationSpec{
			{
				Name:     "Rec Room",
				Position: Position{X: 400, Y: 140},
				Exits: map[string]string{
					"north": "Sleeping Quarters",
					"south": "Decontamination",
					"east":  "Mess Hall",
					"west":  "Med Bay",
				},
			},
			{
				Name:     "Decontamination",
				Item:     "Empty Laser Weapon",
				Position: Position{X: 400, Y: 240},
				Exits: map[string]string{
					"north": "Rec Room",
					"south": "Terrarium",
					"east":  "Water Treatment",
					"west":  "Lab",
				},
			},
			{
				Name:     "Terrarium",
				Item:     "The Alien!",
				Position: Position{X: 400, Y: 330},
				Exits: map[string]string{
					"north": "Decontamination",
				},
			},
			{
				Name:     "Lab",
				Item:     "Recording",
				Position: Position{X: 250, Y: 240},
				Exits: map[string]string{
					"north": "Med Bay",
					"east":  "Decontamination",
				},
			},
			{
				Name:     "Med Bay",
				Item:     "Medical Supplies",
				Requires: []string{"MKIV Suit", "MKV Helmet"},
				Position: Position{X: 250, Y: 140},
				Exits: map[string]string{
					"north": "Cargo Hold",
					"south": "Lab",
					"east":  "Rec Room",
				},
			},
			{
				Name:     "Cargo Hold",
				Item:     "MKIV Suit",
				Position: Position{X: 250, Y: 40},
				Exits: map[string]string{
					"south": "Med Bay",
					"east":  "Sleeping Quarters",
				},
			},
			{
				Name:     "Sleeping Quarters",
				Item:     "Artifact",
				Position: Position{X: 400, Y: 40},
				Exits: map[string]string{
					"south": "Rec Room",
					"east":  "Bathroom",
					"west":  "Cargo Hold",
				},
			},
			{
				Name:     "Bathroom",
				Item:     "MKV Helmet",
				Position: Position{X: 550, Y: 40},
				Exits: map[string]string{
					"south": "Mess Hall",
					"west":  "Sleeping Quarters",
				},
			},
			{
				Name:     "Mess Hall",
				Item:     "Ammo",
				Position: Position{X: 550, Y: 140},
				Exits: map[string]string{
					"north": "Bathroom",
					"south": "Water Treatment",
					"west":  "Rec Room",
				},
			},
			{
				Name:     "Water Treatment",
				Item:     "Shield Charge",
				Position: Position{X: 550, Y: 240},
				Exits: map[string]string{
					"north": "Mess Hall",
					"west":  "Decontamination",
				},
			},
		},
	}
}
