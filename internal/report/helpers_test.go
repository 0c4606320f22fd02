package report

import (
	"testing"

	"github.com/stretchr/testify/require"

	"opsconsole/internal/storage"
)

func earthPitTemplate() storage.Template {
	return storage.Template{
		EquipmentType: "earth_pit",
		Name:          "Earth pit testing",
		ToggleGroup:   "earth_pit_section_toggles",
		Checklist: []storage.ChecklistItem{
			{ID: 1, Item: "Pit chamber clean"},
			{ID: 2, Item: "Cover intact"},
			{ID: 3, Item: "Connections tight"},
		},
		Sections: map[string]storage.SectionSchema{
			"electrical_checks": {
				Title:       "Electrical checks",
				Columns:     []string{"pit_no", "individual_result", "combined_result"},
				DefaultRows: 6,
			},
			"continuity_checks": {
				Title:       "Continuity checks",
				Columns:     []string{"from", "to", "resistance"},
				DefaultRows: 6,
				Recover:     true,
			},
			"earth_pit_testing_details": {
				Title:         "Testing details",
				Fields:        []string{"pit_type", "electrode_material", "soil_condition"},
				FieldDefaults: map[string]string{"electrode_material": "Copper"},
			},
		},
		Defaults: map[string]bool{"continuity_checks": false},
	}
}

func relayTemplate() storage.Template {
	return storage.Template{
		EquipmentType: "protection_relay",
		ToggleGroup:   "relay_section_toggles",
		Checklist:     []storage.ChecklistItem{{ID: 1, Item: "Relay healthy LED"}},
		Sections: map[string]storage.SectionSchema{
			"protection_relay_test": {
				Fields: []string{"pickup_current", "operating_time"},
			},
			"coil_resistance": {
				Fields:  []string{"trip_coil", "close_coil"},
				Recover: true,
			},
		},
	}
}

func mustReconcileJSON(t *testing.T, tmpl storage.Template, raw string) FormState {
	t.Helper()
	s, err := ReconcileJSON(tmpl, []byte(raw))
	require.NoError(t, err)
	return s
}
