package report

import "fmt"

// Toggle переключает видимость секции в группе тумблеров активного типа.
// Отсутствующий ключ считается включённым, поэтому первый вызов выключает секцию.
// Данные секции не трогаются.
func Toggle(s FormState, group, section string) (FormState, error) {
	if group != s.Equipment.ToggleGroup {
		return s, fmt.Errorf("%w: %s", ErrUnknownToggleGroup, group)
	}

	prev, ok := s.Equipment.Toggles[section]
	if !ok {
		prev = true
	}

	out := s.Clone()
	out.Equipment.Toggles[section] = !prev

	return out, nil
}

// Enabled reports whether a section is rendered and exported.
func Enabled(s FormState, section string) bool {
	enabled, ok := s.Equipment.Toggles[section]
	if !ok {
		return true
	}
	return enabled
}
