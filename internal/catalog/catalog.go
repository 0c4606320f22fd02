// Package catalog содержит встроенные шаблоны отчётов для всех типов оборудования.
// Ими заполняется таблица шаблонов при первом запуске.
package catalog

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"gopkg.in/yaml.v3"

	"opsconsole/internal/storage"
)

//go:embed templates/*.yaml
var files embed.FS

// Load читает все встроенные шаблоны, отсортированные по типу оборудования.
func Load() ([]storage.Template, error) {
	return load(files, "templates")
}

// Get returns the bundled template of one equipment type.
func Get(equipmentType string) (storage.Template, error) {
	const op = "catalog.Get"

	templates, err := Load()
	if err != nil {
		return storage.Template{}, err
	}
	for _, t := range templates {
		if t.EquipmentType == equipmentType {
			return t, nil
		}
	}

	return storage.Template{}, fmt.Errorf("%s: шаблон '%s' не найден: %w", op, equipmentType, storage.ErrNotFound)
}

func Types() ([]string, error) {
	templates, err := Load()
	if err != nil {
		return nil, err
	}
	types := make([]string, 0, len(templates))
	for _, t := range templates {
		types = append(types, t.EquipmentType)
	}
	return types, nil
}

// Parse decodes one template document.
func Parse(data []byte) (storage.Template, error) {
	const op = "catalog.Parse"

	var t storage.Template
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return storage.Template{}, fmt.Errorf("%s: ошибка разбора YAML: %w", op, err)
	}
	if t.EquipmentType == "" {
		return storage.Template{}, fmt.Errorf("%s: не указан equipment_type", op)
	}
	t.IsActive = true

	return t, nil
}

func load(fsys fs.FS, dir string) ([]storage.Template, error) {
	const op = "catalog.load"

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	templates := make([]storage.Template, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".yaml" {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", op, e.Name(), err)
		}
		t, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", op, e.Name(), err)
		}
		templates = append(templates, t)
	}

	sort.Slice(templates, func(i, j int) bool {
		return templates[i].EquipmentType < templates[j].EquipmentType
	})

	return templates, nil
}
