package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/plateforge/plateforge/pkg/effects"
	"github.com/plateforge/plateforge/pkg/errors"
)

// JSON file representation. The on-disk shape is stable; Descriptor
// field changes require a deliberate format bump.

type fileEntry struct {
	Category       Category       `json:"category"`
	Probability    float64        `json:"probability"`
	IntensityRange [2]float64     `json:"intensity_range"`
	Enabled        bool           `json:"enabled"`
	Params         effects.Params `json:"params,omitempty"`
}

type fileFormat struct {
	GlobalProbability float64              `json:"global_probability"`
	MaxConcurrent     int                  `json:"max_concurrent_transforms"`
	Transforms        map[string]fileEntry `json:"transforms"`
}

// Save writes the catalog to path as JSON. The write goes through a
// temporary file and rename so readers never see a partial file.
func (c *Catalog) Save(path string) error {
	ff := fileFormat{
		GlobalProbability: c.globalProbability,
		MaxConcurrent:     c.maxConcurrent,
		Transforms:        make(map[string]fileEntry, len(c.entries)),
	}
	for name, d := range c.entries {
		ff.Transforms[name] = fileEntry{
			Category:       d.Category,
			Probability:    d.Probability,
			IntensityRange: [2]float64{d.IntensityRange.Lo, d.IntensityRange.Hi},
			Enabled:        d.Enabled,
			Params:         d.Params,
		}
	}

	data, err := json.MarshalIndent(ff, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create catalog dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace catalog: %w", err)
	}
	return nil
}

// Load replaces the catalog state with the contents of path. The file is
// parsed and validated in full before any state changes; on error the
// catalog keeps its previous state.
func (c *Catalog) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "catalog file %q", path)
		}
		return fmt.Errorf("read catalog: %w", err)
	}

	var ff fileFormat
	if err := json.Unmarshal(data, &ff); err != nil {
		return errors.Wrap(errors.ErrCodeConfig, err, "parse catalog %q", path)
	}

	descriptors := make([]Descriptor, 0, len(ff.Transforms))
	for name, entry := range ff.Transforms {
		descriptors = append(descriptors, Descriptor{
			Name:           name,
			Category:       entry.Category,
			Probability:    entry.Probability,
			IntensityRange: IntensityRange{Lo: entry.IntensityRange[0], Hi: entry.IntensityRange[1]},
			Enabled:        entry.Enabled,
			Params:         entry.Params,
		})
	}
	loaded, err := New(ff.GlobalProbability, ff.MaxConcurrent, descriptors)
	if err != nil {
		return err
	}

	c.globalProbability = loaded.globalProbability
	c.maxConcurrent = loaded.maxConcurrent
	c.entries = loaded.entries
	return nil
}
