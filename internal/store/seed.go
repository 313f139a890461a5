package store

import (
	"context"
	"fmt"

	"teamrate/core/model"
	"teamrate/core/settings"
)

type seedSetting struct {
	key   model.SettingKey
	value string
	vtype string
	group string
	unit  string
}

// defaultSettings are the rows every fresh database needs before the formula
// produces meaningful numbers. Values are conservative starting points the
// operator is expected to tune.
var defaultSettings = []seedSetting{
	{settings.KeyDevReleasableHours, "100", "float", "capacity", "hours"},
	{settings.KeyStandardHours, "160", "float", "capacity", "hours"},
	{settings.KeyQARatio, "0.3", "float", "ratios", ""},
	{settings.KeyBARatio, "0.2", "float", "ratios", ""},
	{settings.KeyMargin, "0.2", "float", "pricing", ""},
	{settings.KeyRisk, "0.1", "float", "pricing", ""},
}

// SeedSettings inserts the required settings that are not present yet.
// Existing rows are never touched.
func (s *Store) SeedSettings(ctx context.Context) error {
	for _, row := range defaultSettings {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO settings (key, value, value_type, group_label, unit)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (key) DO NOTHING
		`, string(row.key), row.value, row.vtype, row.group, row.unit)
		if err != nil {
			return fmt.Errorf("seed setting %s: %w", row.key, err)
		}
	}
	return nil
}
