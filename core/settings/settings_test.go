package settings_test

import (
	"testing"

	"teamrate/core/model"
	"teamrate/core/settings"
)

// TestParseValue verifies that parsing is total: malformed input collapses to
// a type-appropriate zero instead of an error.
func TestParseValue(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		valueType model.ValueType
		want      float64
	}{
		{"float", "160.5", model.ValueFloat, 160.5},
		{"number", "0.3", model.ValueNumber, 0.3},
		{"float garbage", "abc", model.ValueFloat, 0},
		{"float NaN", "NaN", model.ValueFloat, 0},
		{"float Inf", "+Inf", model.ValueFloat, 0},
		{"integer", "160", model.ValueInteger, 160},
		{"integer with fraction", "160.5", model.ValueInteger, 0},
		{"boolean true", "true", model.ValueBoolean, 1},
		{"boolean false", "false", model.ValueBoolean, 0},
		{"boolean garbage", "TRUE", model.ValueBoolean, 0},
		{"string numeric", "0.25", model.ValueString, 0.25},
		{"string garbage", "hello", model.ValueString, 0},
		{"empty", "", model.ValueFloat, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := settings.ParseValue(tt.raw, tt.valueType); got != tt.want {
				t.Errorf("ParseValue(%q, %v) = %v, want %v", tt.raw, tt.valueType, got, tt.want)
			}
		})
	}
}

func TestValues(t *testing.T) {
	vals := settings.FromSettings([]model.Setting{
		{Key: settings.KeyStandardHours, Value: "160", Type: model.ValueFloat},
		{Key: settings.KeyMargin, Value: "0.2", Type: model.ValueFloat},
		{Key: settings.KeyMargin, Value: "0.9", Type: model.ValueFloat}, // duplicate keeps first
	})

	if got := vals.Get(settings.KeyStandardHours); got != 160 {
		t.Errorf("Get(standard hours) = %v, want 160", got)
	}
	if got := vals.Get(settings.KeyMargin); got != 0.2 {
		t.Errorf("Get(margin) = %v, want first row 0.2", got)
	}
	if got := vals.Get(settings.KeyRisk); got != 0 {
		t.Errorf("Get(absent) = %v, want 0", got)
	}
	if _, present := vals.Lookup(settings.KeyRisk); present {
		t.Error("Lookup(absent) reports present")
	}

	missing := vals.Missing(settings.Required()...)
	want := map[model.SettingKey]bool{
		settings.KeyDevReleasableHours: true,
		settings.KeyQARatio:            true,
		settings.KeyBARatio:            true,
		settings.KeyRisk:               true,
	}
	if len(missing) != len(want) {
		t.Fatalf("Missing = %v, want %d keys", missing, len(want))
	}
	for _, key := range missing {
		if !want[key] {
			t.Errorf("unexpected missing key %q", key)
		}
	}
}

func TestExchangeRatio(t *testing.T) {
	tests := []struct {
		name   string
		rows   []model.Setting
		want   float64
		wantOK bool
	}{
		{"absent", nil, 0, false},
		{"zero", []model.Setting{{Key: settings.KeyExchangeRatio, Value: "0", Type: model.ValueFloat}}, 0, false},
		{"negative", []model.Setting{{Key: settings.KeyExchangeRatio, Value: "-2", Type: model.ValueFloat}}, 0, false},
		{"positive", []model.Setting{{Key: settings.KeyExchangeRatio, Value: "4.2", Type: model.ValueFloat}}, 4.2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ratio, ok := settings.FromSettings(tt.rows).ExchangeRatio()
			if ratio != tt.want || ok != tt.wantOK {
				t.Errorf("ExchangeRatio() = (%v, %v), want (%v, %v)", ratio, ok, tt.want, tt.wantOK)
			}
		})
	}
}
