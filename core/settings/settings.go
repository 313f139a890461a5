// Package settings converts stored setting strings into typed numbers.
// Parsing is total: malformed values collapse to a type-appropriate zero so a
// bad row can never abort a pricing run. Data-quality surfacing is the
// validator's job, not this package's.
package settings

import (
	"math"
	"strconv"

	"teamrate/core/model"
)

// Keys that are load-bearing for the pricing formula.
const (
	KeyDevReleasableHours model.SettingKey = "dev-releasable-hours-per-month"
	KeyStandardHours      model.SettingKey = "standard-hours-per-month"
	KeyQARatio            model.SettingKey = "qa-ratio"
	KeyBARatio            model.SettingKey = "ba-ratio"
	KeyMargin             model.SettingKey = "margin"
	KeyRisk               model.SettingKey = "risk"

	// KeyExchangeRatio is optional; when present and > 0 it enables the
	// secondary-currency display transform.
	KeyExchangeRatio model.SettingKey = "exchange-ratio"
)

// Required lists the keys the formula cannot do without. Absence does not
// block computation; the validator reports it and the value defaults to 0.
func Required() []model.SettingKey {
	return []model.SettingKey{
		KeyDevReleasableHours,
		KeyStandardHours,
		KeyQARatio,
		KeyBARatio,
		KeyMargin,
		KeyRisk,
	}
}

// ParseValue interprets a stored string under its declared value type.
// float/number parse as floating point, integer as base-10, boolean maps
// "true" to 1.0, and string attempts a float parse. Anything unparsable,
// NaN or infinite yields 0.
func ParseValue(raw string, valueType model.ValueType) float64 {
	switch valueType {
	case model.ValueFloat, model.ValueNumber:
		return safeFloat(raw)
	case model.ValueInteger:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0
		}
		return float64(n)
	case model.ValueBoolean:
		if raw == "true" {
			return 1.0
		}
		return 0
	default: // model.ValueString
		return safeFloat(raw)
	}
}

func safeFloat(raw string) float64 {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Values is the typed view of one effective settings collection.
type Values struct {
	values  map[model.SettingKey]float64
	present map[model.SettingKey]bool
}

// FromSettings parses an effective settings collection. Duplicate keys keep
// the first row, matching the unique-key invariant of the store.
func FromSettings(effective []model.Setting) Values {
	v := Values{
		values:  make(map[model.SettingKey]float64, len(effective)),
		present: make(map[model.SettingKey]bool, len(effective)),
	}
	for _, s := range effective {
		if v.present[s.Key] {
			continue
		}
		v.values[s.Key] = ParseValue(s.Value, s.Type)
		v.present[s.Key] = true
	}
	return v
}

// Get returns the typed value for key, or 0 when the key is absent.
func (v Values) Get(key model.SettingKey) float64 {
	return v.values[key]
}

// Lookup returns the typed value and whether the key was present.
func (v Values) Lookup(key model.SettingKey) (float64, bool) {
	return v.values[key], v.present[key]
}

// Missing returns the subset of keys with no stored row, in argument order.
func (v Values) Missing(keys ...model.SettingKey) []model.SettingKey {
	var missing []model.SettingKey
	for _, key := range keys {
		if !v.present[key] {
			missing = append(missing, key)
		}
	}
	return missing
}

// ExchangeRatio returns the exchange ratio when it is present and positive,
// and ok=false otherwise.
func (v Values) ExchangeRatio() (float64, bool) {
	ratio, present := v.Lookup(KeyExchangeRatio)
	if !present || ratio <= 0 {
		return 0, false
	}
	return ratio, true
}
