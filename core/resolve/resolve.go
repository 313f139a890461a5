// Package resolve merges base records with optional scenario overrides into
// one effective dataset. Four independent override channels exist (employee
// active, overhead-type active, setting value, allocation share); all flow
// through the same resolution rule so they stay behaviourally uniform.
package resolve

// Resolve merges a base value with an optional override. When the override is
// absent the base wins and the value is not considered overridden. When
// present the override wins, and the value counts as overridden only if it
// actually differs from the base.
func Resolve[T comparable](base T, override *T) (effective T, overridden bool) {
	if override == nil {
		return base, false
	}
	return *override, *override != base
}

// Share resolves an allocation share. The override wins when present, even
// when it is zero; otherwise the base share applies; no row at all means a
// zero contribution.
func Share(base, override *float64) float64 {
	if override != nil {
		return *override
	}
	if base != nil {
		return *base
	}
	return 0
}
