package model

import (
	"fmt"
	"strconv"
)

// The enums marshal as their stored string forms so JSON snapshots match the
// persisted representation.

func (c Category) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(c.String())), nil
}

func (c *Category) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("category: %w", err)
	}
	parsed, ok := ParseCategory(s)
	if !ok {
		return fmt.Errorf("category: unknown value %q", s)
	}
	*c = parsed
	return nil
}

func (p Period) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(p.String())), nil
}

func (p *Period) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("period: %w", err)
	}
	parsed, ok := ParsePeriod(s)
	if !ok {
		return fmt.Errorf("period: unknown value %q", s)
	}
	*p = parsed
	return nil
}

func (v ValueType) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(v.String())), nil
}

func (v *ValueType) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("value type: %w", err)
	}
	parsed, ok := ParseValueType(s)
	if !ok {
		return fmt.Errorf("value type: unknown value %q", s)
	}
	*v = parsed
	return nil
}
