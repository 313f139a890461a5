// Package model defines the input entities the pricing engine consumes.
// Entities are owned and persisted elsewhere; the engine reads one immutable
// Snapshot per computation and never mutates it.
package model

// Typed identifiers for the natural keys of each entity.
type (
	EmployeeID     string
	StackID        string
	OverheadTypeID string
	ScenarioID     string
	SettingKey     string
)

// Category classifies an employee's role.
type Category int

const (
	CategoryDev Category = iota
	CategoryQA
	CategoryBA
	CategoryAgenticAI
)

// String returns the stored representation of the category.
func (c Category) String() string {
	switch c {
	case CategoryDev:
		return "DEV"
	case CategoryQA:
		return "QA"
	case CategoryBA:
		return "BA"
	case CategoryAgenticAI:
		return "AGENTIC_AI"
	default:
		return "UNKNOWN"
	}
}

// ParseCategory converts a stored category string. Unknown values map to
// CategoryDev with ok=false so callers can reject bad rows at the boundary.
func ParseCategory(s string) (Category, bool) {
	switch s {
	case "DEV":
		return CategoryDev, true
	case "QA":
		return CategoryQA, true
	case "BA":
		return CategoryBA, true
	case "AGENTIC_AI":
		return CategoryAgenticAI, true
	default:
		return CategoryDev, false
	}
}

// Period is the billing period of an overhead pool amount.
type Period int

const (
	PeriodAnnual Period = iota
	PeriodMonthly
	PeriodQuarterly
)

// String returns the stored representation of the period.
func (p Period) String() string {
	switch p {
	case PeriodAnnual:
		return "annual"
	case PeriodMonthly:
		return "monthly"
	case PeriodQuarterly:
		return "quarterly"
	default:
		return "unknown"
	}
}

// ParsePeriod converts a stored period string.
func ParsePeriod(s string) (Period, bool) {
	switch s {
	case "annual":
		return PeriodAnnual, true
	case "monthly":
		return PeriodMonthly, true
	case "quarterly":
		return PeriodQuarterly, true
	default:
		return PeriodAnnual, false
	}
}

// ValueType declares how a stored setting string is interpreted.
type ValueType int

const (
	ValueString ValueType = iota
	ValueNumber
	ValueFloat
	ValueInteger
	ValueBoolean
)

// String returns the stored representation of the value type.
func (v ValueType) String() string {
	switch v {
	case ValueString:
		return "string"
	case ValueNumber:
		return "number"
	case ValueFloat:
		return "float"
	case ValueInteger:
		return "integer"
	case ValueBoolean:
		return "boolean"
	default:
		return "string"
	}
}

// ParseValueType converts a stored value-type string.
func ParseValueType(s string) (ValueType, bool) {
	switch s {
	case "string":
		return ValueString, true
	case "number":
		return ValueNumber, true
	case "float":
		return ValueFloat, true
	case "integer":
		return ValueInteger, true
	case "boolean":
		return ValueBoolean, true
	default:
		return ValueString, false
	}
}

// Employee is one member of the delivery organisation.
// NetMonthly is informational only and never enters a formula.
// OncostRate, AnnualBenefits and AnnualBonus default to zero when absent.
type Employee struct {
	ID             EmployeeID `json:"id"`
	Name           string     `json:"name"`
	Category       Category   `json:"category"`
	StackID        StackID    `json:"stackId,omitempty"` // required for DEV and AGENTIC_AI
	Active         bool       `json:"active"`
	GrossMonthly   float64    `json:"grossMonthly"`
	NetMonthly     float64    `json:"netMonthly,omitempty"`
	OncostRate     float64    `json:"oncostRate,omitempty"` // fraction of gross
	AnnualBenefits float64    `json:"annualBenefits,omitempty"`
	AnnualBonus    float64    `json:"annualBonus,omitempty"`
	FTE            float64    `json:"fte"` // fraction, 1.0 = full time
}

// TechStack is a pure grouping key for DEV and AGENTIC_AI employees.
type TechStack struct {
	ID   StackID `json:"id"`
	Name string  `json:"name"`
}

// OverheadType is a shared cost pool distributed across employees.
type OverheadType struct {
	ID     OverheadTypeID `json:"id"`
	Name   string         `json:"name"`
	Active bool           `json:"active"`
	Amount float64        `json:"amount"`
	Period Period         `json:"period"`
}

// Allocation attributes a fraction of one overhead type's monthly-equivalent
// cost to one employee. Unique per (employee, type) pair; share in [0,1].
type Allocation struct {
	EmployeeID EmployeeID     `json:"employeeId"`
	TypeID     OverheadTypeID `json:"overheadTypeId"`
	Share      float64        `json:"share"`
}

// Setting is one stored configuration value.
type Setting struct {
	Key   SettingKey `json:"key"`
	Value string     `json:"value"`
	Type  ValueType  `json:"valueType"`
	Group string     `json:"group,omitempty"`
	Unit  string     `json:"unit,omitempty"`
}

// Scenario is a named, non-destructive override layer over the base data.
type Scenario struct {
	ID   ScenarioID `json:"id"`
	Name string     `json:"name"`
}

// EmployeeActiveOverride flips one employee's active flag inside a scenario.
type EmployeeActiveOverride struct {
	ScenarioID ScenarioID `json:"scenarioId"`
	EmployeeID EmployeeID `json:"employeeId"`
	Active     bool       `json:"active"`
}

// OverheadActiveOverride flips one overhead type's active flag inside a scenario.
type OverheadActiveOverride struct {
	ScenarioID ScenarioID     `json:"scenarioId"`
	TypeID     OverheadTypeID `json:"overheadTypeId"`
	Active     bool           `json:"active"`
}

// SettingOverride replaces one setting's stored string inside a scenario.
// The override string is parsed under the base setting's declared type.
type SettingOverride struct {
	ScenarioID ScenarioID `json:"scenarioId"`
	Key        SettingKey `json:"key"`
	Value      string     `json:"value"`
}

// AllocationOverride replaces one allocation share inside a scenario.
// An override of 0 wins over a non-zero base share.
type AllocationOverride struct {
	ScenarioID ScenarioID     `json:"scenarioId"`
	EmployeeID EmployeeID     `json:"employeeId"`
	TypeID     OverheadTypeID `json:"overheadTypeId"`
	Share      float64        `json:"share"`
}

// Snapshot is one immutable read of every entity the engine needs.
// Override tables never contain more than one row per (scenario, natural key).
type Snapshot struct {
	Employees     []Employee     `json:"employees"`
	Stacks        []TechStack    `json:"stacks"`
	OverheadTypes []OverheadType `json:"overheadTypes"`
	Allocations   []Allocation   `json:"allocations"`
	Settings      []Setting      `json:"settings"`
	Scenarios     []Scenario     `json:"scenarios,omitempty"`

	EmployeeActiveOverrides []EmployeeActiveOverride `json:"employeeActiveOverrides,omitempty"`
	OverheadActiveOverrides []OverheadActiveOverride `json:"overheadActiveOverrides,omitempty"`
	SettingOverrides        []SettingOverride        `json:"settingOverrides,omitempty"`
	AllocationOverrides     []AllocationOverride     `json:"allocationOverrides,omitempty"`
}

// Scenario returns the scenario with the given id, if present.
func (s *Snapshot) Scenario(id ScenarioID) (Scenario, bool) {
	for _, sc := range s.Scenarios {
		if sc.ID == id {
			return sc, true
		}
	}
	return Scenario{}, false
}
