package resolve

import (
	"sort"

	"teamrate/core/model"
	"teamrate/internal/errors"
)

// Employee is an employee with its scenario-effective active flag.
// ActiveOverridden records that the scenario actually changed the flag.
type Employee struct {
	model.Employee
	ActiveOverridden bool
}

// OverheadType is an overhead type with its scenario-effective active flag.
type OverheadType struct {
	model.OverheadType
	ActiveOverridden bool
}

type allocKey struct {
	employee model.EmployeeID
	typeID   model.OverheadTypeID
}

type shareEntry struct {
	value      float64
	hasRow     bool
	overridden bool
}

// Dataset is the scenario-effective view of one snapshot. It is assembled
// once per computation and read-only afterwards, so concurrent evaluations of
// different scenarios never share mutable state.
type Dataset struct {
	Scenario *model.Scenario

	Employees     []Employee
	Stacks        []model.TechStack
	OverheadTypes []OverheadType

	// Settings carries the effective raw strings; typed parsing is the
	// settings package's concern.
	Settings          []model.Setting
	SettingOverridden map[model.SettingKey]bool

	shares map[allocKey]shareEntry
}

// Build assembles the effective dataset for the given scenario. A nil
// scenario id means base data with no overrides. Stacks and overhead types
// come out sorted by id so downstream iteration is deterministic.
func Build(snap *model.Snapshot, scenarioID *model.ScenarioID) (*Dataset, error) {
	if snap == nil {
		return nil, errors.New(errors.TypeInput, "snapshot is nil")
	}

	ds := &Dataset{
		SettingOverridden: make(map[model.SettingKey]bool),
		shares:            make(map[allocKey]shareEntry),
	}

	var (
		empActive     map[model.EmployeeID]bool
		typeActive    map[model.OverheadTypeID]bool
		settingValues map[model.SettingKey]string
		shareValues   map[allocKey]float64
	)
	if scenarioID != nil {
		scenario, ok := snap.Scenario(*scenarioID)
		if !ok {
			return nil, errors.Newf(errors.TypeNotFound, "unknown scenario %q", string(*scenarioID))
		}
		ds.Scenario = &scenario

		empActive = make(map[model.EmployeeID]bool)
		for _, o := range snap.EmployeeActiveOverrides {
			if o.ScenarioID == *scenarioID {
				empActive[o.EmployeeID] = o.Active
			}
		}
		typeActive = make(map[model.OverheadTypeID]bool)
		for _, o := range snap.OverheadActiveOverrides {
			if o.ScenarioID == *scenarioID {
				typeActive[o.TypeID] = o.Active
			}
		}
		settingValues = make(map[model.SettingKey]string)
		for _, o := range snap.SettingOverrides {
			if o.ScenarioID == *scenarioID {
				settingValues[o.Key] = o.Value
			}
		}
		shareValues = make(map[allocKey]float64)
		for _, o := range snap.AllocationOverrides {
			if o.ScenarioID == *scenarioID {
				shareValues[allocKey{o.EmployeeID, o.TypeID}] = o.Share
			}
		}
	}

	ds.Employees = make([]Employee, 0, len(snap.Employees))
	for _, e := range snap.Employees {
		active, overridden := Resolve(e.Active, lookup(empActive, e.ID))
		e.Active = active
		ds.Employees = append(ds.Employees, Employee{Employee: e, ActiveOverridden: overridden})
	}

	ds.OverheadTypes = make([]OverheadType, 0, len(snap.OverheadTypes))
	for _, o := range snap.OverheadTypes {
		active, overridden := Resolve(o.Active, lookup(typeActive, o.ID))
		o.Active = active
		ds.OverheadTypes = append(ds.OverheadTypes, OverheadType{OverheadType: o, ActiveOverridden: overridden})
	}
	sort.Slice(ds.OverheadTypes, func(i, j int) bool {
		return ds.OverheadTypes[i].ID < ds.OverheadTypes[j].ID
	})

	ds.Stacks = make([]model.TechStack, len(snap.Stacks))
	copy(ds.Stacks, snap.Stacks)
	sort.Slice(ds.Stacks, func(i, j int) bool { return ds.Stacks[i].ID < ds.Stacks[j].ID })

	ds.Settings = make([]model.Setting, 0, len(snap.Settings))
	for _, s := range snap.Settings {
		value, overridden := Resolve(s.Value, lookup(settingValues, s.Key))
		s.Value = value
		ds.Settings = append(ds.Settings, s)
		if overridden {
			ds.SettingOverridden[s.Key] = true
		}
	}

	for _, a := range snap.Allocations {
		key := allocKey{a.EmployeeID, a.TypeID}
		base := a.Share
		override := lookup(shareValues, key)
		ds.shares[key] = shareEntry{
			value:      Share(&base, override),
			hasRow:     true,
			overridden: override != nil && *override != base,
		}
	}
	// Override rows without a base row still produce a contribution.
	for key, share := range shareValues {
		if _, ok := ds.shares[key]; !ok {
			ds.shares[key] = shareEntry{value: share, hasRow: true, overridden: true}
		}
	}

	return ds, nil
}

func lookup[K comparable, V any](m map[K]V, key K) *V {
	if m == nil {
		return nil
	}
	if v, ok := m[key]; ok {
		return &v
	}
	return nil
}

// Share returns the effective allocation share for the pair; no row means 0.
func (ds *Dataset) Share(employee model.EmployeeID, typeID model.OverheadTypeID) float64 {
	return ds.shares[allocKey{employee, typeID}].value
}

// HasAllocation reports whether any base or override row exists for the pair.
func (ds *Dataset) HasAllocation(employee model.EmployeeID, typeID model.OverheadTypeID) bool {
	return ds.shares[allocKey{employee, typeID}].hasRow
}

// ShareOverridden reports whether the scenario changed the pair's share.
func (ds *Dataset) ShareOverridden(employee model.EmployeeID, typeID model.OverheadTypeID) bool {
	return ds.shares[allocKey{employee, typeID}].overridden
}

// ActiveEmployees returns the effectively active employees.
func (ds *Dataset) ActiveEmployees() []Employee {
	var active []Employee
	for _, e := range ds.Employees {
		if e.Active {
			active = append(active, e)
		}
	}
	return active
}

// ActiveOverheadTypes returns the effectively active overhead types, sorted by id.
func (ds *Dataset) ActiveOverheadTypes() []OverheadType {
	var active []OverheadType
	for _, o := range ds.OverheadTypes {
		if o.Active {
			active = append(active, o)
		}
	}
	return active
}

// Stack returns the stack with the given id, if present.
func (ds *Dataset) Stack(id model.StackID) (model.TechStack, bool) {
	for _, s := range ds.Stacks {
		if s.ID == id {
			return s, true
		}
	}
	return model.TechStack{}, false
}
