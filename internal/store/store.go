// Package store is the sqlite persistence collaborator. It owns the entity
// tables and hands the engine an immutable Snapshot; the engine never touches
// the database itself.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"teamrate/core/model"
	"teamrate/internal/errors"
)

// Store wraps the sqlite database.
type Store struct {
	db *sql.DB
}

// Open opens a sqlite database, sets recommended pragmas, and validates
// connectivity.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if _, err := db.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA foreign_keys = ON;
		PRAGMA busy_timeout = 5000;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set sqlite pragmas: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}

	return &Store{db: db}, nil
}

// DB exposes the underlying handle for migrations.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// LoadSnapshot reads every entity table into one immutable snapshot.
func (s *Store) LoadSnapshot(ctx context.Context) (*model.Snapshot, error) {
	snap := &model.Snapshot{}

	if err := s.loadStacks(ctx, snap); err != nil {
		return nil, errors.Wrap(err, errors.TypeStorage, "load tech stacks")
	}
	if err := s.loadEmployees(ctx, snap); err != nil {
		return nil, errors.Wrap(err, errors.TypeStorage, "load employees")
	}
	if err := s.loadOverheadTypes(ctx, snap); err != nil {
		return nil, errors.Wrap(err, errors.TypeStorage, "load overhead types")
	}
	if err := s.loadAllocations(ctx, snap); err != nil {
		return nil, errors.Wrap(err, errors.TypeStorage, "load allocations")
	}
	if err := s.loadSettings(ctx, snap); err != nil {
		return nil, errors.Wrap(err, errors.TypeStorage, "load settings")
	}
	if err := s.loadScenarios(ctx, snap); err != nil {
		return nil, errors.Wrap(err, errors.TypeStorage, "load scenarios")
	}
	return snap, nil
}

func (s *Store) loadStacks(ctx context.Context, snap *model.Snapshot) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM tech_stacks ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var st model.TechStack
		if err := rows.Scan(&st.ID, &st.Name); err != nil {
			return err
		}
		snap.Stacks = append(snap.Stacks, st)
	}
	return rows.Err()
}

func (s *Store) loadEmployees(ctx context.Context, snap *model.Snapshot) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, COALESCE(stack_id, ''), active,
		       gross_monthly, net_monthly, oncost_rate, annual_benefits, annual_bonus, fte
		FROM employees ORDER BY id
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			e        model.Employee
			category string
		)
		if err := rows.Scan(&e.ID, &e.Name, &category, &e.StackID, &e.Active,
			&e.GrossMonthly, &e.NetMonthly, &e.OncostRate, &e.AnnualBenefits, &e.AnnualBonus, &e.FTE); err != nil {
			return err
		}
		parsed, ok := model.ParseCategory(category)
		if !ok {
			return fmt.Errorf("employee %s: unknown category %q", e.ID, category)
		}
		e.Category = parsed
		snap.Employees = append(snap.Employees, e)
	}
	return rows.Err()
}

func (s *Store) loadOverheadTypes(ctx context.Context, snap *model.Snapshot) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, active, amount, period FROM overhead_types ORDER BY id
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			o      model.OverheadType
			period string
		)
		if err := rows.Scan(&o.ID, &o.Name, &o.Active, &o.Amount, &period); err != nil {
			return err
		}
		parsed, ok := model.ParsePeriod(period)
		if !ok {
			return fmt.Errorf("overhead type %s: unknown period %q", o.ID, period)
		}
		o.Period = parsed
		snap.OverheadTypes = append(snap.OverheadTypes, o)
	}
	return rows.Err()
}

func (s *Store) loadAllocations(ctx context.Context, snap *model.Snapshot) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT employee_id, overhead_type_id, share FROM overhead_allocations
		ORDER BY employee_id, overhead_type_id
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var a model.Allocation
		if err := rows.Scan(&a.EmployeeID, &a.TypeID, &a.Share); err != nil {
			return err
		}
		snap.Allocations = append(snap.Allocations, a)
	}
	return rows.Err()
}

func (s *Store) loadSettings(ctx context.Context, snap *model.Snapshot) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, value, value_type, group_label, unit FROM settings ORDER BY key
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			st        model.Setting
			valueType string
		)
		if err := rows.Scan(&st.Key, &st.Value, &valueType, &st.Group, &st.Unit); err != nil {
			return err
		}
		parsed, ok := model.ParseValueType(valueType)
		if !ok {
			return fmt.Errorf("setting %s: unknown value type %q", st.Key, valueType)
		}
		st.Type = parsed
		snap.Settings = append(snap.Settings, st)
	}
	return rows.Err()
}

func (s *Store) loadScenarios(ctx context.Context, snap *model.Snapshot) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM scenarios ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var sc model.Scenario
		if err := rows.Scan(&sc.ID, &sc.Name); err != nil {
			return err
		}
		snap.Scenarios = append(snap.Scenarios, sc)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	empRows, err := s.db.QueryContext(ctx, `
		SELECT scenario_id, employee_id, active FROM scenario_employee_overrides
	`)
	if err != nil {
		return err
	}
	defer empRows.Close()
	for empRows.Next() {
		var o model.EmployeeActiveOverride
		if err := empRows.Scan(&o.ScenarioID, &o.EmployeeID, &o.Active); err != nil {
			return err
		}
		snap.EmployeeActiveOverrides = append(snap.EmployeeActiveOverrides, o)
	}
	if err := empRows.Err(); err != nil {
		return err
	}

	typeRows, err := s.db.QueryContext(ctx, `
		SELECT scenario_id, overhead_type_id, active FROM scenario_overhead_overrides
	`)
	if err != nil {
		return err
	}
	defer typeRows.Close()
	for typeRows.Next() {
		var o model.OverheadActiveOverride
		if err := typeRows.Scan(&o.ScenarioID, &o.TypeID, &o.Active); err != nil {
			return err
		}
		snap.OverheadActiveOverrides = append(snap.OverheadActiveOverrides, o)
	}
	if err := typeRows.Err(); err != nil {
		return err
	}

	settingRows, err := s.db.QueryContext(ctx, `
		SELECT scenario_id, key, value FROM scenario_setting_overrides
	`)
	if err != nil {
		return err
	}
	defer settingRows.Close()
	for settingRows.Next() {
		var o model.SettingOverride
		if err := settingRows.Scan(&o.ScenarioID, &o.Key, &o.Value); err != nil {
			return err
		}
		snap.SettingOverrides = append(snap.SettingOverrides, o)
	}
	if err := settingRows.Err(); err != nil {
		return err
	}

	allocRows, err := s.db.QueryContext(ctx, `
		SELECT scenario_id, employee_id, overhead_type_id, share FROM scenario_allocation_overrides
	`)
	if err != nil {
		return err
	}
	defer allocRows.Close()
	for allocRows.Next() {
		var o model.AllocationOverride
		if err := allocRows.Scan(&o.ScenarioID, &o.EmployeeID, &o.TypeID, &o.Share); err != nil {
			return err
		}
		snap.AllocationOverrides = append(snap.AllocationOverrides, o)
	}
	return allocRows.Err()
}
