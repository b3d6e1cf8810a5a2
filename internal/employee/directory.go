package employee

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/frahmantamala/leave-management/internal"
)

// Directory is an immutable snapshot of the org chart. A new one is built
// whenever employees change; readers never observe a partially updated tree.
type Directory struct {
	byID    map[string]*Employee
	reports map[string][]string
	admin   *Employee
}

// NewDirectory validates the hierarchy: unique ids, managers that exist and
// may manage, admins without a manager, a single admin, and no cycles.
func NewDirectory(employees []*Employee) (*Directory, error) {
	d := &Directory{
		byID:    make(map[string]*Employee, len(employees)),
		reports: make(map[string][]string),
	}

	var admins []string
	for _, e := range employees {
		if e.Role == nil {
			return nil, hierarchyError("employee %s has no role", e.ID)
		}
		if _, dup := d.byID[e.ID]; dup {
			return nil, hierarchyError("duplicate employee id %s", e.ID)
		}
		d.byID[e.ID] = e
		if e.IsAdmin() {
			admins = append(admins, e.ID)
			d.admin = e
		}
	}

	if len(employees) > 0 && len(admins) != 1 {
		return nil, hierarchyError("exactly one admin is required, found %d (%s)", len(admins), strings.Join(admins, ", "))
	}

	for _, e := range employees {
		if e.ManagerID == "" {
			continue
		}
		if e.IsAdmin() {
			return nil, hierarchyError("admin %s cannot have a manager", e.ID)
		}
		if e.ManagerID == e.ID {
			return nil, hierarchyError("employee %s cannot manage themselves", e.ID)
		}
		manager, ok := d.byID[e.ManagerID]
		if !ok {
			return nil, hierarchyError("manager %s of employee %s does not exist", e.ManagerID, e.ID)
		}
		if !manager.Role.CanManage() {
			return nil, hierarchyError("manager %s of employee %s must be a manager or admin", e.ManagerID, e.ID)
		}
		d.reports[e.ManagerID] = append(d.reports[e.ManagerID], e.ID)
	}

	for id := range d.reports {
		sort.Strings(d.reports[id])
	}

	if err := d.detectCycles(); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *Directory) detectCycles() error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(d.byID))

	for id := range d.byID {
		var path []string
		cur := id
		for cur != "" && state[cur] != done {
			if state[cur] == visiting {
				return hierarchyError("management cycle detected: %s -> %s", strings.Join(path, " -> "), cur)
			}
			state[cur] = visiting
			path = append(path, cur)
			cur = d.byID[cur].ManagerID
		}
		for _, p := range path {
			state[p] = done
		}
	}
	return nil
}

func (d *Directory) Get(id string) (*Employee, bool) {
	e, ok := d.byID[id]
	return e, ok
}

// Admin returns the approval root, or nil for an empty directory.
func (d *Directory) Admin() *Employee {
	return d.admin
}

// ResolveApprover dispatches on the employee's role variant.
func (d *Directory) ResolveApprover(employeeID string) (*Employee, error) {
	e, ok := d.byID[employeeID]
	if !ok {
		return nil, internal.ErrEmployeeNotFound
	}
	return e.Role.approver(d, e)
}

// fallbackApprover is the regular approver, or the admin when the employee has none.
func (d *Directory) fallbackApprover(employeeID string) (*Employee, error) {
	approver, err := d.ResolveApprover(employeeID)
	if err == nil {
		return approver, nil
	}
	if errors.Is(err, internal.ErrApproverNotFound) && d.admin != nil && d.admin.ID != employeeID {
		return d.admin, nil
	}
	return nil, err
}

func (d *Directory) DirectReports(managerID string) []*Employee {
	ids := d.reports[managerID]
	out := make([]*Employee, 0, len(ids))
	for _, id := range ids {
		out = append(out, d.byID[id])
	}
	return out
}

// All returns employees ordered by id.
func (d *Directory) All() []*Employee {
	out := make([]*Employee, 0, len(d.byID))
	for _, e := range d.byID {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (d *Directory) Len() int {
	return len(d.byID)
}

func hierarchyError(format string, args ...interface{}) error {
	return internal.NewValidationError(fmt.Sprintf(format, args...), internal.ErrCodeInvalidHierarchy)
}
