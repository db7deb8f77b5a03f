package domain

import "strings"

// ResolveDepartment picks the owning department of a work item: the explicit value,
// then the assignee's home department, then the creator's. An empty result is a
// global item and is not an error.
func ResolveDepartment(explicit, assigneeDept, creatorDept string) string {
	for _, candidate := range []string{explicit, assigneeDept, creatorDept} {
		if c := strings.TrimSpace(candidate); c != "" {
			return c
		}
	}
	return ""
}

// DepartmentCatalog is the set of known departments. An empty catalog accepts any value.
type DepartmentCatalog map[string]struct{}

func NewDepartmentCatalog(names []string) DepartmentCatalog {
	catalog := make(DepartmentCatalog, len(names))
	for _, name := range names {
		if n := strings.TrimSpace(name); n != "" {
			catalog[n] = struct{}{}
		}
	}
	return catalog
}

func (c DepartmentCatalog) Knows(name string) bool {
	if len(c) == 0 {
		return true
	}
	_, ok := c[name]
	return ok
}

// DepartmentScope narrows listings. A nil scope means every department.
type DepartmentScope struct {
	Department string
}

// GlobalScope selects items with no department.
func GlobalScope() *DepartmentScope {
	return &DepartmentScope{}
}

// InDepartment selects items of one department.
func InDepartment(name string) *DepartmentScope {
	return &DepartmentScope{Department: name}
}
