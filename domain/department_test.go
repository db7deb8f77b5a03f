package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveDepartment(t *testing.T) {
	tests := []struct {
		name                                string
		explicit, assigneeDept, creatorDept string
		want                                string
	}{
		{name: "explicit wins", explicit: "seo", assigneeDept: "dev", creatorDept: "ads", want: "seo"},
		{name: "assignee home", assigneeDept: "dev", creatorDept: "ads", want: "dev"},
		{name: "creator home", creatorDept: "ads", want: "ads"},
		{name: "blank explicit ignored", explicit: "  ", assigneeDept: "dev", want: "dev"},
		{name: "nothing resolves to global", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveDepartment(tt.explicit, tt.assigneeDept, tt.creatorDept))
		})
	}
}

func TestDepartmentCatalog(t *testing.T) {
	open := NewDepartmentCatalog(nil)
	assert.True(t, open.Knows("anything"))

	catalog := NewDepartmentCatalog([]string{"dev", " seo ", ""})
	assert.True(t, catalog.Knows("dev"))
	assert.True(t, catalog.Knows("seo"))
	assert.False(t, catalog.Knows("ads"))
}
