package postgres

import (
	"encoding/json"
	"time"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/domain"
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func marshalMap(data map[string]string) []byte {
	if len(data) == 0 {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	return b
}

func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func timePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func attachmentArgs(a *domain.Attachment) (interface{}, interface{}) {
	if a == nil {
		return nil, nil
	}
	return string(a.Kind), a.ID
}

func attachmentFrom(kind, id *string) *domain.Attachment {
	if kind == nil || id == nil || *kind == "" {
		return nil
	}
	return &domain.Attachment{Kind: domain.AccountKind(*kind), ID: *id}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// scopeArgs turns a department scope into the (scoped, department) pair used by list queries.
func scopeArgs(scope *domain.DepartmentScope) (bool, string) {
	if scope == nil {
		return false, ""
	}
	return true, scope.Department
}
