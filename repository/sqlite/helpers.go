package sqlite

import (
	"database/sql"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/domain"
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func attachmentArgs(a *domain.Attachment) (interface{}, interface{}) {
	if a == nil {
		return nil, nil
	}
	return string(a.Kind), a.ID
}

func attachmentFrom(kind, id sql.NullString) *domain.Attachment {
	if !kind.Valid || !id.Valid || kind.String == "" {
		return nil
	}
	return &domain.Attachment{Kind: domain.AccountKind(kind.String), ID: id.String}
}

func scopeArgs(scope *domain.DepartmentScope) (bool, string) {
	if scope == nil {
		return false, ""
	}
	return true, scope.Department
}

func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
