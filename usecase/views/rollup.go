package views

import (
	"context"
	"sort"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/domain"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/repository"
)

// Indicator is the dashboard colour of an account.
type Indicator string

const (
	IndicatorOK      Indicator = "ok"
	IndicatorPending Indicator = "pending"
	IndicatorOverdue Indicator = "overdue"
)

// IndicatorFor maps open and overdue counts onto the ternary indicator.
func IndicatorFor(open, overdue int) Indicator {
	switch {
	case overdue > 0:
		return IndicatorOverdue
	case open > 0:
		return IndicatorPending
	default:
		return IndicatorOK
	}
}

// AccountStatus summarises the open tasks attached to one account.
type AccountStatus struct {
	Kind      domain.AccountKind `json:"kind"`
	AccountID string             `json:"account_id"`
	Open      int                `json:"open"`
	Overdue   int                `json:"overdue"`
	Indicator Indicator          `json:"indicator"`
}

// OverdueRollup counts open and overdue tasks per attached account. Admins see every
// department; other callers only their home department, or global tasks when they have none.
// An empty kind covers customers and prospects.
func (uc *UseCase) OverdueRollup(ctx context.Context, callerID string, kind domain.AccountKind) ([]AccountStatus, error) {
	if kind != "" && !kind.Valid() {
		return nil, domain.InvalidField("kind", "must be one of: customer, prospect")
	}
	caller, err := uc.support.Caller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	filter := repository.WorkItemFilter{
		AttachedKind: kind,
		AttachedOnly: true,
		OpenOnly:     true,
	}
	if !caller.Admin {
		home, err := uc.support.HomeDepartment(ctx, caller.ID)
		if err != nil {
			return nil, err
		}
		filter.Scope = domain.InDepartment(home)
	}

	tasks, err := uc.tasks.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := uc.support.Now()
	byAccount := make(map[domain.Attachment]*AccountStatus)
	for i := range tasks {
		task := &tasks[i]
		if task.AttachedTo == nil || task.IsCompleted() {
			continue
		}
		key := *task.AttachedTo
		status, ok := byAccount[key]
		if !ok {
			status = &AccountStatus{Kind: key.Kind, AccountID: key.ID}
			byAccount[key] = status
		}
		status.Open++
		if task.IsOverdue(now) {
			status.Overdue++
		}
	}

	out := make([]AccountStatus, 0, len(byAccount))
	for _, status := range byAccount {
		status.Indicator = IndicatorFor(status.Open, status.Overdue)
		out = append(out, *status)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].AccountID < out[j].AccountID
	})
	return out, nil
}

// AccountIndicator is the indicator of a single account, "ok" when it has no open tasks.
func (uc *UseCase) AccountIndicator(ctx context.Context, callerID string, account domain.Attachment) (AccountStatus, error) {
	if !account.Kind.Valid() {
		return AccountStatus{}, domain.InvalidField("kind", "must be one of: customer, prospect")
	}
	statuses, err := uc.OverdueRollup(ctx, callerID, account.Kind)
	if err != nil {
		return AccountStatus{}, err
	}
	for _, status := range statuses {
		if status.AccountID == account.ID {
			return status, nil
		}
	}
	return AccountStatus{Kind: account.Kind, AccountID: account.ID, Indicator: IndicatorOK}, nil
}
