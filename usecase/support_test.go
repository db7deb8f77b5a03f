package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/domain"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/internal/testutil"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/usecase"
)

type sampleInput struct {
	Title      string             `json:"title" validate:"required,max=5"`
	Priority   domain.Priority    `json:"priority" validate:"omitempty,oneof=low medium high"`
	AttachedTo *domain.Attachment `json:"attached_to"`
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	err := usecase.Validate(sampleInput{
		Title:      "much too long",
		Priority:   "urgent",
		AttachedTo: &domain.Attachment{Kind: "vendor"},
	})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	fields := domain.FieldErrors(err)
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "priority")
	assert.Contains(t, fields, "attached_to.kind")
	assert.Contains(t, fields, "attached_to.id")

	assert.NoError(t, usecase.Validate(sampleInput{Title: "ok"}))
}

func TestSupportAuthorize(t *testing.T) {
	ctx := context.Background()
	fx := testutil.NewFixture(t)
	fx.AddUser(t, "boss", domain.RoleAdmin, "")
	fx.AddUser(t, "alice", "user", "dev")
	support := usecase.NewSupport(fx.Store)

	task := &domain.Task{WorkItem: domain.WorkItem{CreatedBy: "alice"}, Assignee: "bob"}

	caller, err := support.Authorize(ctx, "alice", task)
	require.NoError(t, err)
	assert.False(t, caller.Admin)

	_, err = support.Authorize(ctx, "bob", task)
	assert.NoError(t, err)

	caller, err = support.Authorize(ctx, "boss", task)
	require.NoError(t, err)
	assert.True(t, caller.Admin)

	_, err = support.Authorize(ctx, "mallory", task)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = support.Authorize(ctx, "", task)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestSupportAuthorizeReadsRoleEveryCall(t *testing.T) {
	ctx := context.Background()
	fx := testutil.NewFixture(t)
	fx.AddUser(t, "eve", domain.RoleAdmin, "")
	support := usecase.NewSupport(fx.Store)
	task := &domain.Task{WorkItem: domain.WorkItem{CreatedBy: "alice"}, Assignee: "alice"}

	_, err := support.Authorize(ctx, "eve", task)
	require.NoError(t, err)

	fx.AddUser(t, "eve", "user", "")
	_, err = support.Authorize(ctx, "eve", task)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSupportResolveDepartment(t *testing.T) {
	ctx := context.Background()
	fx := testutil.NewFixture(t)
	fx.AddUser(t, "alice", "user", "dev")
	fx.AddUser(t, "bob", "user", "")
	fx.AddUser(t, "carol", "user", "seo")

	support := usecase.NewSupport(fx.Store, usecase.WithDepartments([]string{"dev", "seo", "ads"}))

	dept, err := support.ResolveDepartment(ctx, "ads", "alice", "carol")
	require.NoError(t, err)
	assert.Equal(t, "ads", dept)

	dept, err = support.ResolveDepartment(ctx, "", "alice", "carol")
	require.NoError(t, err)
	assert.Equal(t, "dev", dept)

	dept, err = support.ResolveDepartment(ctx, "", "bob", "carol")
	require.NoError(t, err)
	assert.Equal(t, "seo", dept)

	dept, err = support.ResolveDepartment(ctx, "", "bob", "ghost")
	require.NoError(t, err)
	assert.Empty(t, dept)

	_, err = support.ResolveDepartment(ctx, "legal", "alice", "carol")
	require.Error(t, err)
	assert.Contains(t, domain.FieldErrors(err), "department")
}

func TestSupportCheckAttachment(t *testing.T) {
	ctx := context.Background()
	fx := testutil.NewFixture(t)
	fx.AddAccount(t, domain.AccountCustomer, "acme")
	support := usecase.NewSupport(fx.Store)

	assert.NoError(t, support.CheckAttachment(ctx, nil))
	assert.NoError(t, support.CheckAttachment(ctx, &domain.Attachment{Kind: domain.AccountCustomer, ID: "acme"}))
	assert.ErrorIs(t, support.CheckAttachment(ctx, &domain.Attachment{Kind: domain.AccountProspect, ID: "acme"}), domain.ErrAccountNotFound)

	err := support.CheckAttachment(ctx, &domain.Attachment{Kind: "vendor", ID: "acme"})
	assert.Contains(t, domain.FieldErrors(err), "attached_to.kind")
}

func TestSupportRecordSwallowsFailures(t *testing.T) {
	fx := testutil.NewFixture(t)
	var recorded []domain.Activity
	failing := usecase.RecordFunc(func(_ context.Context, activity domain.Activity) error {
		recorded = append(recorded, activity)
		return errors.New("store down")
	})
	support := usecase.NewSupport(fx.Store, usecase.WithRecorder(failing), usecase.WithClock(fx.Clock()))

	support.Record(context.Background(), domain.KindTask, "t1", "alice", domain.ActionCreated, map[string]int{"n": 1})

	require.Len(t, recorded, 1)
	assert.NotEmpty(t, recorded[0].ID)
	assert.Equal(t, fx.Now(), recorded[0].CreatedAt)
	assert.JSONEq(t, `{"n":1}`, string(recorded[0].Payload))
}
