package transport

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullableDistinguishesAbsentFromNull(t *testing.T) {
	var req TaskPatchRequest
	require.NoError(t, json.Unmarshal([]byte(`{"due_at":null,"title":"New","approver":null}`), &req))

	patch := req.Patch()
	assert.True(t, patch.ClearDueAt)
	assert.Nil(t, patch.DueAt)
	require.NotNil(t, patch.Title)
	assert.Equal(t, "New", *patch.Title)
	require.NotNil(t, patch.Approver)
	assert.Equal(t, "", *patch.Approver)
	assert.Nil(t, patch.Description)
	assert.Nil(t, patch.Status)
}

func TestNullableValue(t *testing.T) {
	var req TaskPatchRequest
	require.NoError(t, json.Unmarshal([]byte(`{"due_at":"2024-02-01T10:00:00Z"}`), &req))

	patch := req.Patch()
	assert.False(t, patch.ClearDueAt)
	require.NotNil(t, patch.DueAt)
	assert.True(t, patch.DueAt.Equal(time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)))
}

func TestNullableRejectsWrongType(t *testing.T) {
	var req TaskPatchRequest
	assert.Error(t, json.Unmarshal([]byte(`{"due_at":42}`), &req))
}

func TestReminderPatchAssignees(t *testing.T) {
	var absent ReminderPatchRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x"}`), &absent))
	assert.Nil(t, absent.Patch().Assignees)

	var cleared ReminderPatchRequest
	require.NoError(t, json.Unmarshal([]byte(`{"assignees":null}`), &cleared))
	require.NotNil(t, cleared.Patch().Assignees)
	assert.Empty(t, *cleared.Patch().Assignees)

	var set ReminderPatchRequest
	require.NoError(t, json.Unmarshal([]byte(`{"assignees":["a","b"],"done":true}`), &set))
	patch := set.Patch()
	assert.Equal(t, []string{"a", "b"}, *patch.Assignees)
	require.NotNil(t, patch.Done)
	assert.True(t, *patch.Done)
}
