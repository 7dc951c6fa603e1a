package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecipient_requiresContactAndTrims(t *testing.T) {
	_, err := NewRecipient("u1", "Alice", RoleCustomer, "  ", "")
	require.Error(t, err)

	r, err := NewRecipient(" u1 ", " Alice ", RoleCustomer, " alice@example.com ", "")
	require.NoError(t, err)
	assert.Equal(t, "u1", r.ID)
	assert.Equal(t, "Alice", r.Name)
	assert.Equal(t, "alice@example.com", r.Email)
	assert.True(t, r.HasEmail())
	assert.False(t, r.HasPhone())

	same, err := NewRecipient("u1", "Alice", RoleCustomer, "alice@example.com", "")
	require.NoError(t, err)
	assert.True(t, r.Equal(same))
}

func TestInterpolate_replacesAllPlaceholders(t *testing.T) {
	c := NewNotificationContent(
		"Reminder for {{name}}",
		"Your {{carName}} is ready for pickup, {{name}}.",
		map[string]string{"name": "Alice", "carName": "Tesla Model 3"},
	)

	out := c.Interpolate()
	assert.Equal(t, "Reminder for Alice", out.Subject)
	assert.Equal(t, "Your Tesla Model 3 is ready for pickup, Alice.", out.Body)
}

func TestInterpolate_neverMutatesOriginal(t *testing.T) {
	c := NewNotificationContent("Hi {{name}}", "Bye {{name}}", map[string]string{"name": "Bob"})

	first := c.Interpolate()
	second := c.Interpolate()

	assert.Equal(t, "Hi {{name}}", c.Subject)
	assert.Equal(t, first, second)
}

func TestInterpolate_leavesUnknownPlaceholders(t *testing.T) {
	c := NewNotificationContent("Hello {{name}}", "Code: {{code}}", map[string]string{"name": "Eve"})
	out := c.Interpolate()
	assert.Equal(t, "Code: {{code}}", out.Body)
}

func TestNewNotificationContent_copiesVariables(t *testing.T) {
	vars := map[string]string{"name": "Alice"}
	c := NewNotificationContent("s", "b", vars)
	vars["name"] = "Mallory"
	assert.Equal(t, "Alice", c.Variables["name"])
}
