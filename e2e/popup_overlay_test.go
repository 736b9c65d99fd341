//go:build e2e && unix

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestUserDetailsPopup(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.SignIn())
	require.NoError(t, tf.StartApp())
	require.True(t, tf.ReadyUsers())

	tf.Down()
	tf.Enter()

	require.True(t, tf.SeePlain("jane.smith.1@example.com"), "Popup shows the selected user")
	require.True(t, tf.SeePlain("2 Main Street, Oslo, , Norway"), "Popup shows the address")
	require.True(t, tf.SeePlain("esc close"), "Popup shows how to close it")

	// Arrow keys move through users without closing the popup
	tf.Down()
	require.True(t, tf.SeePlain("bob.johnson.2@example.com"))

	// Paging keys are swallowed while the popup is open
	tf.SendKeys(KeyNext)
	tf.Esc()
	require.False(t, tf.OutputContainsPlain("page 2 of 30", 300*time.Millisecond))

	tf.SendKeys(KeyNext)
	require.True(t, tf.SeePlain("page 2 of 30 · 10 results"), "Esc closed the popup")
}
