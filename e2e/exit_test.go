//go:build e2e && unix

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestApplicationExit(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.SignIn())
	require.NoError(t, tf.StartApp(), "Failed to start app")
	require.True(t, tf.ReadyUsers(), "Should show the users page")

	tf.Quit()

	exitErr, exited := tf.WaitForExit(1500 * time.Millisecond)
	require.True(t, exited, "Application did not exit after 'q'")
	require.NoError(t, exitErr, "Process should exit cleanly")
}

func TestCtrlCExitsFromLogin(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp(), "Failed to start app")
	require.True(t, tf.ReadyLogin(), "Should show the sign-in form")

	// 'q' is just a character on the login form
	tf.Quit()
	_, exited := tf.WaitForExit(500 * time.Millisecond)
	require.False(t, exited, "'q' must not quit while typing an email")

	tf.SendCtrlC()
	exitErr, exited := tf.WaitForExit(1500 * time.Millisecond)
	require.True(t, exited, "Ctrl+C should quit")
	require.NoError(t, exitErr)
}
