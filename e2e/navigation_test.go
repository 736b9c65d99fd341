//go:build e2e && unix

package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaging(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.SignIn())
	require.NoError(t, tf.StartApp())
	require.True(t, tf.ReadyUsers())
	require.True(t, tf.SeePlain("page 1 of 30 · 10 results"))
	require.True(t, tf.SeePlain("Dr John Doe"))

	tf.SendKeys(KeyNext)
	require.True(t, tf.SeePlain("page 2 of 30 · 10 results"), "l moves to the next page")
	require.True(t, tf.SeePlain("Dr Carlos Chen"), "Page 2 rows are shown")

	tf.SendKeys("+")
	require.True(t, tf.SeePlain("page 2 of 12 · 25 results"), "+ grows the page")
	require.True(t, tf.SeePlain("(25 per page)"))

	tf.SendKeys("[")
	require.True(t, tf.SeePlain("page 2 of 30 · 10 results"), "[ goes back to the previous query")

	tf.SendKeys(KeyPrev)
	tf.SendKeys(KeyPrev)
	require.True(t, tf.SeePlain("page 1 of 30 · 10 results"), "h never goes below page 1")

	seen := tf.api.Requests()
	require.NotEmpty(t, seen)
	for _, q := range seen {
		assert.True(t, strings.Contains(q, "seed=e2e"), "every request carries the seed: %s", q)
	}
}

func TestFetchFailureAndRetry(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	tf.api.SetFailing(true)
	require.NoError(t, tf.SignIn())
	require.NoError(t, tf.StartApp())

	require.True(t, tf.OutputContainsPlain("failed to fetch users, please try again", 5*time.Second))
	require.True(t, tf.SeePlain("Press r to retry"))

	tf.api.SetFailing(false)
	tf.ClearOutput()
	tf.SendKeys("r")
	require.True(t, tf.SeePlain("page 1 of 30 · 10 results"), "Retry loads the page")
}
