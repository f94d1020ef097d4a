//go:build e2e && unix

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWorkspace(t *testing.T, args ...string) (*TUITestFramework, *FakeCatalog) {
	t.Helper()
	tf := NewTUITest(t)
	t.Cleanup(tf.Cleanup)

	fc, err := tf.CreateTestWorkspace()
	require.NoError(t, err, "Failed to create test workspace")
	require.NoError(t, tf.StartApp(args...), "Failed to start app")
	return tf, fc
}

func TestStartupShowsFirstPage(t *testing.T) {
	t.Parallel()
	tf, fc := startWorkspace(t)

	require.True(t, tf.Ready(), "Should render the first page")
	require.NoError(t, tf.WaitForE("Found 12 courses", 2*time.Second))
	require.NoError(t, tf.WaitForE("Go for Beginners", 2*time.Second))
	require.NoError(t, tf.WaitForE("page 1/3", 2*time.Second))
	require.NoError(t, tf.WaitForE("No filters, showing all courses", 2*time.Second))

	req := fc.LastRequest()
	require.NotNil(t, req)
	assert.Equal(t, "1", req.Get("page"))
	assert.Equal(t, "5", req.Get("limit"))
	assert.Equal(t, "popular", req.Get("sortBy"))
	assert.Empty(t, req.Get("search"))
}

func TestSearchFiltersResults(t *testing.T) {
	t.Parallel()
	tf, fc := startWorkspace(t)
	require.True(t, tf.Ready(), "Should render the first page")

	require.NoError(t, tf.Search("go"))
	require.NoError(t, tf.WaitForE(`Search: "go"`, 3*time.Second))
	require.NoError(t, tf.WaitForE("Found 4 courses", 3*time.Second))

	req := fc.LastRequest()
	require.NotNil(t, req)
	assert.Equal(t, "go", req.Get("search"))
	assert.Equal(t, "1", req.Get("page"))
}

func TestFacetToggleAndClear(t *testing.T) {
	t.Parallel()
	tf, fc := startWorkspace(t)
	require.True(t, tf.Ready(), "Should render the first page")

	// Focus the sidebar and pick the first category
	require.NoError(t, tf.SendKeys(KeyTab))
	require.NoError(t, tf.SendKeys(KeySpace))
	require.NoError(t, tf.WaitForE("Category: Programming", 3*time.Second))
	require.NoError(t, tf.WaitForE("Found 6 courses", 3*time.Second))
	assert.Equal(t, "Programming", fc.LastRequest().Get("category"))

	// Chip 1 removes it again
	tf.ClearOutput()
	require.NoError(t, tf.SendKeys("1"))
	require.NoError(t, tf.WaitForE("Found 12 courses", 3*time.Second))
	assert.Empty(t, fc.LastRequest().Get("category"))
}

func TestPagingRequestsNextPage(t *testing.T) {
	t.Parallel()
	tf, fc := startWorkspace(t)
	require.True(t, tf.Ready(), "Should render the first page")

	require.NoError(t, tf.SendKeys(KeyNext))
	require.NoError(t, tf.WaitForE("page 2/3", 3*time.Second))
	require.NoError(t, tf.WaitForE("Color Theory", 3*time.Second))
	assert.Equal(t, "2", fc.LastRequest().Get("page"))
}

func TestStartFromLocation(t *testing.T) {
	t.Parallel()
	tf, fc := startWorkspace(t, "-location", "https://courses.example.com/?category=Design&level=advanced")

	require.True(t, tf.OutputContainsPlain("Found 1 courses", 5*time.Second), "Should fetch the linked filters")
	require.NoError(t, tf.WaitForE("Category: Design", 2*time.Second))
	require.NoError(t, tf.WaitForE("Level: Advanced", 2*time.Second))
	require.NoError(t, tf.WaitForE("Color Theory", 2*time.Second))

	req := fc.LastRequest()
	assert.Equal(t, "Design", req.Get("category"))
	assert.Equal(t, "advanced", req.Get("level"))
}

func TestResetClearsFilters(t *testing.T) {
	t.Parallel()
	tf, fc := startWorkspace(t, "-location", "category=Design")
	require.True(t, tf.OutputContainsPlain("Found 6 courses", 5*time.Second), "Should fetch the linked filters")

	tf.ClearOutput()
	require.NoError(t, tf.SendKeys(KeyReset))
	require.NoError(t, tf.WaitForE("Found 12 courses", 3*time.Second))
	assert.Empty(t, fc.LastRequest().Get("category"))
}

func TestHelpPopup(t *testing.T) {
	t.Parallel()
	tf, _ := startWorkspace(t)
	require.True(t, tf.Ready(), "Should render the first page")

	require.NoError(t, tf.SendKeys(KeyHelp))
	require.NoError(t, tf.WaitForE("coursedeck Help", 2*time.Second))
	require.NoError(t, tf.WaitForE("Remove an active filter", 2*time.Second))

	tf.ClearOutput()
	require.NoError(t, tf.SendKeys(KeyHelp))
	require.NoError(t, tf.WaitForE("Go for Beginners", 2*time.Second))
}
