package tracker_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webstat/internal/tracker"
)

func TestBuild(t *testing.T) {
	script, err := tracker.Build("https://stats.example.com/track")
	require.NoError(t, err)

	assert.Contains(t, script, "https://stats.example.com/track")
	assert.Contains(t, script, "webstat_session")
	assert.Contains(t, script, "pageview")
	assert.Contains(t, script, "leave")
	assert.Contains(t, script, "time_on_page")
	assert.Contains(t, script, "form_submission")
	assert.Contains(t, script, "scroll")
}

func TestBuildMinifies(t *testing.T) {
	script, err := tracker.Build("https://stats.example.com/track")
	require.NoError(t, err)

	assert.NotContains(t, script, "\n  ", "indentation is stripped")
	assert.False(t, strings.HasPrefix(script, "\n"))
	assert.Less(t, len(script), 4000)
}
