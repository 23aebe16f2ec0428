package dashboard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCmd_Flags(t *testing.T) {
	f := Cmd.Flags().Lookup("format")
	require.NotNil(t, f)
	assert.Equal(t, "text", f.DefValue)
	assert.Equal(t, "f", f.Shorthand)
	assert.NotNil(t, Cmd.Flags().Lookup("top"))
}

// The help names the figures of dashboard.Summary and nothing else.
func TestCmd_HelpListsReportedFigures(t *testing.T) {
	long := strings.Join(strings.Fields(strings.ToLower(Cmd.Long)), " ")
	for _, figure := range []string{"total income", "total bills", "the net", "largest spend", "per calendar month"} {
		assert.Contains(t, long, figure)
	}
	assert.NotContains(t, long, "rate")
}
