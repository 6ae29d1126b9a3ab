package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertRegistered checks that every id ("module:name") is in the ledger, in
// the given relative order.
func AssertRegistered(t *testing.T, result *HarnessResult, ids ...string) {
	t.Helper()

	var got []string
	for _, e := range result.App.Loader().Ledger().Entries() {
		got = append(got, e.ID())
	}

	pos := -1
	for _, id := range ids {
		i := indexFrom(got, id, pos+1)
		require.GreaterOrEqual(t, i, 0, "entity %q not registered in order; ledger: %v", id, got)
		pos = i
	}
}

// AssertLogged checks that the captured log output contains substr.
func AssertLogged(t *testing.T, result *HarnessResult, substr string) {
	t.Helper()
	require.True(t, strings.Contains(result.LogOutput, substr), "expected %q in log output", substr)
}

func indexFrom(s []string, v string, from int) int {
	for i := from; i < len(s); i++ {
		if s[i] == v {
			return i
		}
	}
	return -1
}
