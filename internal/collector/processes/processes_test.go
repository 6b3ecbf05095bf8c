package processes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCutFieldSplitsOnFirstSpace(t *testing.T) {
	field, rest, ok := cutField("123   some rest here")
	require.True(t, ok)
	require.Equal(t, "123", field)
	require.Equal(t, "some rest here", rest)
}

func TestCutFieldFalseWhenNoSpace(t *testing.T) {
	_, _, ok := cutField("onlyoneword")
	require.False(t, ok)
}
