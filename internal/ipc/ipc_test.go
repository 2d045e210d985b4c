package ipc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCommandSplitsVerbAndArgs(t *testing.T) {
	cmd, ok := parseCommand("wm focus left")
	require.True(t, ok)
	require.Equal(t, "wm", cmd.Verb)
	require.Equal(t, []string{"focus", "left"}, cmd.Args)
}

func TestParseCommandNoArgs(t *testing.T) {
	cmd, ok := parseCommand("settings")
	require.True(t, ok)
	require.Equal(t, "settings", cmd.Verb)
	require.Empty(t, cmd.Args)
}

func TestParseCommandRejectsEmptyLine(t *testing.T) {
	_, ok := parseCommand("")
	require.False(t, ok)
	_, ok = parseCommand("   ")
	require.False(t, ok)
}

func TestSplitOnDelimiterFramesMultipleRecords(t *testing.T) {
	data := []byte("wm focus left\x17vd switch-next\x17")

	advance, token, err := splitOnDelimiter(data, false)
	require.NoError(t, err)
	require.Equal(t, "wm focus left", string(token))
	require.Equal(t, len("wm focus left")+1, advance)

	rest := data[advance:]
	advance, token, err = splitOnDelimiter(rest, false)
	require.NoError(t, err)
	require.Equal(t, "vd switch-next", string(token))
	require.Equal(t, len("vd switch-next")+1, advance)
}

func TestSplitOnDelimiterWaitsForMoreDataWithoutDelimiter(t *testing.T) {
	advance, token, err := splitOnDelimiter([]byte("wm focus"), false)
	require.NoError(t, err)
	require.Nil(t, token)
	require.Zero(t, advance)
}

func TestSplitOnDelimiterFlushesTrailingDataAtEOF(t *testing.T) {
	advance, token, err := splitOnDelimiter([]byte("wm focus"), true)
	require.NoError(t, err)
	require.Equal(t, "wm focus", string(token))
	require.Equal(t, len("wm focus"), advance)
}

func TestSplitOnDelimiterEmptyAtEOF(t *testing.T) {
	advance, token, err := splitOnDelimiter(nil, true)
	require.NoError(t, err)
	require.Nil(t, token)
	require.Zero(t, advance)
}
