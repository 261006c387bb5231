package util

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogDroppedWithoutSetup(t *testing.T) {
	var buf bytes.Buffer
	SetConsole(&buf)
	defer SetConsole(os.Stderr)
	SetVerbose(false)
	GetLog("test").InfoF("nobody hears %d", 1)
	assert.Empty(t, buf.String())

	SetVerbose(true)
	defer SetVerbose(false)
	GetLog("test").WarnF("echoed %d", 2)
	assert.Contains(t, buf.String(), "[test] [WARN]: echoed 2")
}

func TestLogToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "miniquery.log")
	require.NoError(t, InitLogger(path, 1<<20, time.Hour, false))
	assert.Equal(t, ErrReInitializeLog, InitLogger(path, 1<<20, time.Hour, false))

	GetLog("scan").InfoF("read %d rows", 6)
	GetLog("planner").DebugF("planned")
	require.NoError(t, CloseLog())
	assert.Equal(t, ErrClosedLog, CloseLog())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[scan] [INFO]: read 6 rows")
	assert.Contains(t, string(data), "[planner] [DEBUG]: planned")
}
