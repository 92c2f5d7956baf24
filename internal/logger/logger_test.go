package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, logrus.WarnLevel, ParseLevel("WARN"))
	assert.Equal(t, logrus.InfoLevel, ParseLevel("chatty"))
	assert.Equal(t, logrus.InfoLevel, ParseLevel(""))
}

func TestSetup_WritesToFile(t *testing.T) {
	prevOut, prevLevel := logrus.StandardLogger().Out, logrus.GetLevel()
	t.Cleanup(func() {
		logrus.SetOutput(prevOut)
		logrus.SetLevel(prevLevel)
	})

	path := filepath.Join(t.TempDir(), "planner.log")
	Setup(Options{File: path, Level: "debug"})
	logrus.WithField("stop_id", "abc").Info("hello from the planner")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from the planner")
	assert.Contains(t, string(data), "stop_id=abc")
}
