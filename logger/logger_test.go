package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProjectLoggerIsShared(t *testing.T) {
	assert.Same(t, GetProjectLogger(), GetProjectLogger())
}

func TestSetLevel(t *testing.T) {
	require.NoError(t, SetLevel("debug"))
	assert.Equal(t, logrus.DebugLevel, GetProjectLogger().GetLevel())

	require.Error(t, SetLevel("loud"))
	assert.Equal(t, logrus.DebugLevel, GetProjectLogger().GetLevel())

	require.NoError(t, SetLevel("info"))
}
