// SPDX-License-Identifier: EPL-2.0

package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ik5/audplay/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func TestNewFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "audplay.log")

	log, err := New(config.Log{Level: "debug", File: path})
	require.NoError(t, err)

	log.Debug().Str("component", "test").Msg("hello")
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"hello"`)
	assert.Contains(t, string(data), `"component":"test"`)
}

func TestNewLevelFilters(t *testing.T) {
	t.Parallel()

	var buf syncBuffer
	log := NewWriter(&buf, zerolog.WarnLevel)

	log.Info().Msg("quiet")
	log.Warn().Msg("loud")
	require.NoError(t, log.Close())

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}

func TestNewInvalid(t *testing.T) {
	t.Parallel()

	_, err := New(config.Log{Level: "loud"})
	require.Error(t, err)

	_, err = New(config.Log{Level: "info", File: filepath.Join(t.TempDir(), "missing", "x.log")})
	require.Error(t, err)
}

func TestCloseTwice(t *testing.T) {
	t.Parallel()

	log := NewWriter(&syncBuffer{}, zerolog.InfoLevel)
	require.NoError(t, log.Close())
	require.NoError(t, log.Close())
}
