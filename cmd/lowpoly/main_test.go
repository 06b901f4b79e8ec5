package main

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/esimov/lowpoly"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// countingSyncer records the writes and flushes of a zap core.
type countingSyncer struct {
	bytes.Buffer
	syncs int
}

func (s *countingSyncer) Sync() error {
	s.syncs++
	return nil
}

func TestFinishFlushesLogger(t *testing.T) {
	out := new(countingSyncer)
	core := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewDevelopmentEncoderConfig()), out, zapcore.DebugLevel)
	logger := zap.New(core)
	logger.Debug("mesh built")

	var cleaned bool
	finish(logger, func() { cleaned = true })

	assert.True(t, cleaned)
	assert.Equal(t, 1, out.syncs)
	assert.Contains(t, out.String(), "mesh built")

	assert.NotPanics(t, func() { finish(nil, nil) })
}

func TestCollectJobsDirectory(t *testing.T) {
	src, dst := t.TempDir(), filepath.Join(t.TempDir(), "out")
	for _, name := range []string{"a.jpg", "b.PNG", "c.webp", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(src, name), nil, 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(src, "nested.png"), 0755))

	jobs, cleanup, err := collectJobs(src, dst)
	require.NoError(t, err)
	defer cleanup()

	var outs []string
	for _, j := range jobs {
		outs = append(outs, filepath.Base(j.out))
	}
	sort.Strings(outs)
	assert.Equal(t, []string{"a.png", "b.png", "c.png"}, outs)
	assert.DirExists(t, dst)

	_, _, err = collectJobs(src, pipeName)
	assert.Error(t, err)
}

func TestNewDrawer(t *testing.T) {
	p := &lowpoly.Processor{XCount: 4, YCount: 4}

	d, err := newDrawer(p, "out.svg")
	require.NoError(t, err)
	assert.IsType(t, &lowpoly.SVG{}, d)

	d, err = newDrawer(p, pipeName)
	require.NoError(t, err)
	assert.IsType(t, &lowpoly.Image{}, d)

	_, err = newDrawer(p, "out.gif")
	assert.Error(t, err)
}
