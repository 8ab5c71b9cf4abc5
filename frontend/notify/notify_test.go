package notify

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCenterExpiresToasts(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewCenter(time.Second)
	c.now = func() time.Time { return now }

	c.Info("first")
	now = now.Add(600 * time.Millisecond)
	c.Error("second")

	assert.Len(t, c.Active(), 2)

	now = now.Add(500 * time.Millisecond)
	active := c.Active()
	if assert.Len(t, active, 1) {
		assert.Equal(t, "second", active[0].Message)
		assert.Equal(t, LevelError, active[0].Level)
	}
}

func TestCenterKeepsMostRecent(t *testing.T) {
	c := NewCenter(time.Minute)
	for _, msg := range []string{"1", "2", "3", "4", "5", "6", "7"} {
		c.Success(msg)
	}
	active := c.Active()
	assert.Len(t, active, maxToasts)
	assert.Equal(t, "3", active[0].Message)
	assert.Equal(t, "7", active[len(active)-1].Message)
}

func TestRecorder(t *testing.T) {
	var r Recorder
	_, ok := r.Last()
	assert.False(t, ok)

	r.Info("a")
	r.Error("b")
	last, ok := r.Last()
	assert.True(t, ok)
	assert.Equal(t, Toast{Level: LevelError, Message: "b"}, last)
	assert.Len(t, r.Toasts(), 2)
}

func TestWriterPrintsLevelAndMessage(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Success("Profile created!")
	w.Error("Failed to load profiles")
	assert.Equal(t, "success: Profile created!\nerror: Failed to load profiles\n", buf.String())
}
