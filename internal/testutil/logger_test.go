package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCaptureLogger(t *testing.T) {
	logger, buf := NewCaptureLogger()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			logger.Debug("reloaded", "n", i)
		}(i)
	}
	wg.Wait()

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "msg=reloaded")
}

func TestNewTestLogger(t *testing.T) {
	logger := NewTestLogger(t)
	assert.NotPanics(t, func() { logger.Info("hello", "key", "value") })
}
