package authrelay

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefaultLogger(t *testing.T) {
	logger := &DefaultLogger{}

	// The stdlib-backed logger must not panic at any level.
	logger.Debugf("debug: %s", "login")
	logger.Infof("info: %s", "login")
	logger.Warnf("warn: %s", "login")
	logger.Errorf("error: %s", "login")
}

func TestNoopLogger(t *testing.T) {
	logger := &noopLogger{}

	logger.Debugf("dropped %d", 1)
	logger.Infof("dropped %d", 2)
	logger.Warnf("dropped %d", 3)
	logger.Errorf("dropped %d", 4)
}

func TestZapLogger(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	logger := NewZapLogger(zap.New(core).Sugar())

	logger.Debugf("user %s logged in", "admin")
	assert.Equal(t, 0, recorded.Len(), "debug should be filtered at info level")

	logger.Infof("user %s logged in", "admin")
	assert.Equal(t, 1, recorded.Len())
	assert.Equal(t, "user admin logged in", recorded.All()[0].Message)

	logger.Warnf("token %s expired", "abc")
	assert.Equal(t, 2, recorded.Len())

	logger.Errorf("upstream closed: %s", "eof")
	assert.Equal(t, 3, recorded.Len())
}

func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(zerolog.New(&buf))

	logger.Infof("user %s logged in", "admin")
	assert.Contains(t, buf.String(), "user admin logged in")

	buf.Reset()
	logger.Errorf("upstream closed: %s", "eof")
	assert.Contains(t, buf.String(), "upstream closed: eof")
	assert.Contains(t, buf.String(), `"level":"error"`)
}

func TestLogrusLogger(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetLevel(logrus.DebugLevel)

	logger := NewLogrusLogger(l)

	logger.Debugf("tracking request %d", 42)
	assert.Contains(t, buf.String(), "tracking request 42")

	buf.Reset()
	logger.Warnf("token %s expired", "abc")
	assert.Contains(t, buf.String(), "token abc expired")
}
