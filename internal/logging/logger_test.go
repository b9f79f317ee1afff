package logging

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecretRedaction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "plain", input: "my-secret-password"},
		{name: "empty", input: ""},
		{name: "symbols", input: "password123!@#"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := Secret(tt.input)
			assert.Equal(t, "[REDACTED]", s.String())
			assert.Equal(t, "[REDACTED]", fmt.Sprintf("%v", s))
			assert.Equal(t, "[REDACTED]", fmt.Sprintf("%#v", s))
		})
	}
}

func TestRedact(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		secrets []string
		want    string
	}{
		{
			name:    "single",
			input:   "token=abcd1234",
			secrets: []string{"abcd1234"},
			want:    "token=[REDACTED]",
		},
		{
			name:    "repeated",
			input:   "abcd1234 and abcd1234",
			secrets: []string{"abcd1234"},
			want:    "[REDACTED] and [REDACTED]",
		},
		{
			name:    "short_values_ignored",
			input:   "id=abc",
			secrets: []string{"abc", ""},
			want:    "id=abc",
		},
		{
			name:    "no_secrets",
			input:   "nothing to hide",
			want:    "nothing to hide",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Redact(tt.input, tt.secrets))
		})
	}
}

func TestLoggerLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		debug bool
		log   func(*Logger)
		want  string
	}{
		{name: "info", log: func(l *Logger) { l.Info("hello %s", "world") }, want: "✓ hello world\n"},
		{name: "warn", log: func(l *Logger) { l.Warn("careful") }, want: "⚠ careful\n"},
		{name: "error", log: func(l *Logger) { l.Error("failed: %d", 3) }, want: "✗ failed: 3\n"},
		{name: "debug_off", log: func(l *Logger) { l.Debug("hidden") }, want: ""},
		{name: "debug_on", debug: true, log: func(l *Logger) { l.Debug("GET %s", "/x") }, want: "[DEBUG] GET /x\n"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := NewWithWriter(&buf, tt.debug, true)
			tt.log(logger)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestLoggerColor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewWithWriter(&buf, false, false).Error("boom")
	assert.Equal(t, "\033[31m✗\033[0m boom\n", buf.String())
}

func TestLoggerMask(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWithWriter(&buf, true, true)
	logger.Mask("s3cr3t-value")

	logger.Debug("exporting DB_PASSWORD=%s", "s3cr3t-value")
	logger.Info("value is s3cr3t-value")

	assert.NotContains(t, buf.String(), "s3cr3t-value")
	assert.Contains(t, buf.String(), "DB_PASSWORD=[REDACTED]")
}

func TestLoggerConcurrentWrites(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWithWriter(&buf, true, true)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			logger.Debug("line %d", i)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, bytes.Count(buf.Bytes(), []byte("\n")))
}
