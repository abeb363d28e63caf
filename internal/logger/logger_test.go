package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_WritesRoleAndComponent(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "server", "debug", false).Component("password-reset")

	l.Info().Int64("user_id", 7).Msg("code issued")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "server", entry["role"])
	assert.Equal(t, "password-reset", entry["component"])
	assert.Equal(t, "code issued", entry["message"])
	assert.EqualValues(t, 7, entry["user_id"])
}

func TestNewLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "server", "chatty", false)

	l.Debug().Msg("hidden")
	assert.Empty(t, buf.String())

	l.Info().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	base := newLogger(&buf, "server", "info", false)
	ctx := base.WithContext(context.Background())

	FromContext(ctx, nil).Info().Msg("from ctx")
	assert.Contains(t, buf.String(), "from ctx")

	fallback := Nop()
	assert.Same(t, fallback, FromContext(context.Background(), fallback))
	assert.NotNil(t, FromContext(context.Background(), nil))
}

func TestScoped_TagsRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	reqLog := newLogger(&buf, "server", "info", false)
	ctx := reqLog.With().Str("request_id", "req-1").Logger().WithContext(context.Background())

	Scoped(ctx, Nop(), "password-reset").Info().Msg("code sent")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "password-reset", entry["component"])
	assert.Equal(t, "req-1", entry["request_id"])

	fallback := Nop().Component("users")
	assert.Same(t, fallback, Scoped(context.Background(), fallback, "users"))
}
