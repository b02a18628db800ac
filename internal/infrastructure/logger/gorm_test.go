package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(t *testing.T, level gormlogger.LogLevel, slowThreshold time.Duration) (*GormLogger, *observer.ObservedLogs) {
	t.Helper()
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, slowThreshold), recorded
}

func TestNewGormLogger_Defaults(t *testing.T) {
	gormLog, _ := newObservedGormLogger(t, gormlogger.Info, 0)

	// zero threshold falls back to the default
	assert.Equal(t, 200*time.Millisecond, gormLog.slowThreshold)
	assert.True(t, gormLog.ignoreRecordNotFoundError)

	var _ gormlogger.Interface = gormLog
}

func TestGormLogger_LogMode(t *testing.T) {
	gormLog, _ := newObservedGormLogger(t, gormlogger.Info, 0)

	changed, ok := gormLog.LogMode(gormlogger.Warn).(*GormLogger)
	require.True(t, ok)

	assert.Equal(t, gormlogger.Warn, changed.logLevel)
	// the receiver keeps its level, LogMode returns a copy
	assert.Equal(t, gormlogger.Info, gormLog.logLevel)
}

func TestGormLogger_LevelGating(t *testing.T) {
	tests := []struct {
		name    string
		level   gormlogger.LogLevel
		emit    func(l *GormLogger)
		want    int
		message string
	}{
		{
			name:    "info passes at info level",
			level:   gormlogger.Info,
			emit:    func(l *GormLogger) { l.Info(context.Background(), "loaded %d rows", 3) },
			want:    1,
			message: "loaded 3 rows",
		},
		{
			name:  "info suppressed at silent level",
			level: gormlogger.Silent,
			emit:  func(l *GormLogger) { l.Info(context.Background(), "loaded %d rows", 3) },
			want:  0,
		},
		{
			name:    "warn passes at warn level",
			level:   gormlogger.Warn,
			emit:    func(l *GormLogger) { l.Warn(context.Background(), "pool at %d%%", 90) },
			want:    1,
			message: "pool at 90%",
		},
		{
			name:  "warn suppressed at error level",
			level: gormlogger.Error,
			emit:  func(l *GormLogger) { l.Warn(context.Background(), "pool at %d%%", 90) },
			want:  0,
		},
		{
			name:    "error passes at error level",
			level:   gormlogger.Error,
			emit:    func(l *GormLogger) { l.Error(context.Background(), "statement failed") },
			want:    1,
			message: "statement failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gormLog, recorded := newObservedGormLogger(t, tt.level, 0)

			tt.emit(gormLog)

			logs := recorded.All()
			require.Len(t, logs, tt.want)
			if tt.want > 0 {
				assert.Contains(t, logs[0].Message, tt.message)
			}
		})
	}
}

func TestGormLogger_Trace(t *testing.T) {
	query := func() (string, int64) {
		return "SELECT * FROM batch_inventories WHERE lot_number = ?", 2
	}

	t.Run("failed statements log at error level", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(t, gormlogger.Error, 0)

		gormLog.Trace(context.Background(), time.Now(), query, errors.New("connection reset"))

		logs := recorded.All()
		require.Len(t, logs, 1)
		assert.Contains(t, logs[0].Message, "SQL Error")
		assert.Equal(t, zapcore.ErrorLevel, logs[0].Level)
	})

	t.Run("record not found is suppressed", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(t, gormlogger.Error, 0)

		gormLog.Trace(context.Background(), time.Now(), query, gormlogger.ErrRecordNotFound)

		assert.Empty(t, recorded.All())
	})

	t.Run("queries past the threshold warn as slow", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(t, gormlogger.Warn, time.Nanosecond)

		began := time.Now().Add(-time.Second)
		gormLog.Trace(context.Background(), began, query, nil)

		logs := recorded.All()
		require.Len(t, logs, 1)
		assert.Contains(t, logs[0].Message, "SLOW SQL")
	})

	t.Run("fast queries log at debug when info is enabled", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(t, gormlogger.Info, 0)

		gormLog.Trace(context.Background(), time.Now(), query, nil)

		logs := recorded.All()
		require.Len(t, logs, 1)
		assert.Contains(t, logs[0].Message, "SQL Query")
		assert.Equal(t, zapcore.DebugLevel, logs[0].Level)
	})

	t.Run("silent traces nothing at all", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(t, gormlogger.Silent, 0)

		gormLog.Trace(context.Background(), time.Now(), query, errors.New("ignored"))

		assert.Empty(t, recorded.All())
	})
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("info"))
	// debug has no GORM counterpart and maps to the most verbose level
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	// anything unrecognized lands on the warn default
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("fatal"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel(""))
}
