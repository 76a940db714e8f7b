package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Log   *zap.Logger
	Sugar *zap.SugaredLogger

	once sync.Once
)

// Init configures the global JSON logger. Safe to call more than once;
// only the first call takes effect.
func Init() {
	once.Do(func() {
		encoderConfig := zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

		encoder := zapcore.NewJSONEncoder(encoderConfig)
		writer := zapcore.AddSync(os.Stdout)

		core := zapcore.NewCore(encoder, writer, zapcore.InfoLevel)

		Log = zap.New(core, zap.AddCaller())
		Sugar = Log.Sugar()
	})
}
