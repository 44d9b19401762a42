package logging

import (
	"go.uber.org/zap"
)

var Logger *zap.SugaredLogger

// Init builds the process logger. Debug mode enables development output;
// otherwise only warnings and above reach the console.
func Init(debug bool) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	cfg.Encoding = "console"
	logger, err := cfg.Build()
	if err != nil {
		panic("init logger: " + err.Error())
	}
	Logger = logger.Sugar()
}

// Debugf logs at debug level when the logger is initialized.
func Debugf(format string, args ...any) {
	if Logger != nil {
		Logger.Debugf(format, args...)
	}
}
