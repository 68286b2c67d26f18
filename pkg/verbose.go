package splendir

import (
	"fmt"
	"runtime"
	"strings"
	"sync"

	"go.uber.org/zap"
)

var (
	globalVerboseLevel int
	debugFlags         map[string]bool
	loggerMu           sync.RWMutex
	logger             = zap.NewNop()
)

// SetLogger installs the zap logger used for verbose, trace and per-item
// failure output. Passing nil restores the no-op logger.
func SetLogger(l *zap.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// Logger returns the currently installed logger
func Logger() *zap.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// SetVerboseLevel sets the global verbose level
func SetVerboseLevel(level int) {
	globalVerboseLevel = level
}

// GetVerboseLevel returns the current verbose level
func GetVerboseLevel() int {
	return globalVerboseLevel
}

// VerboseEnter logs function entry at level 3+ and returns a defer function for exit logging
func VerboseEnter() func() {
	if globalVerboseLevel < 3 {
		return func() {}
	}

	pc, _, _, ok := runtime.Caller(1)
	if !ok {
		return func() {}
	}

	funcName := runtime.FuncForPC(pc).Name()
	if idx := strings.LastIndex(funcName, "."); idx != -1 {
		funcName = funcName[idx+1:]
	}

	Logger().Debug("entering function", zap.String("func", funcName))

	return func() {
		Logger().Debug("exiting function", zap.String("func", funcName))
	}
}

// VerboseLog logs a message at the specified verbose level
func VerboseLog(level int, format string, args ...interface{}) {
	if globalVerboseLevel >= level {
		msg := strings.TrimSuffix(fmt.Sprintf(format, args...), "\n")
		Logger().Info(msg, zap.Int("verbose", level))
	}
}

// SetDebugFlags sets the debug flags from a comma-separated string
// Supports both simple flags ("scan,mounts") and key:value format ("scan:true,hash:false")
func SetDebugFlags(flagsStr string) {
	debugFlags = make(map[string]bool)
	if flagsStr == "" {
		return
	}

	for _, flag := range strings.Split(flagsStr, ",") {
		flag = strings.TrimSpace(flag)
		if flag == "" {
			continue
		}

		parts := strings.SplitN(flag, ":", 2)
		flagName := strings.ToLower(parts[0])
		flagValue := true

		if len(parts) > 1 {
			switch strings.ToLower(parts[1]) {
			case "false", "0", "no", "off":
				flagValue = false
			}
		}

		debugFlags[flagName] = flagValue
	}
}

// IsDebugEnabled returns true if the specified debug flag is enabled
func IsDebugEnabled(flag string) bool {
	if debugFlags == nil {
		return false
	}
	return debugFlags[strings.ToLower(flag)]
}

// debugLog writes a debug-level message when the named debug flag is on
func debugLog(flag, msg string, fields ...zap.Field) {
	if IsDebugEnabled(flag) {
		Logger().Debug(msg, append(fields, zap.String("area", flag))...)
	}
}
