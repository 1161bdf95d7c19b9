package logx

import "strings"

// Level represents logging level. Higher is more severe.
type Level uint8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	// LevelFatal logs and exits the process
	LevelFatal
	// LevelOff disables all logging
	LevelOff
)

var levelNames = [...]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
	LevelFatal: "FATAL",
	LevelOff:   "OFF",
}

// aliases accepted by ParseLevel besides the canonical names
var levelAliases = map[string]Level{
	"TRACE":   LevelDebug,
	"WARNING": LevelWarn,
	"ERR":     LevelError,
	"NONE":    LevelOff,
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "UNKNOWN"
}

// ParseLevel maps LOG_LEVEL values onto a Level. Unknown values fall back
// to LevelInfo.
func ParseLevel(level string) Level {
	level = strings.ToUpper(strings.TrimSpace(level))
	for l, name := range levelNames {
		if name == level {
			return Level(l)
		}
	}
	if l, ok := levelAliases[level]; ok {
		return l
	}
	return LevelInfo
}

// Enabled reports whether a message at target passes a logger set to l.
func (l Level) Enabled(target Level) bool {
	return l != LevelOff && l <= target
}
