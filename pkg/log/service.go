package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	config "github.com/Abdorithm/alx-files-manager/internal/config/server"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggerService interface {
	Debug(msg string, args ...any)

	Info(msg string, args ...any)

	Warn(msg string, args ...any)

	Error(msg string, args ...any)

	Fatal(msg string, args ...any)

	Named(name string) LoggerService
}

type LoggerServiceImpl struct {
	LoggerService

	cfg   config.LogServerConfig
	name  string
	level LogLevel
	out   *output
}

// output is shared between a logger and every logger derived through Named,
// so concurrent request handlers never interleave partial lines.
type output struct {
	mutex  sync.Mutex
	writer io.Writer
	file   *lumberjack.Logger
}

type logEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Service   string `json:"service,omitempty"`
	Message   string `json:"message"`
}

func NewLoggerService(name string, cfg config.LogServerConfig) LoggerService {
	impl := &LoggerServiceImpl{
		cfg:   cfg,
		name:  name,
		level: Parse(cfg.Level),
	}

	impl.setupOutput()
	return impl
}

// NewDiscardLogger returns a logger that drops every entry.
func NewDiscardLogger() LoggerService {
	return &LoggerServiceImpl{
		cfg:   config.LogServerConfig{NoColor: true, TimeFormat: time.RFC3339},
		level: Fatal + 1,
		out:   &output{writer: io.Discard},
	}
}

func (impl *LoggerServiceImpl) setupOutput() {
	var writers []io.Writer
	out := &output{}

	if !impl.cfg.NoTerminal {
		writers = append(writers, os.Stdout)
	}

	if impl.cfg.File != "" {
		out.file = &lumberjack.Logger{
			Filename:   impl.cfg.File,
			MaxSize:    impl.cfg.Rotation.MaxSize,
			MaxBackups: impl.cfg.Rotation.MaxBackups,
			MaxAge:     impl.cfg.Rotation.MaxAge,
			Compress:   impl.cfg.Rotation.Compress,
		}
		writers = append(writers, out.file)
	}

	if len(writers) == 0 {
		writers = append(writers, os.Stdout)
	}

	out.writer = io.MultiWriter(writers...)
	impl.out = out
}

// Close releases the rotated log file, if one is configured.
func (impl *LoggerServiceImpl) Close() error {
	if impl.out == nil || impl.out.file == nil {
		return nil
	}
	return impl.out.file.Close()
}

func (impl *LoggerServiceImpl) log(level LogLevel, msg string, args ...any) {
	if level < impl.level {
		return
	}

	timestamp := time.Now().Format(impl.cfg.TimeFormat)
	formattedMsg := msg
	if len(args) > 0 {
		formattedMsg = fmt.Sprintf(msg, args...)
	}

	var line string
	if impl.cfg.JSON {
		entry := logEntry{
			Timestamp: timestamp,
			Level:     level.String(),
			Service:   impl.name,
			Message:   formattedMsg,
		}

		jsonBytes, _ := json.Marshal(entry)
		line = string(jsonBytes) + "\n"
	} else {
		prefix := fmt.Sprintf("[%s] %-5s", timestamp, level)
		if impl.name != "" {
			prefix = fmt.Sprintf("%s [%s]", prefix, impl.name)
		}

		if !impl.cfg.NoTerminal && !impl.cfg.NoColor {
			line = fmt.Sprintf("%s%s %s\033[0m\n", Color(level), prefix, formattedMsg)
		} else {
			line = fmt.Sprintf("%s %s\n", prefix, formattedMsg)
		}
	}

	impl.out.mutex.Lock()
	io.WriteString(impl.out.writer, line)
	impl.out.mutex.Unlock()

	if level == Fatal {
		os.Exit(1)
	}
}

func (impl *LoggerServiceImpl) Debug(msg string, args ...any) {
	impl.log(Debug, msg, args...)
}

func (impl *LoggerServiceImpl) Info(msg string, args ...any) {
	impl.log(Info, msg, args...)
}

func (impl *LoggerServiceImpl) Warn(msg string, args ...any) {
	impl.log(Warn, msg, args...)
}

func (impl *LoggerServiceImpl) Error(msg string, args ...any) {
	impl.log(Error, msg, args...)
}

func (impl *LoggerServiceImpl) Fatal(msg string, args ...any) {
	impl.log(Fatal, msg, args...)
}

func (impl *LoggerServiceImpl) Named(name string) LoggerService {
	fullName := name
	if impl.name != "" {
		fullName = fmt.Sprintf("%s/%s", impl.name, name)
	}

	return &LoggerServiceImpl{
		cfg:   impl.cfg,
		name:  fullName,
		level: impl.level,
		out:   impl.out,
	}
}
