package lib

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	LogDirectory = "logs"
	LogFileName  = "log"
)

/*
	This file implements leveled, colored logging (Debug, Info, Warn, Error, Fatal) that writes
	to stdout and an auto-rotating log file under the data directory.
*/

func init() {
	color.NoColor = false
}

// LoggerI defines the interface for various logging levels and formatted output
type LoggerI interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
	Fatal(msg string)
	Print(msg string)
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
	Printf(format string, args ...interface{})
}

const (
	DebugLevel int32 = -4
	InfoLevel  int32 = 0
	WarnLevel  int32 = 4
	ErrorLevel int32 = 8
)

var _ LoggerI = &Logger{}

// levelColors maps each log level label to its console color function
var levelColors = map[string]func(format string, a ...interface{}) string{
	"DEBUG": color.BlueString,
	"INFO":  color.GreenString,
	"WARN":  color.YellowString,
	"ERROR": color.RedString,
	"FATAL": color.RedString,
}

// LoggerConfig holds configuration settings for the logger, including logging level and output writer
type LoggerConfig struct {
	Level int32 `json:"level"`
	Out   io.Writer
}

// Logger is the concrete implementation of LoggerI, managing log output based on configuration
type Logger struct {
	config LoggerConfig
}

// Debug() logs a message at the Debug level
func (l *Logger) Debug(msg string) { l.log(DebugLevel, "DEBUG", msg) }

// Info() logs a message at the Info level
func (l *Logger) Info(msg string) { l.log(InfoLevel, "INFO", msg) }

// Warn() logs a message at the Warn level
func (l *Logger) Warn(msg string) { l.log(WarnLevel, "WARN", msg) }

// Error() logs a message at the Error level
func (l *Logger) Error(msg string) { l.log(ErrorLevel, "ERROR", msg) }

// Fatal() logs an error message and terminates the program
func (l *Logger) Fatal(msg string) {
	l.log(ErrorLevel, "FATAL", msg)
	os.Exit(1)
}

// Print() logs a message without any specific log level or color
func (l *Logger) Print(msg string) { l.write(msg) }

// Debugf() logs a formatted message at the Debug level
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log(DebugLevel, "DEBUG", fmt.Sprintf(format, args...))
}

// Infof() logs a formatted message at the Info level
func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(InfoLevel, "INFO", fmt.Sprintf(format, args...))
}

// Warnf() logs a formatted message at the Warn level
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log(WarnLevel, "WARN", fmt.Sprintf(format, args...))
}

// Errorf() logs a formatted message at the Error level
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(ErrorLevel, "ERROR", fmt.Sprintf(format, args...))
}

// Fatalf() logs a formatted error message and terminates the program
func (l *Logger) Fatalf(format string, args ...interface{}) {
	l.log(ErrorLevel, "FATAL", fmt.Sprintf(format, args...))
	os.Exit(1)
}

// Printf() logs a formatted message without any specific log level or color
func (l *Logger) Printf(format string, args ...interface{}) {
	l.write(fmt.Sprintf(format, args...))
}

// log() filters by level, colors the message, and writes it
func (l *Logger) log(level int32, label, msg string) {
	if l.config.Level > level {
		return
	}
	l.write(colorString(levelColors[label], label+": "+msg))
}

// write() outputs the log message with a timestamp to the configured writer
func (l *Logger) write(msg string) {
	timestamp := color.HiBlackString(time.Now().Format(time.StampMilli))
	if _, err := l.config.Out.Write([]byte(fmt.Sprintf("%s %s\n", timestamp, msg))); err != nil {
		fmt.Println(ErrWriteFile(err))
	}
}

// NewLogger() creates a new Logger instance with the specified configuration and optional data directory path
func NewLogger(config LoggerConfig, dataDirPath ...string) LoggerI {
	if config.Out == nil {
		if dataDirPath == nil || dataDirPath[0] == "" {
			dataDirPath = make([]string, 1)
			dataDirPath[0] = DefaultDataDirPath()
		}
		logPath := filepath.Join(dataDirPath[0], LogDirectory, LogFileName)
		if _, err := os.Stat(logPath); errors.Is(err, os.ErrNotExist) {
			if err = os.MkdirAll(filepath.Join(dataDirPath[0], LogDirectory), os.ModePerm); err != nil {
				panic(err)
			}
		}
		logFile := &lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    1, // megabyte
			MaxBackups: 1500,
			MaxAge:     14, // days
			Compress:   true,
		}
		config.Out = io.MultiWriter(os.Stdout, logFile)
	}
	return &Logger{
		config: config,
	}
}

// NewDefaultLogger() creates a Logger with default settings, logging at the Debug level to stdout
func NewDefaultLogger() LoggerI {
	return NewLogger(LoggerConfig{
		Level: DebugLevel,
		Out:   os.Stdout,
	})
}

// NewNullLogger() creates a Logger that discards all log output
func NewNullLogger() LoggerI {
	return NewLogger(LoggerConfig{
		Level: DebugLevel,
		Out:   io.Discard,
	})
}

// ParseLogLevel() converts a level string from the config file into a logger level
func ParseLogLevel(s string) (int32, ErrorI) {
	switch strings.ToLower(s) {
	case "debug":
		return DebugLevel, nil
	case "", "info":
		return InfoLevel, nil
	case "warn":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	}
	return 0, ErrInvalidLogLevel(s)
}

// colorString() applies a color function to a message, preserving line breaks
func colorString(colorFn func(format string, a ...interface{}) string, msg string) (res string) {
	if colorFn == nil {
		colorFn = color.WhiteString
	}
	lines := strings.Split(msg, "\n")
	for i, line := range lines {
		res += colorFn(line)
		if i != len(lines)-1 {
			res += "\n"
		}
	}
	return
}
