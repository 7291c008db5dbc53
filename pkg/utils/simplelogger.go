// Package utils предоставляет простой файловый логгер и вспомогательные функции.
//
// Логгер пишет в .log файл (по умолчанию в текущей директории) строки вида
// [YYYY-MM-DD HH:MM:SS] LEVEL: message key=value. До вызова InitLogger
// все вызовы Info/Warn/Error/Debug ничего не делают, поэтому библиотечный
// код может логировать без явной инициализации.
package utils

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	logOut      io.Writer
	logFile     *os.File
	logMutex    sync.Mutex
	debugOn     bool
	initialized bool
)

// InitLogger создает/открывает .log файл.
//
// Если path пустой, имя файла: fmp-agent-YYYY-MM-DD-HH-MM.log в текущей директории.
func InitLogger(path string) error {
	logMutex.Lock()
	defer logMutex.Unlock()

	if initialized {
		return nil
	}

	if path == "" {
		path = fmt.Sprintf("fmp-agent-%s.log", time.Now().Format("2006-01-02-15-04"))
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	logFile = f
	logOut = f
	initialized = true

	// Пишем напрямую: мьютекс уже захвачен
	writeLine(fmt.Sprintf("[%s] INFO: Logger initialized file=%s\n",
		time.Now().Format("2006-01-02 15:04:05"), path))

	return nil
}

// SetOutput направляет лог в произвольный writer (stderr в CLI, буфер в тестах).
//
// Закрывает ранее открытый файл.
func SetOutput(w io.Writer) {
	logMutex.Lock()
	defer logMutex.Unlock()

	closeFileLocked()
	logOut = w
	initialized = w != nil
}

// SetDebug включает вывод DEBUG сообщений.
func SetDebug(enabled bool) {
	logMutex.Lock()
	defer logMutex.Unlock()
	debugOn = enabled
}

// Info - информационное сообщение.
func Info(msg string, keyvals ...any) {
	log("INFO", msg, keyvals...)
}

// Error - сообщение об ошибке.
func Error(msg string, keyvals ...any) {
	log("ERROR", msg, keyvals...)
}

// Debug - отладочное сообщение. Пишется только после SetDebug(true).
func Debug(msg string, keyvals ...any) {
	logMutex.Lock()
	enabled := debugOn
	logMutex.Unlock()

	if enabled {
		log("DEBUG", msg, keyvals...)
	}
}

// Warn - предупреждение.
func Warn(msg string, keyvals ...any) {
	log("WARN", msg, keyvals...)
}

// log - внутренняя функция записи в лог.
//
// Формат: [YYYY-MM-DD HH:MM:SS] LEVEL: message key1=value1 key2=value2
func log(level, msg string, keyvals ...any) {
	logMutex.Lock()
	defer logMutex.Unlock()

	if logOut == nil {
		return
	}

	line := fmt.Sprintf("[%s] %s: %s", time.Now().Format("2006-01-02 15:04:05"), level, msg)

	for i := 0; i < len(keyvals); i += 2 {
		if i+1 < len(keyvals) {
			line += fmt.Sprintf(" %v=%v", keyvals[i], keyvals[i+1])
		} else {
			line += fmt.Sprintf(" %v=<missing>", keyvals[i])
		}
	}

	writeLine(line + "\n")
}

// writeLine пишет готовую строку, при ошибке - fallback на stderr.
// Вызывается под logMutex.
func writeLine(line string) {
	if _, err := io.WriteString(logOut, line); err != nil {
		fmt.Fprint(os.Stderr, line)
		fmt.Fprintf(os.Stderr, "[LOGGER ERROR: write failed: %v]\n", err)
		return
	}

	if logFile != nil {
		if err := logFile.Sync(); err != nil {
			fmt.Fprintf(os.Stderr, "[LOGGER WARNING: Sync failed: %v]\n", err)
		}
	}
}

// Close закрывает лог-файл.
//
// Вызывается через defer в main().
func Close() {
	logMutex.Lock()
	defer logMutex.Unlock()

	closeFileLocked()
	logOut = nil
	initialized = false
}

func closeFileLocked() {
	if logFile != nil {
		if err := logFile.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "[LOGGER WARNING: Close failed: %v]\n", err)
		}
		logFile = nil
	}
}
