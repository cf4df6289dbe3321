// Package logging provides the daily-rotated writer the application uses
// for decoded message output in streaming mode.
package logging

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// LogRotator writes decoded output to one file per day, compressing the
// previous day's file with gzip when the date rolls over.
type LogRotator struct {
	logDir      string
	useUTC      bool
	logger      *logrus.Logger
	currentFile *os.File
	currentDate string
	mutex       sync.RWMutex
}

// NewLogRotator creates the log directory and opens today's file.
func NewLogRotator(logDir string, useUTC bool, logger *logrus.Logger) (*LogRotator, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	rotator := &LogRotator{
		logDir: logDir,
		useUTC: useUTC,
		logger: logger,
	}
	if err := rotator.rotateLogFile(); err != nil {
		return nil, fmt.Errorf("failed to initialize log file: %w", err)
	}
	return rotator, nil
}

// Start runs the rotation scheduler until ctx is cancelled.
func (r *LogRotator) Start(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Log rotator stopping")
			return
		case <-ticker.C:
			r.checkRotation()
		}
	}
}

func (r *LogRotator) now() time.Time {
	if r.useUTC {
		return time.Now().UTC()
	}
	return time.Now()
}

// checkRotation rotates when the date has changed since the file opened.
func (r *LogRotator) checkRotation() {
	currentDate := r.now().Format("2006-01-02")

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.currentDate != currentDate {
		r.logger.WithFields(logrus.Fields{
			"old_date": r.currentDate,
			"new_date": currentDate,
		}).Info("Rotating log file")

		if err := r.rotateLogFile(); err != nil {
			r.logger.WithError(err).Error("Failed to rotate log file")
		}
	}
}

func (r *LogRotator) fileForDate(date string) string {
	return filepath.Join(r.logDir, fmt.Sprintf("ais_%s.log", date))
}

// rotateLogFile closes the current file, queues its compression and opens
// the file for the current date.
func (r *LogRotator) rotateLogFile() error {
	newDate := r.now().Format("2006-01-02")

	if r.currentFile != nil {
		oldDate := r.currentDate
		if err := r.currentFile.Close(); err != nil {
			r.logger.WithError(err).Error("Failed to close old log file")
		}
		go r.compressLogFile(oldDate)
	}

	path := r.fileForDate(newDate)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to create log file %s: %w", path, err)
	}

	r.currentFile = file
	r.currentDate = newDate
	r.logger.WithField("file", path).Debug("Opened log file")
	return nil
}

// compressLogFile gzips a finished day's file and removes the original.
func (r *LogRotator) compressLogFile(date string) {
	logFile := r.fileForDate(date)
	gzipFile := logFile + ".gz"

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		return
	}

	src, err := os.Open(logFile)
	if err != nil {
		r.logger.WithError(err).WithField("file", logFile).Error("Failed to open source file for compression")
		return
	}
	defer src.Close()

	dst, err := os.Create(gzipFile)
	if err != nil {
		r.logger.WithError(err).WithField("file", gzipFile).Error("Failed to create compressed file")
		return
	}
	defer dst.Close()

	gzWriter := gzip.NewWriter(dst)
	gzWriter.Name = filepath.Base(logFile)
	gzWriter.ModTime = time.Now()

	if _, err := io.Copy(gzWriter, src); err != nil {
		r.logger.WithError(err).Error("Failed to compress log file")
		return
	}
	if err := gzWriter.Close(); err != nil {
		r.logger.WithError(err).Error("Failed to close gzip writer")
		return
	}
	if err := dst.Close(); err != nil {
		r.logger.WithError(err).Error("Failed to close compressed file")
		return
	}

	if err := os.Remove(logFile); err != nil {
		r.logger.WithError(err).WithField("file", logFile).Error("Failed to remove original log file")
		return
	}

	r.logger.WithField("file", gzipFile).Info("Log file compressed")
}

// GetWriter returns the current day's writer.
func (r *LogRotator) GetWriter() (io.Writer, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if r.currentFile == nil {
		return nil, fmt.Errorf("no current log file")
	}
	return r.currentFile, nil
}

// GetCurrentLogFile returns the path of the file currently written.
func (r *LogRotator) GetCurrentLogFile() string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if r.currentDate == "" {
		return ""
	}
	return r.fileForDate(r.currentDate)
}

// GetLogFiles lists every log file in the directory, compressed included.
func (r *LogRotator) GetLogFiles() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(r.logDir, "ais_*.log*"))
	if err != nil {
		return nil, fmt.Errorf("failed to list log files: %w", err)
	}
	return files, nil
}

// CleanupOldLogs removes log files older than maxDays.
func (r *LogRotator) CleanupOldLogs(maxDays int) error {
	if maxDays <= 0 {
		return fmt.Errorf("maxDays must be positive")
	}

	files, err := r.GetLogFiles()
	if err != nil {
		return err
	}

	cutoff := r.now().AddDate(0, 0, -maxDays)
	removed := 0
	for _, file := range files {
		if file == r.GetCurrentLogFile() {
			continue
		}
		info, err := os.Stat(file)
		if err != nil {
			r.logger.WithError(err).WithField("file", file).Warn("Failed to stat log file")
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(file); err != nil {
				r.logger.WithError(err).WithField("file", file).Error("Failed to remove old log file")
			} else {
				removed++
			}
		}
	}

	r.logger.WithField("count", removed).Info("Cleaned up old log files")
	return nil
}

// Close closes the current file.
func (r *LogRotator) Close() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.currentFile != nil {
		if err := r.currentFile.Close(); err != nil {
			return err
		}
		r.currentFile = nil
	}
	return nil
}
