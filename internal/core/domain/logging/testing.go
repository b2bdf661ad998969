package logging

import (
	"context"
	"sync"
)

const (
	DEBUG   = "debug"
	INFO    = "info"
	WARNING = "warning"
	ERROR   = "error"
)

type FakeLoggerRecord struct {
	Level   string
	Msg     string
	Entries []LogEntry
}

type FakeLogger struct {
	Logged []FakeLoggerRecord
	lock   sync.RWMutex
}

func NewFakeLogger() *FakeLogger {
	return &FakeLogger{}
}

func (l *FakeLogger) Debug(ctx context.Context, msg string, entries ...LogEntry) {
	l.log(DEBUG, msg, entries...)
}

func (l *FakeLogger) Info(ctx context.Context, msg string, entries ...LogEntry) {
	l.log(INFO, msg, entries...)
}

func (l *FakeLogger) Warning(ctx context.Context, msg string, entries ...LogEntry) {
	l.log(WARNING, msg, entries...)
}

func (l *FakeLogger) Error(ctx context.Context, msg string, entries ...LogEntry) {
	l.log(ERROR, msg, entries...)
}

func (l *FakeLogger) CountByLevel(level string) int {
	l.lock.RLock()
	defer l.lock.RUnlock()
	count := 0
	for _, r := range l.Logged {
		if r.Level == level {
			count++
		}
	}
	return count
}

func (l *FakeLogger) log(level string, msg string, entries ...LogEntry) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.Logged = append(l.Logged, FakeLoggerRecord{
		Level:   level,
		Msg:     msg,
		Entries: entries,
	})
}
