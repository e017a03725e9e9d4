package framework

import (
	"fmt"
	"io"
	"sync"
	"time"
)

const timestampFormat = "2006-01-02 15:04:05.000"

// Logger is the minimal logging interface used by the albums client, the harness and the checks.
// *log.Logger satisfies it.
type Logger interface {
	Printf(message string, args ...interface{})
}

type nullLogger struct{}

func (n nullLogger) Printf(message string, args ...interface{}) {}

func NullLogger() Logger { return nullLogger{} }

// StdLogger returns a Logger for output that is not tied to a single check, such as requests
// received by the built-in mock service. Lines are stamped the same way as CapturedOutput.Dump
// stamps a check's debug output, so the two can be read side by side.
func StdLogger(dest io.Writer, prefix string) Logger {
	return &writerLogger{dest: dest, prefix: prefix, now: time.Now}
}

type writerLogger struct {
	dest   io.Writer
	prefix string
	now    func() time.Time
	lock   sync.Mutex
}

func (l *writerLogger) Printf(message string, args ...interface{}) {
	m := CapturedMessage{Time: l.now(), Message: fmt.Sprintf(message, args...)}
	l.lock.Lock()
	CapturedOutput{m}.Dump(l.dest, l.prefix)
	l.lock.Unlock()
}

// CapturedMessage is one line of a check's debug output, typically a request the albums client
// sent or the status and body it got back.
type CapturedMessage struct {
	Time    time.Time
	Message string
}

type CapturedOutput []CapturedMessage

// CapturingLogger holds a check's debug output until the check has finished, when the console
// decides whether to show it based on -debug and -debug-all.
type CapturingLogger struct {
	output []CapturedMessage
	lock   sync.Mutex
}

func (l *CapturingLogger) Printf(message string, args ...interface{}) {
	l.lock.Lock()
	l.output = append(l.output, CapturedMessage{Time: time.Now(), Message: fmt.Sprintf(message, args...)})
	l.lock.Unlock()
}

func (l *CapturingLogger) Output() CapturedOutput {
	l.lock.Lock()
	ret := append([]CapturedMessage(nil), l.output...)
	l.lock.Unlock()
	return ret
}

func (output CapturedOutput) Dump(dest io.Writer, prefix string) {
	for _, m := range output {
		fmt.Fprintf(dest, "%s[%s] %s\n",
			prefix,
			m.Time.Format(timestampFormat),
			m.Message,
		)
	}
}
