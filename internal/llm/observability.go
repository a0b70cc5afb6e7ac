package llm

import "github.com/sirupsen/logrus"

// CallEvent records metadata about a single API invocation.
type CallEvent struct {
	Task      TaskType
	Model     string
	Attempts  int
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer receives events about LLM calls for logging and metrics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes call events through a logrus logger.
type LogObserver struct {
	log *logrus.Logger
}

// NewLogObserver creates an Observer that logs events to log.
func NewLogObserver(log *logrus.Logger) *LogObserver {
	return &LogObserver{log: log}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	fields := logrus.Fields{
		"task":       event.Task,
		"model":      event.Model,
		"attempts":   event.Attempts,
		"latency_ms": event.LatencyMs,
	}
	if event.Success {
		o.log.WithFields(fields).Debug("llm call completed")
		return
	}
	fields["error_code"] = event.ErrorCode
	o.log.WithFields(fields).Warn("llm call failed")
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
