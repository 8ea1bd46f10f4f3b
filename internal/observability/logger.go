package observability

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// EventType defines the category of the log event.
type EventType string

const (
	EventTypeLLMAttempt EventType = "llm_attempt"
	EventTypeLLM        EventType = "llm"
	EventTypeStage      EventType = "stage"
	EventTypeFallback   EventType = "fallback"
	EventTypeDispatch   EventType = "dispatch"
	EventTypeRegistry   EventType = "registry"
	EventTypeGateway    EventType = "gateway"
	EventTypeError      EventType = "error"
)

// Event represents a structured log entry.
type Event struct {
	Type      EventType `json:"type"`
	RequestID string    `json:"request_id,omitempty"`
	TaskType  string    `json:"task_type,omitempty"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// Logger handles structured logging.
type Logger struct {
	out        io.Writer
	llmLogPath string
	maxSize    int64
}

func NewLogger() *Logger {
	return &Logger{
		out:        os.Stdout,
		llmLogPath: filepath.Join("logs", "llm.jsonl"),
		maxSize:    10 * 1024 * 1024, // 10MB
	}
}

// Log emits a structured JSON event to the log stream.
func (l *Logger) Log(evt Event) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}
	data, err := json.Marshal(evt)
	if err != nil {
		fmt.Fprintf(l.out, "{\"error\": \"failed to marshal event: %v\"}\n", err)
		return
	}
	fmt.Fprintln(l.out, string(data))

	if evt.Type == EventTypeLLM {
		l.writeToFile(data)
	}
}

func (l *Logger) writeToFile(data []byte) {
	if err := os.MkdirAll(filepath.Dir(l.llmLogPath), 0755); err != nil {
		log.Printf("failed to create log directory: %v", err)
		return
	}

	// Check size before writing
	info, err := os.Stat(l.llmLogPath)
	if err == nil && info.Size() > l.maxSize {
		l.rotateLogs()
	}

	f, err := os.OpenFile(l.llmLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("failed to open log file: %v", err)
		return
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		log.Printf("failed to write to log file: %v", err)
	}
}

func (l *Logger) rotateLogs() {
	// Simple rotation: keep one .old file
	oldPath := l.llmLogPath + ".old"
	_ = os.Remove(oldPath)
	_ = os.Rename(l.llmLogPath, oldPath)
}

// Helper methods for common events

func (l *Logger) LogLLMAttempt(requestID, candidate, outcome, detail string) {
	l.Log(Event{
		Type:      EventTypeLLMAttempt,
		RequestID: requestID,
		Data: map[string]string{
			"candidate": candidate,
			"outcome":   outcome,
			"detail":    detail,
		},
	})
}

func (l *Logger) LogLLM(requestID, candidate, prompt, response string) {
	l.Log(Event{
		Type:      EventTypeLLM,
		RequestID: requestID,
		Data: map[string]any{
			"candidate": candidate,
			"prompt":    prompt,
			"response":  response,
		},
	})
}

func (l *Logger) LogStage(requestID, stage, status string) {
	l.Log(Event{
		Type:      EventTypeStage,
		RequestID: requestID,
		Data: map[string]string{
			"stage":  stage,
			"status": status,
		},
	})
}

func (l *Logger) LogFallback(requestID, stage, reason string) {
	l.Log(Event{
		Type:      EventTypeFallback,
		RequestID: requestID,
		Data: map[string]string{
			"stage":  stage,
			"reason": reason,
		},
	})
}

func (l *Logger) LogRegistration(taskType string) {
	l.Log(Event{
		Type:     EventTypeRegistry,
		TaskType: taskType,
		Data: map[string]string{
			"status": "registered",
		},
	})
}

func (l *Logger) LogDispatch(requestID, taskType, status string) {
	l.Log(Event{
		Type:      EventTypeDispatch,
		RequestID: requestID,
		TaskType:  taskType,
		Data: map[string]string{
			"status": status,
		},
	})
}

func (l *Logger) LogError(requestID string, err error) {
	l.Log(Event{
		Type:      EventTypeError,
		RequestID: requestID,
		Data:      map[string]string{"error": err.Error()},
	})
}
