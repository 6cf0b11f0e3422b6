// Package flash defines one-time user messages carried in the session
// between a mutating request and the page that reports its outcome.
package flash

// Level classifies a message for display.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Message is a single pending notification.
type Message struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// Info returns an informational message.
func Info(text string) Message { return Message{Level: LevelInfo, Text: text} }

// Success returns a success message.
func Success(text string) Message { return Message{Level: LevelSuccess, Text: text} }

// Warning returns a warning message.
func Warning(text string) Message { return Message{Level: LevelWarning, Text: text} }

// Error returns an error message.
func Error(text string) Message { return Message{Level: LevelError, Text: text} }
