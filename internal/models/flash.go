package models

// Level is the severity attached to a one-shot user message.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelDanger  Level = "danger"
)

type Flash struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}
