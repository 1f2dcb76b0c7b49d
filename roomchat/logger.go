package roomchat

// Logger receives the SDK's diagnostics: connection transitions, suppressed
// duplicate notifications, dropped redeliveries, and anomalous server
// payloads. Fields carry the specifics of each record (room, username,
// error). A client logs nothing until SetLogger installs an implementation.
type Logger interface {
	Debug(msg string, fields map[string]any)
	Info(msg string, fields map[string]any)
	Warn(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
}

// noopLogger is the default until SetLogger is called.
type noopLogger struct{}

func (noopLogger) Debug(string, map[string]any) {}
func (noopLogger) Info(string, map[string]any)  {}
func (noopLogger) Warn(string, map[string]any)  {}
func (noopLogger) Error(string, map[string]any) {}
