package i

// Logger is the logging surface components depend on.
type Logger interface {
	Debug(string)
	Info(string)
	Warning(string)
	Error(string)
}
