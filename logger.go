package sampledist

// Logger describes a logging interface allowing to implement different external, or custom logger.
// Uber's Zap satisfies it through zap.NewStdLog.
type Logger interface {
	Printf(format string, v ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}
