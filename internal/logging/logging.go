// Package logging defines the leveled logger contract used across the site
// packages. Library code defaults to NoOp; the CLI injects a go-logger
// backed provider.
package logging

// Logger is a leveled, structured logger. Args are key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Provider hands out named loggers.
type Provider interface {
	GetLogger(name string) Logger
}

// Module names used by the site packages.
const (
	RootModule   = "zerxsite"
	BuildModule  = "zerxsite.build"
	BlogModule   = "zerxsite.blog"
	WolaiModule  = "zerxsite.wolai"
	GitHubModule = "zerxsite.github"
	OGModule     = "zerxsite.og"
	HTTPModule   = "zerxsite.http"
)

// ModuleLogger returns the provider's logger for module, or NoOp when no
// provider is supplied. An empty module uses RootModule.
func ModuleLogger(provider Provider, module string) Logger {
	if module == "" {
		module = RootModule
	}
	if provider == nil {
		return NoOp()
	}
	return OrNoOp(provider.GetLogger(module))
}

// OrNoOp returns l, or NoOp when l is nil.
func OrNoOp(l Logger) Logger {
	if l == nil {
		return NoOp()
	}
	return l
}

// NoOp returns a logger that discards everything.
func NoOp() Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ Logger = noopLogger{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
