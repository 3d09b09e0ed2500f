package app

import (
	"io"
	"log/slog"

	"github.com/vk/archetype/internal/input"
	"github.com/vk/archetype/internal/props"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	inR    io.Reader
	outW   io.Writer
	logger *slog.Logger
	config *Config
}

// New is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger. inR is where the
// interactive input source reads answers from, normally os.Stdin.
func New(inR io.Reader, outW io.Writer, config *Config) *App {
	logger := newLogger(config.LogLevel, config.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	return &App{
		inR:    inR,
		outW:   outW,
		logger: logger,
		config: config,
	}
}

// inputSource picks the input-collection collaborator for the run.
func (a *App) inputSource() input.Source {
	if a.config.Batch {
		return &input.Batch{}
	}
	return input.NewConsole(a.inR, a.outW)
}

// substitutionPolicy maps the configured on-missing mode to a props.Policy.
func (a *App) substitutionPolicy() props.Policy {
	switch a.config.OnMissing {
	case "empty":
		return props.PolicyEmpty
	case "keep":
		return props.PolicyKeep
	default:
		return props.PolicyFail
	}
}
