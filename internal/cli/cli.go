package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/vk/archetype/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("archetype", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
Archetype - scaffold new projects from declarative archetype catalogs.

Usage:
  archetype [options] ARCHETYPE_PATH

Arguments:
  ARCHETYPE_PATH
    Path to an archetype directory or a .zip archetype archive.

Options:
`)
		flagSet.PrintDefaults()
	}

	properties := map[string]string{}

	outFlag := flagSet.String("out", ".", "Destination directory for the generated project.")
	oFlag := flagSet.String("o", "", "Destination directory (shorthand).")
	addProperty := func(s string) error {
		key, value, found := strings.Cut(s, "=")
		if !found || key == "" {
			return fmt.Errorf("property %q is not in key=value form", s)
		}
		properties[key] = value
		return nil
	}
	flagSet.Func("prop", "Batch property as key=value. Repeatable.", addProperty)
	flagSet.Func("p", "Batch property (shorthand).", addProperty)
	propsFileFlag := flagSet.String("props", "", "Path to a properties file (dotenv format).")
	batchFlag := flagSet.Bool("batch", false, "Force non-interactive mode; never prompt.")
	onMissingFlag := flagSet.String("on-missing", "fail", "Substitution policy for unresolved ${name} references. Options: 'fail', 'empty' or 'keep'.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if flagSet.NArg() == 0 {
		flagSet.Usage()
		return nil, true, nil
	}
	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: "exactly one ARCHETYPE_PATH argument is expected"}
	}

	if *propsFileFlag != "" {
		fileProps, err := godotenv.Read(*propsFileFlag)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("failed to read properties file: %v", err)}
		}
		// Explicit -prop flags win over file entries.
		for key, value := range fileProps {
			if _, ok := properties[key]; !ok {
				properties[key] = value
			}
		}
	}

	outDir := *outFlag
	if *oFlag != "" {
		outDir = *oFlag
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	// Without a terminal there is nobody to answer prompts.
	batch := *batchFlag
	if !batch && !isatty.IsTerminal(os.Stdin.Fd()) {
		batch = true
	}

	config, err := app.NewConfig(app.Config{
		ArchetypePath: flagSet.Arg(0),
		OutputDir:     outDir,
		Properties:    properties,
		Batch:         batch,
		OnMissing:     strings.ToLower(*onMissingFlag),
		LogFormat:     logFormat,
		LogLevel:      logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}
