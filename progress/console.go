package progress

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ConsoleReporter implements Reporter using logrus as the underlying
// structured logger. Every call is tagged with component=progress and,
// when set, package/environment fields; the rendered line is the
// indented, human-oriented transcript §4.7 describes, with the
// severity driving which logrus level (and therefore which writer,
// stdout or stderr) carries it.
type ConsoleReporter struct {
	logger      *logrus.Logger
	Package     string
	Environment string
	NoColor     bool
}

// NewConsoleReporter builds a ConsoleReporter. format is "text" or
// "json"; level is one of debug|info|warn|error.
func NewConsoleReporter(format, level string, noColor bool) *ConsoleReporter {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	switch strings.ToLower(level) {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "warn":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}

	if strings.ToLower(format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{DisableColors: noColor, DisableTimestamp: true})
	}

	logger.AddHook(&streamSplitHook{})

	return &ConsoleReporter{logger: logger, NoColor: noColor}
}

// WithPackage returns a copy of r scoped to package/environment fields,
// for the orchestrator to tag per-node progress without re-threading
// field maps through every call site.
func (r *ConsoleReporter) WithPackage(pkg, env string) *ConsoleReporter {
	return &ConsoleReporter{logger: r.logger, Package: pkg, Environment: env, NoColor: r.NoColor}
}

func (r *ConsoleReporter) entry() *logrus.Entry {
	fields := logrus.Fields{"component": "progress"}
	if r.Package != "" {
		fields["package"] = r.Package
	}
	if r.Environment != "" {
		fields["environment"] = r.Environment
	}
	return r.logger.WithFields(fields)
}

func indent(level Level, text string) string {
	return strings.Repeat(" ", level.Indent()) + text
}

func (r *ConsoleReporter) Info(level Level, text string) {
	r.entry().Info(indent(level, text))
}

func (r *ConsoleReporter) Success(level Level, text string) {
	r.entry().WithField("outcome", "success").Info(indent(level, "✓ "+text))
}

func (r *ConsoleReporter) Warn(text string) {
	r.entry().Warn(text)
}

func (r *ConsoleReporter) Error(text string) {
	r.entry().Error(text)
}

func (r *ConsoleReporter) PrintVerbose(level Level, text string) {
	r.entry().Debug(indent(level, text))
}

func (r *ConsoleReporter) Status(level Level, text string, duration time.Duration) {
	r.entry().WithField("duration", duration.String()).Info(indent(level, text))
}

// streamSplitHook routes Error-and-above records to stderr and
// everything else to stdout, the same stream-separation convention the
// rest of this codebase's logging infrastructure uses.
type streamSplitHook struct{}

func (h *streamSplitHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *streamSplitHook) Fire(entry *logrus.Entry) error {
	line, err := entry.Logger.Formatter.Format(entry)
	if err != nil {
		return err
	}
	if entry.Level <= logrus.ErrorLevel {
		_, err = os.Stderr.Write(line)
	} else {
		_, err = os.Stdout.Write(line)
	}
	return err
}

var _ Reporter = (*ConsoleReporter)(nil)
