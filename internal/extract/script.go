package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sylly/backend/internal/models"
)

// DefaultTimeout bounds a collaborator run when none is configured.
const DefaultTimeout = 2 * time.Minute

// ScriptExtractor runs an external program as
// "<Interpreter> <Args...> <Script> <path>" and parses its combined output.
// Arguments are passed as argv, never through a shell.
type ScriptExtractor struct {
	Interpreter string
	Args        []string
	Script      string
	Timeout     time.Duration

	log *logrus.Entry
}

// NewScriptExtractor creates an extractor for the given collaborator. An empty
// interpreter runs the script directly.
func NewScriptExtractor(interpreter string, args []string, script string, timeout time.Duration) *ScriptExtractor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ScriptExtractor{
		Interpreter: interpreter,
		Args:        args,
		Script:      script,
		Timeout:     timeout,
		log:         logrus.WithField("component", "extract"),
	}
}

// Extract runs the collaborator against path.
func (s *ScriptExtractor) Extract(ctx context.Context, path string) ([]models.Event, error) {
	name, args, err := s.command(path)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, name, args...)
	// a killed interpreter may leave children holding the output pipe
	cmd.WaitDelay = 2 * time.Second

	start := time.Now()
	output, runErr := cmd.CombinedOutput()
	elapsed := time.Since(start)

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		s.log.WithFields(logrus.Fields{"file": path, "timeout": s.Timeout}).Warn("extraction timed out")
		return nil, &Error{
			Kind:    ErrTimeout,
			Message: fmt.Sprintf("Extraction timed out after %s", s.Timeout),
			Err:     runErr,
		}
	}

	entry := s.log.WithFields(logrus.Fields{
		"file":       path,
		"bytes":      len(output),
		"elapsed_ms": elapsed.Milliseconds(),
	})
	if runErr != nil {
		// a non-zero exit may still carry an {"error": ...} document
		entry = entry.WithError(runErr)
	}
	entry.Debug("extraction finished")

	events, err := Parse(output)
	if err != nil {
		var extractErr *Error
		if errors.As(err, &extractErr) && extractErr.Kind == ErrProcess && runErr != nil {
			extractErr.Err = runErr
		}
		return nil, err
	}
	return events, nil
}

// command resolves the program and arguments, failing when either the
// interpreter or the script cannot be found.
func (s *ScriptExtractor) command(path string) (string, []string, error) {
	if s.Script == "" {
		return "", nil, scriptMissing("", errors.New("no extraction script configured"))
	}
	if _, err := os.Stat(s.Script); err != nil {
		return "", nil, scriptMissing(s.Script, err)
	}

	if s.Interpreter == "" {
		return s.Script, []string{path}, nil
	}

	interpreter, err := exec.LookPath(s.Interpreter)
	if err != nil {
		return "", nil, scriptMissing(s.Interpreter, err)
	}

	args := make([]string, 0, len(s.Args)+2)
	args = append(args, s.Args...)
	args = append(args, s.Script, path)
	return interpreter, args, nil
}
