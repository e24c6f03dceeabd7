// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/creack/pty"
)

type (
	// Shell runs one command line and reports its exit status. A non-nil
	// error means the command could not be run at all.
	Shell interface {
		Name() string
		Run(ctx context.Context, cmd Command) (int, error)
	}

	// Command is everything a shell needs to run one command line.
	Command struct {
		Line string
		// Params become $1, $2, ... in POSIX shells.
		Params []string
		Env    map[string]string
		Dir    string
		Pty    bool
		Stdout io.Writer
		Stderr io.Writer
	}

	// NativeShell runs commands through the host shell.
	NativeShell struct {
		// Path overrides the shell binary.
		Path string
		// Args are passed to the shell before the command line.
		Args []string
	}
)

// NewNativeShell creates a native shell. An empty path selects the platform default.
func NewNativeShell(path string) *NativeShell {
	return &NativeShell{Path: path}
}

// Name returns the shell name.
func (s *NativeShell) Name() string { return "native" }

// Available reports whether a host shell can be found.
func (s *NativeShell) Available() bool {
	_, err := s.shellPath()
	return err == nil
}

// Run executes the command line with the host shell.
func (s *NativeShell) Run(ctx context.Context, c Command) (int, error) {
	shell, err := s.shellPath()
	if err != nil {
		return 1, err
	}

	args := append(s.shellArgs(shell), c.Line)
	args = s.appendParams(shell, args, c.Params)

	cmd := exec.CommandContext(ctx, shell, args...)
	cmd.Dir = c.Dir
	cmd.Env = append(os.Environ(), envSlice(c.Env)...)

	if c.Pty {
		return s.runPty(cmd, c)
	}

	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return 1, fmt.Errorf("failed to execute command: %w", err)
	}
	return 0, nil
}

// runPty attaches the command to a pseudo-terminal. Both of its streams
// arrive merged on the terminal and are written to c.Stdout.
func (s *NativeShell) runPty(cmd *exec.Cmd, c Command) (int, error) {
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return 1, fmt.Errorf("failed to start pty: %w", err)
	}
	defer func() { _ = ptmx.Close() }()

	// Reading the master returns EIO once the child side closes.
	if _, err := io.Copy(c.Stdout, ptmx); err != nil && !errors.Is(err, syscall.EIO) {
		return 1, fmt.Errorf("failed to read pty: %w", err)
	}
	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return 1, fmt.Errorf("failed to execute command: %w", err)
	}
	return 0, nil
}

func (s *NativeShell) shellPath() (string, error) {
	if s.Path != "" {
		return exec.LookPath(s.Path)
	}
	switch runtime.GOOS {
	case "windows":
		if pwsh, err := exec.LookPath("pwsh"); err == nil {
			return pwsh, nil
		}
		if ps, err := exec.LookPath("powershell"); err == nil {
			return ps, nil
		}
		return exec.LookPath("cmd")
	default:
		if bash, err := exec.LookPath("bash"); err == nil {
			return bash, nil
		}
		if sh, err := exec.LookPath("sh"); err == nil {
			return sh, nil
		}
		return "", errors.New("no shell found (tried bash and sh)")
	}
}

func shellBase(shell string) string {
	base := filepath.Base(shell)
	if i := strings.LastIndex(base, "\\"); i >= 0 {
		base = base[i+1:]
	}
	return strings.TrimSuffix(base, ".exe")
}

func (s *NativeShell) shellArgs(shell string) []string {
	if len(s.Args) > 0 {
		return append([]string(nil), s.Args...)
	}
	switch shellBase(shell) {
	case "cmd":
		return []string{"/C"}
	case "powershell", "pwsh":
		return []string{"-NoProfile", "-Command"}
	default:
		return []string{"-c"}
	}
}

// appendParams passes positional parameters after the command line. POSIX
// shells take "invoke" as $0; cmd.exe cannot receive them.
func (s *NativeShell) appendParams(shell string, args, params []string) []string {
	if len(params) == 0 {
		return args
	}
	switch shellBase(shell) {
	case "cmd":
		return args
	case "powershell", "pwsh":
		return append(args, params...)
	default:
		args = append(args, "invoke")
		return append(args, params...)
	}
}
