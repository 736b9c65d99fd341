//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"
)

// maxCapture bounds how much terminal output a test keeps
const maxCapture = 1 << 20

var binPath string // set by TestMain

// Demo account accepted by the mock sign-in
const (
	demoEmail    = "q@quantum.io"
	demoPassword = "qTask123#"
)

// Key constants for better readability
const (
	KeyEnter = "\r"
	KeyTab   = "\t"
	KeyEsc   = "\x1b"
	KeyCtrlC = "\x03"
	KeyDown  = "j"
	KeyUp    = "k"
	KeyNext  = "l"
	KeyPrev  = "h"
	KeyQuit  = "q"
	KeyHelp  = "?"
)

// ANSI escape sequence regex for normalization - covers CSI, OSC, charset, keypad modes
var ansiRe = regexp.MustCompile(
	`(?:\x1b\[[0-9;?]*[ -/]*[@-~])|` + // CSI sequences
		`(?:\x1b\][^\x07]*\x07)|` + // OSC sequences
		`(?:\x1b[\(\)][A-Za-z])|` + // charset sequences
		`(?:\x1b=|\x1b>)|` + // keypad mode sequences
		`\r`, // carriage returns
)

// TUITestFramework drives the userdash binary in a PTY against a fake user API
type TUITestFramework struct {
	t          *testing.T
	pty        *os.File
	cmd        *exec.Cmd
	workspace  string
	configPath string
	api        *fakeAPI

	// Process exit, observed once
	exitOnce sync.Once
	exited   chan struct{}
	exitErr  error

	mu     sync.Mutex
	output []byte
}

// NewTUITest creates a workspace with a config pointing at a fresh fake API
func NewTUITest(t *testing.T) *TUITestFramework {
	t.Helper()
	workspace := t.TempDir()
	tf := &TUITestFramework{
		t:          t,
		api:        newFakeAPI(t),
		workspace:  workspace,
		configPath: filepath.Join(workspace, "config.toml"),
	}
	tf.WriteConfig("")
	return tf
}

// WriteConfig writes the test config; extra is appended as raw TOML
func (tf *TUITestFramework) WriteConfig(extra string) {
	tf.t.Helper()
	cfg := fmt.Sprintf(`version = 1

[api]
base_url = %q
seed = "e2e"
timeout = "5s"

[ui]
theme = "light"
page_size = 10
page_size_options = [5, 10, 25, 50]
debounce = "200ms"

[auth]
session_file = %q
signing_key = "e2e-signing-key"

[log]
file = %q
level = "debug"
%s`, tf.api.URL(), filepath.Join(tf.workspace, "session.toml"), filepath.Join(tf.workspace, "userdash.log"), extra)

	if err := os.WriteFile(tf.configPath, []byte(cfg), 0o644); err != nil {
		tf.t.Fatalf("write config: %v", err)
	}
}

// ReadConfig returns the config file as the app last saved it
func (tf *TUITestFramework) ReadConfig() string {
	tf.t.Helper()
	data, err := os.ReadFile(tf.configPath)
	if err != nil {
		tf.t.Fatalf("read config: %v", err)
	}
	return string(data)
}

func (tf *TUITestFramework) command(args ...string) *exec.Cmd {
	cmd := exec.Command(binPath, append([]string{"--config", tf.configPath}, args...)...)
	cmd.Dir = tf.workspace
	cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"LC_ALL=C.UTF-8",
		"LANG=C.UTF-8",
		"HOME="+tf.workspace,
		"USERDASH_API_URL=",
		"USERDASH_SEED=",
		"USERDASH_LOG_LEVEL=",
		"USERDASH_THEME=",
		"USERDASH_PASSWORD="+demoPassword,
	)
	return cmd
}

// SignIn stores a session with the login subcommand so the dashboard opens on the users page
func (tf *TUITestFramework) SignIn() error {
	tf.t.Helper()
	out, err := tf.command("login", "--email", demoEmail).CombinedOutput()
	if err != nil {
		return fmt.Errorf("login: %w\n%s", err, out)
	}
	return nil
}

// StartApp launches the dashboard in a 40x120 terminal
func (tf *TUITestFramework) StartApp(args ...string) error {
	tf.cmd = tf.command(args...)
	f, err := pty.StartWithSize(tf.cmd, &pty.Winsize{Rows: 40, Cols: 120})
	if err != nil {
		return fmt.Errorf("start userdash: %w", err)
	}
	tf.pty = f
	go tf.capture(f)
	return nil
}

// capture appends terminal output until the PTY closes
func (tf *TUITestFramework) capture(f *os.File) {
	chunk := make([]byte, 8192)
	for {
		n, err := f.Read(chunk)
		if n > 0 {
			tf.mu.Lock()
			tf.output = append(tf.output, chunk[:n]...)
			if over := len(tf.output) - maxCapture; over > 0 {
				tf.output = tf.output[over:]
			}
			tf.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

// SendKeys writes raw input to the terminal
func (tf *TUITestFramework) SendKeys(keys string) error {
	tf.t.Helper()
	_, err := tf.pty.Write([]byte(keys))
	return err
}

// Type sends text one key at a time, like a person typing
func (tf *TUITestFramework) Type(text string) {
	tf.t.Helper()
	for _, r := range text {
		_ = tf.SendKeys(string(r))
		time.Sleep(20 * time.Millisecond)
	}
}

func (tf *TUITestFramework) SendCtrlC() error { return tf.SendKeys(KeyCtrlC) }
func (tf *TUITestFramework) Quit() error      { return tf.SendKeys(KeyQuit) }
func (tf *TUITestFramework) Enter() error     { return tf.SendKeys(KeyEnter) }
func (tf *TUITestFramework) Down() error      { return tf.SendKeys(KeyDown) }

// Esc sends a lone escape. The pause keeps it from merging with the next
// key into an alt sequence.
func (tf *TUITestFramework) Esc() error {
	tf.t.Helper()
	err := tf.SendKeys(KeyEsc)
	time.Sleep(100 * time.Millisecond)
	return err
}

// ReadyLogin waits for the sign-in form
func (tf *TUITestFramework) ReadyLogin() bool {
	tf.t.Helper()
	return tf.OutputContainsPlain("Sign in to userdash", 5*time.Second)
}

// ReadyUsers waits for the first page of users
func (tf *TUITestFramework) ReadyUsers() bool {
	tf.t.Helper()
	return tf.OutputContainsPlain("results", 5*time.Second) &&
		tf.OutputContainsPlain("Press ? for help", 5*time.Second)
}

// SeePlain waits up to 3s for text to appear
func (tf *TUITestFramework) SeePlain(text string) bool {
	tf.t.Helper()
	return tf.OutputContainsPlain(text, 3*time.Second)
}

// ClearOutput forgets everything captured so far. The renderer only
// repaints lines that change, so assert on text that is redrawn.
func (tf *TUITestFramework) ClearOutput() {
	tf.mu.Lock()
	defer tf.mu.Unlock()
	tf.output = tf.output[:0]
}

// OutputContainsPlain reports whether text shows up, ANSI stripped, within timeout
func (tf *TUITestFramework) OutputContainsPlain(text string, timeout time.Duration) bool {
	tf.t.Helper()
	return tf.WaitFor(func(s string) bool {
		return strings.Contains(ansiRe.ReplaceAllString(s, ""), text)
	}, timeout)
}

// WaitFor polls the captured output until pred holds or timeout passes
func (tf *TUITestFramework) WaitFor(pred func(string) bool, timeout time.Duration) bool {
	tf.t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		if pred(tf.Snapshot()) {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(25 * time.Millisecond)
	}
}

// WaitForExit waits for the process to exit and returns its error
func (tf *TUITestFramework) WaitForExit(timeout time.Duration) (error, bool) {
	tf.exitOnce.Do(func() {
		tf.exited = make(chan struct{})
		cmd := tf.cmd
		go func() {
			tf.exitErr = cmd.Wait()
			close(tf.exited)
		}()
	})
	select {
	case <-tf.exited:
		return tf.exitErr, true
	case <-time.After(timeout):
		return nil, false
	}
}

// Snapshot returns everything captured since the last ClearOutput
func (tf *TUITestFramework) Snapshot() string {
	tf.mu.Lock()
	defer tf.mu.Unlock()
	return string(tf.output)
}

// Cleanup closes the PTY and stops the application. The workspace is
// removed by the testing package.
func (tf *TUITestFramework) Cleanup() {
	if tf.t.Failed() {
		tail := ansiRe.ReplaceAllString(tf.Snapshot(), "")
		if len(tail) > 4096 {
			tail = tail[len(tail)-4096:]
		}
		tf.t.Logf("terminal tail:\n%s", tail)
	}
	if tf.pty != nil {
		_ = tf.pty.Close()
		tf.pty = nil
	}
	if tf.cmd != nil && tf.cmd.Process != nil {
		_ = tf.cmd.Process.Kill()
		_, _ = tf.WaitForExit(2 * time.Second)
		tf.cmd = nil
	}
}
