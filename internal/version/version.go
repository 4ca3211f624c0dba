// Package version provides build version information and runtime metadata.
package version

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Set via -ldflags at build time.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)

const gitTimeout = 2 * time.Second

var (
	execCommand = exec.CommandContext

	mu       sync.Mutex
	once     sync.Once
	resolved struct {
		version string
		commit  string
		date    string
	}
)

func ensureInitialized() {
	mu.Lock()
	defer mu.Unlock()
	once.Do(func() {
		resolved.version = Version
		resolved.commit = Commit
		resolved.date = Date
		if resolved.date == "" {
			resolved.date = time.Now().Format("2006-01-02")
		}
		if resolved.commit == "" {
			resolved.commit = gitCommit()
		}
		if resolved.version == "" {
			resolved.version = gitVersion()
		}
	})
}

// reset discards resolved values so the next accessor resolves them again.
func reset() {
	mu.Lock()
	defer mu.Unlock()
	once = sync.Once{}
	resolved.version, resolved.commit, resolved.date = "", "", ""
}

func git(args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), gitTimeout)
	defer cancel()

	cmd := execCommand(ctx, "git", args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.String()), nil
}

func gitCommit() string {
	commit, err := git("describe", "--always", "--dirty")
	if err != nil || commit == "" {
		return "unknown"
	}
	return commit
}

func gitVersion() string {
	v, err := git("describe", "--tags", "--abbrev=0")
	if err != nil || v == "" {
		return "dev"
	}
	return strings.TrimPrefix(v, "v")
}

// GetVersion returns the release version, "dev" when untagged.
func GetVersion() string {
	ensureInitialized()
	return resolved.version
}

// GetCommit returns the git commit the binary was built from.
func GetCommit() string {
	ensureInitialized()
	return resolved.commit
}

// GetDate returns the build date.
func GetDate() string {
	ensureInitialized()
	return resolved.date
}

// Info returns a one line description for --version.
func Info() string {
	ensureInitialized()
	return fmt.Sprintf("vault-dashboard-tui %s (commit: %s, built: %s, %s/%s)",
		resolved.version, resolved.commit, resolved.date, runtime.GOOS, runtime.GOARCH)
}
