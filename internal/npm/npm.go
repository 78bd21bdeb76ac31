// Package npm installs the dependencies of a generated project.
package npm

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Installer runs "npm install" in a project directory
type Installer struct {
	// Command is the npm executable, "npm" when empty
	Command string
}

// NewInstaller creates an installer using the npm found on PATH
func NewInstaller() *Installer {
	return &Installer{Command: "npm"}
}

// Install installs the dependencies declared in dir/package.json
func (i *Installer) Install(ctx context.Context, dir string) error {
	command := i.Command
	if command == "" {
		command = "npm"
	}

	path, err := exec.LookPath(command)
	if err != nil {
		return fmt.Errorf("failed to find %s: %w", command, err)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, "install", "--no-audit", "--no-fund")
	cmd.Dir = dir
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("failed to install dependencies: %w: %s", err, lastLine(msg))
		}
		return fmt.Errorf("failed to install dependencies: %w", err)
	}
	return nil
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
