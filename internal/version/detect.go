package version

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"regexp"
	"strings"
)

// Info captures a compiler installed on the system.
type Info struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Banner  string `json:"banner,omitempty"`
}

var versionRegex = regexp.MustCompile(`(\d+\.\d+(?:\.\d+)?)`)

// DetectCompiler returns the version reported by `<name> --version`.
func DetectCompiler(name string) (Info, error) {
	out, err := runCommand(name, "--version")
	if err != nil {
		return Info{Name: name}, err
	}
	return ParseBanner(name, out)
}

// ParseBanner extracts the first dotted version from the first line of a
// `--version` banner, e.g. "g++ (Ubuntu 11.4.0-1ubuntu1~22.04) 11.4.0".
func ParseBanner(name, out string) (Info, error) {
	banner := strings.TrimSpace(out)
	if idx := strings.IndexByte(banner, '\n'); idx != -1 {
		banner = strings.TrimSpace(banner[:idx])
	}
	if idx := strings.Index(banner, "version "); idx != -1 {
		if match := versionRegex.FindString(banner[idx:]); match != "" {
			return Info{Name: name, Version: match, Banner: banner}, nil
		}
	}
	matches := versionRegex.FindAllString(banner, -1)
	if len(matches) == 0 {
		return Info{Name: name, Banner: banner}, fmt.Errorf("unable to parse %s version from %q", name, banner)
	}
	// gcc prints the packaging version first in parentheses; the last match is the release.
	return Info{Name: name, Version: matches[len(matches)-1], Banner: banner}, nil
}

func runCommand(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Stdin = nil
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	if err := cmd.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

// Missing reports whether executing the command returns a not-found error.
func Missing(cmdErr error) bool {
	return errors.Is(cmdErr, exec.ErrNotFound) || errors.Is(cmdErr, fs.ErrNotExist)
}
