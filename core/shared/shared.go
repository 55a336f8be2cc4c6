package shared

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// SplitList splits comma separated user input, trimming entries and dropping
// empty ones. Order and duplicates are kept.
func SplitList(text string) []string {
	out := []string{}
	for _, part := range strings.Split(text, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SplitLists applies SplitList to every value, so repeated flags and
// comma separated values can be mixed.
func SplitLists(values []string) []string {
	out := []string{}
	for _, v := range values {
		out = append(out, SplitList(v)...)
	}
	return out
}

// OpenerCommand returns the platform command that opens a folder in the
// desktop file manager.
func OpenerCommand(goos, dir string) (string, []string) {
	switch goos {
	case "windows":
		return "explorer", []string{dir}
	case "darwin":
		return "open", []string{dir}
	default:
		return "xdg-open", []string{dir}
	}
}

func OpenFolder(dir string) error {
	name, args := OpenerCommand(runtime.GOOS, dir)
	if err := exec.Command(name, args...).Start(); err != nil {
		return fmt.Errorf("failed to open %s: %w", dir, err)
	}
	return nil
}
