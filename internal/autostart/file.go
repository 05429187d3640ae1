package autostart

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/agbru/usagewarn/internal/errors"
)

// FileRegistrar implements Registrar by writing or removing a single file,
// as XDG desktop entries and launchd agents both work that way.
type FileRegistrar struct {
	path    string
	content []byte
}

// Verify interface compliance.
var _ Registrar = (*FileRegistrar)(nil)

// NewXDGRegistrar returns a registrar managing <configDir>/autostart/<id>.desktop.
func NewXDGRegistrar(configDir string, id Identity) *FileRegistrar {
	var b strings.Builder
	b.WriteString("[Desktop Entry]\n")
	b.WriteString("Type=Application\n")
	fmt.Fprintf(&b, "Name=%s\n", id.Name)
	fmt.Fprintf(&b, "Exec=%s\n", quoteExec(id.Executable))
	b.WriteString("Terminal=false\n")
	b.WriteString("X-GNOME-Autostart-enabled=true\n")
	return &FileRegistrar{
		path:    filepath.Join(configDir, "autostart", id.ID+".desktop"),
		content: []byte(b.String()),
	}
}

// NewLaunchAgentRegistrar returns a registrar managing
// <home>/Library/LaunchAgents/<label>.plist.
func NewLaunchAgentRegistrar(home string, id Identity) *FileRegistrar {
	plist := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>%s</string>
	<key>ProgramArguments</key>
	<array>
		<string>%s</string>
	</array>
	<key>RunAtLoad</key>
	<true/>
</dict>
</plist>
`, xmlEscape(id.Label), xmlEscape(id.Executable))
	return &FileRegistrar{
		path:    filepath.Join(home, "Library", "LaunchAgents", id.Label+".plist"),
		content: []byte(plist),
	}
}

// Path returns the managed file location.
func (f *FileRegistrar) Path() string { return f.path }

// SetEnabled writes or removes the managed file.
func (f *FileRegistrar) SetEnabled(enabled bool) error {
	if !enabled {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return apperrors.AutostartError{Op: "disable", Cause: err}
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return apperrors.AutostartError{Op: "enable", Cause: err}
	}
	if err := os.WriteFile(f.path, f.content, 0o644); err != nil {
		return apperrors.AutostartError{Op: "enable", Cause: err}
	}
	return nil
}

// IsEnabled reports whether the managed file exists.
func (f *FileRegistrar) IsEnabled() (bool, error) {
	_, err := os.Stat(f.path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, apperrors.AutostartError{Op: "query", Cause: err}
	}
}

// quoteExec quotes an Exec= argument per the Desktop Entry format when it
// contains characters that would otherwise split or expand it.
func quoteExec(path string) string {
	if !strings.ContainsAny(path, " \t\"'\\$`") {
		return path
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "`", "\\`", `$`, `\$`)
	return `"` + r.Replace(path) + `"`
}

func xmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&apos;")
	return r.Replace(s)
}
