// Package guest generates the second-stage installer script executed inside
// a newly created container.
package guest

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/jaspreet-dot-casa/lxcup/pkg/apps"
)

//go:embed installer.sh.tmpl
var installerTmpl string

// ScriptPath is where the installer script lands inside the container.
const ScriptPath = "/root/lxcup-install.sh"

// UnitDir is the guest directory unit files are pushed into.
const UnitDir = "/etc/systemd/system"

var tmpl = template.Must(
	template.New("installer").
		Funcs(template.FuncMap{"join": strings.Join}).
		Parse(installerTmpl),
)

// RenderInstaller produces the installer script for an application. The
// script's final stdout line is the container's assigned IPv4 address.
func RenderInstaller(app *apps.App) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, app); err != nil {
		return nil, fmt.Errorf("failed to render installer script for %s: %w", app.Name, err)
	}
	return buf.Bytes(), nil
}

// UnitPath returns the destination of an app's systemd unit inside the guest.
func UnitPath(app *apps.App) string {
	return UnitDir + "/" + app.UnitName
}
