package supervisor

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

// ScriptSet describes the development-mode start/stop scripts. They stand
// in for the supervisor on a workstation: same command lines, no daemon.
type ScriptSet struct {
	Dir        string
	VenvDir    string
	ProjectDir string
	EntryPoint string
	WebHost    string
	WebPort    int
}

var startTemplate = template.Must(template.New("start").Parse(`#!/bin/bash
cd "{{.ProjectDir}}"
source "{{.VenvDir}}/bin/activate"
exec python {{.EntryPoint}} --mode {{.Mode}}{{if .Web}} --host {{.WebHost}} --port {{.WebPort}}{{end}}
`))

var stopTemplate = template.Must(template.New("stop").Parse(`#!/bin/bash
pkill -f {{.EntryPoint}} || true
echo "all {{.EntryPoint}} processes stopped"
`))

type startParams struct {
	ProjectDir string
	VenvDir    string
	EntryPoint string
	Mode       string
	Web        bool
	WebHost    string
	WebPort    int
}

// WriteScripts renders the four scripts into s.Dir with mode 0755,
// overwriting previous versions. Returns the written paths.
func (g *Generator) WriteScripts(s ScriptSet) ([]string, error) {
	modes := []struct {
		file string
		mode string
		web  bool
	}{
		{"start-bot", "bot", false},
		{"start-web", "web", true},
		{"start-both", "both", true},
	}

	var written []string
	for _, m := range modes {
		var buf bytes.Buffer
		err := startTemplate.Execute(&buf, startParams{
			ProjectDir: s.ProjectDir,
			VenvDir:    s.VenvDir,
			EntryPoint: s.EntryPoint,
			Mode:       m.mode,
			Web:        m.web,
			WebHost:    s.WebHost,
			WebPort:    s.WebPort,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: render %s: %v", ErrRender, m.file, err)
		}
		path := filepath.Join(s.Dir, m.file)
		if err := os.WriteFile(path, buf.Bytes(), 0o755); err != nil {
			return nil, fmt.Errorf("%w: write %s: %v", ErrRender, path, err)
		}
		written = append(written, path)
	}

	var buf bytes.Buffer
	if err := stopTemplate.Execute(&buf, struct{ EntryPoint string }{s.EntryPoint}); err != nil {
		return nil, fmt.Errorf("%w: render stop-all: %v", ErrRender, err)
	}
	path := filepath.Join(s.Dir, "stop-all")
	if err := os.WriteFile(path, buf.Bytes(), 0o755); err != nil {
		return nil, fmt.Errorf("%w: write %s: %v", ErrRender, path, err)
	}
	written = append(written, path)

	g.logger.Info("development scripts written", "dir", s.Dir, "count", len(written))
	return written, nil
}
