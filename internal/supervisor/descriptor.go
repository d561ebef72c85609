package supervisor

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"text/template"
)

// ErrRender indicates a supervision descriptor or script could not be
// rendered or written.
var ErrRender = errors.New("supervisor: config rendering failed")

// Descriptor is the supervision configuration for one managed program:
// how to start it, who runs it, when to restart it, and where its output
// goes. It is rendered fresh on every provisioning run.
type Descriptor struct {
	Program     string
	Command     string
	Directory   string
	User        string
	AutoStart   bool
	AutoRestart bool
	// StartSecs is the minimum uptime before a start counts as successful.
	StartSecs int
	// StopWaitSecs is the grace period before the supervisor kills.
	StopWaitSecs  int
	StdoutLogfile string
	StderrLogfile string
	LogMaxBytes   int
	LogBackups    int
	Environment   map[string]string
}

const confTemplate = `[program:{{.Program}}]
command={{.Command}}
directory={{.Directory}}
user={{.User}}
autostart={{.AutoStart}}
autorestart={{.AutoRestart}}
startsecs={{.StartSecs}}
stopwaitsecs={{.StopWaitSecs}}
stdout_logfile={{.StdoutLogfile}}
stdout_logfile_maxbytes={{.LogMaxBytes}}
stdout_logfile_backups={{.LogBackups}}
stderr_logfile={{.StderrLogfile}}
stderr_logfile_maxbytes={{.LogMaxBytes}}
stderr_logfile_backups={{.LogBackups}}
{{- if .Environment}}
environment={{range $i, $k := envKeys .Environment}}{{if $i}},{{end}}{{$k}}="{{index $.Environment $k}}"{{end}}
{{- end}}
`

// Generator renders supervision descriptors and development scripts.
type Generator struct {
	logger *slog.Logger
	conf   *template.Template
}

// NewGenerator returns a config generator. Template parsing happens once;
// a parse failure is a programming error and panics at construction.
func NewGenerator(logger *slog.Logger) *Generator {
	conf := template.Must(template.New("conf").Funcs(template.FuncMap{
		"envKeys": sortedKeys,
	}).Parse(confTemplate))
	return &Generator{logger: logger, conf: conf}
}

// Render returns the supervisord program block for the descriptor.
func (g *Generator) Render(d Descriptor) ([]byte, error) {
	var buf bytes.Buffer
	if err := g.conf.Execute(&buf, d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	return buf.Bytes(), nil
}

// WriteConf renders the descriptor and writes it to path, overwriting any
// previous descriptor. The descriptor is regenerated on every run; it is
// never treated as operator-owned state.
func (g *Generator) WriteConf(d Descriptor, path string) error {
	data, err := g.Render(d)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrRender, path, err)
	}
	g.logger.Info("supervision descriptor written", "path", path, "program", d.Program)
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
