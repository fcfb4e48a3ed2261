package logging

import (
	"io"

	"github.com/hashicorp/go-hclog"
)

// New builds the root logger. Unknown levels fall back to info.
func New(name, level string, json bool, out io.Writer) hclog.Logger {
	lvl := hclog.LevelFromString(level)
	if lvl == hclog.NoLevel {
		lvl = hclog.Info
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      lvl,
		JSONFormat: json,
		Output:     out,
	})
}
