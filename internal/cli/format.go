package cli

import (
	"github.com/spf13/pflag"

	"github.com/shinji-kodama/quick-proj/internal/model"
)

// formatValue adapts model.OutputFormat to pflag.Value so that an invalid
// --format is rejected while flags are parsed.
type formatValue struct {
	format *model.OutputFormat
}

var _ pflag.Value = (*formatValue)(nil)

func newFormatValue(def model.OutputFormat, p *model.OutputFormat) *formatValue {
	*p = def
	return &formatValue{format: p}
}

func (v *formatValue) String() string {
	if v.format == nil {
		return ""
	}
	return v.format.String()
}

func (v *formatValue) Set(s string) error {
	f, err := model.ParseOutputFormat(s)
	if err != nil {
		return err
	}
	*v.format = f
	return nil
}

func (v *formatValue) Type() string {
	return "format"
}

// effectiveFormat resolves the output format of a command: the global
// --json flag forces JSON.
func effectiveFormat(f model.OutputFormat) model.OutputFormat {
	if IsJSONOutput() {
		return model.FormatJSON
	}
	return f
}
