package options

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"
)

// OutputOptions is the shared --json flag plus a writer for JSON results.
type OutputOptions struct {
	base.OutputOptions
}

func AddOutputArg(cmd *cobra.Command, o *OutputOptions) {
	base.AddOutputArg(cmd, &o.OutputOptions)
}

// Write prints v as indented JSON.
func (o *OutputOptions) Write(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(color.Output, string(b))
	return nil
}
