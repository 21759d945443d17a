package cmd

import (
	"io"

	"github.com/jaffee/commandeer"
	"github.com/spf13/cobra"

	"github.com/sxgraph/sxgraph/convert"
)

// NewSchemaCommand returns a cobra command which prints the active schema
// declaration, so operators can load it into the target store before
// bulk-loading the converted stream.
func NewSchemaCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	main := convert.NewMain()
	schemaCommand := &cobra.Command{
		Use:   "schema",
		Short: "print the schema declaration the converter will apply",
		RunE: func(cmd *cobra.Command, args []string) error {
			return main.WriteSchema(stdout)
		},
	}
	flags := schemaCommand.Flags()
	if err := commandeer.Flags(flags, main); err != nil {
		panic(err)
	}
	return schemaCommand
}

func init() {
	subcommandFns["schema"] = NewSchemaCommand
}
