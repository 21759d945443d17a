package cmd

import (
	"io"
	"log"
	"time"

	"github.com/jaffee/commandeer"
	"github.com/spf13/cobra"

	"github.com/sxgraph/sxgraph/convert"
)

// ConvertMain is wrapped by NewConvertCommand and only exported for testing
// purposes.
var ConvertMain *convert.Main

// NewConvertCommand returns a new cobra command wrapping ConvertMain.
func NewConvertCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	ConvertMain = convert.NewMain()
	convertCommand := &cobra.Command{
		Use:   "convert",
		Short: "convert a StackExchange dump directory to a gzipped RDF triple stream",
		Long: `Streams each dump table (Badges, Comments, Posts, PostHistory,
PostLinks, Tags, Users), interns cross-table references into dense node
ids, and writes one N-Triples statement per line through gzip.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			if err := ConvertMain.Run(); err != nil {
				return err
			}
			log.Println("Done: ", time.Since(start))
			return nil
		},
	}
	flags := convertCommand.Flags()
	if err := commandeer.Flags(flags, ConvertMain); err != nil {
		panic(err)
	}
	return convertCommand
}

func init() {
	subcommandFns["convert"] = NewConvertCommand
}
