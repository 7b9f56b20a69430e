package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"tespkg.in/sledkv/pkg/render"
)

func renderCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "render [file]",
		Short: "Render placeholders of a document with store values",
		Long: `Render placeholders of a document with store values, the document is read
from stdin if no file given. Supported placeholders:

  ${tree:// <tree>/<key> }
  ${tree:// <tree>/<key> | default <value> }
  ${kv:// <key> }
  ${kv:// <key> | default <value> }`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return render.Render(cmd.Context(), o.client, in, cmd.OutOrStdout())
		},
	}
}
