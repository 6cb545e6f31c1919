package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/tabledb/types"
)

func newDescribeTypeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "describe-type <type>",
		Short:   "Print the canonical form of a column type",
		Example: "  tabledb describe-type \"vector,5,float\"",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := types.ParseDataType(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), t)
			return err
		},
	}
}
