// Command fsrctl runs the report form functions against local files without
// a server or a database: listing the bundled templates, materializing an
// empty form, reconciling a stored record and exporting it to Excel.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fsrctl",
		Short:         "Offline tools for equipment service report forms",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newCatalogCmd(),
		newMaterializeCmd(),
		newReconcileCmd(),
		newRecoverCmd(),
		newExportCmd(),
	)

	return root
}
