package main

import (
	"github.com/spf13/cobra"
)

// newRootCommand assembles the wuppiefuzz CLI and its subcommands.
func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "wuppiefuzz",
		Short:         "Grey-box REST API fuzzer driven by an OpenAPI specification",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newVersionCommand(),
		newLicenseCommand(),
		newSBOMCommand(),
		newVerifyAuthCommand(),
		newOutputCorpusCommand(),
		newReproduceCommand(),
		newFuzzCommand(),
	)

	return root
}
