package cmd

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/ictalent/talent-network/common/errs"
	"github.com/ictalent/talent-network/core/constants"
	"github.com/ictalent/talent-network/modules/tokenfactory"
	"github.com/spf13/cobra"
)

var versions = map[string]string{
	"":             constants.Version,
	"tokenfactory": tokenfactory.Version,
}

type versionCmdOptions struct {
	Modules string
}

func NewVersionCommand() *cobra.Command {
	opts := &versionCmdOptions{}

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show talent-network version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return versionHandler(opts, cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Modules, "module", "", `Show version of a specific module. E.g. "tokenfactory"`)

	return cmd
}

func versionHandler(opts *versionCmdOptions, cmd *cobra.Command, _ []string) error {
	version, ok := versions[opts.Modules]
	if !ok {
		return errors.Wrap(errs.Unsupported, "Invalid module name")
	}
	fmt.Fprintln(cmd.OutOrStdout(), version)
	return nil
}
