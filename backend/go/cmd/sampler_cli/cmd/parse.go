package cmd

import (
	"MotifFinderSampler/backend/go/internal/sampler"
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var condition, ssRef string
	cmd := &cobra.Command{
		Use:   "parse [output-dir]",
		Short: "Parse MotifSampler output files into a MotifSet and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			opts := sampler.ParseOptions{Condition: condition, SequenceSetRef: ssRef}
			bg, err := sampler.ReadBackgroundFile(filepath.Join(dir, sampler.BackgroundFile))
			switch {
			case err == nil:
				opts.Background = &bg
			case !errors.Is(err, sampler.ErrMissingOutput):
				return err
			}

			set, err := sampler.ParseOutput(dir, opts)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), set)
		},
	}
	cmd.Flags().StringVar(&condition, "condition", "temp", "condition label of the MotifSet")
	cmd.Flags().StringVar(&ssRef, "ss-ref", "", "sequence set the output was produced from")
	return cmd
}
