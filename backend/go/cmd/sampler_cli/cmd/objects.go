package cmd

import (
	"MotifFinderSampler/backend/go/internal/fastautil"
	"MotifFinderSampler/backend/go/internal/models"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

func newImportCmd(opts *globalOptions) *cobra.Command {
	var workspace, name, description string
	cmd := &cobra.Command{
		Use:   "import [fasta-file]",
		Short: "Import a FASTA file as a sequence set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := fastautil.ReadFile(args[0])
			if err != nil {
				return err
			}
			if len(records) == 0 {
				return fmt.Errorf("%s: %w", args[0], fastautil.ErrEmptySequenceSet)
			}
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}
			set := models.SequenceSet{ID: name, Description: description}
			for _, r := range records {
				set.Sequences = append(set.Sequences, models.Sequence{SequenceID: r.ID, Description: r.Description, Sequence: r.Sequence})
			}

			c, err := newAPIClient(opts)
			if err != nil {
				return err
			}
			var resp struct {
				Ref string `json:"ref"`
			}
			body := map[string]interface{}{"workspace_name": workspace, "name": name, "sequence_set": set}
			if err := c.do(http.MethodPost, "/api/v1/sequencesets", body, &resp); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d sequences as %s\n", len(set.Sequences), resp.Ref)
			return nil
		},
	}
	cmd.Flags().StringVar(&workspace, "workspace", "", "workspace to save the sequence set in")
	cmd.Flags().StringVar(&name, "name", "", "object name (default: file name)")
	cmd.Flags().StringVar(&description, "description", "", "sequence set description")
	_ = cmd.MarkFlagRequired("workspace")
	return cmd
}

func newMotifSetCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "motifset [ref]",
		Short: "Fetch a saved MotifSet by wsid/objid/version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := models.ParseObjectRef(args[0])
			if err != nil {
				return err
			}
			c, err := newAPIClient(opts)
			if err != nil {
				return err
			}
			var resp struct {
				Data models.MotifSet `json:"data"`
			}
			if err := c.do(http.MethodGet, "/api/v1/motifsets/"+ref.String(), nil, &resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp.Data)
		},
	}
}

func newStatusCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show service version and registered workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newAPIClient(opts)
			if err != nil {
				return err
			}
			var status map[string]interface{}
			if err := c.do(http.MethodGet, "/status", nil, &status); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), status)
		},
	}
}
