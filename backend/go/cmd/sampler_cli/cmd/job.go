package cmd

import (
	"MotifFinderSampler/backend/go/internal/models"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newJobCmd(opts *globalOptions) *cobra.Command {
	jobCmd := &cobra.Command{
		Use:   "job",
		Short: "Submit and inspect motif discovery jobs",
	}
	jobCmd.AddCommand(newSubmitCmd(opts), newGetCmd(opts), newListCmd(opts), newWatchCmd(opts))
	return jobCmd
}

func newSubmitCmd(opts *globalOptions) *cobra.Command {
	var (
		params     models.DiscoverParams
		background bool
		testMode   bool
		mask       bool
		watch      bool
	)
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a DiscoverMotifsFromSequenceSet job",
		RunE: func(cmd *cobra.Command, args []string) error {
			if mask {
				params.MaskRepeats = 1
			}
			if testMode {
				params.TestFlag = 1
			}
			if background {
				params.BackgroundGroup = &models.BackgroundGroup{Background: 1, GenomeRef: params.GenomeRef}
			}
			c, err := newAPIClient(opts)
			if err != nil {
				return err
			}
			var resp struct {
				TaskID string `json:"task_id"`
			}
			if err := c.do(http.MethodPost, "/api/v1/jobs", params, &resp); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Job submitted successfully!\nTask ID: %s\n", resp.TaskID)
			if !watch {
				fmt.Fprintf(out, "To watch for results, run: sampler-cli job watch %s\n", resp.TaskID)
				return nil
			}
			return watchJobs(c, resp.TaskID, out)
		},
	}
	f := cmd.Flags()
	f.StringVar(&params.WorkspaceName, "workspace", "", "workspace to save results in")
	f.StringVar(&params.SSRef, "ss-ref", "", "sequence set reference (wsid/objid/version)")
	f.StringVar(&params.ObjName, "obj-name", "", "name of the MotifSet object to create")
	f.StringVar(&params.GenomeRef, "genome-ref", "", "genome used for the background model")
	f.IntVar(&params.MotifLength, "motif-length", 0, "motif width (default from server config)")
	f.IntVar(&params.MotifMinLength, "motif-min-length", 0, "minimum motif width")
	f.IntVar(&params.MotifMaxLength, "motif-max-length", 0, "maximum motif width")
	f.IntVar(&params.PromoterLength, "promoter-length", 0, "promoter length of the sequence set")
	f.BoolVar(&mask, "mask-repeats", false, "mask lowercase repeats before discovery")
	f.BoolVar(&background, "background", false, "build the background model from the genome")
	f.BoolVar(&testMode, "test", false, "use the server's local test genome")
	f.BoolVar(&watch, "watch", false, "wait for the job to finish")
	_ = cmd.MarkFlagRequired("workspace")
	_ = cmd.MarkFlagRequired("ss-ref")
	_ = cmd.MarkFlagRequired("obj-name")
	return cmd
}

func newGetCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get [task-id]",
		Short: "Show one job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newAPIClient(opts)
			if err != nil {
				return err
			}
			var task models.TaskRecord
			if err := c.do(http.MethodGet, "/api/v1/jobs/"+url.PathEscape(args[0]), nil, &task); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), task)
		},
	}
}

func newListCmd(opts *globalOptions) *cobra.Command {
	var page, limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your jobs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newAPIClient(opts)
			if err != nil {
				return err
			}
			q := url.Values{}
			q.Set("page", strconv.Itoa(page))
			q.Set("limit", strconv.Itoa(limit))
			var tasks []models.TaskRecord
			if err := c.do(http.MethodGet, "/api/v1/jobs?"+q.Encode(), nil, &tasks); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, t := range tasks {
				fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", t.ID, t.Status, t.SubmittedAt.Format("2006-01-02 15:04:05"), t.Payload.ObjName)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 10, "jobs per page")
	return cmd
}

func newWatchCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [task-id]",
		Short: "Stream progress and results; with a task id, stop when that job finishes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newAPIClient(opts)
			if err != nil {
				return err
			}
			taskID := ""
			if len(args) == 1 {
				taskID = args[0]
			}
			return watchJobs(c, taskID, cmd.OutOrStdout())
		},
	}
}

// watchJobs prints job events until taskID reaches a final state. With an
// empty taskID it runs until the connection closes.
func watchJobs(c *apiClient, taskID string, out io.Writer) error {
	conn, _, err := websocket.DefaultDialer.Dial(c.websocketURL("/ws/subscribe"), c.header())
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	fmt.Fprintln(out, "WebSocket connected. Waiting for events...")
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		var event models.JobEvent
		if err := json.Unmarshal(message, &event); err != nil {
			fmt.Fprintf(out, "%s\n", message)
			continue
		}

		switch event.Type {
		case models.JobEventProgress:
			p := event.Progress
			if p == nil || (taskID != "" && p.TaskID != taskID) {
				continue
			}
			fmt.Fprintf(out, "[%s] %s %s\n", p.TaskID, p.Status, p.Message)
		case models.JobEventResult:
			t := event.Task
			if t == nil || (taskID != "" && t.ID != taskID) {
				continue
			}
			fmt.Fprintf(out, "[%s] job %s\n", t.ID, t.Status)
			if taskID == "" {
				continue
			}
			switch t.Status {
			case models.TaskStatusSuccess:
				return printJSON(out, t.Result)
			case models.TaskStatusFailed:
				return fmt.Errorf("job %s failed: %s", t.ID, t.Error)
			}
		}
	}
}
