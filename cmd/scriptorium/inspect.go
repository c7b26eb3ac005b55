package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/c360studio/scriptorium/pipeline"
)

// inspection is the printable view of one dry-run outcome.
type inspection struct {
	Filename       string   `json:"filename"`
	Status         string   `json:"status"`
	Label          string   `json:"label,omitempty"`
	Confidence     string   `json:"confidence,omitempty"`
	Source         string   `json:"source,omitempty"`
	Trace          []string `json:"trace,omitempty"`
	RejectReason   string   `json:"reject_reason,omitempty"`
	RejectDetail   string   `json:"reject_detail,omitempty"`
	RejectEvidence []string `json:"reject_evidence,omitempty"`
	Preview        string   `json:"preview,omitempty"`
}

func inspectCmd() *cobra.Command {
	var flags batchFlags
	var full bool

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Run one document through the pipeline without writing anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}

			app, err := NewApp(cfg, slog.Default())
			if err != nil {
				return err
			}
			defer app.Close()

			outcome, err := app.Inspect(context.Background(), args[0])
			if err != nil {
				return err
			}

			view := newInspection(outcome, full)
			data, err := json.MarshalIndent(view, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&full, "full", false, "Include the full curated text instead of a preview")
	return cmd
}

const previewLimit = 400

func newInspection(o pipeline.Outcome, full bool) inspection {
	view := inspection{
		Filename: o.Filename,
		Status:   string(o.Status),
	}

	switch o.Status {
	case pipeline.StatusCurated:
		view.Label = o.Classification.Label()
		view.Confidence = string(o.Classification.Confidence())
		view.Source = o.Classification.Source
		view.Trace = o.Classification.Trace
		view.Preview = o.Document.Text
		if !full && len(view.Preview) > previewLimit {
			view.Preview = view.Preview[:previewLimit] + "..."
		}
	case pipeline.StatusRejected:
		if o.Rejection != nil {
			view.RejectReason = string(o.Rejection.Reason)
			view.RejectDetail = o.Rejection.Detail
			view.RejectEvidence = o.Rejection.Evidence
		}
	case pipeline.StatusErrored:
		if o.Err != nil {
			view.RejectDetail = o.Err.Error()
		}
	}
	return view
}
