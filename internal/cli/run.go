package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/tsffi/internal/pipeline"
)

func runTranspile(cmd *cobra.Command, path string) error {
	ctx := cmd.Context()
	cfg := GetConfig(ctx)
	logger := GetLogger(ctx)

	p, err := CreatePipeline(cfg, logger)
	if err != nil {
		return err
	}

	r := NewRenderer(cmd.OutOrStdout(), cfg.Color)
	RunOnce(p, r, path)

	watch, _ := cmd.Flags().GetBool("watch")
	if !watch {
		return nil
	}

	r.Notice(fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)", path))
	return newFileWatcher(path, logger).Run(ctx, func() {
		r.Notice("File changed, re-transpiling")
		RunOnce(p, r, path)
	})
}

// RunOnce transpiles path with p and renders the result to r.
func RunOnce(p *pipeline.Pipeline, r *Renderer, path string) {
	result := p.TranspileFile(path, p.Defaults())

	// The input is re-read for display only; a read failure is already
	// reported by the pipeline as an io_error.
	var input *string
	if data, err := os.ReadFile(path); err == nil { //nolint:gosec // G304: user-supplied file is the point
		s := string(data)
		input = &s
	}
	r.Render(path, input, result)
}
