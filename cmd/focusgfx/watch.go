package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"focusgfx/internal/logging"
	"focusgfx/internal/pipeline"
	"focusgfx/internal/ui"
	"focusgfx/internal/watch"
)

// runWatch generates once, then regenerates every time the source settles after a change.
// It returns nil once ctx is done, whether canceled or past its deadline.
func runWatch(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) error {
	log := stageLoggers().Get(logging.CategoryWatch)

	res, err := generateOnce(ctx, runner, opts)
	if err != nil {
		return err
	}
	// Later runs replace our own output.
	if res.Written || opts.Overwrite != pipeline.OverwriteRefuse {
		opts.Overwrite = pipeline.OverwriteForce
		opts.Prompter = nil
	}

	handler := func(ctx context.Context, path string) error {
		log.Info("source changed, regenerating", zap.String("path", path))
		res, err := generateOnce(ctx, runner, opts)
		if err != nil {
			return err
		}
		if res.Written {
			opts.Overwrite = pipeline.OverwriteForce
			opts.Prompter = nil
		}
		return nil
	}

	w, err := watch.New([]string{opts.Source}, handler, log)
	if err != nil {
		return err
	}
	if !quiet {
		fmt.Println(ui.DefaultStyles().Info.Render(fmt.Sprintf("Watching %s (ctrl+c to stop)", opts.Source)))
	}

	// Run only fails early on a watch setup error; ctx ending is a normal stop.
	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	stats := w.Stats()
	log.Info("watch stopped", zap.Int("runs", stats.Runs), zap.Int("errors", stats.Errors))
	return nil
}
