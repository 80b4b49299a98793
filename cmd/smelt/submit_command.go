package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/smelt-client/internal/encoder"
	"github.com/nguyentantai21042004/smelt-client/internal/media"
	"github.com/nguyentantai21042004/smelt-client/internal/session"
)

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var modeFlag string
	var textFlag string
	var outputFlag string

	cmd := &cobra.Command{
		Use:   "submit [files...]",
		Short: "Submit files and/or text as one job and write the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && textFlag == "" {
				return fmt.Errorf("nothing to submit: pass files or --text")
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if outputFlag != "" {
				cfg.Paths.Output = outputFlag
			}

			a := newApp(cfg)
			mode, err := a.mode(modeFlag)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srcs, release, err := a.prepare(runCtx, args)
			if err != nil {
				return err
			}
			defer release()
			if textFlag != "" {
				srcs = append(srcs, encoder.TextSource(textFlag))
			}

			printer := newProgressPrinter(cmd.OutOrStdout())
			ctrl := a.newSession(mode, printer.observe)
			defer ctrl.Close()

			out, err := ctrl.Run(runCtx, srcs)
			if err != nil {
				if session.IsBatchFatal(err) {
					return fmt.Errorf("%s: %w", session.UserMessage(err), err)
				}
				return err
			}

			if summary := renderOutcome(out); summary != "" {
				fmt.Fprintln(cmd.OutOrStdout(), summary)
			}

			paths, err := a.writer.Write(runCtx, out.Results)
			for _, p := range paths {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", p)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d items converted\n", len(out.Results), len(srcs))
			return nil
		},
	}

	cmd.Flags().StringVarP(&modeFlag, "mode", "m", "", "Submission mode: bulk or sequential (default from config)")
	cmd.Flags().StringVarP(&textFlag, "text", "t", "", "Text to submit alongside the files")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Directory results are written to (default from config)")

	return cmd
}

// prepare turns paths into sources. The returned func releases temporary files.
func (a *app) prepare(ctx context.Context, paths []string) ([]encoder.Source, func(), error) {
	srcs := make([]encoder.Source, 0, len(paths)+1)
	release := func() {
		for _, src := range srcs {
			a.media.Release(ctx, src)
		}
	}

	for _, path := range paths {
		if media.IsVideo(path) {
			if err := a.media.Check(); err != nil {
				return nil, func() {}, err
			}
			break
		}
	}

	for _, path := range paths {
		src, err := a.media.Prepare(ctx, path)
		if err != nil {
			release()
			return nil, func() {}, err
		}
		srcs = append(srcs, src)
	}
	return srcs, release, nil
}
