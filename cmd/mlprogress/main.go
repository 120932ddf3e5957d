// Package main contains the demo commands for the progress indicator.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/malaire/ml-progress/progress"
)

var (
	successSprintf = color.HiGreenString
	errorSprintf   = color.HiRedString
)

func main() {
	cmd := buildRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorSprintf("✘ %s", err.Error()))
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mlprogress",
		Short: "Demo commands for the single-line progress indicator.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// If we don't set a Run() function the help menu doesn't show up.
			// See https://github.com/spf13/cobra/issues/790
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(buildDownloadCmd())
	cmd.AddCommand(buildCountCmd())
	return cmd
}

// buildDownloadCmd simulates a byte-sized download with parallel workers
// incrementing one shared indicator.
func buildDownloadCmd() *cobra.Command {
	var (
		size    uint64
		workers int
	)
	cmd := &cobra.Command{
		Use:   "download",
		Short: "Simulate a download with a byte-scaled progress bar.",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := progress.New(
				progress.WithTotal(size),
				progress.WithItems(
					progress.Spinner(),
					progress.Literal(" ["),
					progress.Percent(),
					progress.Literal("] "),
					progress.BarFill(),
					progress.Literal(" "),
					progress.PosBin(),
					progress.Literal("B/"),
					progress.TotalBin(),
					progress.Literal("B ("),
					progress.ETAHMS(),
					progress.Literal(")"),
				),
			)
			if err != nil {
				return err
			}
			p.Start()

			chunk := size / 200
			if chunk == 0 {
				chunk = 1
			}
			var g errgroup.Group
			for i := 0; i < workers; i++ {
				g.Go(func() error {
					for p.State().Pos() < size {
						time.Sleep(time.Duration(10+rand.Intn(40)) * time.Millisecond)
						p.Inc(chunk)
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				p.FinishAndClear()
				return err
			}
			p.Finish()
			fmt.Fprintln(os.Stderr)
			fmt.Fprintln(os.Stderr, successSprintf("✔ Downloaded %s.", humanize.IBytes(size)))
			return nil
		},
	}
	cmd.Flags().Uint64Var(&size, "size", 256*1024*1024, "Number of bytes to download.")
	cmd.Flags().IntVar(&workers, "workers", 4, "Number of parallel workers.")
	return cmd
}

// buildCountCmd runs an unbounded count, so the bar has no total and the
// line leans on the message fill instead.
func buildCountCmd() *cobra.Command {
	var files int
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Scan a made-up directory tree without a known total.",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := progress.New(
				progress.WithItems(
					progress.PosGroup(),
					progress.Literal(" ("),
					progress.SpeedIntf("%d/s", "-"),
					progress.Literal(") "),
					progress.MessageFill(),
				),
				progress.WithThousandsSeparator(","),
			)
			if err != nil {
				return err
			}
			p.Start()

			for i := 0; i < files; i++ {
				time.Sleep(time.Duration(rand.Intn(5)) * time.Millisecond)
				p.Inc(1)
				if i%100 == 0 {
					p.Message(fmt.Sprintf("scanning %s", english.Plural(i, "file", "")))
				}
			}
			p.FinishAndClear()
			fmt.Fprintln(os.Stderr, successSprintf("✔ Scanned %s.", english.Plural(files, "file", "")))
			return nil
		},
	}
	cmd.Flags().IntVar(&files, "files", 2000, "Number of files to scan.")
	return cmd
}
