package cmd

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "run a pipeline described by a YAML file",
	Long: `run executes the graph described by a YAML pipeline file: one input
block, a linear sequence of transform ops, and one or more output blocks.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			checkError(errors.New("run: expected exactly one pipeline file argument"))
		}
		threads := getFlagInt(cmd, "threads")
		chunkSize := getFlagInt(cmd, "chunk-size")
		verbose := getFlagBool(cmd, "verbose")

		lp, err := LoadPipelineFile(args[0])
		checkError(err)
		defer func() {
			for _, c := range lp.closers {
				c.Close()
			}
		}()

		if threads > 0 {
			lp.pipeline.NumWorkers = threads
		}
		if chunkSize > 0 {
			lp.pipeline.ChunkSize = chunkSize
		}
		if verbose {
			log.Infof("starting pipeline: %d worker(s), chunk size %d", lp.pipeline.NumWorkers, lp.pipeline.ChunkSize)
		}

		start := time.Now()
		runErr := lp.pipeline.Run()
		elapsed := time.Since(start)
		checkError(runErr)

		n := lp.pipeline.Processed()
		rate := float64(n) / elapsed.Seconds()
		log.Infof("processed %s reads in %s (%s reads/sec)",
			humanize.Comma(n), elapsed.Round(time.Millisecond), humanize.Comma(int64(rate)))
	},
}

func init() {
	RootCmd.AddCommand(runCmd)
}
