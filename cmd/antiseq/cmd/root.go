package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/shenwei356/go-logging"
	"github.com/spf13/cobra"
)

// VERSION is the antiseq release string, reported in the root command's
// long help and available to every subcommand for diagnostics.
const VERSION = "0.1.0"

var log = logging.MustGetLogger("antiseq")

// RootCmd is the base command invoked when antiseq is run with no
// subcommand.
var RootCmd = &cobra.Command{
	Use:   "antiseq",
	Short: "a parallel FASTQ transformation engine",
	Long: fmt.Sprintf(`antiseq - a parallel FASTQ transformation engine

A command-line engine that runs a declarative graph of per-read
operations (cut, set, match, filter, fork, emit) over chunks of reads
drawn from one or more FASTQ streams.

Version: %s
`, VERSION),
}

// Execute runs RootCmd (child commands register themselves in their
// own init functions), exiting non-zero on the first fatal error.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}

func init() {
	defaultThreads := runtime.NumCPU()
	RootCmd.PersistentFlags().IntP("threads", "j", defaultThreads, "number of worker goroutines to use")
	RootCmd.PersistentFlags().BoolP("verbose", "", false, "print verbose information")
	RootCmd.PersistentFlags().IntP("chunk-size", "", 256, "number of reads pulled from the input per worker iteration")
}

// checkError mirrors the teacher's "print and exit" fatal-error
// convention: any error reaching this point is unrecoverable for the
// current invocation.
func checkError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(-1)
	}
}

func getFlagInt(cmd *cobra.Command, flag string) int {
	v, err := cmd.Flags().GetInt(flag)
	checkError(err)
	return v
}

func getFlagBool(cmd *cobra.Command, flag string) bool {
	v, err := cmd.Flags().GetBool(flag)
	checkError(err)
	return v
}

func getFlagString(cmd *cobra.Command, flag string) string {
	v, err := cmd.Flags().GetString(flag)
	checkError(err)
	return v
}
