package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/xiaobogaga/miniquery/util"
)

var rootCmd = &cobra.Command{
	Use:   "miniquery [file]",
	Short: "run a filter and projection over a csv or parquet file",
	Long: `
  Loads a .csv or .parquet file, keeps the rows matching --filter and
  prints the expressions given by --select.

  miniquery --filter "c2 > 3" --select "c1, c3 + 1" data.csv
`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runQueryCmd,
}

func init() {
	addQueryFlags(rootCmd.Flags(), &cfg)
}

func main() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGTERM, syscall.SIGINT)
	ctx, cancel := context.WithCancel(context.Background())
	go shutdown(sig, cancel)
	err := rootCmd.ExecuteContext(ctx)
	cancel()
	_ = util.CloseLog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "err: %v\n", err)
		os.Exit(1)
	}
}

func runQueryCmd(cmd *cobra.Command, args []string) error {
	err := util.InitLogger(cfg.logPath, 1024*4, time.Second, cfg.verbose)
	if err != nil {
		return err
	}
	log := util.GetLog("main")
	log.InfoF("query %s", args[0])
	err = runQuery(cmd.Context(), args[0], &cfg, cmd.OutOrStdout())
	if err != nil {
		log.ErrorF("query %s failed: %v", args[0], err)
		return err
	}
	log.InfoF("bye")
	return nil
}

func shutdown(sig <-chan os.Signal, cancel context.CancelFunc) {
	select {
	case <-sig:
		cancel()
	}
}
