package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/use-agent/mediascout/api/handler"
)

var previewCmd = &cobra.Command{
	Use:   "preview <url>",
	Short: "Fetch a catalog page and print its preview as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := buildScraper(cfg)
		if err != nil {
			return err
		}
		defer svc.Close()

		p, err := svc.scraper.Preview(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), p)
	},
}

var probeCmd = &cobra.Command{
	Use:   "probe <url>",
	Short: "Probe a URL and print its link health as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := buildScraper(cfg)
		if err != nil {
			return err
		}
		defer svc.Close()

		return printJSON(cmd.OutOrStdout(), svc.scraper.CheckLinkStatus(cmd.Context(), args[0]))
	},
}

var checkAll bool

var checkLinksCmd = &cobra.Command{
	Use:   "check-links",
	Short: "Run one link check over tracked sources and print the result",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := buildScraper(cfg)
		if err != nil {
			return err
		}
		defer svc.Close()
		if err := svc.openStore(cmd.Context(), cfg); err != nil {
			return err
		}

		res, err := svc.monitor.CheckDue(cmd.Context(), checkAll)
		svc.drainWebhooks(cfg.Webhook.DrainTimeout)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), res)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), handler.Version)
	},
}

func init() {
	checkLinksCmd.Flags().BoolVar(&checkAll, "all", false, "ignore the staleness window and check every eligible source")
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
