package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/bryan-buckman/rewind365/internal/api"
	"github.com/bryan-buckman/rewind365/internal/config"
	"github.com/bryan-buckman/rewind365/internal/digest"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var digestFlags struct {
	apiBaseURL string
	strict     bool
	noColor    bool
	width      int
	timezone   string
}

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Print today's digest",
	Args:  cobra.NoArgs,
	RunE:  runDigest,
}

func init() {
	f := digestCmd.Flags()
	f.StringVar(&digestFlags.apiBaseURL, "api-base-url", "", "Rewind365 API base URL (default "+api.DefaultBaseURL+")")
	f.BoolVar(&digestFlags.strict, "strict", false, "fail instead of printing example data")
	f.BoolVar(&digestFlags.noColor, "no-color", false, "disable colors")
	f.IntVar(&digestFlags.width, "width", 0, "wrap summaries at this width")
	f.StringVar(&digestFlags.timezone, "timezone", "", "IANA zone for item times (default local)")
	rootCmd.AddCommand(digestCmd)
}

func runDigest(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	f := cmd.Flags()
	if f.Changed("api-base-url") {
		cfg.APIBaseURL = digestFlags.apiBaseURL
	}
	if f.Changed("strict") {
		cfg.Strict = digestFlags.strict
	}
	if f.Changed("timezone") {
		cfg.Timezone = digestFlags.timezone
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// Client logs would interleave with the rendered digest.
	client := api.NewClient(cfg.APIBaseURL,
		api.WithFallback(!cfg.Strict),
		api.WithLogger(log.New(io.Discard, "", 0)),
	)

	ctx, cancel := context.WithTimeout(cmd.Context(), api.DefaultHTTPTimeout+5*time.Second)
	defer cancel()
	res := client.ReadDailyDigest(ctx)
	if res.Err != nil {
		return fmt.Errorf("load digest: %w", res.Err)
	}
	if res.Fallback() {
		fmt.Fprintf(cmd.ErrOrStderr(), "Showing example data: %v\n", res.Cause)
	}

	profile := termenv.EnvColorProfile()
	if digestFlags.noColor {
		profile = termenv.Ascii
	}
	return digest.Render(cmd.OutOrStdout(), digest.Build(res.Data, loc), digest.RenderOptions{
		Profile: profile,
		Width:   digestFlags.width,
	})
}
