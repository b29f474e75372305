package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"ip-frontend/internal/api"
	"ip-frontend/internal/backend"
	"ip-frontend/internal/config"
	"ip-frontend/internal/geo"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var (
		server  string
		port    string
		timeout time.Duration
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:           "geo-lookup <ip>",
		Short:         "Query the geolocation API for one IPv4 address",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if server != "" {
				cfg.APIServer = server
			}
			if port != "" {
				cfg.APIServerPort = port
			}
			if timeout > 0 {
				cfg.APITimeout = timeout
			}
			var raw string
			if len(args) == 1 {
				raw = args[0]
			}
			res, err := api.Resolve(cmd.Context(), cfg, backend.New(cfg.BackendBase(), cfg.APITimeout), raw)
			if err != nil {
				msg, _ := api.Describe(err)
				fmt.Fprintln(cmd.ErrOrStderr(), msg)
				return errors.New(msg)
			}
			return printResult(cmd.OutOrStdout(), res, asJSON)
		},
	}
	cmd.Flags().StringVar(&server, "server", "", "API server host (default $API_SERVER)")
	cmd.Flags().StringVar(&port, "port", "", "API server port (default $API_SERVER_PORT)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "request timeout (default $API_TIMEOUT or 5s)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func printResult(w io.Writer, res geo.Result, asJSON bool) error {
	if asJSON {
		enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	rows := [][2]string{
		{"continent_name", res.ContinentName},
		{"continent", res.ContinentCode},
		{"country_name", res.CountryName},
		{"isp", res.ISP},
		{"cached", res.Cached},
		{"apiServer", res.APIServer},
		{"version", res.APIServerVersion},
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%-15s %s\n", r[0], r[1]); err != nil {
			return err
		}
	}
	return nil
}
