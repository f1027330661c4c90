package main

import (
	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/meeting-assistant/internal/httpapi"
)

func newServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			if addr != "" {
				a.cfg.Server.Addr = addr
			}

			srv := httpapi.NewServer(a.cfg.Server, a.store, a.orch, a.log, a.registry)
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}
