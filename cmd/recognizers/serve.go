package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/recognizers/server"
	"github.com/hrygo/recognizers/store"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the recognition HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := loadProfile(v)
			if err != nil {
				return err
			}
			rec, err := newRecognizer(p)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			var st *store.Store
			if p.History {
				if st, err = openStore(ctx, p); err != nil {
					return err
				}
			}
			s, err := server.NewServer(ctx, p, st, rec)
			if err != nil {
				return err
			}
			if err := s.Start(ctx); err != nil {
				s.Shutdown(context.Background())
				return err
			}
			printGreetings(cmd, p.Mode, p.Addr, p.Port, p.Data)

			<-ctx.Done()
			slog.Info("shutting down")
			s.Shutdown(context.Background())
			return nil
		},
	}
	flags := cmd.Flags()
	flags.String("addr", "", "address of server")
	flags.Int("port", 8081, "port of server")
	flags.Float64("rate-limit", 10, "requests per second per client, 0 disables limiting")
	flags.Int("rate-burst", 20, "rate limiter burst")
	for _, name := range []string{"addr", "port", "rate-limit", "rate-burst"} {
		if err := v.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
	return cmd
}

func printGreetings(cmd *cobra.Command, mode, addr string, port int, data string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "recognizers %s started successfully!\n", version)
	fmt.Fprintf(out, "Mode: %s\nData: %s\n", mode, data)
	if addr == "" {
		fmt.Fprintf(out, "Server running on port %d\n", port)
	} else {
		fmt.Fprintf(out, "Server running on %s:%d\n", addr, port)
	}
}
