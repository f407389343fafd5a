// Command sessiontrace sends requests that carry a trace context kept in
// a session store on disk, so repeated invocations form one trace.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xoplog/sessiontrace"
	"github.com/xoplog/sessiontrace/xopclient"
	"github.com/xoplog/sessiontrace/xoptrace"
)

type flags struct {
	store     string
	storePath string
	b3        bool
	userID    string
	verbose   bool
}

func newRootCmd(out io.Writer) *cobra.Command {
	var f flags
	rootCmd := &cobra.Command{
		Use:           "sessiontrace",
		Short:         "Send requests that continue a persisted trace",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&f.store, "store", "", "Session store: memory, file or sqlite. Defaults to $SESSIONTRACE_STORE or file.")
	rootCmd.PersistentFlags().StringVar(&f.storePath, "store-path", "", "Path of the session store. Defaults to the user config directory.")
	rootCmd.PersistentFlags().BoolVar(&f.b3, "b3", false, "Also send a Zipkin b3 header.")
	rootCmd.PersistentFlags().StringVar(&f.userID, "user-id", "", "Value for the X-User-ID header.")
	rootCmd.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "Debug logging to stderr.")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "get URL",
			Short: "Send a traced GET request",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withTracer(cmd, f, func(ctx context.Context, tracer *sessiontrace.Tracer) error {
					return get(ctx, out, tracer, args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the persisted trace context and session id",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withTracer(cmd, f, func(ctx context.Context, tracer *sessiontrace.Tracer) error {
					return show(ctx, out, tracer)
				})
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Forget the persisted trace context and session id",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withTracer(cmd, f, func(ctx context.Context, tracer *sessiontrace.Tracer) error {
					return tracer.Session.Reset(ctx)
				})
			},
		},
	)
	return rootCmd
}

func withTracer(cmd *cobra.Command, f flags, run func(context.Context, *sessiontrace.Tracer) error) error {
	log := zap.NewNop()
	if f.verbose {
		var err error
		log, err = zap.NewDevelopment()
		if err != nil {
			return errors.Wrap(err, "create logger")
		}
		defer func() { _ = log.Sync() }()
	}

	cfg, err := sessiontrace.ConfigFromEnv(func(c *sessiontrace.Config) {
		if f.store != "" {
			c.Store = f.store
		} else if os.Getenv("SESSIONTRACE_STORE") == "" {
			c.Store = sessiontrace.StoreFile
		}
		if f.storePath != "" {
			c.StorePath = f.storePath
		}
		if c.StorePath == "" && c.Store != sessiontrace.StoreMemory {
			dir, err := os.UserConfigDir()
			if err != nil {
				dir = os.TempDir()
			}
			c.StorePath = sessiontrace.DefaultStorePath(filepath.Join(dir, "sessiontrace"), c.Store)
		}
		if cmd.Flags().Changed("b3") {
			c.UseB3 = f.b3
		}
		if f.userID != "" {
			c.UserID = f.userID
		}
	})
	if err != nil {
		return err
	}

	tracer, err := sessiontrace.Open(cfg, sessiontrace.WithLogger(log))
	if err != nil {
		return err
	}
	defer tracer.Close()
	return run(cmd.Context(), tracer)
}

func get(ctx context.Context, out io.Writer, tracer *sessiontrace.Tracer, url string) error {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return errors.Wrapf(err, "build request for %s", url)
	}
	r := xopclient.NewHTTPRequest(nil, req)
	resp, err := tracer.Client.Send(ctx, r)
	if err != nil {
		return err
	}
	defer resp.(*xopclient.HTTPResponse).Response.Body.Close()
	sent := r.Request().Header
	fmt.Fprintf(out, "status: %d\n", resp.StatusCode())
	fmt.Fprintf(out, "sent %s: %s\n", xoptrace.HeaderTraceParent, sent.Get(xoptrace.HeaderTraceParent))
	if b3 := sent.Get(xoptrace.HeaderB3); b3 != "" {
		fmt.Fprintf(out, "sent %s: %s\n", xoptrace.HeaderB3, b3)
	}
	fmt.Fprintf(out, "sent %s: %s\n", xopclient.HeaderSessionID, sent.Get(xopclient.HeaderSessionID))
	return show(ctx, out, tracer)
}

// show only reads the store. It never starts a session.
func show(ctx context.Context, out io.Writer, tracer *sessiontrace.Tracer) error {
	keys := tracer.Session.Keys()
	for _, line := range []struct {
		label string
		key   string
	}{
		{"current", keys.TraceParent},
		{"session trace id", keys.TraceID},
		{"session id", keys.SessionID},
	} {
		v, found, err := tracer.Store.Get(ctx, line.key)
		if err != nil {
			return errors.Wrapf(err, "read %s", line.key)
		}
		if !found {
			v = "none"
		}
		fmt.Fprintf(out, "%s: %s\n", line.label, v)
	}
	return nil
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "sessiontrace:", err)
		os.Exit(1)
	}
}
