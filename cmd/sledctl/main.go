package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"tespkg.in/kit/log"
	"tespkg.in/sledkv/pkg/api"
)

var errNotFound = errors.New("key not found")

type options struct {
	addr        string
	metricsAddr string

	logOptions *log.Options

	client *api.Client
}

func newRootCmd() *cobra.Command {
	o := &options{logOptions: log.DefaultOptions()}

	cmd := &cobra.Command{
		Use:           "sledctl",
		Short:         "sled store client",
		Long:          "Command line client for the sled key value store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.init()
		},
	}

	cmd.PersistentFlags().StringVar(&o.addr, "addr", "", "Store address, use "+api.HTTPAddrEnvName+" env if not given, e.g, http://localhost:3030")
	cmd.PersistentFlags().StringVar(&o.metricsAddr, "metrics-addr", "", "Optional, serve client metrics at the address, e.g, :9102")
	o.logOptions.AttachCobraFlags(cmd)

	cmd.AddCommand(
		healthCmd(o),
		treesCmd(o),
		keysCmd(o),
		getCmd(o),
		putCmd(o),
		delCmd(o),
		legacyCmd(o),
		importCmd(o),
		exportCmd(o),
		renderCmd(o),
	)
	return cmd
}

func (o *options) init() error {
	if err := log.Configure(o.logOptions); err != nil {
		return fmt.Errorf("initiate log failed: %w", err)
	}

	config := &api.Config{Address: o.addr}
	if o.metricsAddr != "" {
		reg := prometheus.NewRegistry()
		config.HttpClient = api.NewMetrics(reg).HTTPClient()
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(o.metricsAddr, mux); err != nil {
				log.Errorf("metrics server terminated: %v", err)
			}
		}()
		log.Infof("serving client metrics at %v/metrics", o.metricsAddr)
	}

	client, err := api.NewClient(config)
	if err != nil {
		return fmt.Errorf("initiate store client failed: %w", err)
	}
	o.client = client
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	_ = log.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(-1)
	}
}
