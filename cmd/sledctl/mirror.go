package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
	"tespkg.in/kit/log"
	"tespkg.in/sledkv/pkg/mirror"
	"tespkg.in/sledkv/pkg/store/backends"
)

type mirrorFlags struct {
	trees  []string
	dryRun bool
	rate   float64
	burst  int
}

func (f *mirrorFlags) attach(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.trees, "tree", nil, "Trees to copy, all trees if not given")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Walk the source without writing anything")
	cmd.Flags().Float64Var(&f.rate, "rate", 0, "Max store requests per second, unlimited when 0")
	cmd.Flags().IntVar(&f.burst, "burst", 1, "Request burst allowed on top of --rate")
}

func (f *mirrorFlags) options() mirror.Options {
	opts := mirror.Options{Trees: f.trees, DryRun: f.dryRun}
	if f.rate > 0 {
		opts.Limiter = rate.NewLimiter(rate.Limit(f.rate), f.burst)
	}
	return opts
}

func importCmd(o *options) *cobra.Command {
	var (
		from string
		f    mirrorFlags
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy trees from a snapshot store into the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := backends.Open(from)
			if err != nil {
				return err
			}
			defer func() {
				if err := src.Close(); err != nil {
					log.Warnf("close snapshot store failed: %v", err)
				}
			}()
			stats, err := mirror.Import(cmd.Context(), src, o.client, f.options())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), stats)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Snapshot store dsn, e.g, file:///path/to/snapshot.yaml, etcd://localhost:2379/sled")
	_ = cmd.MarkFlagRequired("from")
	f.attach(cmd)
	return cmd
}

func exportCmd(o *options) *cobra.Command {
	var (
		to string
		f  mirrorFlags
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Copy trees from the store into a snapshot store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dst, err := backends.Open(to)
			if err != nil {
				return err
			}
			stats, err := mirror.Export(cmd.Context(), o.client, dst, f.options())
			if err != nil {
				dst.Close()
				return err
			}
			// the file store is only written on close
			if err := dst.Close(); err != nil {
				return fmt.Errorf("close snapshot store failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), stats)
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Snapshot store dsn, e.g, file:///path/to/snapshot.yaml, sqlite:///path/to/snapshot.db")
	_ = cmd.MarkFlagRequired("to")
	f.attach(cmd)
	return cmd
}
