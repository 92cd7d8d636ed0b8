package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"gmcounter/host/console"
	"gmcounter/host/monitor"
)

var (
	monitorOpts = struct {
		interval time.Duration
		samples  int
	}{}

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Enable pulse counting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(func(b board) error { return b.Start() })
		},
	}

	stopCmd = &cobra.Command{
		Use:   "stop",
		Short: "Disable pulse counting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(func(b board) error { return b.Stop() })
		},
	}

	resetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Zero the pulse counter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(func(b board) error { return b.Reset() })
		},
	}

	setVoltageCmd = &cobra.Command{
		Use:   "set-voltage <value>",
		Short: "Set the DAC output (0-4095, decimal or 0x hex)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.ParseUint(args[0], 0, 12)
			if err != nil {
				return fmt.Errorf("invalid voltage %q: %w", args[0], err)
			}
			return withBoard(func(b board) error { return b.SetVoltage(uint16(v)) })
		},
	}

	voltageCmd = &cobra.Command{
		Use:   "voltage",
		Short: "Read the sampled output voltage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(func(b board) error {
				v, err := b.Voltage()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d (0x%04x)\n", v, v)
				return nil
			})
		},
	}

	countCmd = &cobra.Command{
		Use:   "count",
		Short: "Read the pulse counter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(func(b board) error {
				c, err := b.Count()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), c)
				return nil
			})
		},
	}

	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show the full device state (serial transport only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(func(b board) error {
				c, ok := b.(*console.Client)
				if !ok {
					return errors.New("status needs --transport=serial")
				}
				s, err := c.Status()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "count:    %d\n", s.Count)
				fmt.Fprintf(out, "counting: %t\n", s.Counting)
				fmt.Fprintf(out, "voltage:  %d\n", s.Voltage)
				fmt.Fprintf(out, "target:   %d\n", s.Target)
				return nil
			})
		},
	}

	monitorCmd = &cobra.Command{
		Use:   "monitor",
		Short: "Sample the counter and report count rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			return withBoard(func(b board) error {
				out := cmd.OutOrStdout()
				samples, err := monitor.Run(ctx, b, monitorOpts.interval, monitorOpts.samples,
					func(s monitor.Sample, rate float64) {
						fmt.Fprintf(out, "%s  %10d  %10.1f/s\n", s.At.Format("15:04:05.000"), s.Count, rate)
					})
				if err != nil && !errors.Is(err, context.Canceled) {
					return err
				}

				st, err := monitor.Summarize(samples)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\n%d pulses in %v over %d intervals\n", st.Total, st.Elapsed.Round(time.Millisecond), st.Intervals)
				fmt.Fprintf(out, "rate mean %.2f/s  sd %.2f  median %.2f  min %.2f  max %.2f\n",
					st.Mean, st.StdDev, st.Median, st.Min, st.Max)
				return nil
			})
		},
	}
)

func init() {
	monitorCmd.Flags().DurationVarP(&monitorOpts.interval, "interval", "i", time.Second, "time between counter reads")
	monitorCmd.Flags().IntVarP(&monitorOpts.samples, "samples", "n", 10, "number of reads, 0 to run until interrupted")
}
