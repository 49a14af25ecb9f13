package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chrisdamba/runwaysim/internal/models"
	"github.com/chrisdamba/runwaysim/internal/plot"
	"github.com/chrisdamba/runwaysim/internal/report"
	"github.com/chrisdamba/runwaysim/internal/simulator"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var cfgFile string

// flagKeys maps flags whose config key is not the flag name in snake case.
var flagKeys = map[string]string{
	"postgres-enabled": "database.enabled",
}

var rootCmd = &cobra.Command{
	Use:   "runwaysim",
	Short: "Simulates aircraft landing queues on a set of runways",
	Long: `runwaysim is a CLI tool to simulate flights arriving at an airport and queueing for a pool of runways
as an M/M/c system, and to compare the simulated waiting times and utilization with the closed-form results.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := models.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}

		sim := simulator.NewSimulator(cfg)
		result, runErr := sim.Run(cmd.Context())
		if result == nil {
			return runErr
		}

		rw := report.NewWriter(cmd.OutOrStdout(), cfg.Quiet)
		if err := rw.Write(result); err != nil {
			return err
		}
		if cfg.ShowPlots {
			if err := rw.WriteHistogram(result); err != nil {
				return err
			}
		}

		if !cfg.NoPlots {
			files, err := plot.WriteAll(result, cfg.PlotsDir)
			switch {
			case errors.Is(err, models.ErrEmptySample):
				log.Println("No flights were simulated, skipping plots")
			case err != nil:
				return err
			default:
				log.Printf("Plots saved to %s", strings.Join(files, ", "))
			}
		}

		return runErr
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.runwaysim.yaml)")

	defaults := models.DefaultConfig()
	flags := rootCmd.Flags()
	flags.Int64("seed", defaults.Seed, "Random seed for simulation")
	flags.Bool("random-seed", false, "Seed the simulation from the clock instead of --seed")
	flags.Float64("arrival-rate", defaults.ArrivalRate, "Flight arrival rate (flights per hour)")
	flags.Float64("service-rate", defaults.ServiceRate, "Service rate of one runway (landings per hour)")
	flags.Int("runways", defaults.Runways, "Number of runways")
	flags.String("horizon", "10", "Simulation horizon in hours, or a duration such as 90m")
	flags.Bool("quiet", false, "Do not print one line per flight")
	flags.String("plots-dir", defaults.PlotsDir, "Directory the PNG plots are written to")
	flags.Bool("no-plots", false, "Do not write PNG plots")
	flags.Bool("show-plots", false, "Draw the waiting time distribution in the terminal")
	flags.String("output-format", "", "Export format: console, file, csv, json or parquet")
	flags.String("output-path", "", "Base directory for file exports")
	flags.String("output-folder", "", "Folder under the output path or bucket")
	flags.String("output-destination", defaults.OutputDestination, "Where file exports go: local or s3")
	flags.Bool("kafka-enabled", false, "Enable Kafka output")
	flags.StringSlice("kafka-broker-list", []string{"localhost:9092"}, "Kafka broker list")
	flags.Bool("postgres-enabled", false, "Store the run and its flights in Postgres")

	bindFlags(flags)

	rootCmd.AddCommand(wagegapCmd)
}

// bindFlags binds every flag to its config key, so flags, environment and
// config file all decode into models.Config.
func bindFlags(flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			key = strings.ReplaceAll(f.Name, "-", "_")
		}
		if err := viper.BindPFlag(key, f); err != nil {
			log.Fatalf("Failed to bind flag %s: %v", f.Name, err)
		}
	})
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
