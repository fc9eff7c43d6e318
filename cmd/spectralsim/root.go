package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"spectralsim/internal/models"
	"spectralsim/pkg/config"
	"spectralsim/pkg/history"
	"spectralsim/pkg/loader"
	"spectralsim/pkg/sensitivity"
	"spectralsim/pkg/simulation"
)

// envPrefix namespaces environment overrides, e.g. SPECTRALSIM_SIMULATION_GAMMA
const envPrefix = "SPECTRALSIM"

// app is the state shared by every subcommand
type app struct {
	v          *viper.Viper
	configPath string
	verbose    bool
	cfg        *config.Config
	log        *slog.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{v: viper.New()}
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:           "spectralsim",
		Short:         "Simulate how animals and people see multispectral images",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "spectralsim.yaml", "Path to the YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug output")

	rootCmd.AddCommand(
		simulateCommand(a),
		listCommand(),
		inspectCommand(a),
		configCommand(a),
	)

	return rootCmd
}

// setup binds the running command's flags to their keys, loads the
// configuration file and layers environment variables and flags on top of it
func (a *app) setup(cmd *cobra.Command, keys map[string]string) error {
	if err := a.bindFlags(cmd, keys); err != nil {
		return err
	}

	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}

	a.v.SetDefault("simulation.types", cfg.Simulation.Types)
	a.v.SetDefault("simulation.deficiency", cfg.Simulation.Deficiency)
	a.v.SetDefault("simulation.gamma", cfg.Simulation.Gamma)
	a.v.SetDefault("simulation.workers", cfg.Simulation.Workers)
	a.v.SetDefault("simulation.bands", joinBands(cfg.Simulation.Bands))
	a.v.SetDefault("cone.tablePath", cfg.Cone.TablePath)
	a.v.SetDefault("loader.metadataPath", cfg.Loader.MetadataPath)
	a.v.SetDefault("loader.section", cfg.Loader.Section)
	a.v.SetDefault("output.dir", cfg.Output.Dir)
	a.v.SetDefault("output.verbose", cfg.Output.Verbose)
	a.v.SetDefault("output.order", cfg.Output.Order)
	a.v.SetDefault("output.keepExisting", cfg.Output.KeepExisting)
	if cmd.Flags().Changed("verbose") {
		a.v.Set("output.verbose", a.verbose)
	}

	cfg.Simulation.Types = a.v.GetStringSlice("simulation.types")
	cfg.Simulation.Deficiency = a.v.GetString("simulation.deficiency")
	cfg.Simulation.Gamma = a.v.GetFloat64("simulation.gamma")
	cfg.Simulation.Workers = a.v.GetInt("simulation.workers")
	cfg.Simulation.Bands, err = models.ParseBandNumbers(a.v.GetString("simulation.bands"))
	if err != nil {
		return err
	}
	cfg.Cone.TablePath = a.v.GetString("cone.tablePath")
	cfg.Loader.MetadataPath = a.v.GetString("loader.metadataPath")
	cfg.Loader.Section = a.v.GetString("loader.section")
	cfg.Output.Dir = a.v.GetString("output.dir")
	cfg.Output.Verbose = a.v.GetBool("output.verbose")
	cfg.Output.Order = a.v.GetString("output.order")
	cfg.Output.KeepExisting = a.v.GetBool("output.keepExisting")

	level := slog.LevelInfo
	if cfg.Output.Verbose {
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	a.cfg = cfg
	return nil
}

// bindFlags binds each flag to the configuration key of the same entry
func (a *app) bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for flag, key := range keys {
		if err := a.v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("error binding flag %s: %w", flag, err)
		}
	}
	return nil
}

func joinBands(bands []int) string {
	parts := make([]string, len(bands))
	for i, b := range bands {
		parts[i] = fmt.Sprint(b)
	}
	return strings.Join(parts, ",")
}

// describe maps failures to a message naming the category, so a bad band
// number reads differently from a missing band
func describe(err error) string {
	var category string
	switch {
	case errors.Is(err, models.ErrInvalidBandNumberType):
		category = "band numbers must be integers"
	case errors.Is(err, models.ErrBandNotFound):
		category = "band not found in image"
	case errors.Is(err, simulation.ErrEmptyBandSelection):
		category = "select three bands with --bands"
	case errors.Is(err, simulation.ErrInvalidBandSelection):
		category = "exactly three bands can be mapped to RGB"
	case errors.Is(err, history.ErrUnknownOrder):
		category = "unknown output order"
	case errors.Is(err, simulation.ErrUnregisteredSimulator):
		category = "unknown simulation type"
	case errors.Is(err, sensitivity.ErrUnknownDeficiency):
		category = "unknown colour vision deficiency"
	case errors.Is(err, sensitivity.ErrInvalidConeTable):
		category = "cone table could not be used"
	case errors.Is(err, loader.ErrUnsupportedImageFormat):
		category = "no readable band images"
	case errors.Is(err, loader.ErrMetadataMissing):
		category = "wavelength metadata incomplete"
	case errors.Is(err, models.ErrInvalidImage), errors.Is(err, models.ErrInvalidBand):
		category = "image is malformed"
	default:
		return err.Error()
	}
	return category + ": " + err.Error()
}
