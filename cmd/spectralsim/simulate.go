package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"spectralsim/pkg/export"
	"spectralsim/pkg/history"
	"spectralsim/pkg/loader"
	"spectralsim/pkg/sensitivity"
	"spectralsim/pkg/simulation"
)

func simulateCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate [band-dir]",
		Short: "Render a multispectral image with one or more simulators",
		Long: `Load every band image in band-dir, pair it with the centre wavelengths
listed in the metadata file and write one PNG per simulation type.`,
		Args: cobra.ExactArgs(1),
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := a.setup(cmd, simulateKeys); err != nil {
			return err
		}
		return a.simulate(cmd, args[0])
	}

	cmd.Flags().StringP("metadata", "m", "", "Metadata file listing centre wavelengths")
	cmd.Flags().String("section", "", "Metadata section (default: base name of band-dir)")
	cmd.Flags().StringSliceP("type", "t", nil, "Simulation types to run (see 'list')")
	cmd.Flags().StringP("deficiency", "d", "", "Colour vision deficiency for Color Blindness")
	cmd.Flags().StringP("bands", "b", "", "Comma separated band numbers for RGB Bands, e.g. 30,20,10")
	cmd.Flags().Float64("gamma", 1, "Gamma applied after normalization")
	cmd.Flags().IntP("workers", "w", 1, "Goroutines used for band accumulation")
	cmd.Flags().String("cone-table", "", "CSV of cone fundamentals replacing the built-in table")
	cmd.Flags().String("order", "", "Order results are written in: name, date, image or type")
	cmd.Flags().Bool("keep-existing", false, "Do not overwrite outputs that already exist")
	cmd.Flags().StringP("output", "o", "", "Output directory")

	return cmd
}

// simulateKeys maps simulate flags to configuration keys
var simulateKeys = map[string]string{
	"metadata":   "loader.metadataPath",
	"section":    "loader.section",
	"type":       "simulation.types",
	"deficiency": "simulation.deficiency",
	"bands":      "simulation.bands",
	"gamma":      "simulation.gamma",
	"workers":    "simulation.workers",
	"cone-table": "cone.tablePath",
	"output":        "output.dir",
	"order":         "output.order",
	"keep-existing": "output.keepExisting",
}

func (a *app) simulate(cmd *cobra.Command, bandDir string) error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	opts, err := a.cfg.SimulationOptions()
	if err != nil {
		return err
	}
	order, err := history.ParseOrder(a.cfg.Output.Order)
	if err != nil {
		return err
	}

	img, err := loader.NewLoader(&loader.Params{
		Path:         bandDir,
		MetadataPath: a.cfg.Loader.MetadataPath,
		Section:      a.cfg.Loader.Section,
		Logger:       a.log,
	}).Load()
	if err != nil {
		return err
	}

	registry := simulation.Default()
	simulation.RegisterBuiltins(registry)

	store := history.NewStore()
	for _, name := range a.cfg.Simulation.Types {
		start := time.Now()
		engine, err := registry.Create(name, img, a.cfg.Simulation.Bands, opts)
		if err != nil {
			return err
		}
		result, err := engine.Simulate()
		if err != nil {
			return fmt.Errorf("%s failed: %w", name, err)
		}

		key := export.FileName(img.Name(), name, a.qualifiers(name)...)
		if same, ok := store.NameOf(result); ok {
			a.log.Info("simulation renders the same image as an earlier one", "type", name, "same_as", same)
		}
		if !store.Add(key, history.Entry{Image: img.Name(), Simulation: name, Result: result, Created: time.Now()}) {
			a.log.Warn("simulation already rendered, skipping", "name", key)
			continue
		}
		a.log.Debug("simulation finished", "type", name, "elapsed", time.Since(start))
	}

	if a.cfg.Output.KeepExisting {
		for _, key := range store.Sorted(history.ByName) {
			if _, err := os.Stat(filepath.Join(a.cfg.Output.Dir, key)); err == nil {
				a.log.Info("keeping existing output", "name", key)
				store.Delete(key)
			}
		}
	}

	for _, key := range store.Sorted(order) {
		entry, err := store.Get(key)
		if err != nil {
			return err
		}
		path := filepath.Join(a.cfg.Output.Dir, key)
		if err := export.SavePNG(path, entry.Result); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	a.log.Info("simulations written", "count", store.Len(), "dir", a.cfg.Output.Dir)
	return nil
}

// qualifiers distinguish outputs of the same simulator run with different
// parameters
func (a *app) qualifiers(name string) []string {
	switch name {
	case simulation.ColorBlindness:
		// Validate has already accepted the name
		d, _ := sensitivity.ParseDeficiency(a.cfg.Simulation.Deficiency)
		return []string{d.String()}
	case simulation.RGBBands:
		return []string{strings.ReplaceAll(joinBands(a.cfg.Simulation.Bands), ",", "-")}
	}
	return nil
}
