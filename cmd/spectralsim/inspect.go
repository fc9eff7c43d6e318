package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"spectralsim/internal/models"
	"spectralsim/pkg/export"
	"spectralsim/pkg/loader"
)

func inspectCommand(a *app) *cobra.Command {
	var (
		band    string
		saveDir string
	)

	cmd := &cobra.Command{
		Use:   "inspect [band-dir]",
		Short: "Describe the bands of a multispectral image",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := a.setup(cmd, inspectKeys); err != nil {
			return err
		}

		img, err := loader.NewLoader(&loader.Params{
			Path:         args[0],
			MetadataPath: a.cfg.Loader.MetadataPath,
			Section:      a.cfg.Loader.Section,
			Logger:       a.log,
		}).Load()
		if err != nil {
			return err
		}

		count := img.BandCount()
		if band != "" {
			n, err := models.ParseBandNumber(band)
			if err != nil {
				return err
			}
			if err := img.SetCurrent(n); err != nil {
				return err
			}
			count = 1
		}

		out := cmd.OutOrStdout()
		width, height := img.Size()
		fmt.Fprintf(out, "%s: %d bands, %dx%d, %.2f-%.2f nm\n",
			img.Name(), img.BandCount(), width, height, img.StartWavelength(), img.EndWavelength())
		fmt.Fprintf(out, "%6s %10s %8s %8s %8s\n", "band", "nm", "min", "max", "mean")

		b := img.Current()
		for i := 0; i < count; i++ {
			pix := b.Pix()
			fmt.Fprintf(out, "%6d %10.2f %8.1f %8.1f %8.2f\n",
				b.Number(), b.Wavelength().Center(), floats.Min(pix), floats.Max(pix), stat.Mean(pix, nil))

			if saveDir != "" {
				path := filepath.Join(saveDir, export.FileName(img.Name(), "band", strconv.Itoa(b.Number())))
				if err := export.SaveBand(path, b); err != nil {
					return err
				}
			}
			b = img.Next()
		}
		return nil
	}

	cmd.Flags().StringP("metadata", "m", "", "Metadata file listing centre wavelengths")
	cmd.Flags().String("section", "", "Metadata section (default: base name of band-dir)")
	cmd.Flags().StringVar(&band, "band", "", "Only describe this band number")
	cmd.Flags().StringVar(&saveDir, "save-bands", "", "Write each described band as a grey PNG into this directory")

	return cmd
}

// inspectKeys maps inspect flags to configuration keys
var inspectKeys = map[string]string{
	"metadata": "loader.metadataPath",
	"section":  "loader.section",
}
