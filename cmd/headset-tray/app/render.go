package app

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/shelepuginivan/headset-tray/internal/battery"
	"github.com/shelepuginivan/headset-tray/internal/icon"
)

type renderOptions struct {
	Status string
	Level  int
	Out    string
	Size   int
}

func newRenderCommand() *cobra.Command {
	o := &renderOptions{
		Status: "available",
		Level:  100,
		Out:    "headset-tray.png",
		Size:   icon.DefaultOptions().Width,
	}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the tray icon of a battery reading to an image file",
		Long: `Render the tray icon of a battery reading to an image file.

The format is chosen by extension of the output file: .png, .bmp or .tiff.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd.OutOrStdout())
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&o.Status, "status", o.Status, "Battery status: available, unavailable or charging.")
	fs.IntVar(&o.Level, "level", o.Level, "Battery level in percent.")
	fs.StringVarP(&o.Out, "out", "o", o.Out, "Output file.")
	fs.IntVar(&o.Size, "size", o.Size, "Width and height of the icon in pixels.")

	return cmd
}

func (o *renderOptions) run(stdout io.Writer) error {
	status, err := parseStatusFlag(o.Status)
	if err != nil {
		return err
	}

	encode, err := encoderFor(o.Out)
	if err != nil {
		return err
	}

	engine, err := icon.NewEngine(icon.Options{
		Width:  o.Size,
		Height: o.Size,
		DPI:    icon.DefaultOptions().DPI,
	})
	if err != nil {
		return err
	}

	reading := battery.Reading{Status: status, Level: o.Level}

	img, err := engine.Rasterize(icon.Document(reading))
	if err != nil {
		return err
	}

	f, err := os.Create(o.Out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", o.Out, err)
	}
	defer f.Close()

	if err := encode(f, img); err != nil {
		return fmt.Errorf("failed to encode %s: %w", o.Out, err)
	}

	if err := f.Close(); err != nil {
		return err
	}

	_, err = fmt.Fprintf(stdout, "%v -> %s\n", reading, o.Out)
	return err
}

// parseStatusFlag accepts both short names, e.g. "charging", and names
// reported by headsetcontrol, e.g. "BATTERY_CHARGING".
func parseStatusFlag(s string) (battery.Status, error) {
	name := strings.ToUpper(s)
	if !strings.HasPrefix(name, "BATTERY_") {
		name = "BATTERY_" + name
	}

	return battery.ParseStatus(name)
}

func encoderFor(path string) (func(io.Writer, image.Image) error, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return png.Encode, nil
	case ".bmp":
		return bmp.Encode, nil
	case ".tif", ".tiff":
		return func(w io.Writer, m image.Image) error {
			return tiff.Encode(w, m, &tiff.Options{Compression: tiff.Deflate})
		}, nil
	default:
		return nil, fmt.Errorf("unsupported image format %q", ext)
	}
}
