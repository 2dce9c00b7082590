// Package icons validates the image assets a spec references and generates
// the density-scaled launcher icons Android expects.
package icons

import (
	"fmt"
	"image"
	_ "image/gif"  // presplash images may be any common format
	_ "image/jpeg" // presplash images may be any common format
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
)

// Density is one rung of the Android launcher icon ladder.
type Density struct {
	Name string
	Size int
}

// Densities is the standard mipmap ladder.
var Densities = []Density{
	{"mdpi", 48},
	{"hdpi", 72},
	{"xhdpi", 96},
	{"xxhdpi", 144},
	{"xxxhdpi", 192},
}

// Validate decodes the image at path and checks it is usable as a launcher
// icon: a square PNG at least 48px on a side.
func Validate(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open icon: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode icon %s: %w", path, err)
	}
	if format != "png" {
		return nil, fmt.Errorf("icon %s is %s, launcher icons must be PNG", path, format)
	}

	b := img.Bounds()
	if b.Dx() != b.Dy() {
		return nil, fmt.Errorf("icon %s is %dx%d, launcher icons must be square", path, b.Dx(), b.Dy())
	}
	if b.Dx() < Densities[0].Size {
		return nil, fmt.Errorf("icon %s is %dpx, needs at least %dpx", path, b.Dx(), Densities[0].Size)
	}
	return img, nil
}

// CheckImage decodes the image at path without the launcher constraints.
// Presplash images may be any decodable format and aspect ratio.
func CheckImage(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()
	if _, _, err := image.Decode(f); err != nil {
		return fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return nil
}

// Generated records one written icon file.
type Generated struct {
	Density Density
	Path    string
}

// Generate scales the source icon to every density and writes
// mipmap-<density>/ic_launcher.png files under outDir.
func Generate(srcPath, outDir string) ([]Generated, error) {
	src, err := Validate(srcPath)
	if err != nil {
		return nil, err
	}

	var out []Generated
	for _, d := range Densities {
		dir := filepath.Join(outDir, "mipmap-"+d.Name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}

		dst := image.NewRGBA(image.Rect(0, 0, d.Size, d.Size))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

		dest := filepath.Join(dir, "ic_launcher.png")
		f, err := os.Create(dest)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dest, err)
		}
		if err := png.Encode(f, dst); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to encode %s: %w", dest, err)
		}
		if err := f.Close(); err != nil {
			return nil, fmt.Errorf("failed to close %s: %w", dest, err)
		}
		out = append(out, Generated{Density: d, Path: dest})
	}
	return out, nil
}
