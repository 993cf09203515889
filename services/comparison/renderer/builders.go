// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package renderer

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"github.com/AleutianAI/picturelab/services/comparison/fetch"
	"github.com/AleutianAI/picturelab/services/comparison/ociocfg"
)

// Builder materializes one renderer's on-disk resources and produces its
// Descriptor.
//
// Build is side-effecting: it fetches remote resources, unpacks them and
// possibly patches a config file, writing nothing outside the builder's
// directory. Build must fully construct the directory; the skip-existing
// policy for already-built renderers belongs to the caller (check
// ConfigPath before calling). ConfigPath and Renderer are pure and
// depend only on builder state.
type Builder interface {
	// Identifier is the stable identity, matching the descriptor's
	// Filename.
	Identifier() string

	// SourceURL points at the algorithm's upstream resource.
	SourceURL() string

	// ConfigPath returns where the OCIO config lives once built.
	ConfigPath() string

	// Renderer returns the descriptor for the built resources.
	Renderer() Descriptor

	// Build fetches and assembles the renderer's resources.
	Build(ctx context.Context) error
}

// acesStudioConfigURL is the stock ACES v2.0 studio config used both as a
// renderer in its own right and as the patch base for vendor LUTs.
const acesStudioConfigURL = "https://github.com/AcademySoftwareFoundation/OpenColorIO-Config-ACES/releases/download/v3.0.0/studio-config-all-views-v3.0.0_aces-v2.0_ocio-v2.4.ocio"

// builderBase carries the state every builder shares.
type builderBase struct {
	dir    string
	client *fetch.Client
}

// checkBuilt verifies the expected config file exists after a build.
func checkBuilt(configPath string) error {
	if _, err := os.Stat(configPath); err != nil {
		return fmt.Errorf("%w: %s", ErrConfigMissing, configPath)
	}
	return nil
}

// ----------------------------------------------------------------------------
// AgX
// ----------------------------------------------------------------------------

// AgXBuilder builds the original AgX config by Troy Sobotka.
type AgXBuilder struct{ builderBase }

func newAgXBuilder(dir string, client *fetch.Client) *AgXBuilder {
	return &AgXBuilder{builderBase{dir: dir, client: client}}
}

func (b *AgXBuilder) Identifier() string { return "AgX" }

func (b *AgXBuilder) SourceURL() string {
	return "https://github.com/sobotka/AgX/archive/refs/heads/main.zip"
}

func (b *AgXBuilder) ConfigPath() string {
	return filepath.Join(b.dir, "AgX-main", "config.ocio")
}

func (b *AgXBuilder) Renderer() Descriptor {
	return Descriptor{
		Name:          "AgX",
		Filename:      b.Identifier(),
		Description:   "The original AgX algorithm by Troy Sobotka.",
		ConfigPath:    b.ConfigPath(),
		SRGBLin:       "Linear BT.709",
		Display:       "sRGB",
		View:          "Appearance Punchy",
		SrcColorspace: ReferenceColorspace,
		SourceURL:     b.SourceURL(),
	}
}

func (b *AgXBuilder) Build(ctx context.Context) error {
	archivePath := filepath.Join(b.dir, "AgX.zip")
	if err := b.client.Download(ctx, b.SourceURL(), archivePath); err != nil {
		return err
	}
	if _, err := fetch.ExtractZip(archivePath, true); err != nil {
		return err
	}
	return checkBuilt(b.ConfigPath())
}

// ----------------------------------------------------------------------------
// AgX (Blender)
// ----------------------------------------------------------------------------

// AgXBlenderBuilder builds the AgX variant shipped with Blender, extracted
// from the Blender source tree's colormanagement data.
type AgXBlenderBuilder struct{ builderBase }

func newAgXBlenderBuilder(dir string, client *fetch.Client) *AgXBlenderBuilder {
	return &AgXBlenderBuilder{builderBase{dir: dir, client: client}}
}

func (b *AgXBlenderBuilder) Identifier() string { return "AgX.blender" }

func (b *AgXBlenderBuilder) SourceURL() string {
	return "https://projects.blender.org/blender/blender/archive/v4.2.7.zip"
}

func (b *AgXBlenderBuilder) ConfigPath() string {
	return filepath.Join(b.dir, "ocio", "config.ocio")
}

func (b *AgXBlenderBuilder) Renderer() Descriptor {
	return Descriptor{
		Name:          "AgX Blender-4.2.7",
		Filename:      b.Identifier(),
		Description:   "The improved AgX algorithm implemented in Blender.",
		ConfigPath:    b.ConfigPath(),
		SRGBLin:       "Linear Rec.709",
		Display:       "sRGB",
		View:          "AgX",
		Look:          "AgX - Punchy",
		SrcColorspace: ReferenceColorspace,
		SourceURL:     b.SourceURL(),
	}
}

func (b *AgXBlenderBuilder) Build(ctx context.Context) error {
	archivePath := filepath.Join(b.dir, "blender.zip")
	if err := b.client.Download(ctx, b.SourceURL(), archivePath); err != nil {
		return err
	}
	if _, err := fetch.ExtractZip(archivePath, true); err != nil {
		return err
	}

	srcDir := filepath.Join(b.dir, "blender", "release", "datafiles", "colormanagement")
	dstDir := filepath.Dir(b.ConfigPath())
	if err := os.RemoveAll(dstDir); err != nil {
		return fmt.Errorf("cleaning %s: %w", dstDir, err)
	}
	if err := copyDir(srcDir, dstDir); err != nil {
		return fmt.Errorf("copying colormanagement data: %w", err)
	}
	if err := os.RemoveAll(filepath.Join(b.dir, "blender")); err != nil {
		return fmt.Errorf("removing blender tree: %w", err)
	}
	return checkBuilt(b.ConfigPath())
}

// ----------------------------------------------------------------------------
// AgXc
// ----------------------------------------------------------------------------

// AgXcBuilder builds the AgXc variant, closer to the Blender flavor.
type AgXcBuilder struct{ builderBase }

func newAgXcBuilder(dir string, client *fetch.Client) *AgXcBuilder {
	return &AgXcBuilder{builderBase{dir: dir, client: client}}
}

func (b *AgXcBuilder) Identifier() string { return "AgXc" }

func (b *AgXcBuilder) SourceURL() string {
	return "https://github.com/MrLixm/AgXc/archive/refs/heads/refacto/ocio-overhaul.zip"
}

func (b *AgXcBuilder) ConfigPath() string {
	return filepath.Join(b.dir, "AgXc-refacto-ocio-overhaul", "ocio", "AgXc_default_OCIO-v2", "config.ocio")
}

func (b *AgXcBuilder) Renderer() Descriptor {
	return Descriptor{
		Name:          "AgXc v1.0",
		Filename:      b.Identifier(),
		Description:   "Another custom variant of AgX, closer to Blender variant. Not yet released.",
		ConfigPath:    b.ConfigPath(),
		SRGBLin:       "sRGB-linear",
		Display:       "sRGB-2.2",
		View:          "AgXc.base Punchy",
		SrcColorspace: ReferenceColorspace,
		SourceURL:     b.SourceURL(),
	}
}

func (b *AgXcBuilder) Build(ctx context.Context) error {
	archivePath := filepath.Join(b.dir, "AgXc.zip")
	if err := b.client.Download(ctx, b.SourceURL(), archivePath); err != nil {
		return err
	}
	if _, err := fetch.ExtractZip(archivePath, true); err != nil {
		return err
	}
	return checkBuilt(b.ConfigPath())
}

// ----------------------------------------------------------------------------
// TCAMv3
// ----------------------------------------------------------------------------

// TCAMBuilder builds FilmLight's Truelight CAM v3 colorspace package.
// FilmLight serves it behind a form submission, hence the POST download.
type TCAMBuilder struct{ builderBase }

func newTCAMBuilder(dir string, client *fetch.Client) *TCAMBuilder {
	return &TCAMBuilder{builderBase{dir: dir, client: client}}
}

func (b *TCAMBuilder) Identifier() string { return "TCAMv3" }

func (b *TCAMBuilder) SourceURL() string {
	return "https://www.filmlight.ltd.uk/resources/download.php"
}

func (b *TCAMBuilder) ConfigPath() string {
	return filepath.Join(b.dir, "TCS_TCAMv3", "TCS_TCAMv3.ocio")
}

func (b *TCAMBuilder) Renderer() Descriptor {
	return Descriptor{
		Name:          "TCAMv3",
		Filename:      b.Identifier(),
		Description:   "Filmlight's algorithm which is best working in the context of their grading tools.",
		ConfigPath:    b.ConfigPath(),
		SRGBLin:       "CGI: Linear : Rec.709",
		Display:       "sRGB Display: 2.2 Gamma : Rec.709 Truelight CAM v3",
		View:          "sRGB Display: 2.2 Gamma : Rec.709",
		SrcColorspace: ReferenceColorspace,
		SourceURL:     b.SourceURL(),
	}
}

func (b *TCAMBuilder) Build(ctx context.Context) error {
	archivePath := filepath.Join(b.dir, "TCAM.zip")
	params := url.Values{
		"access":    {"public"},
		"download":  {"colourspaces/TCS_TCAMv3.zip"},
		"last_page": {"/support/customer-login/colourspaces/colourspaces.php"},
		"button.x":  {"9"},
		"button.y":  {"6"},
	}
	headers := map[string]string{
		"User-Agent":   "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:136.0) Gecko/20100101 Firefox/136.0",
		"Content-Type": "application/x-www-form-urlencoded",
	}
	if err := b.client.DownloadForm(ctx, b.SourceURL(), archivePath, params, headers); err != nil {
		return err
	}
	if _, err := fetch.ExtractZip(archivePath, true); err != nil {
		return err
	}
	return checkBuilt(b.ConfigPath())
}

// ----------------------------------------------------------------------------
// ARRI Reveal
// ----------------------------------------------------------------------------

// ARRIBuilder builds the ARRI Reveal picture formation.
//
// ARRI only publishes Reveal as display-ready LUTs, so the build grafts
// the LogC4-to-Rec709 LUT onto the stock ACES config as a new colorspace
// and display view.
type ARRIBuilder struct{ builderBase }

func newARRIBuilder(dir string, client *fetch.Client) *ARRIBuilder {
	return &ARRIBuilder{builderBase{dir: dir, client: client}}
}

const arriLUTName = "ARRI_LogC4-to-Gamma24_Rec709-D65_v1-65.cube"

func (b *ARRIBuilder) Identifier() string { return "ARRIreveal" }

func (b *ARRIBuilder) SourceURL() string {
	return "https://www.arri.com/resource/blob/280728/7933fd1ce4de9165b906936661ab54eb/arri-logc4-lut-package-data.zip"
}

func (b *ARRIBuilder) ConfigPath() string {
	return filepath.Join(b.dir, filepath.Base(acesStudioConfigURL))
}

func (b *ARRIBuilder) Renderer() Descriptor {
	return Descriptor{
		Name:          "ARRI Reveal",
		Filename:      b.Identifier(),
		Description:   `The ARRI "color-science" pipeline, based on their provided display LUTs.`,
		ConfigPath:    b.ConfigPath(),
		SRGBLin:       "Linear Rec.709 (sRGB)",
		Display:       "sRGB - 2.2",
		View:          "ARRI Reveal",
		SrcColorspace: ReferenceColorspace,
		SourceURL:     b.SourceURL(),
	}
}

func (b *ARRIBuilder) Build(ctx context.Context) error {
	archivePath := filepath.Join(b.dir, "arri.zip")
	if err := b.client.Download(ctx, b.SourceURL(), archivePath); err != nil {
		return err
	}
	if _, err := fetch.ExtractZip(archivePath, true); err != nil {
		return err
	}
	if err := b.client.Download(ctx, acesStudioConfigURL, b.ConfigPath()); err != nil {
		return err
	}

	// The LUT must live next to the config so the search path resolves it.
	srcLUTPath, err := findFile(b.dir, arriLUTName)
	if err != nil {
		return err
	}
	if err := copyFile(srcLUTPath, filepath.Join(b.dir, arriLUTName)); err != nil {
		return err
	}

	cfg, err := ociocfg.Load(b.ConfigPath())
	if err != nil {
		return err
	}
	const arriColorspace = "ARRI Gamma24 Rec709-D65 v1"
	err = cfg.AddColorSpace(arriColorspace,
		ociocfg.ColorSpaceTransform("ACES2065-1", "ARRI LogC4"),
		ociocfg.FileTransform(arriLUTName, "linear"),
		// The LUT outputs BT.1886; re-encode to 2.2 to stay uniform with
		// the other renderers.
		ociocfg.ColorSpaceTransform("Gamma 2.4 Encoded Rec.709", "Gamma 2.2 Encoded Rec.709"),
	)
	if err != nil {
		return err
	}
	if err := cfg.AddDisplayView("sRGB - 2.2", "ARRI Reveal", arriColorspace); err != nil {
		return err
	}
	cfg.SetSearchPath(".")
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.WriteFile(b.ConfigPath()); err != nil {
		return err
	}
	return checkBuilt(b.ConfigPath())
}

// ----------------------------------------------------------------------------
// ACES
// ----------------------------------------------------------------------------

// ACES13gmBuilder builds ACES v1.3 with the gamut compression look.
type ACES13gmBuilder struct{ builderBase }

func newACES13gmBuilder(dir string, client *fetch.Client) *ACES13gmBuilder {
	return &ACES13gmBuilder{builderBase{dir: dir, client: client}}
}

func (b *ACES13gmBuilder) Identifier() string { return "ACESv1.3-gm" }

func (b *ACES13gmBuilder) SourceURL() string {
	return "https://github.com/AcademySoftwareFoundation/OpenColorIO-Config-ACES/releases/download/v2.1.0-v2.2.0/studio-config-v2.1.0_aces-v1.3_ocio-v2.1.ocio"
}

func (b *ACES13gmBuilder) ConfigPath() string {
	return filepath.Join(b.dir, filepath.Base(b.SourceURL()))
}

func (b *ACES13gmBuilder) Renderer() Descriptor {
	return Descriptor{
		Name:          "ACES v1.3 + Gamut Mapping",
		Filename:      b.Identifier(),
		Description:   `The Academy Color Encoding System on major version 1, with their "Gamut Compression" look.`,
		ConfigPath:    b.ConfigPath(),
		SRGBLin:       "Linear Rec.709 (sRGB)",
		Display:       "sRGB - Display",
		View:          "ACES 1.0 - SDR Video",
		Look:          "ACES 1.3 Reference Gamut Compression",
		SrcColorspace: ReferenceColorspace,
		SourceURL:     b.SourceURL(),
	}
}

func (b *ACES13gmBuilder) Build(ctx context.Context) error {
	if err := b.client.Download(ctx, b.SourceURL(), b.ConfigPath()); err != nil {
		return err
	}
	return checkBuilt(b.ConfigPath())
}

// ACES2gmBuilder builds ACES v2.0 with the gamut compression look. Its
// directory is shared by the ACESv2.0 and native derivations.
type ACES2gmBuilder struct{ builderBase }

func newACES2gmBuilder(dir string, client *fetch.Client) *ACES2gmBuilder {
	return &ACES2gmBuilder{builderBase{dir: dir, client: client}}
}

func (b *ACES2gmBuilder) Identifier() string { return "ACESv2.0-gm" }

func (b *ACES2gmBuilder) SourceURL() string { return acesStudioConfigURL }

func (b *ACES2gmBuilder) ConfigPath() string {
	return filepath.Join(b.dir, filepath.Base(b.SourceURL()))
}

func (b *ACES2gmBuilder) Renderer() Descriptor {
	return Descriptor{
		Name:          "ACES v2.0 + Gamut Mapping",
		Filename:      b.Identifier(),
		Description:   `The Academy Color Encoding System on major version 2, with their "Gamut Compression" look.`,
		ConfigPath:    b.ConfigPath(),
		SRGBLin:       "Linear Rec.709 (sRGB)",
		Display:       "sRGB - Display",
		View:          "ACES 2.0 - SDR 100 nits (Rec.709)",
		Look:          "ACES 1.3 Reference Gamut Compression",
		SrcColorspace: ReferenceColorspace,
		SourceURL:     b.SourceURL(),
	}
}

func (b *ACES2gmBuilder) Build(ctx context.Context) error {
	if err := b.client.Download(ctx, b.SourceURL(), b.ConfigPath()); err != nil {
		return err
	}
	return checkBuilt(b.ConfigPath())
}

// ACES2Builder is ACES v2.0 without the gamut compression look. It shares
// the ACESv2.0-gm builder's resources and only overrides descriptor
// fields; the base build is never duplicated.
type ACES2Builder struct{ base *ACES2gmBuilder }

func newACES2Builder(base *ACES2gmBuilder) *ACES2Builder {
	return &ACES2Builder{base: base}
}

func (b *ACES2Builder) Identifier() string { return "ACESv2.0" }

func (b *ACES2Builder) SourceURL() string { return b.base.SourceURL() }

func (b *ACES2Builder) ConfigPath() string { return b.base.ConfigPath() }

func (b *ACES2Builder) Renderer() Descriptor {
	d := b.base.Renderer()
	d.Name = "ACES v2.0"
	d.Filename = b.Identifier()
	d.Description = "The Academy Color Encoding System on major version 2."
	d.Look = ""
	return d
}

func (b *ACES2Builder) Build(ctx context.Context) error {
	return b.base.Build(ctx)
}

// NativeBuilder is the "no picture formation" rendering: the ACES config's
// un-tone-mapped view, where anything outside the target volume clips.
type NativeBuilder struct{ base *ACES2gmBuilder }

func newNativeBuilder(base *ACES2gmBuilder) *NativeBuilder {
	return &NativeBuilder{base: base}
}

func (b *NativeBuilder) Identifier() string { return "native" }

func (b *NativeBuilder) SourceURL() string { return b.base.SourceURL() }

func (b *NativeBuilder) ConfigPath() string { return b.base.ConfigPath() }

func (b *NativeBuilder) Renderer() Descriptor {
	d := b.base.Renderer()
	d.Name = "Native (no image formation)"
	d.Filename = b.Identifier()
	d.Description = "No picture formation is applied, anything outside the target volume is clipped."
	d.View = "Un-tone-mapped"
	d.Look = ""
	return d
}

func (b *NativeBuilder) Build(ctx context.Context) error {
	return b.base.Build(ctx)
}

// ----------------------------------------------------------------------------
// OpenDRT / 2499DRT
// ----------------------------------------------------------------------------

// OpenDRTBuilder builds Jed Smith's open display rendering transform from
// the PixelManager OCIO packaging. Its directory is shared by 2499DRT.
type OpenDRTBuilder struct{ builderBase }

func newOpenDRTBuilder(dir string, client *fetch.Client) *OpenDRTBuilder {
	return &OpenDRTBuilder{builderBase{dir: dir, client: client}}
}

const pixelManagerRef = "c8716a42c7e03c6573915ad24f19eccfc39f687c"

func (b *OpenDRTBuilder) Identifier() string { return "OpenDRT" }

func (b *OpenDRTBuilder) SourceURL() string {
	return "https://github.com/Joegenco/PixelManager/archive/" + pixelManagerRef + ".zip"
}

func (b *OpenDRTBuilder) ConfigPath() string {
	return filepath.Join(b.dir, "ocio", "config.ocio")
}

func (b *OpenDRTBuilder) Renderer() Descriptor {
	return Descriptor{
		Name:          "OpenDRT",
		Filename:      b.Identifier(),
		Description:   "An open source display rendering transform authored by Jed Smith (https://github.com/jedypod/open-display-transform).",
		ConfigPath:    b.ConfigPath(),
		SRGBLin:       "Linear Rec.709",
		Display:       "sRGB",
		View:          "OpenDRT",
		SrcColorspace: ReferenceColorspace,
		SourceURL:     b.SourceURL(),
	}
}

func (b *OpenDRTBuilder) Build(ctx context.Context) error {
	tmpDir := filepath.Join(b.dir, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", tmpDir, err)
	}
	archivePath := filepath.Join(tmpDir, "PixelManager.zip")
	if err := b.client.Download(ctx, b.SourceURL(), archivePath); err != nil {
		return err
	}
	if _, err := fetch.ExtractZip(archivePath, true); err != nil {
		return err
	}

	ocioDir := filepath.Dir(b.ConfigPath())
	if err := os.RemoveAll(ocioDir); err != nil {
		return fmt.Errorf("cleaning %s: %w", ocioDir, err)
	}
	extracted := filepath.Join(tmpDir, "PixelManager-"+pixelManagerRef)
	if err := os.Rename(extracted, ocioDir); err != nil {
		return fmt.Errorf("moving %s: %w", extracted, err)
	}
	return checkBuilt(b.ConfigPath())
}

// DRT2499Builder is Juan Pablo Zambrano's 2499DRT, shipped in the same
// PixelManager config as OpenDRT. It shares OpenDRT's build and only the
// descriptor differs.
type DRT2499Builder struct{ base *OpenDRTBuilder }

func newDRT2499Builder(base *OpenDRTBuilder) *DRT2499Builder {
	return &DRT2499Builder{base: base}
}

func (b *DRT2499Builder) Identifier() string { return "2499DRT" }

func (b *DRT2499Builder) SourceURL() string { return b.base.SourceURL() }

func (b *DRT2499Builder) ConfigPath() string { return b.base.ConfigPath() }

func (b *DRT2499Builder) Renderer() Descriptor {
	d := b.base.Renderer()
	d.Name = "2499DRT"
	d.Filename = b.Identifier()
	d.Description = "A .dctl algorithm by Juan Pablo Zambrano (https://github.com/JuanPabloZambrano/DCTL/tree/main/2499_DRT)."
	d.View = "JP2499DRT"
	return d
}

func (b *DRT2499Builder) Build(ctx context.Context) error {
	return b.base.Build(ctx)
}

// ----------------------------------------------------------------------------
// Kodak 2383
// ----------------------------------------------------------------------------

// Kodak2383Builder builds the Kodak 2383 print film emulation, an ACES
// LMT authored by Blackmagic, grafted onto the stock ACES config.
type Kodak2383Builder struct{ builderBase }

func newKodak2383Builder(dir string, client *fetch.Client) *Kodak2383Builder {
	return &Kodak2383Builder{builderBase{dir: dir, client: client}}
}

const kodakLUTName = "LMT-Kodak-2383-Print-Emulation.clf"

func (b *Kodak2383Builder) Identifier() string { return "Kodak2383" }

func (b *Kodak2383Builder) SourceURL() string {
	return "https://www.dropbox.com/s/qn62wg07f21jydp/LMT%20Kodak%202383%20Print%20Emulation.xml?dl=1"
}

func (b *Kodak2383Builder) ConfigPath() string {
	return filepath.Join(b.dir, filepath.Base(acesStudioConfigURL))
}

func (b *Kodak2383Builder) Renderer() Descriptor {
	return Descriptor{
		Name:          "Kodak2383",
		Filename:      b.Identifier(),
		Description:   "The iconic Kodak2383 print film simulation LUT, authored by Blackmagic as an ACES LMT.",
		ConfigPath:    b.ConfigPath(),
		SRGBLin:       "Linear Rec.709 (sRGB)",
		Display:       "sRGB - 2.2",
		View:          "Kodak2383",
		SrcColorspace: ReferenceColorspace,
		SourceURL:     b.SourceURL(),
	}
}

func (b *Kodak2383Builder) Build(ctx context.Context) error {
	lutPath := filepath.Join(b.dir, kodakLUTName)
	if err := b.client.Download(ctx, b.SourceURL(), lutPath); err != nil {
		return err
	}
	if err := b.client.Download(ctx, acesStudioConfigURL, b.ConfigPath()); err != nil {
		return err
	}

	cfg, err := ociocfg.Load(b.ConfigPath())
	if err != nil {
		return err
	}
	const kodakColorspace = "Kodak2383 AP0"
	err = cfg.AddColorSpace(kodakColorspace,
		ociocfg.FileTransform(kodakLUTName, ""),
		// The LMT outputs ACES2065-1; form the picture through the stock
		// sRGB display colorspace.
		ociocfg.ColorSpaceTransform("ACES2065-1", "sRGB - Display"),
	)
	if err != nil {
		return err
	}
	if err := cfg.AddDisplayView("sRGB - 2.2", "Kodak2383", kodakColorspace); err != nil {
		return err
	}
	cfg.SetSearchPath(".")
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.WriteFile(b.ConfigPath()); err != nil {
		return err
	}
	return checkBuilt(b.ConfigPath())
}

// ----------------------------------------------------------------------------
// Filesystem helpers
// ----------------------------------------------------------------------------

// findFile locates a file by name anywhere under root.
func findFile(root, name string) (string, error) {
	var found string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == name {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("searching for %s: %w", name, err)
	}
	if found == "" {
		return "", fmt.Errorf("%w: %s not found under %s", ErrConfigMissing, name, root)
	}
	return found, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		if closeErr := out.Close(); closeErr != nil {
			return fmt.Errorf("%w (also failed to close %s: %v)", err, dst, closeErr)
		}
		return err
	}
	return out.Close()
}

func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}
