// Package profile defines the encoder profiles a clip can be exported
// with. Profiles live in an ordered catalog and are selected by index,
// so the order in which they are declared is the order the user cycles
// through them.
package profile

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// CopyID is the identifier of the stream-copy profile. It is the only
// identifier that does not name an encoder.
const CopyID = "copy"

type Mode int

const (
	ModeUnsupported Mode = iota
	// ModeCopy passes the compressed video (and audio) through
	// without re-encoding.
	ModeCopy
	// ModeEncode re-encodes video with a named encoder and audio
	// with the fixed audio encoder.
	ModeEncode
)

var (
	// knownEncoders lists the video encoders a profile may
	// name. Anything else is rejected when the export command is
	// built, not when the catalog is loaded, so a typo in the
	// config shows up as a clear message at export time.
	knownEncoders = map[string]bool{
		"libx264":           true,
		"libx265":           true,
		"libsvtav1":         true,
		"libvpx-vp9":        true,
		"h264_nvenc":        true,
		"hevc_nvenc":        true,
		"av1_nvenc":         true,
		"h264_qsv":          true,
		"hevc_qsv":          true,
		"h264_vaapi":        true,
		"hevc_vaapi":        true,
		"h264_videotoolbox": true,
		"hevc_videotoolbox": true,
		"h264_amf":          true,
		"hevc_amf":          true,
	}
)

// Profile is a named encoder configuration.
type Profile struct {
	// ID is the encoder identifier passed to the encoding tool,
	// or CopyID.
	ID string `mapstructure:"id"`
	// Label is the human readable name shown in the status line.
	Label string `mapstructure:"label"`
	// Options are extra encoder options, appended verbatim and in
	// order after the encoder identifier.
	Options []string `mapstructure:"options"`
}

func (p Profile) Mode() Mode {
	if p.ID == CopyID {
		return ModeCopy
	}
	if knownEncoders[p.ID] {
		return ModeEncode
	}
	return ModeUnsupported
}

func (p Profile) String() string {
	if p.Label == "" || p.Label == p.ID {
		return p.ID
	}
	return fmt.Sprintf("%s (%s)", p.Label, p.ID)
}

// Catalog is the ordered, non-empty list of selectable profiles.
type Catalog []Profile

// Wrap maps any index, including negative ones, onto the catalog.
func (c Catalog) Wrap(i int) int {
	n := len(c)
	if n == 0 {
		return 0
	}
	return ((i % n) + n) % n
}

// At returns the profile at index i modulo the catalog length.
func (c Catalog) At(i int) Profile {
	return c[c.Wrap(i)]
}

func (c Catalog) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("profile catalog is empty")
	}
	seen := make(map[string]bool, len(c))
	for i, p := range c {
		if strings.TrimSpace(p.ID) == "" {
			return fmt.Errorf("profile %d has no id", i)
		}
		if seen[p.ID] {
			return fmt.Errorf("profile %q is declared more than once", p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

// Default returns the built-in catalog. A fresh slice is returned on
// every call so callers can never share (and mutate) the same backing
// array.
func Default() Catalog {
	return Catalog{
		{
			ID:    CopyID,
			Label: "Stream copy",
		},
		{
			ID:      "libx264",
			Label:   "H.264 (x264)",
			Options: []string{"-preset", "veryfast", "-crf", "20"},
		},
		{
			ID:      "libx265",
			Label:   "H.265 (x265)",
			Options: []string{"-preset", "medium", "-crf", "24"},
		},
		{
			ID:      "h264_nvenc",
			Label:   "H.264 (NVENC)",
			Options: []string{"-preset", "p5", "-cq", "21"},
		},
		{
			ID:      "hevc_nvenc",
			Label:   "H.265 (NVENC)",
			Options: []string{"-preset", "p5", "-cq", "24"},
		},
	}
}

// Load reads the catalog from the "profiles" key. When the key is
// unset or empty, the default catalog is used.
func Load(v *viper.Viper) (Catalog, error) {
	if !v.IsSet("profiles") {
		return Default(), nil
	}
	var c Catalog
	if err := v.UnmarshalKey("profiles", &c); err != nil {
		return nil, fmt.Errorf("reading profiles: %w", err)
	}
	if len(c) == 0 {
		return Default(), nil
	}
	for i := range c {
		if c[i].Label == "" {
			c[i].Label = c[i].ID
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
