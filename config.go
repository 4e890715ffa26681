package lazyjson

import (
	"os"

	goccy "github.com/goccy/go-json"
)

// Settings bundles the Decoder and Encoder configuration a caller wants
// applied consistently across a whole process, typically loaded once at
// startup from a settings file.
type Settings struct {
	Decoder DecoderSettings `json:"decoder"`
	Encoder EncoderSettings `json:"encoder"`
}

// DefaultSettings returns Settings built from DefaultDecoderSettings and
// DefaultEncoderSettings.
func DefaultSettings() Settings {
	return Settings{Decoder: DefaultDecoderSettings(), Encoder: DefaultEncoderSettings()}
}

// LoadSettingsFile reads and parses a settings file at path. It is
// deliberately implemented with goccy/go-json rather than this
// package's own decoder: bootstrapping the library's own configuration
// with the library's own (not-yet-configured) decoder would be
// circular, and goccy/go-json is a drop-in, well-benchmarked substitute
// for encoding/json for exactly this kind of one-shot, non-hot-path
// parse.
func LoadSettingsFile(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, err
	}
	settings := DefaultSettings()
	if err := goccy.Unmarshal(data, &settings); err != nil {
		return Settings{}, err
	}
	return settings, nil
}
