package views

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/moodisland/internal/client/models"
)

type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

var ErrUnknownFormat = errors.New("unknown export format")

// ExportDiary writes entries in the given format.
func ExportDiary(w io.Writer, entries []models.DiaryEntry, format Format) error {
	if entries == nil {
		entries = []models.DiaryEntry{}
	}
	switch format {
	case FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		defer func() { _ = enc.Close() }()
		enc.SetIndent(2)
		return enc.Encode(entries)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
