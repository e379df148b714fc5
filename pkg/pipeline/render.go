package pipeline

import (
	"github.com/matzehuels/spanstack/pkg/errors"
	"github.com/matzehuels/spanstack/pkg/render/sink"
	"github.com/matzehuels/spanstack/pkg/stack"
)

// renderFormats produces every requested artifact from the layout.
// Injected renderers take precedence for formats outside the built-in set;
// built-in formats always use the bundled sinks.
func renderFormats(layout stack.Layout, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		data, err := renderFormat(layout, format, opts)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func renderFormat(layout stack.Layout, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		var jsonOpts []sink.JSONOption
		if opts.Totals {
			jsonOpts = append(jsonOpts, sink.WithJSONTotals())
		}
		if opts.CompactJSON {
			jsonOpts = append(jsonOpts, sink.WithJSONCompact())
		}
		return sink.RenderJSON(layout, jsonOpts...)

	case FormatCSV:
		var csvOpts []sink.CSVOption
		if opts.Totals {
			csvOpts = append(csvOpts, sink.WithCSVTotals())
		}
		return sink.RenderCSV(layout, csvOpts...)
	}

	if r, ok := opts.Renderers[format]; ok {
		data, err := r.Render(layout)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "renderer %q", format)
		}
		return data, nil
	}

	return nil, errors.New(errors.ErrCodeInvalidFormat, "no renderer for format %q", format)
}

// artifactKeySuffix widens the artifact cache key with the render options
// that change the artifact bytes for a given layout.
func artifactKeySuffix(format string, opts Options) string {
	suffix := format
	if opts.Totals {
		suffix += "+totals"
	}
	if opts.CompactJSON && format == FormatJSON {
		suffix += "+compact"
	}
	return suffix
}
