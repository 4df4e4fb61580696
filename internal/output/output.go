package output

import (
	"fmt"
	"io"
	"os"

	"github.com/dshills/vetter/internal/review"
)

// Report is everything a run produced, as handed to a Writer.
type Report struct {
	Tool       string            `json:"tool"`
	Version    string            `json:"version"`
	Source     string            `json:"source"`
	Posted     bool              `json:"posted"`
	Results    review.Results    `json:"results"`
	Submission review.Submission `json:"submission"`
	Timing     Timing            `json:"timing"`
}

// Timing records how long the run took.
type Timing struct {
	FetchMs  int64 `json:"fetchMs"`
	ReviewMs int64 `json:"reviewMs"`
	TotalMs  int64 `json:"totalMs"`
}

// Writer writes a report in a specific format.
type Writer interface {
	Write(w io.Writer, report *Report) error
}

// GetWriter returns a writer for the specified format.
func GetWriter(format string) (Writer, error) {
	switch format {
	case "text":
		return &TextWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	case "markdown":
		return &MarkdownWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteReport writes the report to the specified output (file path or stdout).
func WriteReport(report *Report, format, outPath string) error {
	writer, err := GetWriter(format)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	return writer.Write(w, report)
}
