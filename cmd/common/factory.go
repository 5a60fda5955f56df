package common

import (
	"fmt"
	"os"

	"github.com/jonesrussell/pagesift/internal/analyze"
	"github.com/jonesrussell/pagesift/internal/scrape"
	"github.com/jonesrussell/pagesift/internal/validate"
)

// NewPageSession reads an HTML file and opens a scrape session configured
// from the loaded application config.
func NewPageSession(deps *CommandDeps, htmlPath, site, baseURL string) (*scrape.Session, error) {
	data, err := os.ReadFile(htmlPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read HTML file %s: %w", htmlPath, err)
	}

	session, err := scrape.NewSession(string(data), site,
		scrape.WithLogger(deps.Logger),
		scrape.WithBaseURL(baseURL),
		scrape.WithDetector(analyze.Options{
			MaxGroups:          deps.Config.Detector.MaxGroups,
			SampleSize:         deps.Config.Detector.SampleSize,
			MaxPatternExamples: deps.Config.Detector.MaxPatternExamples,
		}),
		scrape.WithThresholds(validate.Thresholds{
			FieldGood:        deps.Config.Thresholds.FieldGood,
			FieldNeedsWork:   deps.Config.Thresholds.FieldNeedsWork,
			OverallExcellent: deps.Config.Thresholds.OverallExcellent,
			OverallGood:      deps.Config.Thresholds.OverallGood,
			OverallNeedsWork: deps.Config.Thresholds.OverallNeedsWork,
		}),
	)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// OpenOutput returns the writer for a command's result: the named file
// when a path is given, stdout otherwise. The returned closer is a no-op
// for stdout.
func OpenOutput(path string) (*os.File, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file %s: %w", path, err)
	}
	return f, f.Close, nil
}
