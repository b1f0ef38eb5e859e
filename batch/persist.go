package batch

import (
	"log/slog"

	"github.com/use-agent/cookieharvest/config"
	"github.com/use-agent/cookieharvest/models"
	"github.com/use-agent/cookieharvest/tabular"
)

// Persist writes collected to every file implied by out and returns the
// paths written. With MergeExisting, rows already present in each target
// file are kept ahead of the new ones. Nothing is written when there are no
// rows at all.
func Persist(out config.OutputConfig, collected models.CookieBatch) ([]string, error) {
	format, err := tabular.ParseFormat(out.Format)
	if err != nil {
		return nil, err
	}

	var written []string
	for _, path := range tabular.Paths(out.Path, format) {
		rows := collected
		if out.MergeExisting {
			existing, err := tabular.LoadExisting(path)
			if err != nil {
				return written, err
			}
			if len(existing) > 0 {
				slog.Info("merging existing output", "path", path, "existing", len(existing))
			}
			rows = models.CookieBatch(nil).Append(existing...).Append(collected...)
		}
		if len(rows) == 0 {
			slog.Warn("no cookies to save", "path", path)
			continue
		}

		if err := tabular.Save(path, tabular.FormatFromPath(path), rows); err != nil {
			return written, err
		}
		slog.Info("cookies saved", "path", path, "rows", len(rows))
		written = append(written, path)
	}
	return written, nil
}
