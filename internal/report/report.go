// Package report assembles and writes the final company table.
package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"portfolio-engine/internal/domain"

	"github.com/gofrs/flock"
)

// Header is the first CSV row.
var Header = []string{"company_name", "website", "description", "source", "last_round"}

// Merge concatenates the groups in the order given.
func Merge(groups ...[]domain.Company) []domain.Company {
	n := 0
	for _, g := range groups {
		n += len(g)
	}
	out := make([]domain.Company, 0, n)
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// Row is the CSV form of one company.
func Row(c domain.Company) []string {
	return []string{c.Name, c.Website, c.Description, c.Source, c.Round.String()}
}

// WriteCSV replaces path with the header and one row per company. The write
// holds an exclusive lock on path+".lock" and lands through a rename, so
// readers never see a partial file.
func WriteCSV(ctx context.Context, path string, companies []domain.Company) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	lock := flock.New(path + ".lock")
	lctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	locked, err := lock.TryLockContext(lctx, 100*time.Millisecond)
	if err != nil {
		return fmt.Errorf("lock %s: %w", path, err)
	}
	if !locked {
		return fmt.Errorf("lock %s: busy", path)
	}
	defer func() { _ = lock.Unlock() }()

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	w := csv.NewWriter(tmp)
	if err := w.Write(Header); err != nil {
		_ = tmp.Close()
		return err
	}
	for _, c := range companies {
		if err := w.Write(Row(c)); err != nil {
			_ = tmp.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
