package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	errs "miscrits-atlas/internal/platform/errors"
)

// LoaderConfig points the loader at the species database: a CDN URL, a
// local file, or both (the file wins when set, for offline use).
type LoaderConfig struct {
	URL     string
	File    string
	Timeout time.Duration
}

// Load reads and decodes the species database. Called once at startup;
// the resulting slice is never mutated afterwards.
func Load(ctx context.Context, cfg LoaderConfig) ([]SpeciesMetadata, error) {
	const op = "catalog:load"

	var raw []byte
	var err error
	switch {
	case cfg.File != "":
		raw, err = os.ReadFile(cfg.File)
		if err != nil {
			return nil, errs.Wrap(errs.KindCatalog, op, "read local database", err)
		}
	case cfg.URL != "":
		raw, err = fetch(ctx, cfg.URL, cfg.Timeout)
		if err != nil {
			return nil, errs.Wrap(errs.KindCatalog, op, "fetch database", err)
		}
	default:
		return nil, errs.New(errs.KindCatalog, op, "no database source configured")
	}

	var species []SpeciesMetadata
	if err := json.Unmarshal(raw, &species); err != nil {
		return nil, errs.Wrap(errs.KindCatalog, op, "decode database", err)
	}
	if len(species) == 0 {
		return nil, errs.New(errs.KindCatalog, op, "database is empty")
	}
	return species, nil
}

func fetch(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
