package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ifmais/storefront/internal/core/domain"
	"github.com/ifmais/storefront/internal/core/port"
)

var _ port.SnapshotRepository = (*FileSnapshotRepository)(nil)

// A FileSnapshotRepository keeps the cart snapshot in a single JSON
// file at a fixed path. Absent or corrupt data loads as an empty cart.
type FileSnapshotRepository struct {
	path string
}

func NewFileSnapshotRepository(path string) FileSnapshotRepository {
	return FileSnapshotRepository{path}
}

func (r FileSnapshotRepository) Load(
	ctx context.Context,
) ([]domain.CartLine, error) {
	const op = "FileSnapshotRepository.Load"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lines, err := unmarshalSnapshot(data)
	if err != nil {
		log.Warn("corrupt cart snapshot, treating as empty", "err", err)
		return nil, nil
	}
	return lines, nil
}

func (r FileSnapshotRepository) Save(
	ctx context.Context, lines []domain.CartLine,
) error {
	const op = "FileSnapshotRepository.Save"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	data, err := marshalSnapshot(lines)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	// Write-then-rename so a crash mid-save leaves the prior snapshot
	// intact rather than a truncated file.
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
