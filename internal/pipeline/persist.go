package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/a-menaf-altintas/codescan/internal/extract"
	"github.com/a-menaf-altintas/codescan/internal/fqn"
	"github.com/a-menaf-altintas/codescan/internal/store"
)

// PersistStats counts what Persist did per file.
type PersistStats struct {
	Changed   int
	Unchanged int
	Removed   int
}

// Persist writes a scan result into the chunk store in one transaction.
// Files whose content hash matches the previous persisted scan keep their
// stored entities; files that disappeared lose theirs. Files that were not
// read (names-only, read failures) are left untouched.
func Persist(s *store.Store, res *Result) (PersistStats, error) {
	return persist(s, res, false)
}

// PersistFull is Persist without the content-hash shortcut: every stored
// hash of the project is dropped first, so each read file has its entities
// rewritten. Use it after the entity catalog changed.
func PersistFull(s *store.Store, res *Result) (PersistStats, error) {
	return persist(s, res, true)
}

func persist(s *store.Store, res *Result, full bool) (PersistStats, error) {
	var ps PersistStats
	project := res.ProjectName

	byFile := make(map[string][]extract.Entity)
	for _, c := range res.Chunks {
		byFile[c.FilePath] = append(byFile[c.FilePath], c)
	}

	err := s.WithTransaction(func(tx *store.Store) error {
		if err := tx.UpsertProject(project, res.Root, res.Summary); err != nil {
			return err
		}
		stored, err := tx.GetFileHashes(project)
		if err != nil {
			return err
		}
		if full {
			if err := tx.DeleteFileHashes(project); err != nil {
				return fmt.Errorf("clear hashes: %w", err)
			}
		}

		present := make(map[string]bool, len(res.Files))
		for _, f := range res.Files {
			present[f.Path] = true
			if f.Hash == "" {
				continue
			}
			if !full && stored[f.Path] == f.Hash {
				ps.Unchanged++
				continue
			}
			if err := tx.ReplaceEntities(project, f.Path, toStoreEntities(project, byFile[f.Path])); err != nil {
				return fmt.Errorf("persist %s: %w", f.Path, err)
			}
			if err := tx.UpsertFileHash(project, f.Path, f.Hash); err != nil {
				return fmt.Errorf("persist hash %s: %w", f.Path, err)
			}
			ps.Changed++
		}

		for path := range stored {
			if present[path] {
				continue
			}
			if err := tx.DeleteEntitiesByFile(project, path); err != nil {
				return err
			}
			if err := tx.DeleteFileHash(project, path); err != nil {
				return err
			}
			ps.Removed++
		}
		return nil
	})
	if err != nil {
		return ps, err
	}
	slog.Info("persist.done", "project", project, "full", full, "changed", ps.Changed, "unchanged", ps.Unchanged, "removed", ps.Removed)
	return ps, nil
}

func toStoreEntities(project string, ents []extract.Entity) []*store.Entity {
	out := make([]*store.Entity, len(ents))
	for i, e := range ents {
		out[i] = &store.Entity{
			Project:       project,
			FilePath:      e.FilePath,
			Kind:          string(e.Kind),
			Name:          e.Name,
			QualifiedName: fqn.Compute(project, e.FilePath, e.Name),
			StartLine:     e.StartLine,
			EndLine:       e.EndLine,
			StartByte:     e.StartByte,
			EndByte:       e.EndByte,
			Code:          e.Code,
		}
	}
	return out
}
