package store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"
)

// Entity is an extracted code chunk as stored in SQLite.
type Entity struct {
	ID            int64  `json:"id"`
	Project       string `json:"project"`
	FilePath      string `json:"file_path"`
	Kind          string `json:"entity_type"`
	Name          string `json:"entity_name"`
	QualifiedName string `json:"qualified_name,omitempty"`
	StartLine     int    `json:"start_line"`
	EndLine       int    `json:"end_line"`
	StartByte     int    `json:"start_byte"`
	EndByte       int    `json:"end_byte"`
	Code          string `json:"code_content,omitempty"`
}

// Key returns the stable identity of an entity: the same kind over the same
// byte span of the same file always hashes to the same key.
func (e *Entity) Key() string {
	var b strings.Builder
	b.WriteString(e.Project)
	b.WriteByte(0)
	b.WriteString(e.FilePath)
	b.WriteByte(0)
	b.WriteString(e.Kind)
	b.WriteByte(0)
	b.WriteString(strconv.Itoa(e.StartByte))
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(e.EndByte))
	return fmt.Sprintf("%016x", xxh3.HashString(b.String()))
}

const entityColumns = `id, project, file_path, kind, name, qualified_name, start_line, end_line, start_byte, end_byte, code`

// ReplaceEntities swaps the stored entities of one file for ents.
// Entities with a duplicate key keep the first occurrence.
func (s *Store) ReplaceEntities(project, filePath string, ents []*Entity) error {
	if err := s.DeleteEntitiesByFile(project, filePath); err != nil {
		return err
	}
	for _, e := range ents {
		e.Project, e.FilePath = project, filePath
		_, err := s.q.Exec(`
			INSERT INTO entities (project, file_path, kind, name, qualified_name, start_line, end_line, start_byte, end_byte, code, entity_key)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(entity_key) DO NOTHING`,
			project, filePath, e.Kind, e.Name, e.QualifiedName, e.StartLine, e.EndLine, e.StartByte, e.EndByte, e.Code, e.Key())
		if err != nil {
			return fmt.Errorf("insert entity %s %s: %w", e.Kind, e.Name, err)
		}
	}
	return nil
}

// DeleteEntitiesByFile deletes all entities of one file.
func (s *Store) DeleteEntitiesByFile(project, filePath string) error {
	_, err := s.q.Exec("DELETE FROM entities WHERE project=? AND file_path=?", project, filePath)
	if err != nil {
		return fmt.Errorf("delete entities: %w", err)
	}
	return nil
}

// Filter narrows FindEntities. Zero fields match everything.
type Filter struct {
	// Name is a glob (* and ?) when it contains wildcards, else a substring.
	Name string
	Kind string
	// File is a glob over the relative file path.
	File   string
	Limit  int
	Offset int
	// WithCode loads code_content; listings leave it empty.
	WithCode bool
}

// FindEntities returns the entities of a project matching f, ordered by file
// and position.
func (s *Store) FindEntities(project string, f Filter) ([]*Entity, error) {
	conditions := []string{"project = ?"}
	args := []any{project}

	if f.Name != "" {
		pattern := "%" + f.Name + "%"
		if strings.ContainsAny(f.Name, "*?") {
			pattern = globToLike(f.Name)
		}
		conditions = append(conditions, "name LIKE ?")
		args = append(args, pattern)
	}
	if f.Kind != "" {
		conditions = append(conditions, "kind = ?")
		args = append(args, strings.ToUpper(f.Kind))
	}
	if f.File != "" {
		conditions = append(conditions, "file_path LIKE ?")
		args = append(args, globToLike(f.File))
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 100000
	}
	query := "SELECT " + entityColumns + " FROM entities WHERE " + strings.Join(conditions, " AND ") +
		" ORDER BY file_path, start_byte, id LIMIT ? OFFSET ?"
	args = append(args, limit, f.Offset)

	rows, err := s.q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("find entities: %w", err)
	}
	defer rows.Close()

	var result []*Entity
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		if !f.WithCode {
			e.Code = ""
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// FindEntityByID returns one entity including its code.
func (s *Store) FindEntityByID(id int64) (*Entity, error) {
	row := s.q.QueryRow("SELECT "+entityColumns+" FROM entities WHERE id=?", id)
	return scanEntity(row)
}

// CountEntities returns the number of entities stored for a project.
func (s *Store) CountEntities(project string) (int, error) {
	var count int
	err := s.q.QueryRow("SELECT COUNT(*) FROM entities WHERE project=?", project).Scan(&count)
	return count, err
}

// CountEntitiesByKind returns entity counts per kind for a project.
func (s *Store) CountEntitiesByKind(project string) (map[string]int, error) {
	rows, err := s.q.Query("SELECT kind, COUNT(*) FROM entities WHERE project=? GROUP BY kind", project)
	if err != nil {
		return nil, fmt.Errorf("count by kind: %w", err)
	}
	defer rows.Close()
	result := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		result[kind] = n
	}
	return result, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntity(row scanner) (*Entity, error) {
	var e Entity
	err := row.Scan(&e.ID, &e.Project, &e.FilePath, &e.Kind, &e.Name, &e.QualifiedName,
		&e.StartLine, &e.EndLine, &e.StartByte, &e.EndByte, &e.Code)
	if err != nil {
		return nil, fmt.Errorf("scan entity: %w", err)
	}
	return &e, nil
}

// globToLike converts a glob pattern to SQL LIKE pattern.
func globToLike(pattern string) string {
	result := strings.ReplaceAll(pattern, "**", "%")
	result = strings.ReplaceAll(result, "*", "%")
	result = strings.ReplaceAll(result, "?", "_")
	return result
}
