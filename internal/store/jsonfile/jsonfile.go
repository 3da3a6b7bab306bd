// Package jsonfile is a single-file storage adapter meant for personal,
// single-process deployments. The whole database is one JSON document that is
// validated against an embedded schema on load and rewritten atomically after
// every mutation. It trades throughput for a database you can read, diff, and
// back up with cp.
package jsonfile

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"otter.camp/lingot/internal/model"
)

//go:embed lingot.db.schema.json
var databaseSchemaJSON string

const databaseVersion = 1

// storedUser is model.User plus the password hash, which the model hides from
// JSON on purpose.
type storedUser struct {
	model.User
	PasswordHash string `json:"password_hash"`
}

type database struct {
	Version        int                     `json:"version"`
	AppSettings    *model.AppSettings      `json:"app_settings,omitempty"`
	Users          []storedUser            `json:"users"`
	Sessions       []model.Session         `json:"sessions"`
	Documents      []model.Document        `json:"documents"`
	Sentences      []model.Sentence        `json:"sentences"`
	Words          []model.Word            `json:"words"`
	Conjugations   []model.Conjugation     `json:"conjugations"`
	Trackers       []model.LearningTracker `json:"trackers"`
	SentenceOrders []model.SentenceOrder   `json:"sentence_orders"`
	WordOrders     []model.WordOrder       `json:"word_orders"`
}

func emptyDatabase() *database {
	return &database{
		Version:        databaseVersion,
		Users:          []storedUser{},
		Sessions:       []model.Session{},
		Documents:      []model.Document{},
		Sentences:      []model.Sentence{},
		Words:          []model.Word{},
		Conjugations:   []model.Conjugation{},
		Trackers:       []model.LearningTracker{},
		SentenceOrders: []model.SentenceOrder{},
		WordOrders:     []model.WordOrder{},
	}
}

// Store implements every port in internal/store against one JSON file.
type Store struct {
	mu   sync.Mutex
	path string
	db   *database
}

// Open loads the database at path, creating an empty one when the file does
// not exist yet. An existing file must pass schema validation; a file that
// does not is left untouched and the open fails.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		s.db = emptyDatabase()
		if err := s.save(); err != nil {
			return nil, fmt.Errorf("initialize database file: %w", err)
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read database file: %w", err)
	}

	db, err := decodeDatabase(raw)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	s.db = db
	return s, nil
}

func decodeDatabase(raw []byte) (*database, error) {
	value, err := decodeStrictJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("decode database JSON: %w", err)
	}

	schema, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("load database schema: %w", err)
	}
	if err := schema.Validate(value); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var db database
	if err := json.Unmarshal(raw, &db); err != nil {
		return nil, fmt.Errorf("unmarshal database: %w", err)
	}
	if db.Version != databaseVersion {
		return nil, fmt.Errorf("unsupported database version %d", db.Version)
	}
	return &db, nil
}

var (
	compileOnce       sync.Once
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
)

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true

		if err := compiler.AddResource("lingot.db.schema.json", strings.NewReader(databaseSchemaJSON)); err != nil {
			compiledSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		schema, err := compiler.Compile("lingot.db.schema.json")
		if err != nil {
			compiledSchemaErr = fmt.Errorf("compile schema: %w", err)
			return
		}
		compiledSchema = schema
	})

	if compiledSchemaErr != nil {
		return nil, compiledSchemaErr
	}
	return compiledSchema, nil
}

func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("database file is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("database file contains trailing content")
	}
	return value, nil
}

// save rewrites the whole file. Write-to-temp plus rename keeps a crash from
// leaving a half-written database behind. Callers hold s.mu.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.db, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal database: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create database directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".lingot-db-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace database file: %w", err)
	}
	return nil
}

func normKey(parts ...string) string {
	lowered := make([]string, 0, len(parts))
	for _, part := range parts {
		lowered = append(lowered, strings.ToLower(strings.TrimSpace(part)))
	}
	return strings.Join(lowered, "\x00")
}
