package settings

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// BackupVersion is the current backup document format.
const BackupVersion = "1"

// BackupDocument is a portable copy of every settings domain.
type BackupDocument struct {
	Version   string    `json:"version" yaml:"version"`
	ID        string    `json:"id" yaml:"id"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Domains   []Domain  `json:"domains" yaml:"domains"`
}

// Validate ensures the document has a known version and unique domains.
func (doc *BackupDocument) Validate() error {
	if doc.Version != BackupVersion {
		return fmt.Errorf("settings: unsupported backup version %q", doc.Version)
	}
	seen := make(map[string]struct{}, len(doc.Domains))
	for idx, domain := range doc.Domains {
		if domain.ID == "" {
			return fmt.Errorf("settings: backup domain at index %d is missing an id", idx)
		}
		if _, exists := seen[domain.ID]; exists {
			return fmt.Errorf("settings: backup duplicates domain %s", domain.ID)
		}
		seen[domain.ID] = struct{}{}
	}
	return nil
}

// EncodeBackup writes doc as YAML.
func EncodeBackup(w io.Writer, doc *BackupDocument) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("settings: encode backup: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("settings: encode backup: %w", err)
	}
	return nil
}

// DecodeBackup reads a YAML (or JSON) backup document.
func DecodeBackup(r io.Reader) (*BackupDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc BackupDocument
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("settings: backup is empty")
		}
		return nil, fmt.Errorf("settings: parse backup: %w", err)
	}
	if doc.Version == "" {
		doc.Version = BackupVersion
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Backup captures every domain into a new document.
func (p *Page) Backup(ctx context.Context) *BackupDocument {
	doc := &BackupDocument{
		Version:   BackupVersion,
		ID:        uuid.NewString(),
		CreatedAt: p.opts.Now().UTC(),
	}
	for _, id := range p.order {
		doc.Domains = append(doc.Domains, p.stores[id].Snapshot())
	}
	p.opts.Telemetry.Record(ctx, "settings.backup", map[string]any{
		"backup_id": doc.ID,
		"domains":   len(doc.Domains),
	})
	return doc
}

// Restore applies a backup as unsaved edits. Every domain is validated before
// any value is written; restored domains stay dirty until the next SaveAll.
func (p *Page) Restore(ctx context.Context, doc *BackupDocument) error {
	if doc == nil {
		return fmt.Errorf("settings: backup document is nil")
	}
	if err := doc.Validate(); err != nil {
		return err
	}
	if p.busy.Load() {
		return ErrSaveInProgress
	}
	batches := make(map[string][]Update, len(doc.Domains))
	for _, domain := range doc.Domains {
		store, ok := p.stores[domain.ID]
		if !ok {
			return &UnknownPathError{Path: FieldPath{Domain: domain.ID}}
		}
		if err := store.ValidateDomain(domain); err != nil {
			return err
		}
		batches[domain.ID] = domainUpdates(domain)
	}
	for _, id := range p.order {
		batch, ok := batches[id]
		if !ok || len(batch) == 0 {
			continue
		}
		if err := p.stores[id].SetMany(batch); err != nil {
			return err
		}
		p.emit(ctx, id, "restore", nil)
	}
	p.opts.Telemetry.Record(ctx, "settings.restore", map[string]any{
		"backup_id": doc.ID,
		"domains":   len(batches),
	})
	return nil
}

func domainUpdates(domain Domain) []Update {
	sections := make([]string, 0, len(domain.Sections))
	for name := range domain.Sections {
		sections = append(sections, name)
	}
	sort.Strings(sections)
	var updates []Update
	for _, name := range sections {
		fields := make([]string, 0, len(domain.Sections[name]))
		for field := range domain.Sections[name] {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			updates = append(updates, Update{
				Path:  Path(domain.ID, name, field),
				Value: domain.Sections[name][field],
			})
		}
	}
	return updates
}
