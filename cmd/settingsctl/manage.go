package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/ettle/strcase"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	settings "github.com/rza1914/ishop-settings/components/settings"
)

type exportCmd struct {
	storeFlags

	Format string `default:"yaml" enum:"yaml,env,json" help:"Output format."`
	Domain string `help:"Only export one domain."`
}

func (cmd *exportCmd) Run(ctx context.Context, logger zerolog.Logger) error {
	page, closer, err := cmd.openPage(ctx, logger, settings.Options{})
	defer closer()
	if err != nil {
		return err
	}
	doc := page.Backup(ctx)
	if cmd.Domain != "" {
		filtered := doc.Domains[:0]
		for _, domain := range doc.Domains {
			if domain.ID == cmd.Domain {
				filtered = append(filtered, domain)
			}
		}
		if len(filtered) == 0 {
			return &settings.UnknownPathError{Path: settings.FieldPath{Domain: cmd.Domain}}
		}
		doc.Domains = filtered
	}
	return writeExport(os.Stdout, cmd.Format, doc)
}

func writeExport(w io.Writer, format string, doc *settings.BackupDocument) error {
	switch format {
	case "env":
		lines, err := envLines(doc)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, strings.Join(lines, "\n"))
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc.Domains); err != nil {
		return fmt.Errorf("settingsctl: encode yaml: %w", err)
	}
	return enc.Close()
}

// envLines flattens every field to ISHOP_<DOMAIN>_<SECTION>_<FIELD>=value.
func envLines(doc *settings.BackupDocument) ([]string, error) {
	var lines []string
	for _, domain := range doc.Domains {
		sections := make([]string, 0, len(domain.Sections))
		for name := range domain.Sections {
			sections = append(sections, name)
		}
		sort.Strings(sections)
		for _, section := range sections {
			values := domain.Sections[section]
			fields := make([]string, 0, len(values))
			for field := range values {
				fields = append(fields, field)
			}
			sort.Strings(fields)
			for _, field := range fields {
				value, err := envValue(values[field])
				if err != nil {
					return nil, fmt.Errorf("settingsctl: %s.%s.%s: %w", domain.ID, section, field, err)
				}
				key := strcase.ToSNAKE(strings.Join([]string{"ishop", domain.ID, section, field}, "_"))
				lines = append(lines, key+"="+value)
			}
		}
	}
	return lines, nil
}

func envValue(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return quoteEnv(v), nil
	case bool:
		return fmt.Sprint(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case []string:
		return quoteEnv(settings.JoinList(v)), nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return quoteEnv(string(data)), nil
}

func quoteEnv(value string) string {
	if value == "" || strings.ContainsAny(value, " \t\n\"'#$=") {
		return fmt.Sprintf("%q", value)
	}
	return value
}

type backupCmd struct {
	storeFlags

	Out string `short:"o" type:"path" help:"Backup file path; defaults to stdout."`
	Dir string `help:"Directory receiving a timestamped backup file instead of --out."`
}

func (cmd *backupCmd) Run(ctx context.Context, logger zerolog.Logger) error {
	page, closer, err := cmd.openPage(ctx, logger, settings.Options{})
	defer closer()
	if err != nil {
		return err
	}
	if cmd.Dir != "" {
		path, err := writeBackupFile(ctx, page, cmd.Dir)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "✓ Wrote backup %s\n", path)
		return nil
	}
	doc := page.Backup(ctx)
	if cmd.Out == "" {
		return settings.EncodeBackup(os.Stdout, doc)
	}
	file, err := os.Create(cmd.Out) //nolint:gosec
	if err != nil {
		return fmt.Errorf("settingsctl: create %s: %w", cmd.Out, err)
	}
	defer file.Close()
	if err := settings.EncodeBackup(file, doc); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Wrote backup %s (%d domains)\n", cmd.Out, len(doc.Domains))
	return nil
}

type restoreCmd struct {
	storeFlags

	File  string `arg:"" type:"existingfile" help:"Backup document (YAML or JSON)."`
	Actor string `env:"ISHOP_ACTOR" help:"Actor recorded on the restore."`
}

func (cmd *restoreCmd) Run(ctx context.Context, logger zerolog.Logger) error {
	file, err := os.Open(cmd.File)
	if err != nil {
		return fmt.Errorf("settingsctl: open %s: %w", cmd.File, err)
	}
	defer file.Close()
	doc, err := settings.DecodeBackup(file)
	if err != nil {
		return err
	}
	page, closer, err := cmd.openPage(ctx, logger, settings.Options{})
	defer closer()
	if err != nil {
		return err
	}
	ctx = settings.ContextWithActivity(ctx, settings.ActivityContext{ActorID: cmd.Actor})
	if err := page.Restore(ctx, doc); err != nil {
		return err
	}
	result, err := page.SaveAll(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Restored %s (%d domains saved)\n", doc.ID, len(result.Saved))
	return nil
}

type checkTemplatesCmd struct {
	storeFlags
}

func (cmd *checkTemplatesCmd) Run(ctx context.Context, logger zerolog.Logger) error {
	page, closer, err := cmd.openPage(ctx, logger, settings.Options{})
	defer closer()
	if err != nil {
		return err
	}
	return reportTemplateIssues(os.Stdout, page.CheckTemplates())
}

var errTemplateIssues = errors.New("settingsctl: notification templates reference unknown placeholders")

func reportTemplateIssues(w io.Writer, issues []settings.TemplateIssue) error {
	var failing bool
	for _, issue := range issues {
		if len(issue.Undeclared) > 0 {
			failing = true
			fmt.Fprintf(w, "✗ %s/%s: unknown {%s}\n", issue.Channel, issue.TemplateID, strings.Join(issue.Undeclared, "}, {"))
		}
		if len(issue.Unused) > 0 {
			fmt.Fprintf(w, "· %s/%s: unused {%s}\n", issue.Channel, issue.TemplateID, strings.Join(issue.Unused, "}, {"))
		}
	}
	if failing {
		return errTemplateIssues
	}
	fmt.Fprintln(w, "✓ All notification templates use declared placeholders")
	return nil
}

type validateManifestCmd struct {
	Path string `arg:"" type:"existingfile" help:"Manifest YAML file."`
}

func (cmd *validateManifestCmd) Run(_ context.Context) error {
	manifest, err := settings.ReadManifest(cmd.Path)
	if err != nil {
		return err
	}
	if _, err := settings.NewPage(settings.Options{Schemas: manifest.Domains}); err != nil {
		return fmt.Errorf("settingsctl: manifest %s: %w", cmd.Path, err)
	}
	fmt.Fprintf(os.Stdout, "✓ %s is valid (%d domains)\n", cmd.Path, len(manifest.Domains))
	return nil
}
