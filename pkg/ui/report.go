package ui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/arthur-debert/pcc/pkg/types"
	"github.com/arthur-debert/pcc/pkg/ui/styles"
)

// Column headers of dependency tables.
var dependencyHeader = []string{"Dependencies", "Catalog"}

// TimeLayout formats backup timestamps for display.
const TimeLayout = "2006-01-02 15:04:05"

// DependencyRow is one line of a dependency table.
type DependencyRow struct {
	Dependency string
	Reference  string
}

// DependencyTable prints dependencies with their catalog reference.
func (p *Printer) DependencyTable(rows []DependencyRow) error {
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		dep, ref := r.Dependency, r.Reference
		if p.styled {
			dep = styles.Render("Package", dep)
			ref = types.CatalogPlaceholder + styles.Render("Catalog", types.ReferenceName(ref))
		}
		data = append(data, []string{dep, ref})
	}
	return p.Table(dependencyHeader, data)
}

// HitRows converts reconciliation hits to table rows.
func HitRows(hits []types.Hit) []DependencyRow {
	rows := make([]DependencyRow, 0, len(hits))
	for _, h := range hits {
		rows = append(rows, DependencyRow{Dependency: h.Dependency, Reference: h.Version})
	}
	return rows
}

// CategoryRows lists every categorized package with its category reference.
func CategoryRows(def *types.CatalogDefinition) []DependencyRow {
	var rows []DependencyRow
	for _, c := range def.Categories {
		for _, pkg := range c.Packages {
			rows = append(rows, DependencyRow{Dependency: pkg, Reference: types.Reference(c.Name)})
		}
	}
	return rows
}

// Resolutions prints one table per updated manifest.
func (p *Printer) Resolutions(updated []types.Resolution) error {
	for _, res := range updated {
		p.Section("update: " + p.path(res.RelPath))
		if err := p.DependencyTable(HitRows(res.Hits)); err != nil {
			return err
		}
	}
	return nil
}

// Unused prints catalog entries no manifest references.
func (p *Printer) Unused(unused []types.Hit, title string) error {
	if len(unused) == 0 {
		return nil
	}
	if p.styled {
		p.Intro(styles.Render("Warning", title))
	} else {
		p.Intro(title)
	}
	return p.DependencyTable(HitRows(unused))
}

// Backups prints a backup listing, newest first as given.
func (p *Printer) Backups(list []types.BackupManifest) error {
	rows := make([][]string, 0, len(list))
	for _, m := range list {
		id := m.ID
		if p.styled {
			id = styles.Render("Package", id)
		}
		rows = append(rows, []string{
			id,
			m.Timestamp.Local().Format(TimeLayout),
			strconv.Itoa(len(m.Files)),
			m.Description,
		})
	}
	return p.Table([]string{"ID", "Created", "Files", "Description"}, rows)
}

// Backup prints the details of one backup.
func (p *Printer) Backup(m *types.BackupManifest) error {
	p.Println(fmt.Sprintf("ID:          %s", m.ID))
	p.Println(fmt.Sprintf("Created:     %s (%s)", m.Timestamp.Local().Format(TimeLayout), Ago(time.Since(m.Timestamp))))
	if m.Description != "" {
		p.Println(fmt.Sprintf("Description: %s", m.Description))
	}
	rows := make([][]string, 0, len(m.Files))
	for _, f := range m.Files {
		rows = append(rows, []string{p.path(f.RelativePath), strconv.FormatInt(f.Size, 10)})
	}
	return p.Table([]string{"File", "Bytes"}, rows)
}

func (p *Printer) path(rel string) string {
	if p.styled {
		return styles.Render("Path", rel)
	}
	return rel
}

// Ago renders a duration as a coarse relative time.
func Ago(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d/time.Minute), "minute") + " ago"
	case d < 24*time.Hour:
		return plural(int(d/time.Hour), "hour") + " ago"
	default:
		return plural(int(d/(24*time.Hour)), "day") + " ago"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
