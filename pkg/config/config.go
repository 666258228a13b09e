package config

// Config is the effective pcc configuration.
type Config struct {
	Scan       Scan       `koanf:"scan" toml:"scan"`
	Backup     Backup     `koanf:"backup" toml:"backup"`
	Workspace  Workspace  `koanf:"workspace" toml:"workspace"`
	UI         UI         `koanf:"ui" toml:"ui"`
	Categories []Category `koanf:"categories" toml:"categories" validate:"required,min=1,unique=Name,dive"`
}

// Scan selects the package manifests taking part in a run.
type Scan struct {
	Patterns []string `koanf:"patterns" toml:"patterns" validate:"required,min=1,dive,required,glob"`
	Ignore   []string `koanf:"ignore" toml:"ignore" validate:"dive,required,glob"`
}

// Backup controls snapshots taken before files are rewritten.
type Backup struct {
	Enabled bool   `koanf:"enabled" toml:"enabled"`
	Dir     string `koanf:"dir" toml:"dir" validate:"required"`
	// Keep is the number of backups retained after a new one is created.
	// Zero keeps everything.
	Keep int `koanf:"keep" toml:"keep" validate:"gte=0"`
}

// Workspace locates and formats the workspace manifest.
type Workspace struct {
	File   string `koanf:"file" toml:"file" validate:"required,excludes=/"`
	Indent int    `koanf:"indent" toml:"indent" validate:"gte=2,lte=8"`
}

// UI holds presentation settings.
type UI struct {
	Format   string `koanf:"format" toml:"format" validate:"oneof=auto term text"`
	PageSize int    `koanf:"page_size" toml:"page_size" validate:"gte=3,lte=50"`
}

// Category is a catalog category offered during classification.
type Category struct {
	Name        string `koanf:"name" toml:"name" validate:"required,excludesall=:"`
	Description string `koanf:"description" toml:"description"`
}

// CategoryNames returns the configured category names in order.
func (c *Config) CategoryNames() []string {
	names := make([]string, 0, len(c.Categories))
	for _, cat := range c.Categories {
		names = append(names, cat.Name)
	}
	return names
}
