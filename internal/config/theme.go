package config

// ColorScheme holds the colors used when rendering a board
type ColorScheme struct {
	// Preset name ("default" or "monochrome")
	Preset string `yaml:"preset"`

	Accent string `yaml:"accent"`
	Title  string `yaml:"title"`
	Subtle string `yaml:"subtle"`
	Normal string `yaml:"normal"`

	// One header color per column
	Backlog    string `yaml:"backlog"`
	Todo       string `yaml:"todo"`
	InProgress string `yaml:"in_progress"`
	Done       string `yaml:"done"`

	InfoFg  string `yaml:"info_fg"`
	ErrorFg string `yaml:"error_fg"`
}

// DefaultColorScheme returns the default color scheme (purple theme)
func DefaultColorScheme() ColorScheme {
	return ColorScheme{
		Preset:     "default",
		Accent:     "#874BFD",
		Title:      "#D75FD7",
		Subtle:     "#585858",
		Normal:     "#D0D0D0",
		Backlog:    "#8A8A8A",
		Todo:       "#5F87D7",
		InProgress: "#FFD700",
		Done:       "#5FD75F",
		InfoFg:     "#00AFFF",
		ErrorFg:    "#FF0000",
	}
}

// MonochromeColorScheme returns a black and white color scheme
func MonochromeColorScheme() ColorScheme {
	return ColorScheme{
		Preset:     "monochrome",
		Accent:     "#FFFFFF",
		Title:      "#FFFFFF",
		Subtle:     "#808080",
		Normal:     "#D0D0D0",
		Backlog:    "#808080",
		Todo:       "#D0D0D0",
		InProgress: "#D0D0D0",
		Done:       "#FFFFFF",
		InfoFg:     "#FFFFFF",
		ErrorFg:    "#FFFFFF",
	}
}

// ApplyDefaults fills in missing color values from the preset
func (c *ColorScheme) ApplyDefaults() {
	preset := DefaultColorScheme()
	if c.Preset == "monochrome" {
		preset = MonochromeColorScheme()
	}
	if c.Preset == "" {
		c.Preset = preset.Preset
	}

	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&c.Accent, preset.Accent)
	fill(&c.Title, preset.Title)
	fill(&c.Subtle, preset.Subtle)
	fill(&c.Normal, preset.Normal)
	fill(&c.Backlog, preset.Backlog)
	fill(&c.Todo, preset.Todo)
	fill(&c.InProgress, preset.InProgress)
	fill(&c.Done, preset.Done)
	fill(&c.InfoFg, preset.InfoFg)
	fill(&c.ErrorFg, preset.ErrorFg)
}
