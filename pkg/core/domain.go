package core

// ImagesConfig controls image search for a template.
type ImagesConfig struct {
	Count int    `json:"count,omitempty"`
	Query string `json:"query,omitempty"`
}

// TemplateConfig is the workflow configuration embedded in a template,
// either as `!!` control keys or as a fenced config block.
type TemplateConfig struct {
	Prompt    string        `json:"prompt,omitempty"`
	PromptURL string        `json:"promptUrl,omitempty"`
	Path      string        `json:"path,omitempty"`
	Images    *ImagesConfig `json:"images,omitempty"`
	Commands  []string      `json:"commands,omitempty"`

	// HasFrontmatter reports whether the template keeps regular metadata
	// once control keys are stripped.
	HasFrontmatter bool `json:"hasFrontmatter"`
}

// Template is a template note with its extracted configuration.
// Content is the cleaned text: control keys and the config block removed.
type Template struct {
	Path    string
	Name    string
	Content string
	Config  TemplateConfig
}

// TemplateMatch is a template candidate plus a ranking score.
type TemplateMatch struct {
	Template Template
	Score    float64
}

// Enrichment is what a generator returns.
// A nil Body means the generator did not provide one.
type Enrichment struct {
	Body     *string
	Metadata Metadata
}

// Image is an in-memory image handed to an image-capable generator.
type Image struct {
	Name     string
	MIMEType string
	Data     []byte
}
