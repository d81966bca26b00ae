package enrich

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes the wiring of the service for observability.
type ServiceState struct {
	NotesType     string   `json:"notes_type"`
	TemplatesType string   `json:"templates_type"`
	Generator     bool     `json:"generator"`
	Vision        bool     `json:"vision"`
	ImageSearch   bool     `json:"image_search"`
	Fetcher       bool     `json:"fetcher"`
	Commands      bool     `json:"commands"`
	Language      string   `json:"language"`
	ImageCount    int      `json:"image_count"`
	Relocation    []string `json:"relocation_fields"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	return ServiceState{
		NotesType:     componentType(s.notes),
		TemplatesType: componentType(s.templates),
		Generator:     s.generator != nil,
		Vision:        s.vision != nil,
		ImageSearch:   s.images.searcher != nil,
		Fetcher:       s.fetcher != nil,
		Commands:      s.commands != nil,
		Language:      s.catalog.Lang(),
		ImageCount:    s.imageCount,
		Relocation:    s.registry.RelocationFields(),
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "enrich-service"
}

func componentType(v any) string {
	if v == nil {
		return "none"
	}
	// Adapters that implement introspection.Component report their own name.
	if comp, ok := v.(introspection.Component); ok {
		return comp.ComponentType()
	}
	return "custom"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
