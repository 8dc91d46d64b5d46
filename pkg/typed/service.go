package typed

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/folio/pkg/content"
	"github.com/aretw0/folio/pkg/core"
)

// Service binds one section of a core.Service to the type T.
type Service[T any] struct {
	svc  *core.Service
	name string
}

// NewService creates a typed view of the section name.
func NewService[T any](svc *core.Service, name string) *Service[T] {
	return &Service[T]{svc: svc, name: name}
}

// Name returns the section name.
func (s *Service[T]) Name() string { return s.name }

// Get decodes the section from the current session document.
func (s *Service[T]) Get() (T, error) {
	return Decode[T](s.svc.Document(), s.name)
}

// Persisted decodes the section from the persisted document.
func (s *Service[T]) Persisted(ctx context.Context) (T, error) {
	doc, err := s.svc.Persisted(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	return Decode[T](doc, s.name)
}

// Save replaces the persisted section with value. Other sections are kept.
func (s *Service[T]) Save(ctx context.Context, value T) (core.SaveResult, error) {
	section, err := Encode(value)
	if err != nil {
		return core.SaveResult{}, err
	}
	_, res, err := s.svc.SaveSection(ctx, content.Map{s.name: section})
	if err != nil {
		return core.SaveResult{}, fmt.Errorf("failed to save section %s: %w", s.name, err)
	}
	return res, nil
}

// LoadSite decodes the session document section by section. A section
// that does not fit its type reads as the zero value; the returned error
// joins the failures and the site is usable either way.
func LoadSite(svc *core.Service) (Site, error) {
	doc := svc.Document()

	var site Site
	var errs []error
	decodeInto(doc, SectionHero, &site.Hero, &errs)
	decodeInto(doc, SectionAbout, &site.About, &errs)
	decodeInto(doc, SectionLegal, &site.Legal, &errs)
	decodeInto(doc, SectionPersonalInfo, &site.PersonalInfo, &errs)
	decodeInto(doc, SectionImpressum, &site.Impressum, &errs)
	decodeInto(doc, SectionDatenschutz, &site.Datenschutz, &errs)
	decodeInto(doc, SectionProjects, &site.Projects, &errs)
	return site, errors.Join(errs...)
}

func decodeInto[T any](doc content.Map, name string, dst *T, errs *[]error) {
	v, err := Decode[T](doc, name)
	if err != nil {
		*errs = append(*errs, err)
		return
	}
	*dst = v
}
