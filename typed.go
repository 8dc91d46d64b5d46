package folio

import (
	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/typed"
)

// Site is the typed form of the whole document.
type Site = typed.Site

// TypedService binds one section of a Service to a struct type.
type TypedService[T any] = typed.Service[T]

// NewTypedService creates a typed view of the section name.
func NewTypedService[T any](svc *core.Service, name string) *TypedService[T] {
	return typed.NewService[T](svc, name)
}

// OpenTypedService simplifies creating a TypedService from a path.
func OpenTypedService[T any](path, section string, opts ...Option) (*TypedService[T], error) {
	svc, err := New(path, opts...)
	if err != nil {
		return nil, err
	}
	return typed.NewService[T](svc, section), nil
}
