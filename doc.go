// Package folio is the composition root of the portfolio content store.
//
// It wires the content service of pkg/core to a persistence sink (memory,
// files, Redis or SQLite), a file exporter, the default content file and the
// asset, login and contact components.
//
// The content model is a nested document of string leaves. Editing happens
// through dotted paths ("personalInfo.address.street"); saving replaces whole
// top-level sections of the persisted document and offers the result as an
// indented JSON artifact.
//
// Usage:
//
//	svc, err := folio.New("./site",
//		folio.WithDefaults("content.yaml"),
//		folio.WithLogger(logger),
//	)
//
//	// Edit and save one section
//	err = svc.Update(ctx, "hero.title", "Hallo")
//	_, res, err := svc.Save(ctx, "hero")
//
// The sink uses three fixed keys: contentData, pageViews and adminLoggedIn.
package folio
