// Package printing turns catalogue HTML into PDF files.
//
// The catalogue template ships embedded and may be overridden from a
// directory through TemplateStore. TemplateEngine compiles it once with the
// catalogue helper functions. A PDFRenderer converts the rendered HTML:
// WkhtmltopdfRenderer drives the wkhtmltopdf binary over stdin, while
// ChromedpRenderer prints through headless Chrome. OutputDir allocates
// static/catalogue_<hex>.pdf paths and serves them back, and InspectPDF
// reads the page count of a written file.
//
//	store := printing.NewTemplateStore(&printing.TemplateStoreConfig{ExternalDir: "templates"})
//	tmpl, err := printing.LoadCatalogueTemplate(store, printing.NewTemplateEngine())
//	...
//	html, err := tmpl.Execute(req.TemplateData())
//	...
//	_, path := output.NewPath()
//	result, err := renderer.Render(ctx, &printing.RenderRequest{
//	    HTML:       html,
//	    OutputPath: path,
//	    Page:       catalogue.DefaultPageSetup(),
//	})
package printing
