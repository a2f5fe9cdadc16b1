package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/seedlink/backend/internal/domain/catalogue"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type generateOptions struct {
	shop         string
	location     string
	productsFile string
	style        catalogue.Style
	layout       string
	jsonOutput   bool
}

func newGenerateCmd(a *app) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one catalogue PDF and print its path",
		Long: `Renders the catalogue template with the given shop details and products,
converts it to PDF and prints the path of the new file.

Products are read from a JSON array (--products FILE, or "-" for stdin). Each
product is an object; the default template reads name, price, description,
category and image_url. Omitted style flags use the default style.`,
		Example: `  catalogue generate --shop Acme --location Paris --products products.json
  cat products.json | catalogue generate --shop Acme --location Paris --products - --layout grid`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, a, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.shop, "shop", "", "Shop name")
	f.StringVar(&opts.location, "location", "", "Shop location")
	f.StringVar(&opts.productsFile, "products", "", `JSON file holding the product array ("-" reads stdin)`)
	f.StringVar(&opts.style.PrimaryColor, "primary-color", "", "Primary color (default "+catalogue.DefaultPrimaryColor+")")
	f.StringVar(&opts.style.SecondaryColor, "secondary-color", "", "Secondary color (default "+catalogue.DefaultSecondaryColor+")")
	f.StringVar(&opts.style.TextColor, "text-color", "", "Text color (default "+catalogue.DefaultTextColor+")")
	f.StringVar(&opts.style.BackgroundColor, "background-color", "", "Background color (default "+catalogue.DefaultBackgroundColor+")")
	f.StringVar(&opts.style.FontFamily, "font-family", "", "Font family (default \""+catalogue.DefaultFontFamily+"\")")
	f.StringVar(&opts.layout, "layout", "", "Product layout: row, grid or column (default row)")
	f.BoolVar(&opts.jsonOutput, "json", false, "Print a JSON description of the generated file instead of the path")

	return cmd
}

func runGenerate(cmd *cobra.Command, a *app, opts *generateOptions) error {
	products, err := readProducts(opts.productsFile, cmd.InOrStdin())
	if err != nil {
		return err
	}

	cfg, log, err := a.load(false)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	services, err := a.buildServices(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := services.Close(); err != nil {
			log.Warn("Failed to close renderer", zap.Error(err))
		}
	}()

	style := opts.style
	style.Layout = catalogue.Layout(opts.layout)
	if style.Layout != "" && !style.Layout.IsKnown() {
		// Unknown layouts still reach the template unchanged
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: layout %q is not styled by the bundled template\n", style.Layout)
	}

	doc, err := services.Generator.GenerateDocument(cmd.Context(), catalogue.Request{
		ShopName: opts.shop,
		Location: opts.location,
		Products: products,
		Style:    style,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !opts.jsonOutput {
		_, err = fmt.Fprintln(out, doc.Path)
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"path":       doc.Path,
		"file_name":  doc.FileName,
		"size":       doc.Size,
		"page_count": doc.PageCount,
		"object_key": doc.ObjectKey,
	})
}

// readProducts decodes a JSON product array. An empty path means no products.
func readProducts(path string, stdin io.Reader) ([]any, error) {
	if path == "" {
		return nil, nil
	}

	var r io.Reader
	if path == "-" {
		r = stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open products file: %w", err)
		}
		defer f.Close()
		r = f
	}

	dec := json.NewDecoder(r)
	dec.UseNumber()
	var products []any
	if err := dec.Decode(&products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}
