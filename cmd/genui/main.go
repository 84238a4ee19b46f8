// Command genui renders a form in the terminal or as standalone HTML.
// Schemas come from the generator service, a short form session, or a
// local OpenAPI document.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/goliatone/go-genui/pkg/flow"
	"github.com/goliatone/go-genui/pkg/genapi"
	"github.com/goliatone/go-genui/pkg/model"
	"github.com/goliatone/go-genui/pkg/openapi"
	"github.com/goliatone/go-genui/pkg/render"
	"github.com/goliatone/go-genui/pkg/renderers/tui"
	"github.com/goliatone/go-genui/pkg/renderers/vanilla"
	"github.com/goliatone/go-genui/pkg/request"
	"github.com/goliatone/go-genui/pkg/uihints"
)

type cliConfig struct {
	baseURL      string
	fields       string
	formContext  string
	sessionID    string
	openapiSpec  string
	formID       string
	hintsDir     string
	themePath    string
	themeVariant string
	outPath      string
	interactive  bool
	submit       bool
}

func main() {
	var cfg cliConfig
	flag.StringVar(&cfg.baseURL, "url", "", "base URL of the form backend")
	flag.StringVar(&cfg.fields, "fields", "", "comma-separated field names to generate a form for")
	flag.StringVar(&cfg.formContext, "context", "", "free-text context forwarded to the schema generator")
	flag.StringVar(&cfg.sessionID, "session", "", "session id of a stored form configuration")
	flag.StringVar(&cfg.openapiSpec, "openapi", "", "OpenAPI document (path or URL) to read schemas from")
	flag.StringVar(&cfg.formID, "form", "", "operation id inside the OpenAPI document")
	flag.StringVar(&cfg.hintsDir, "hints", "", "directory of UI hint overlay files")
	flag.StringVar(&cfg.themePath, "theme", "", "theme manifest file for HTML output")
	flag.StringVar(&cfg.themeVariant, "theme-variant", "", "theme variant name")
	flag.StringVar(&cfg.outPath, "out", "", "write HTML to this file instead of stdout")
	flag.BoolVar(&cfg.interactive, "interactive", false, "fill the form in the terminal instead of emitting HTML")
	flag.BoolVar(&cfg.submit, "submit", false, "deliver the filled payload to the backend (with -interactive)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		if errors.Is(err, tui.ErrAborted) {
			fmt.Fprintln(os.Stderr, "aborted")
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, "genui:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg cliConfig) error {
	var client *genapi.Client
	if cfg.baseURL != "" {
		var err error
		client, err = genapi.New(cfg.baseURL)
		if err != nil {
			return err
		}
	}

	ctrl, err := loadController(ctx, cfg, client)
	if err != nil {
		return err
	}
	if ctrl.State() != flow.ViewForm {
		return errors.New(ctrl.ErrorMessage())
	}

	if cfg.interactive {
		return runInteractive(ctx, cfg, ctrl, client)
	}
	return writeHTML(ctx, cfg, ctrl)
}

// loadController builds the form state from whichever source the flags
// name: a local OpenAPI operation, or the backend via session or fields.
func loadController(ctx context.Context, cfg cliConfig, client *genapi.Client) (*flow.Controller, error) {
	opts, err := controllerOptions(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.openapiSpec != "" {
		schema, req, err := openapiSchema(ctx, cfg)
		if err != nil {
			return nil, err
		}
		ctrl := flow.New(request.NewResolver(nil), nil, nil, opts...)
		ctrl.LoadSchema(req, schema)
		return ctrl, nil
	}

	if client == nil {
		return nil, errors.New("-url is required unless -openapi names a document")
	}

	ctrl := flow.New(request.NewResolver(client), client, client, opts...)
	ctrl.Load(ctx, locationFor(cfg))
	return ctrl, nil
}

func controllerOptions(cfg cliConfig) ([]flow.Option, error) {
	if cfg.hintsDir == "" {
		return nil, nil
	}
	hints, err := uihints.LoadFS(os.DirFS(cfg.hintsDir))
	if err != nil {
		return nil, err
	}
	return []flow.Option{flow.WithSchemaDecorator(hints.Apply)}, nil
}

func openapiSchema(ctx context.Context, cfg cliConfig) (model.FormSchema, model.FormRequest, error) {
	source := openapi.SourceFromFile(cfg.openapiSpec)
	if strings.HasPrefix(cfg.openapiSpec, "http://") || strings.HasPrefix(cfg.openapiSpec, "https://") {
		parsed, err := openapi.SourceFromURL(cfg.openapiSpec)
		if err != nil {
			return model.FormSchema{}, model.FormRequest{}, err
		}
		source = parsed
	}

	doc, err := openapi.Load(ctx, source)
	if err != nil {
		return model.FormSchema{}, model.FormRequest{}, err
	}
	schemas, err := openapi.FormSchemas(ctx, doc)
	if err != nil {
		return model.FormSchema{}, model.FormRequest{}, err
	}

	if cfg.formID == "" {
		return model.FormSchema{}, model.FormRequest{}, fmt.Errorf("-form is required, available: %s", strings.Join(formIDs(schemas), ", "))
	}
	schema, ok := schemas[cfg.formID]
	if !ok {
		return model.FormSchema{}, model.FormRequest{}, fmt.Errorf("unknown form %q, available: %s", cfg.formID, strings.Join(formIDs(schemas), ", "))
	}

	req := model.FormRequest{
		Fields:    schema.Properties.Names(),
		Context:   cfg.formContext,
		SessionID: cfg.sessionID,
	}
	return schema, req, nil
}

func formIDs(schemas map[string]model.FormSchema) []string {
	ids := make([]string, 0, len(schemas))
	for id := range schemas {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// locationFor synthesizes the page location the flags describe, so the
// CLI resolves requests exactly like a browser visit would.
func locationFor(cfg cliConfig) *url.URL {
	if cfg.sessionID != "" {
		return &url.URL{Path: "/form/" + cfg.sessionID}
	}
	query := url.Values{}
	if cfg.fields != "" {
		query.Set("fields", cfg.fields)
	}
	if cfg.formContext != "" {
		query.Set("context", cfg.formContext)
	}
	return &url.URL{Path: "/", RawQuery: query.Encode()}
}

func runInteractive(ctx context.Context, cfg cliConfig, ctrl *flow.Controller, client *genapi.Client) error {
	if cfg.submit && client == nil {
		return errors.New("-submit requires -url")
	}

	prompter := tui.New(tui.WithOutput(os.Stderr))
	payload, err := prompter.Fill(ctx, *ctrl.Plan(), ctrl.Request().SessionID)
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))

	if !cfg.submit {
		return nil
	}
	result, err := client.Submit(ctx, payload)
	if err != nil {
		return err
	}
	if result.Message != "" {
		fmt.Fprintln(os.Stderr, result.Message)
	}
	return nil
}

func writeHTML(ctx context.Context, cfg cliConfig, ctrl *flow.Controller) error {
	renderer, err := vanilla.New()
	if err != nil {
		return err
	}

	opts := render.Options{Action: "/submit"}
	if cfg.themePath != "" {
		manifest, err := render.LoadManifest(cfg.themePath)
		if err != nil {
			return err
		}
		selector := render.NewStaticSelector(manifest)
		theme, err := render.ThemeConfig(selector, manifest.Name, cfg.themeVariant)
		if err != nil {
			return err
		}
		opts.Theme = theme
	}

	out, err := renderer.Render(ctx, render.ViewFrom(ctrl), opts)
	if err != nil {
		return err
	}

	if cfg.outPath == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	return os.WriteFile(cfg.outPath, out, 0o644)
}
