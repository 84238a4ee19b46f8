package genui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-genui/pkg/model"
	"github.com/goliatone/go-genui/pkg/openapi"
)

func TestGenerateHTML(t *testing.T) {
	schema := FormSchema{
		Title: "Feedback",
		Properties: model.NewProperties(
			FieldSchema{Name: "message", Type: model.FieldTypeString, Title: "Message"},
			FieldSchema{Name: "rating", Type: model.FieldTypeInteger, Title: "Rating"},
		),
		Required: []string{"message"},
	}

	out, err := GenerateHTML(context.Background(), schema, RenderOptions{Action: "/submit"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	page := string(out)
	for _, want := range []string{`name="message"`, `name="rating"`, `action="/submit"`} {
		if !strings.Contains(page, want) {
			t.Fatalf("missing %s in:\n%s", want, page)
		}
	}
}

func TestGenerateHTMLFromOpenAPI(t *testing.T) {
	const doc = `{
	  "openapi": "3.0.3",
	  "info": {"title": "t", "version": "1"},
	  "paths": {
	    "/notes": {
	      "post": {
	        "operationId": "createNote",
	        "requestBody": {
	          "content": {
	            "application/json": {
	              "schema": {
	                "type": "object",
	                "properties": {"body": {"type": "string"}}
	              }
	            }
	          }
	        },
	        "responses": {"201": {"description": "created"}}
	      }
	    }
	  }
	}`
	fsys := fstest.MapFS{"api.json": {Data: []byte(doc)}}
	source := openapi.SourceFromFS(fsys, "api.json")

	out, err := GenerateHTMLFromOpenAPI(context.Background(), source, "createNote", RenderOptions{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(out), `name="body"`) {
		t.Fatalf("missing field in:\n%s", out)
	}

	_, err = GenerateHTMLFromOpenAPI(context.Background(), source, "nope", RenderOptions{})
	var unknown *UnknownOperationError
	if !errors.As(err, &unknown) || unknown.OperationID != "nope" {
		t.Fatalf("expected UnknownOperationError, got %v", err)
	}
}

func TestEmbeddedTemplates(t *testing.T) {
	entries, err := EmbeddedTemplates().Open("templates/page.tmpl")
	if err != nil {
		t.Fatalf("page template must be embedded: %v", err)
	}
	entries.Close()
}
