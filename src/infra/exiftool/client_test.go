package exiftool

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/crivero/shoebox/src/media"
)

// fakeCaller answers every call with a canned reply built by respond.
type fakeCaller struct {
	respond  func(args []string) (string, []string, error)
	lastArgs []string
}

func (f *fakeCaller) Call(ctx context.Context, args []string) (string, []string, error) {
	f.lastArgs = args
	return f.respond(args)
}

func TestClient_ExtractFileRoundTrip(t *testing.T) {
	caller := &fakeCaller{
		respond: func(args []string) (string, []string, error) {
			// The path is the last argument; echo it back as the
			// record's subject.
			record := []map[string]any{{
				"SourceFile": args[len(args)-1],
				"Make":       "Canon",
			}}
			text, _ := json.Marshal(record)
			return string(text), []string{"Warning: minor"}, nil
		},
	}
	client := NewClient(caller, Options{})

	tags, err := client.ExtractFile(context.Background(), "photos/a.jpg")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !filepath.IsAbs(tags.SourceFile) {
		t.Errorf("SourceFile not absolute: %q", tags.SourceFile)
	}
	if v, _ := tags.Get("Make"); v != "Canon" {
		t.Errorf("Make = %v", v)
	}
	if len(tags.Warnings) != 1 {
		t.Errorf("warnings = %v", tags.Warnings)
	}
}

func TestClient_WriteTagsMakesPathAbsoluteWithoutMutatingRequest(t *testing.T) {
	caller := &fakeCaller{
		respond: func(args []string) (string, []string, error) {
			return "1 image files updated", nil, nil
		},
	}
	client := NewClient(caller, Options{})

	req, err := media.NewWriteRequest("photos/a.jpg", map[string]any{"Artist": "x"})
	if err != nil {
		t.Fatal(err)
	}
	if err := client.WriteTags(context.Background(), req); err != nil {
		t.Fatalf("write: %v", err)
	}
	sent := caller.lastArgs[len(caller.lastArgs)-1]
	if !filepath.IsAbs(sent) {
		t.Errorf("sent path not absolute: %q", sent)
	}
	if req.Path != "photos/a.jpg" {
		t.Errorf("caller's request mutated: %q", req.Path)
	}
}

func TestClient_Version(t *testing.T) {
	caller := &fakeCaller{
		respond: func(args []string) (string, []string, error) {
			if len(args) != 1 || args[0] != "-ver" {
				return "", nil, fmt.Errorf("unexpected args %v", args)
			}
			return "13.10\n", nil, nil
		},
	}
	client := NewClient(caller, Options{})
	v, err := client.Version(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if v != "13.10" {
		t.Errorf("version = %q", v)
	}
}
