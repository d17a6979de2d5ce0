// Package exiftool drives a pool of persistent `exiftool -stay_open`
// worker processes over their line-oriented command protocol and turns
// the JSON and text replies into typed, timezone-aware tag values.
package exiftool

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/crivero/shoebox/src/media"
)

// Caller dispatches encoded commands to a worker. Satisfied by *Pool
// and by *Worker; narrowed to an interface so the task layer tests run
// against fakes.
type Caller interface {
	Call(ctx context.Context, args []string) (text string, warnings []string, err error)
}

// Client is the typed façade over the worker protocol: it builds read
// and write tasks, dispatches them, and decodes the replies.
type Client struct {
	caller Caller
	opts   Options
}

func NewClient(caller Caller, opts Options) *Client {
	return &Client{caller: caller, opts: opts}
}

// ExtractFile reads every tag of the file at path into a typed record.
// The path is made absolute first; the reply must name the same path
// back or the call fails with ErrIntegrity.
func (c *Client) ExtractFile(ctx context.Context, path string) (*media.Tags, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	task := newReadTask(abs, c.opts)
	text, warnings, err := c.caller.Call(ctx, task.Args())
	if err != nil {
		return nil, err
	}
	return task.Decode(text, warnings)
}

// WriteTags applies the request's tag assignments to its target file.
// All-or-nothing: any reply other than the tool's update confirmation
// is a rejection carrying the tool's own diagnostic text.
func (c *Client) WriteTags(ctx context.Context, req *media.WriteRequest) error {
	abs, err := filepath.Abs(req.Path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", req.Path, err)
	}
	r := *req
	r.Path = abs
	task := newWriteTask(&r)
	text, warnings, err := c.caller.Call(ctx, task.Args())
	if err != nil {
		return err
	}
	return task.Decode(text, warnings)
}

// Version returns the tool's version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	text, _, err := c.caller.Call(ctx, []string{"-ver"})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
