package exiftool

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/crivero/shoebox/src/media"
)

func mustWriteRequest(t *testing.T, path string, tags map[string]any, extra ...string) *media.WriteRequest {
	t.Helper()
	req, err := media.NewWriteRequest(path, tags, extra...)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	return req
}

func TestWriteArgs_CharsetPrefixAndPathLast(t *testing.T) {
	req := mustWriteRequest(t, "/p/a.jpg", map[string]any{
		"Artist": "someone",
	}, "-overwrite_original")
	task := newWriteTask(req)

	got := task.Args()
	want := []string{
		"-charset", "filename=utf8",
		"-codedcharacterset=utf8",
		"-struct",
		"-E",
		"-Artist=someone",
		"-overwrite_original",
		"/p/a.jpg",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("args = %q, want %q", got, want)
	}
}

func TestWriteArgs_TagsInSortedOrder(t *testing.T) {
	req := mustWriteRequest(t, "/p/a.jpg", map[string]any{
		"Title":  "b",
		"Artist": "a",
		"Rating": 5,
	})
	got := newWriteTask(req).Args()
	tagArgs := got[len(charsetArgs) : len(got)-1]
	want := []string{"-Artist=a", "-Rating=5", "-Title=b"}
	if !reflect.DeepEqual(tagArgs, want) {
		t.Errorf("tag args = %q, want %q", tagArgs, want)
	}
}

func TestWriteArgs_TopLevelSequenceExpandsPerElement(t *testing.T) {
	req := mustWriteRequest(t, "/p/a.jpg", map[string]any{
		"Keywords": []any{"alpha", "beta"},
	})
	got := newWriteTask(req).Args()
	tagArgs := got[len(charsetArgs) : len(got)-1]
	want := []string{"-Keywords=alpha", "-Keywords=beta"}
	if !reflect.DeepEqual(tagArgs, want) {
		t.Errorf("tag args = %q, want %q", tagArgs, want)
	}
}

func TestEncodeValue_Kinds(t *testing.T) {
	when := time.Date(2023, 6, 15, 14, 30, 0, 0, time.FixedZone("", 2*3600))
	tests := []struct {
		name string
		v    media.WriteValue
		want string
	}{
		{"null clears", media.Null(), ""},
		{"integer number", media.Number(5), "5"},
		{"fractional number", media.Number(2.5), "2.5"},
		{"plain text", media.Text("hello"), "hello"},
		{"html escapes", media.Text(`a & b <c> "d"`), "a &amp; b &lt;c&gt; &quot;d&quot;"},
		{"datetime", media.When(when), "2023:06:15 14:30:00+02:00"},
		{"nested sequence", media.Sequence(media.Text("a"), media.Text("b")), "[a,b]"},
		{"empty sequence", media.Sequence(), "[]"},
		{"structure sorts keys", media.Structure(map[string]media.WriteValue{
			"b": media.Text("x"),
			"a": media.Number(1),
		}), "{a = 1,b = x}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := encodeValue(tt.v, false); got != tt.want {
				t.Errorf("encodeValue = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncodeValue_NestedTextEscapesSyntaxCharacters(t *testing.T) {
	v := media.Structure(map[string]media.WriteValue{
		"note": media.Text("a,b{c}[d]=e|f"),
	})
	want := "{note = a&#44;b&#123;c&#125;&#91;d&#93;&#61;e&#124;f}"
	if got := encodeValue(v, false); got != want {
		t.Errorf("encodeValue = %q, want %q", got, want)
	}
}

func TestWriteDecode_AcceptsUpdatedReply(t *testing.T) {
	task := newWriteTask(mustWriteRequest(t, "/p/a.jpg", map[string]any{"Artist": "x"}))
	for _, text := range []string{
		"1 image files updated",
		"    1 image files updated",
		"2 image files updated",
		"1 image file updated",
	} {
		if err := task.Decode(text, nil); err != nil {
			t.Errorf("Decode(%q) = %v, want success", text, err)
		}
	}
}

func TestWriteDecode_RejectsNonUpdatedReplies(t *testing.T) {
	task := newWriteTask(mustWriteRequest(t, "/p/a.jpg", map[string]any{"Artist": "x"}))
	for _, text := range []string{
		"0 image files updated",
		"1 image files unchanged",
		"nothing to do",
		"",
	} {
		if err := task.Decode(text, nil); !errors.Is(err, ErrWriteRejected) {
			t.Errorf("Decode(%q) = %v, want ErrWriteRejected", text, err)
		}
	}
}

func TestWriteDecode_ErrorDiagnosticRejectsDespiteReply(t *testing.T) {
	task := newWriteTask(mustWriteRequest(t, "/p/a.jpg", map[string]any{"Artist": "x"}))
	err := task.Decode("1 image files updated", []string{"Error: Not a valid JPG (looks more like a PNG)"})
	if !errors.Is(err, ErrWriteRejected) {
		t.Fatalf("expected ErrWriteRejected, got %v", err)
	}

	// Warnings on the error stream do not reject.
	if err := task.Decode("1 image files updated", []string{"Warning: minor"}); err != nil {
		t.Errorf("warning diagnostic rejected the write: %v", err)
	}
}
