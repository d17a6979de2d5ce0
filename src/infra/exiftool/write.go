package exiftool

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/crivero/shoebox/src/media"
)

// charsetArgs pin the tool's textual encoding regardless of platform
// locale: UTF-8 filenames and coded character set, structured tag
// mode, and HTML-entity escaping for values.
var charsetArgs = []string{
	"-charset", "filename=utf8",
	"-codedcharacterset=utf8",
	"-struct",
	"-E",
}

// updatedRe is the only reply shape that confirms a write.
var updatedRe = regexp.MustCompile(`(?m)^\s*(\d+) image files? updated\s*$`)

// WriteTask encodes one mutation request into the tool's argument
// dialect. One-shot: built from an immutable request, used once.
type WriteTask struct {
	req *media.WriteRequest
}

func newWriteTask(req *media.WriteRequest) *WriteTask {
	return &WriteTask{req: req}
}

// Args renders the request: charset prefix, one -Tag=value per value
// (array elements in order), caller-supplied raw arguments, then the
// target path last.
func (t *WriteTask) Args() []string {
	args := make([]string, 0, len(charsetArgs)+len(t.req.Tags)+len(t.req.ExtraArgs)+1)
	args = append(args, charsetArgs...)
	for _, name := range t.req.TagNames() {
		v := t.req.Tags[name]
		if v.Kind == media.KindSequence {
			for _, e := range v.Seq {
				args = append(args, "-"+name+"="+encodeValue(e, false))
			}
			continue
		}
		args = append(args, "-"+name+"="+encodeValue(v, false))
	}
	args = append(args, t.req.ExtraArgs...)
	args = append(args, t.req.Path)
	return args
}

// Decode judges the reply. Error-stream lines beginning with "Error"
// reject the write even when the reply text looks successful; the tool
// reports some failures only there.
func (t *WriteTask) Decode(text string, diagnostics []string) error {
	var errs []string
	for _, d := range diagnostics {
		if strings.HasPrefix(d, "Error") {
			errs = append(errs, d)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrWriteRejected, strings.Join(errs, "; "))
	}
	m := updatedRe.FindStringSubmatch(text)
	if m == nil {
		return fmt.Errorf("%w: %q", ErrWriteRejected, text)
	}
	if n, err := strconv.Atoi(m[1]); err != nil || n < 1 {
		return fmt.Errorf("%w: %q", ErrWriteRejected, text)
	}
	return nil
}

// encodeValue has exactly one rule per value kind. Unclassifiable
// values were already rejected when the request was built.
func encodeValue(v media.WriteValue, nested bool) string {
	switch v.Kind {
	case media.KindNull:
		return ""
	case media.KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case media.KindText:
		return escapeText(v.Text, nested)
	case media.KindDateTime:
		return v.Time.String()
	case media.KindSequence:
		parts := make([]string, 0, len(v.Seq))
		for _, e := range v.Seq {
			parts = append(parts, encodeValue(e, true))
		}
		return "[" + strings.Join(parts, ",") + "]"
	case media.KindStructure:
		keys := make([]string, 0, len(v.Fields))
		for k := range v.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+" = "+encodeValue(v.Fields[k], true))
		}
		return "{" + strings.Join(parts, ",") + "}"
	default:
		// Unreachable for requests built through media.ValueOf.
		panic(fmt.Sprintf("unencodable value kind %d", v.Kind))
	}
}

var baseEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// nestedEscaper additionally protects the struct/sequence syntax
// characters so literal text survives inside braces and brackets.
var nestedEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
	",", "&#44;",
	"{", "&#123;",
	"}", "&#125;",
	"[", "&#91;",
	"]", "&#93;",
	"=", "&#61;",
	"|", "&#124;",
)

func escapeText(s string, nested bool) string {
	if nested {
		return nestedEscaper.Replace(s)
	}
	return baseEscaper.Replace(s)
}
