package files

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/crivero/shoebox/src/features/config"
	"github.com/crivero/shoebox/src/media"
	"github.com/gosimple/unidecode"
)

// TemplatePathParser renders library paths from the template in the
// config.
type TemplatePathParser struct {
	config *config.Manager
}

// NewTemplatePathParser creates a new TemplatePathParser.
func NewTemplatePathParser(cfg *config.Manager) *TemplatePathParser {
	return &TemplatePathParser{config: cfg}
}

// RenderPath renders the library-relative path for a file, without the
// extension.
func (p *TemplatePathParser) RenderPath(f *media.File) (string, error) {
	return p.renderPathTemplate(p.config.Get().Organize.PathTemplate, f)
}

func (p *TemplatePathParser) renderPathTemplate(template string, f *media.File) (string, error) {
	var renderErr error
	// Regex to find functions like %asciify{...}
	reFunc := regexp.MustCompile(`%(\w+)\{([^}]+)\}`)
	rendered := reFunc.ReplaceAllStringFunc(template, func(raw string) string {
		parts := reFunc.FindStringSubmatch(raw)
		if len(parts) != 3 {
			return raw
		}
		funcName := parts[1]
		argTemplate := parts[2]

		argValue, err := p.renderValues(argTemplate, f)
		if err != nil {
			renderErr = err
			return "ERROR"
		}

		switch funcName {
		case "asciify":
			return unidecode.Unidecode(argValue)
		case "lower":
			return strings.ToLower(argValue)
		default:
			return raw // Unknown function
		}
	})
	if renderErr != nil {
		return "", renderErr
	}

	return p.renderValues(rendered, f)
}

func (p *TemplatePathParser) renderValues(template string, f *media.File) (string, error) {
	// Regex to find placeholders like $year
	reVal := regexp.MustCompile(`\$(\w+)`)
	rendered := reVal.ReplaceAllStringFunc(template, func(raw string) string {
		var val string
		key := strings.TrimPrefix(raw, "$")
		switch key {
		case "year":
			if f.TakenAt != nil {
				val = fmt.Sprintf("%04d", f.TakenAt.Year())
			} else {
				val = "unknown"
			}
		case "month":
			if f.TakenAt != nil {
				val = fmt.Sprintf("%02d", int(f.TakenAt.Month()))
			} else {
				val = "00"
			}
		case "day":
			if f.TakenAt != nil {
				val = fmt.Sprintf("%02d", f.TakenAt.Day())
			} else {
				val = "00"
			}
		case "camera":
			val = strings.TrimSpace(strings.TrimSpace(f.Make) + " " + strings.TrimSpace(f.Model))
			if val == "" {
				val = "unknown"
			}
		case "make":
			val = f.Make
		case "model":
			val = f.Model
		case "filename":
			base := filepath.Base(f.Path)
			val = strings.TrimSuffix(base, filepath.Ext(base))
		default:
			return raw // Unknown placeholder
		}
		// Sanitize path separators
		val = strings.ReplaceAll(val, "/", "-")
		return val
	})
	return rendered, nil
}
