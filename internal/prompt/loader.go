// Package prompt loads named plain-text templates and substitutes
// {placeholder} tokens. Templates are embedded at build time and may be
// overridden by a directory on disk; they are read on demand and never
// mutated by the program.
package prompt

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/spec-kit/ticket-triage/pkg/apperrors"
)

//go:embed templates/*.txt
var embedded embed.FS

// Required lists the template names every deployment must provide.
var Required = []string{
	"classify_ticket",
	"suggest_response_system",
	"suggest_response_user",
	"answer_question_system",
}

// Loader reads templates from a filesystem.
type Loader struct {
	fsys fs.FS
}

// NewLoader returns a loader over the embedded default templates.
func NewLoader() *Loader {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		// embed guarantees the directory exists
		panic(err)
	}
	return &Loader{fsys: sub}
}

// NewLoaderFromDir returns a loader over an on-disk template directory.
func NewLoaderFromDir(dir string) *Loader {
	return &Loader{fsys: os.DirFS(dir)}
}

// Load returns the raw template text for a given name.
func (l *Loader) Load(name string) (string, error) {
	data, err := fs.ReadFile(l.fsys, name+".txt")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", apperrors.NewTemplateNotFound(name)
		}
		return "", apperrors.NewInternalError(err)
	}
	return string(data), nil
}

// Format loads the template and substitutes every {placeholder} with
// the corresponding value. A placeholder without a supplied value is a
// MISSING_VARIABLE error; extra supplied variables are silently unused.
// Doubled braces ({{ and }}) emit literal braces.
func (l *Loader) Format(name string, vars map[string]string) (string, error) {
	tmpl, err := l.Load(name)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	out.Grow(len(tmpl))
	for i := 0; i < len(tmpl); {
		ch := tmpl[i]
		switch {
		case ch == '{' && i+1 < len(tmpl) && tmpl[i+1] == '{':
			out.WriteByte('{')
			i += 2
		case ch == '}' && i+1 < len(tmpl) && tmpl[i+1] == '}':
			out.WriteByte('}')
			i += 2
		case ch == '{':
			end := strings.IndexByte(tmpl[i:], '}')
			if end < 0 {
				// unterminated token, keep as-is
				out.WriteByte(ch)
				i++
				continue
			}
			key := tmpl[i+1 : i+end]
			val, ok := vars[key]
			if !ok {
				return "", apperrors.NewMissingVariable(name, key)
			}
			out.WriteString(val)
			i += end + 1
		default:
			out.WriteByte(ch)
			i++
		}
	}
	return out.String(), nil
}

// Verify checks that all required templates are present.
func (l *Loader) Verify() error {
	for _, name := range Required {
		if _, err := l.Load(name); err != nil {
			return err
		}
	}
	return nil
}
