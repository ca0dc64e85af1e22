package plugins

import (
	"regexp"
	"strings"

	"github.com/aretw0/svgo/pkg/registry"
	"github.com/aretw0/svgo/pkg/xast"
)

type cleanupAttrsParams struct {
	Newlines bool `mapstructure:"newlines"`
	Trim     bool `mapstructure:"trim"`
	Spaces   bool `mapstructure:"spaces"`
}

var (
	// a newline between two non-space characters becomes a space
	regNewlinesNeedSpace = regexp.MustCompile(`(\S)\r?\n(\S)`)
	regNewlines          = regexp.MustCompile(`\r?\n`)
	regSpaces            = regexp.MustCompile(`\s{2,}`)
)

func cleanupAttrs(doc *xast.Document, params map[string]any, _ registry.Info) error {
	p := cleanupAttrsParams{Newlines: true, Trim: true, Spaces: true}
	if err := registry.DecodeParams(params, &p); err != nil {
		return err
	}

	for _, el := range xast.Elements(doc) {
		for i := range el.Attrs {
			v := el.Attrs[i].Value
			if p.Newlines {
				v = regNewlinesNeedSpace.ReplaceAllString(v, "$1 $2")
				v = regNewlines.ReplaceAllString(v, "")
			}
			if p.Trim {
				v = strings.TrimSpace(v)
			}
			if p.Spaces {
				v = regSpaces.ReplaceAllString(v, " ")
			}
			el.Attrs[i].Value = v
		}
	}
	return nil
}
