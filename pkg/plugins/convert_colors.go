package plugins

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/aretw0/svgo/pkg/collections"
	"github.com/aretw0/svgo/pkg/domain"
	"github.com/aretw0/svgo/pkg/registry"
	"github.com/aretw0/svgo/pkg/xast"
)

type convertColorsParams struct {
	// CurrentColor is unset, false, true (every colour but none), an exact
	// value or a /regexp/.
	CurrentColor any  `mapstructure:"currentColor"`
	Names2Hex    bool `mapstructure:"names2hex"`
	RGB2Hex      bool `mapstructure:"rgb2hex"`
	ShortHex     bool `mapstructure:"shorthex"`
	ShortName    bool `mapstructure:"shortname"`
}

const (
	rNumber = `([+-]?(?:\d*\.\d+|\d+\.?)%?)`
	rComma  = `\s*,\s*`
)

var regRGB = regexp.MustCompile(`^rgb\(\s*` + rNumber + rComma + rNumber + rComma + rNumber)

// currentColorMatcher reports whether a value should become currentColor.
type currentColorMatcher func(value string) bool

func newCurrentColorMatcher(v any) (currentColorMatcher, error) {
	switch v := v.(type) {
	case nil:
		return nil, nil
	case bool:
		if !v {
			return nil, nil
		}
		return func(value string) bool { return value != "none" }, nil
	case string:
		if len(v) > 1 && strings.HasPrefix(v, "/") && strings.HasSuffix(v, "/") {
			re, err := regexp.Compile(v[1 : len(v)-1])
			if err != nil {
				return nil, fmt.Errorf("%w: currentColor: %v", domain.ErrInvalidParams, err)
			}
			return re.MatchString, nil
		}
		return func(value string) bool { return value == v }, nil
	default:
		return nil, fmt.Errorf("%w: currentColor: unsupported value %v", domain.ErrInvalidParams, v)
	}
}

func convertColors(doc *xast.Document, params map[string]any, _ registry.Info) error {
	p := convertColorsParams{Names2Hex: true, RGB2Hex: true, ShortHex: true, ShortName: true}
	if err := registry.DecodeParams(params, &p); err != nil {
		return err
	}
	toCurrent, err := newCurrentColorMatcher(p.CurrentColor)
	if err != nil {
		return err
	}

	for _, el := range xast.Elements(doc) {
		for i, a := range el.Attrs {
			if !collections.ColorsProps.Has(a.Name) {
				continue
			}
			el.Attrs[i].Value = p.convert(a.Value, toCurrent)
		}
	}
	return nil
}

func (p convertColorsParams) convert(value string, toCurrent currentColorMatcher) string {
	if toCurrent != nil && toCurrent(value) {
		value = "currentColor"
	}

	if p.Names2Hex {
		if hex, ok := collections.ColorNames[strings.ToLower(value)]; ok {
			value = hex
		}
	}

	if p.RGB2Hex {
		if m := regRGB.FindStringSubmatch(value); m != nil {
			var rgb [3]int
			for i, s := range m[1:4] {
				rgb[i] = rgbChannel(s)
			}
			value = fmt.Sprintf("#%02X%02X%02X", rgb[0], rgb[1], rgb[2])
		}
	}

	if p.ShortHex {
		value = shortHex(value)
	}

	if p.ShortName {
		if name, ok := collections.ColorShortNames[strings.ToLower(value)]; ok {
			value = name
		}
	}
	return value
}

func rgbChannel(s string) int {
	var n float64
	if pct, ok := strings.CutSuffix(s, "%"); ok {
		f, _ := strconv.ParseFloat(pct, 64)
		n = math.Round(f * 2.55)
	} else {
		n, _ = strconv.ParseFloat(s, 64)
	}
	return int(math.Max(0, math.Min(255, n)))
}

// shortHex turns #aabbcc into #abc.
func shortHex(value string) string {
	if len(value) != 7 || value[0] != '#' {
		return value
	}
	if _, err := strconv.ParseUint(value[1:], 16, 32); err != nil {
		return value
	}
	v := strings.ToLower(value)
	if v[1] != v[2] || v[3] != v[4] || v[5] != v[6] {
		return value
	}
	return string([]byte{'#', v[1], v[3], v[5]})
}
