package plugins

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/aretw0/svgo/pkg/registry"
	"github.com/aretw0/svgo/pkg/xast"
)

type cleanupNumericValuesParams struct {
	FloatPrecision int  `mapstructure:"floatPrecision"`
	LeadingZero    bool `mapstructure:"leadingZero"`
	DefaultPx      bool `mapstructure:"defaultPx"`
	ConvertToPx    bool `mapstructure:"convertToPx"`
}

var regNumericValues = regexp.MustCompile(`^([-+]?\d*\.?\d+([eE][-+]?\d+)?)(px|pt|pc|mm|cm|m|in|ft|em|ex|%)?$`)

// absolute lengths relative to px
var absoluteLengths = map[string]float64{
	"cm": 96 / 2.54,
	"mm": 96 / 25.4,
	"in": 96,
	"pt": 4.0 / 3,
	"pc": 16,
	"px": 1,
}

func cleanupNumericValues(doc *xast.Document, params map[string]any, _ registry.Info) error {
	p := cleanupNumericValuesParams{FloatPrecision: 3, LeadingZero: true, DefaultPx: true, ConvertToPx: true}
	if err := registry.DecodeParams(params, &p); err != nil {
		return err
	}

	for _, el := range xast.Elements(doc) {
		for i, a := range el.Attrs {
			switch a.Name {
			case "viewBox":
				el.Attrs[i].Value = roundList(a.Value, p.FloatPrecision)
				continue
			case "version":
				// a text string, not a number
				continue
			}
			m := regNumericValues.FindStringSubmatch(a.Value)
			if m == nil {
				continue
			}
			el.Attrs[i].Value = p.cleanup(a.Value, m[1], m[3])
		}
	}
	return nil
}

func (p cleanupNumericValuesParams) cleanup(value, numStr, unit string) string {
	raw, err := strconv.ParseFloat(numStr, 64)
	if err != nil {
		return value
	}
	num := roundTo(raw, p.FloatPrecision)

	if p.ConvertToPx {
		if factor, ok := absoluteLengths[unit]; ok {
			px := roundTo(factor*raw, p.FloatPrecision)
			if len(formatNumber(px)) < len(value) {
				num = px
				unit = "px"
			}
		}
	}

	s := formatNumber(num)
	if p.LeadingZero {
		s = removeLeadingZero(num)
	}
	if p.DefaultPx && unit == "px" {
		unit = ""
	}
	return s + unit
}

func roundList(value string, precision int) string {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})
	for i, f := range fields {
		if n, err := strconv.ParseFloat(f, 64); err == nil {
			fields[i] = formatNumber(roundTo(n, precision))
		}
	}
	return strings.Join(fields, " ")
}

func roundTo(n float64, precision int) float64 {
	scale := math.Pow(10, float64(precision))
	return math.Round(n*scale) / scale
}

// formatNumber prints the shortest decimal form without an exponent.
func formatNumber(n float64) string {
	if n == 0 {
		// drops the sign of -0
		return "0"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// removeLeadingZero turns 0.5 into .5 and -0.5 into -.5.
func removeLeadingZero(n float64) string {
	s := formatNumber(n)
	switch {
	case n > 0 && n < 1 && strings.HasPrefix(s, "0"):
		return s[1:]
	case n > -1 && n < 0 && strings.HasPrefix(s, "-0"):
		return "-" + s[2:]
	}
	return s
}
