/*
Package svgo optimizes SVG documents.

An SVG file is parsed into an XML tree (package xast), rewritten by a pipeline
of plugins and serialised back. The default pipeline, preset-default, removes
attribute noise, minifies ids, rounds numbers, shortens colours, converts
round ellipses to circles and collapses useless groups.

# Usage

	out, err := svgo.Optimize(input)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(out.Data)

An Optimizer can be built once and reused; it is safe for concurrent use:

	opt, err := svgo.New(
		svgo.WithPretty(false),
		svgo.WithFloatPrecision(2),
		svgo.WithMultipass(true),
	)

Settings can also come from a svgo.config.yaml file loaded with package
config and passed through WithConfig.

# Errors

Malformed input fails with an error wrapping domain.ErrInvalidSVG; unknown
plugin names with domain.ErrUnknownPlugin; bad plugin params with
domain.ErrInvalidParams.

# Command line

The svgo binary (cmd/svgo) wraps this package: it optimizes files, folders
and strings, and can serve the optimizer over HTTP or MCP.
*/
package svgo
