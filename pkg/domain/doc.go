/*
Package domain contains the shared vocabulary of the svgo optimizer.

It holds the sentinel errors that cross package boundaries (parser, plugins,
configuration, caches) so that callers can classify failures with errors.Is
without importing the packages that produce them. The package is kept free of
I/O and third-party dependencies.

# Errors

  - ErrInvalidSVG: the input could not be parsed as an XML document.
  - ErrUnknownPlugin: a configuration names a plugin that is not registered.
  - ErrInvalidParams: plugin parameters could not be decoded.
  - ErrCacheMiss: a result cache has no entry for the requested key.
*/
package domain
