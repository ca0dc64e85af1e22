/*
Package ports defines the driven ports (interfaces) the svgo adapters plug into.

# Key Interfaces

  - ResultCache: Stores optimized output keyed by input and settings, so that
    repeated requests to the HTTP API skip the pipeline.
*/
package ports
