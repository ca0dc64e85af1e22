package svgo

// Version is overridden at build time with -ldflags "-X github.com/aretw0/svgo.Version=...".
var Version = "0.1.0-dev"
