package autoflow

// Version is the release of the autoflow module. Overridden at build time with
// -ldflags "-X github.com/aretw0/autoflow.Version=...".
var Version = "0.3.0"
