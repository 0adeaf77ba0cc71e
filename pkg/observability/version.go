package observability

// BuildVersion is overridden at link time via -ldflags
// "-X .../pkg/observability.BuildVersion=...".
var BuildVersion = "dev"
