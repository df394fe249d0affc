package pintape

// Version is the release version, overridable at link time with
// -ldflags "-X github.com/aretw0/pintape.Version=...".
var Version = "v0.3.0"
