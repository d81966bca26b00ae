package elo

// Version is the release of the module. Release builds set it with
// -ldflags "-X github.com/aretw0/elo.Version=v1.2.3".
var Version = "dev"
