// Package version holds build information injected with -ldflags, e.g.
//
//	go build -ldflags "-X github.com/sdtraining/steer/pkg/version.Version=v0.3.0"
package version

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)
