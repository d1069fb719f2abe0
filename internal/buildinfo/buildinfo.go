// Package buildinfo exposes version information injected with -ldflags:
//
//	-X github.com/osa030/podcastr/internal/buildinfo.Version=v1.0.0
//	-X github.com/osa030/podcastr/internal/buildinfo.Commit=abcdef
//	-X github.com/osa030/podcastr/internal/buildinfo.Date=2024-05-01
package buildinfo

var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// Info is the build description served by the version endpoint.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit,omitempty"`
	Date    string `json:"date,omitempty"`
}

// Current returns the build information of the running binary.
func Current() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// String formats the build information for CLI output.
func (i Info) String() string {
	s := i.Version
	if i.Commit != "" {
		s += " (" + i.Commit + ")"
	}
	if i.Date != "" {
		s += " built " + i.Date
	}
	return s
}
