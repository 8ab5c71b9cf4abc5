package handlers

import (
	"net/http"
	"os"
	"runtime/debug"
	"strings"
	"sync"
)

// Version may be set at build time with -ldflags "-X .../handlers.Version=1.2.3".
var Version string

var (
	resolvedVersion string
	versionOnce     sync.Once
)

type VersionHandler struct{}

type VersionResponse struct {
	Version string `json:"version"`
}

func NewVersionHandler() *VersionHandler {
	return &VersionHandler{}
}

// BackendVersion resolves the version from the build flag, version.txt or the
// module build info, in that order. The result is cached.
func BackendVersion() string {
	versionOnce.Do(func() {
		if v := strings.TrimSpace(Version); v != "" {
			resolvedVersion = v
			return
		}
		for _, path := range []string{"version.txt", "/app/version.txt"} {
			data, err := os.ReadFile(path)
			if err == nil {
				if v := strings.TrimSpace(string(data)); v != "" {
					resolvedVersion = v
					return
				}
			}
		}
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			resolvedVersion = info.Main.Version
			return
		}
		resolvedVersion = "unknown"
	})
	return resolvedVersion
}

func (h *VersionHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{Version: BackendVersion()})
}
