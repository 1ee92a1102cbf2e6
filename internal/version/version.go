package version

import (
	"fmt"
	"runtime"
)

// Version is the application version, set at build time with
// -ldflags "-X github.com/dpshade/pocket-kdp/internal/version.Version=v1.2.3"
var Version = "dev"

// Commit is the git commit the binary was built from, when known
var Commit = ""

// GoInfo describes the toolchain and platform
var GoInfo = fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
