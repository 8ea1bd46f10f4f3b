package observability

import (
	"fmt"
	"runtime"
	"time"
)

var startTime = time.Now()

const (
	colorReset    = "\033[0m"
	colorNeonCyan = "\033[96m"
	colorNeonMag  = "\033[95m"
)

func PrintBanner() {
	banner := `
 _       __    ___ __  __    ______    ___     ____    ______    ____
| |     / /   /   |\ \/ /   / ____/   /   |   / __ \  / ____/   / __ \
| | /| / /   / /| | \  /   / /_      / /| |  / /_/ / / __/     / /_/ /
| |/ |/ /   / ___ | / /   / __/     / ___ | / _, _/ / /___    / _, _/
|__/|__/   /_/  |_|/_/   /_/       /_/  |_|/_/ |_|  \____/   /_/ |_|

              >> AGENTIC TRAVEL ORCHESTRATION CORE <<
`
	fmt.Printf("%s%s%s\n", colorNeonCyan, banner, colorReset)
}

// PrintStartup logs a one-line runtime summary after wiring completes.
func PrintStartup(name, addr string, taskTypes []string) {
	fmt.Printf("%s[ BOOT ]%s %s listening on %s | tasks=%v | go=%s | boot=%s\n",
		colorNeonMag, colorReset,
		name, addr, taskTypes, runtime.Version(),
		time.Since(startTime).Round(time.Millisecond))
}
