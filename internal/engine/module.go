package engine

import (
	"fmt"
	"runtime"

	"devconsole/internal/console"
	"devconsole/internal/logging"
)

// ModuleName is the engine's own operation module. It is a framework
// module, so it is only scanned when configured by name.
const ModuleName = "engine"

func init() {
	console.MustRegisterModule(console.Module{
		Name:      ModuleName,
		Framework: true,
		Declare: func(d *console.Declarations) {
			d.Static(console.Marker{
				Name:        "Collect garbage",
				Description: "Run a full garbage collection.",
			}, collectGarbage)
			d.Static(console.Marker{
				Name:        "Memory stats",
				Description: "Report heap usage and goroutine count.",
			}, memoryStats)
		},
	})
}

func collectGarbage() {
	runtime.GC()
	logging.Engine("Forced garbage collection")
}

func memoryStats() string {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	stats := fmt.Sprintf("heap=%dKiB objects=%d goroutines=%d", ms.HeapAlloc/1024, ms.HeapObjects, runtime.NumGoroutine())
	logging.Engine("Memory stats: %s", stats)
	return stats
}
