package dispatch

import "maps"

// DefaultFiles returns the built-in alias table.
func DefaultFiles() map[string]string {
	return map[string]string{
		"main": "/src/main",
		"lib":  "/src/lib",
		"test": "/src/test",
		"dist": "/out/dist",
	}
}

func mergeFiles(base, overrides map[string]string) map[string]string {
	out := maps.Clone(base)
	maps.Copy(out, overrides)
	return out
}
