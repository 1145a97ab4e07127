package modelfile

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ortEnv manages global ONNX Runtime initialization (process-wide singleton).
var ortEnv struct {
	once sync.Once
	err  error
}

// InitONNXRuntime initializes the ONNX Runtime environment. Safe to call
// multiple times; only the first call has any effect. An empty libPath keeps
// the library's default shared-library resolution.
func InitONNXRuntime(libPath string) error {
	ortEnv.once.Do(func() {
		if libPath != "" {
			ort.SetSharedLibraryPath(libPath)
		}
		ortEnv.err = ort.InitializeEnvironment()
	})
	if ortEnv.err != nil {
		return fmt.Errorf("failed to initialize ONNX runtime: %w", ortEnv.err)
	}
	return nil
}
