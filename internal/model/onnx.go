package model

import (
	"errors"
	"fmt"
	"sync"

	onnxruntime "github.com/yalue/onnxruntime_go"
)

var (
	envOnce sync.Once
	envErr  error
)

// initEnvironment starts ONNX Runtime once per process. libraryPath may be
// empty to use the platform default shared library.
func initEnvironment(libraryPath string) error {
	envOnce.Do(func() {
		if libraryPath != "" {
			onnxruntime.SetSharedLibraryPath(libraryPath)
		}
		if onnxruntime.IsInitialized() {
			return
		}
		envErr = onnxruntime.InitializeEnvironment()
	})
	return envErr
}

// ONNXConfig names the classifier file and its graph tensors.
type ONNXConfig struct {
	ModelPath   string
	LibraryPath string
	InputName   string
	OutputName  string
}

// ONNXClassifier runs a classifier exported to ONNX. The graph takes a
// float32 [1, n] input and yields an int64 [1] label.
type ONNXClassifier struct {
	session  *onnxruntime.DynamicAdvancedSession
	features int
}

// LoadONNXClassifier opens an inference session for a model with the given
// number of input features.
func LoadONNXClassifier(cfg ONNXConfig, features int) (*ONNXClassifier, error) {
	if err := initEnvironment(cfg.LibraryPath); err != nil {
		return nil, fmt.Errorf("initialize onnx runtime: %w", err)
	}

	options, err := onnxruntime.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("create session options: %w", err)
	}
	defer options.Destroy()

	session, err := onnxruntime.NewDynamicAdvancedSession(cfg.ModelPath,
		[]string{cfg.InputName}, []string{cfg.OutputName}, options)
	if err != nil {
		return nil, fmt.Errorf("load onnx model %s: %w", cfg.ModelPath, err)
	}
	return &ONNXClassifier{session: session, features: features}, nil
}

func (c *ONNXClassifier) Predict(x []float64) (int64, error) {
	if c.session == nil {
		return 0, errors.New("onnx session is closed")
	}
	if len(x) != c.features {
		return 0, fmt.Errorf("predict: want %d features, got %d", c.features, len(x))
	}

	input := make([]float32, len(x))
	for i, v := range x {
		input[i] = float32(v)
	}
	inputTensor, err := onnxruntime.NewTensor(onnxruntime.NewShape(1, int64(len(input))), input)
	if err != nil {
		return 0, fmt.Errorf("create input tensor: %w", err)
	}
	defer inputTensor.Destroy()

	labelTensor, err := onnxruntime.NewEmptyTensor[int64](onnxruntime.NewShape(1))
	if err != nil {
		return 0, fmt.Errorf("create label tensor: %w", err)
	}
	defer labelTensor.Destroy()

	if err := c.session.Run([]onnxruntime.Value{inputTensor}, []onnxruntime.Value{labelTensor}); err != nil {
		return 0, fmt.Errorf("inference failed: %w", err)
	}
	return labelTensor.GetData()[0], nil
}

// Close destroys the inference session.
func (c *ONNXClassifier) Close() error {
	if c.session == nil {
		return nil
	}
	err := c.session.Destroy()
	c.session = nil
	return err
}
