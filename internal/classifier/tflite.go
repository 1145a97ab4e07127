package classifier

import (
	"context"
	"fmt"
	"sync"

	tflite "github.com/tphakala/go-tflite"

	"go-crop-advisor/pkg/models"
)

// TFLiteClassifier runs the soil classification model through TensorFlow
// Lite.
type TFLiteClassifier struct {
	model       *tflite.Model
	interpreter *tflite.Interpreter
	labels      []string

	// Interpreter invocations are not safe for concurrent use.
	mu sync.Mutex
}

// NewTFLiteClassifier loads a TFLite soil classification model. labels must
// list the soil types in model class order.
func NewTFLiteClassifier(modelPath string, labels []string) (*TFLiteClassifier, error) {
	model := tflite.NewModelFromFile(modelPath)
	if model == nil {
		return nil, fmt.Errorf("failed to load TFLite model from %s", modelPath)
	}

	options := tflite.NewInterpreterOptions()
	options.SetNumThread(4)

	interpreter := tflite.NewInterpreter(model, options)
	if interpreter == nil {
		model.Delete()
		return nil, fmt.Errorf("failed to create TFLite interpreter")
	}
	if status := interpreter.AllocateTensors(); status != tflite.OK {
		interpreter.Delete()
		model.Delete()
		return nil, fmt.Errorf("failed to allocate TFLite tensors")
	}

	output := interpreter.GetOutputTensor(0)
	if output == nil {
		interpreter.Delete()
		model.Delete()
		return nil, fmt.Errorf("TFLite model has no output tensor")
	}
	if n := len(output.Float32s()); n != len(labels) {
		interpreter.Delete()
		model.Delete()
		return nil, fmt.Errorf("soil model emits %d classes but %d labels are configured", n, len(labels))
	}

	labelsCopy := make([]string, len(labels))
	copy(labelsCopy, labels)

	return &TFLiteClassifier{
		model:       model,
		interpreter: interpreter,
		labels:      labelsCopy,
	}, nil
}

// Classify implements SoilClassifier.
func (c *TFLiteClassifier) Classify(ctx context.Context, imageData []byte) (*models.Classification, error) {
	input, err := decodeAndPreprocess(imageData)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	copy(c.interpreter.GetInputTensor(0).Float32s(), input)
	if status := c.interpreter.Invoke(); status != tflite.OK {
		c.mu.Unlock()
		return nil, fmt.Errorf("soil model inference failed: tensor invoke returned %v", status)
	}
	src := c.interpreter.GetOutputTensor(0).Float32s()
	logits := make([]float32, len(src))
	copy(logits, src)
	c.mu.Unlock()

	return classificationFromProbs(c.labels, softmax(logits))
}

// Labels implements SoilClassifier.
func (c *TFLiteClassifier) Labels() []string {
	out := make([]string, len(c.labels))
	copy(out, c.labels)
	return out
}

// Close implements SoilClassifier.
func (c *TFLiteClassifier) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.interpreter != nil {
		c.interpreter.Delete()
		c.interpreter = nil
	}
	if c.model != nil {
		c.model.Delete()
		c.model = nil
	}
	return nil
}
