package classifier

import (
	"context"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"go-crop-advisor/internal/modelfile"
	"go-crop-advisor/pkg/models"
)

// ONNXClassifier runs the soil classification model through ONNX Runtime.
type ONNXClassifier struct {
	session    *ort.DynamicAdvancedSession
	inputName  string
	outputName string
	numClasses int64
	labels     []string

	// The session is not safe for concurrent Run calls.
	mu sync.Mutex
}

// NewONNXClassifier loads an ONNX soil classification model. labels must
// list the soil types in model class order. runtimeLibPath may be empty to
// use the default ONNX Runtime shared library resolution.
func NewONNXClassifier(modelPath, runtimeLibPath string, labels []string) (*ONNXClassifier, error) {
	if err := modelfile.InitONNXRuntime(runtimeLibPath); err != nil {
		return nil, err
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read soil model info: %w", err)
	}
	if len(inputs) != 1 {
		return nil, fmt.Errorf("soil model: expected 1 input tensor, got %d", len(inputs))
	}
	if len(outputs) == 0 {
		return nil, fmt.Errorf("soil model has no outputs")
	}

	outDims := outputs[0].Dimensions
	if len(outDims) != 2 {
		return nil, fmt.Errorf("soil model: expected 2D output tensor [batch, classes], got %v", outDims)
	}
	numClasses := outDims[1]
	if numClasses != int64(len(labels)) {
		return nil, fmt.Errorf("soil model emits %d classes but %d labels are configured", numClasses, len(labels))
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("failed to create session options: %w", err)
	}
	defer opts.Destroy()
	opts.SetIntraOpNumThreads(4)
	opts.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(
		modelPath,
		[]string{inputs[0].Name},
		[]string{outputs[0].Name},
		opts,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create soil model session: %w", err)
	}

	labelsCopy := make([]string, len(labels))
	copy(labelsCopy, labels)

	return &ONNXClassifier{
		session:    session,
		inputName:  inputs[0].Name,
		outputName: outputs[0].Name,
		numClasses: numClasses,
		labels:     labelsCopy,
	}, nil
}

// Classify implements SoilClassifier.
func (c *ONNXClassifier) Classify(ctx context.Context, imageData []byte) (*models.Classification, error) {
	input, err := decodeAndPreprocess(imageData)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logits, err := c.infer(input)
	if err != nil {
		return nil, err
	}
	return classificationFromProbs(c.labels, softmax(logits))
}

func (c *ONNXClassifier) infer(input []float32) ([]float32, error) {
	inShape := ort.NewShape(1, inputHeight, inputWidth, inputDepth)
	tIn, err := ort.NewTensor(inShape, input)
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}
	defer tIn.Destroy()

	outShape := ort.NewShape(1, c.numClasses)
	tOut, err := ort.NewEmptyTensor[float32](outShape)
	if err != nil {
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}
	defer tOut.Destroy()

	c.mu.Lock()
	err = c.session.Run([]ort.Value{tIn}, []ort.Value{tOut})
	c.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("soil model inference failed: %w", err)
	}

	// Copy data out before the tensor is destroyed.
	src := tOut.GetData()
	logits := make([]float32, len(src))
	copy(logits, src)
	return logits, nil
}

// Labels implements SoilClassifier.
func (c *ONNXClassifier) Labels() []string {
	out := make([]string, len(c.labels))
	copy(out, c.labels)
	return out
}

// Close implements SoilClassifier.
func (c *ONNXClassifier) Close() error {
	return c.session.Destroy()
}
