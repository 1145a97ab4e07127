package recommender

import (
	"context"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"go-crop-advisor/internal/modelfile"
	"go-crop-advisor/pkg/models"
)

const featureCount = 7

// ONNXRecommender runs the crop recommendation model (an ONNX export of the
// trained tree ensemble) through ONNX Runtime.
type ONNXRecommender struct {
	session    *ort.DynamicAdvancedSession
	inputName  string
	outputName string
	numCrops   int64
	labels     []string

	// The session is not safe for concurrent Run calls.
	mu sync.Mutex
}

// NewONNXRecommender loads the crop model and its labels file (one crop per
// line, in model class order). runtimeLibPath may be empty to use the
// default ONNX Runtime shared library resolution.
func NewONNXRecommender(modelPath, labelsPath, runtimeLibPath string) (*ONNXRecommender, error) {
	if err := modelfile.InitONNXRuntime(runtimeLibPath); err != nil {
		return nil, err
	}

	labels, err := modelfile.LoadLabels(labelsPath)
	if err != nil {
		return nil, err
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read crop model info: %w", err)
	}
	if len(inputs) != 1 {
		return nil, fmt.Errorf("crop model: expected 1 input tensor, got %d", len(inputs))
	}
	inDims := inputs[0].Dimensions
	if len(inDims) != 2 || (inDims[1] != featureCount && inDims[1] != -1) {
		return nil, fmt.Errorf("crop model: expected input shape [batch, %d], got %v", featureCount, inDims)
	}
	if len(outputs) == 0 {
		return nil, fmt.Errorf("crop model has no outputs")
	}

	// Tree-ensemble exports carry a probability tensor; when the converter
	// also emitted a label output, the probability tensor is the last one.
	probOutput := outputs[len(outputs)-1]
	outDims := probOutput.Dimensions
	if len(outDims) != 2 {
		return nil, fmt.Errorf("crop model: expected 2D probability tensor, got %v", outDims)
	}
	numCrops := outDims[1]
	if numCrops != int64(len(labels)) {
		return nil, fmt.Errorf("crop model emits %d classes but label file has %d entries", numCrops, len(labels))
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("failed to create session options: %w", err)
	}
	defer opts.Destroy()
	opts.SetIntraOpNumThreads(1)
	opts.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(
		modelPath,
		[]string{inputs[0].Name},
		[]string{probOutput.Name},
		opts,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create crop model session: %w", err)
	}

	return &ONNXRecommender{
		session:    session,
		inputName:  inputs[0].Name,
		outputName: probOutput.Name,
		numCrops:   numCrops,
		labels:     labels,
	}, nil
}

// Rank implements CropRecommender.
func (r *ONNXRecommender) Rank(ctx context.Context, features [7]float64) ([]models.CropScore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	input := make([]float32, featureCount)
	for i, v := range features {
		input[i] = float32(v)
	}

	probs, err := r.infer(input)
	if err != nil {
		return nil, err
	}
	return rankFromProbabilities(r.labels, probs)
}

func (r *ONNXRecommender) infer(input []float32) ([]float32, error) {
	tIn, err := ort.NewTensor(ort.NewShape(1, featureCount), input)
	if err != nil {
		return nil, fmt.Errorf("failed to create feature tensor: %w", err)
	}
	defer tIn.Destroy()

	tOut, err := ort.NewEmptyTensor[float32](ort.NewShape(1, r.numCrops))
	if err != nil {
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}
	defer tOut.Destroy()

	r.mu.Lock()
	err = r.session.Run([]ort.Value{tIn}, []ort.Value{tOut})
	r.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("crop model inference failed: %w", err)
	}

	src := tOut.GetData()
	probs := make([]float32, len(src))
	copy(probs, src)
	return probs, nil
}

// Labels implements CropRecommender.
func (r *ONNXRecommender) Labels() []string {
	out := make([]string, len(r.labels))
	copy(out, r.labels)
	return out
}

// Close implements CropRecommender.
func (r *ONNXRecommender) Close() error {
	return r.session.Destroy()
}
