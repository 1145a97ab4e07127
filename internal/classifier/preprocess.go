package classifier

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"

	xdraw "golang.org/x/image/draw"

	apperrors "go-crop-advisor/internal/errors"
)

// Model input geometry. The soil classifier was trained on 224x224 RGB
// images with raw 0-255 pixel values.
const (
	inputWidth  = 224
	inputHeight = 224
	inputDepth  = 3
)

// decodeAndPreprocess turns raw image bytes into a flat [H*W*3] float32
// tensor in row-major RGB order. Decode failures surface as
// unreadable-image errors.
func decodeAndPreprocess(imageData []byte) ([]float32, error) {
	if len(imageData) == 0 {
		return nil, apperrors.NewUnreadableImageError("empty image data", nil)
	}

	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, apperrors.NewUnreadableImageError("failed to decode image", err)
	}

	// Resize to the model's input geometry. Catmull-Rom gives good quality
	// for downscaling photos.
	resized := image.NewRGBA(image.Rect(0, 0, inputWidth, inputHeight))
	xdraw.CatmullRom.Scale(resized, resized.Bounds(), img, img.Bounds(), xdraw.Over, nil)

	input := make([]float32, inputWidth*inputHeight*inputDepth)
	idx := 0
	for y := 0; y < inputHeight; y++ {
		for x := 0; x < inputWidth; x++ {
			offset := resized.PixOffset(x, y)
			input[idx] = float32(resized.Pix[offset])
			input[idx+1] = float32(resized.Pix[offset+1])
			input[idx+2] = float32(resized.Pix[offset+2])
			idx += inputDepth
		}
	}
	return input, nil
}

// softmax converts raw logits to a probability distribution.
func softmax(logits []float32) []float64 {
	probs := make([]float64, len(logits))
	if len(logits) == 0 {
		return probs
	}

	maxLogit := float64(logits[0])
	for _, l := range logits[1:] {
		if float64(l) > maxLogit {
			maxLogit = float64(l)
		}
	}

	var sum float64
	for i, l := range logits {
		probs[i] = math.Exp(float64(l) - maxLogit)
		sum += probs[i]
	}
	if sum == 0 {
		return probs
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// argmax returns the index of the largest probability. Ties resolve to the
// lowest index, matching model class order.
func argmax(probs []float64) int {
	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}
	return best
}
