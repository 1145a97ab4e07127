package classifier

import (
	"fmt"

	apperrors "go-crop-advisor/internal/errors"
	"go-crop-advisor/pkg/models"
)

// classificationFromProbs pairs a probability distribution with the class
// labels and picks the top class. A label/output size mismatch is a model
// configuration error, never attributed to the input image.
func classificationFromProbs(labels []string, probs []float64) (*models.Classification, error) {
	if len(labels) != len(probs) {
		return nil, apperrors.NewInternalError(
			fmt.Sprintf("model emitted %d classes but %d labels are configured", len(probs), len(labels)), nil)
	}

	distribution := make(map[string]float64, len(labels))
	for i, label := range labels {
		distribution[label] = probs[i]
	}

	top := argmax(probs)
	return &models.Classification{
		SoilType:     labels[top],
		Confidence:   probs[top],
		Distribution: distribution,
	}, nil
}
