package recommender

import (
	"fmt"
	"sort"

	apperrors "go-crop-advisor/internal/errors"
	"go-crop-advisor/pkg/models"
)

// rankFromProbabilities pairs per-crop probabilities with their labels and
// sorts by score descending. The sort is stable so equal scores keep the
// model's native label order. Crops with zero probability are dropped; a
// feature vector matching no crop at all yields an empty (valid) result.
func rankFromProbabilities(labels []string, probs []float32) ([]models.CropScore, error) {
	if len(labels) != len(probs) {
		return nil, apperrors.NewInternalError(
			fmt.Sprintf("crop model emitted %d classes but %d labels are configured", len(probs), len(labels)), nil)
	}

	ranked := make([]models.CropScore, 0, len(labels))
	for i, label := range labels {
		if probs[i] <= 0 {
			continue
		}
		ranked = append(ranked, models.CropScore{Crop: label, Score: float64(probs[i])})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked, nil
}
