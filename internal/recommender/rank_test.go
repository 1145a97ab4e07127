package recommender

import (
	"testing"
)

func TestRankFromProbabilities(t *testing.T) {
	labels := []string{"rice", "wheat", "cotton", "maize"}
	probs := []float32{0.1, 0.5, 0.3, 0.1}

	ranked, err := rankFromProbabilities(labels, probs)
	if err != nil {
		t.Fatalf("rankFromProbabilities failed: %v", err)
	}

	expected := []string{"wheat", "cotton", "rice", "maize"}
	if len(ranked) != len(expected) {
		t.Fatalf("Expected %d entries, got %d", len(expected), len(ranked))
	}
	for i, want := range expected {
		if ranked[i].Crop != want {
			t.Errorf("Rank %d: expected %q, got %q", i, want, ranked[i].Crop)
		}
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Score > ranked[i-1].Score {
			t.Errorf("Scores not descending at index %d", i)
		}
	}
}

func TestRankTiesKeepModelOrder(t *testing.T) {
	// rice and maize tie at 0.1; rice precedes maize in model order and
	// must stay ahead after sorting.
	labels := []string{"rice", "wheat", "maize"}
	probs := []float32{0.1, 0.8, 0.1}

	ranked, err := rankFromProbabilities(labels, probs)
	if err != nil {
		t.Fatalf("rankFromProbabilities failed: %v", err)
	}
	if ranked[1].Crop != "rice" || ranked[2].Crop != "maize" {
		t.Errorf("Tie broke model order: got %q then %q", ranked[1].Crop, ranked[2].Crop)
	}
}

func TestRankDropsZeroProbabilities(t *testing.T) {
	labels := []string{"rice", "wheat", "cotton"}
	probs := []float32{0, 0.9, 0}

	ranked, err := rankFromProbabilities(labels, probs)
	if err != nil {
		t.Fatalf("rankFromProbabilities failed: %v", err)
	}
	if len(ranked) != 1 || ranked[0].Crop != "wheat" {
		t.Errorf("Expected only wheat, got %v", ranked)
	}
}

func TestRankEmptyResultIsValid(t *testing.T) {
	ranked, err := rankFromProbabilities([]string{"rice"}, []float32{0})
	if err != nil {
		t.Fatalf("rankFromProbabilities failed: %v", err)
	}
	if len(ranked) != 0 {
		t.Errorf("Expected empty ranking, got %v", ranked)
	}
}

func TestRankSizeMismatch(t *testing.T) {
	if _, err := rankFromProbabilities([]string{"rice"}, []float32{0.5, 0.5}); err == nil {
		t.Error("Expected error for label/output size mismatch")
	}
}
