package knowledge

import (
	"strings"

	"github.com/arbovm/levenshtein"

	apperrors "go-crop-advisor/internal/errors"
	"go-crop-advisor/pkg/models"
)

// maxEditDistance is the levenshtein tolerance for fuzzy soil-type matching.
const maxEditDistance = 2

// Base is the read-only soil knowledge base. It is built once at process
// start and safe for concurrent use; no mutation operations exist.
type Base struct {
	profiles map[string]*SoilProfile
	order    []string
}

// NewBase builds the knowledge base from the static profile table.
func NewBase() *Base {
	b := &Base{
		profiles: make(map[string]*SoilProfile, len(soilProfiles)),
		order:    make([]string, 0, len(soilProfiles)),
	}
	for i := range soilProfiles {
		p := &soilProfiles[i]
		b.profiles[p.SoilType] = p
		b.order = append(b.order, p.SoilType)
	}
	return b
}

// Lookup returns the profile for a canonical soil-type identifier. Unknown
// identifiers fail with an unknown-soil-type error; there is no silent
// default.
func (b *Base) Lookup(soilType string) (*SoilProfile, error) {
	if p, ok := b.profiles[soilType]; ok {
		return p, nil
	}
	return nil, apperrors.NewUnknownSoilTypeError(soilType, nil)
}

// AllSoilTypes returns the canonical soil-type identifiers in classifier
// class order. The returned slice is a copy.
func (b *Base) AllSoilTypes() []string {
	out := make([]string, len(b.order))
	copy(out, b.order)
	return out
}

// Profiles returns all profiles in classifier class order.
func (b *Base) Profiles() []*SoilProfile {
	out := make([]*SoilProfile, 0, len(b.order))
	for _, name := range b.order {
		out = append(out, b.profiles[name])
	}
	return out
}

// SoilTypeInfos returns the introspection view of the knowledge base.
func (b *Base) SoilTypeInfos() []models.SoilTypeInfo {
	infos := make([]models.SoilTypeInfo, 0, len(b.order))
	for _, p := range b.Profiles() {
		crops := make([]string, len(p.TypicalCrops))
		copy(crops, p.TypicalCrops)
		infos = append(infos, models.SoilTypeInfo{
			SoilType:     p.SoilType,
			TypicalCrops: crops,
			PHMin:        p.PHRange.Min,
			PHMax:        p.PHRange.Max,
		})
	}
	return infos
}

// Normalize maps a user-supplied soil-type string to its canonical
// identifier. Matching is case-insensitive, ignores underscores/hyphens,
// tolerates a missing "Soil" suffix and up to maxEditDistance typos.
// Unresolvable input fails with an unknown-soil-type error.
func (b *Base) Normalize(input string) (string, error) {
	key := foldSoilType(input)
	if key == "" {
		return "", apperrors.NewUnknownSoilTypeError(input, nil)
	}

	// Exact match on the folded form, with or without the "soil" suffix.
	for _, name := range b.order {
		folded := foldSoilType(name)
		if key == folded || key+" soil" == folded {
			return name, nil
		}
	}

	// Fuzzy match for small typos. Ambiguity (two candidates at the same
	// minimal distance) resolves to unknown rather than a guess.
	best, bestDist, tied := "", maxEditDistance+1, false
	for _, name := range b.order {
		folded := foldSoilType(name)
		d := levenshtein.Distance(key, folded)
		if alt := levenshtein.Distance(key+" soil", folded); alt < d {
			d = alt
		}
		switch {
		case d < bestDist:
			best, bestDist, tied = name, d, false
		case d == bestDist:
			tied = true
		}
	}
	if bestDist <= maxEditDistance && !tied {
		return best, nil
	}
	return "", apperrors.NewUnknownSoilTypeError(input, nil)
}

func foldSoilType(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	return strings.Join(strings.Fields(s), " ")
}
