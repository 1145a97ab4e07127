package knowledge

import "go-crop-advisor/pkg/models"

// Range is an inclusive numeric interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v falls inside the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// EnvironmentRanges holds the typical interval of each environmental
// parameter for one soil type. These are soft, informational bounds; values
// outside them warrant a warning, never a rejection.
type EnvironmentRanges struct {
	N           Range
	P           Range
	K           Range
	Temperature Range
	Humidity    Range
	PH          Range
	Rainfall    Range
}

// SoilProfile is the static knowledge-base entry for one soil type.
// Immutable after process start.
type SoilProfile struct {
	SoilType     string
	TypicalCrops []string
	PHRange      Range
	Ranges       EnvironmentRanges
	// Defaults are the representative values substituted for environmental
	// parameters the caller did not supply (midpoint of each typical range).
	Defaults models.EnvironmentalParameters
}

// HasCrop reports whether crop is in the profile's typical crop list.
func (p *SoilProfile) HasCrop(crop string) bool {
	for _, c := range p.TypicalCrops {
		if c == crop {
			return true
		}
	}
	return false
}

// soilProfiles is the full static table, one entry per soil type the image
// classifier can emit. Order matches the classifier's output class order.
var soilProfiles = []SoilProfile{
	{
		SoilType:     "Alluvial Soil",
		TypicalCrops: []string{"rice", "wheat", "sugarcane", "cotton", "jute", "maize", "pulses"},
		PHRange:      Range{6.0, 8.0},
		Ranges: EnvironmentRanges{
			N: Range{50, 100}, P: Range{30, 60}, K: Range{30, 60},
			Temperature: Range{20, 35}, Humidity: Range{60, 90},
			PH: Range{6.0, 8.0}, Rainfall: Range{100, 300},
		},
		Defaults: models.EnvironmentalParameters{
			N: 75, P: 45, K: 45, Temperature: 27.5, Humidity: 75, PH: 7.0, Rainfall: 200,
		},
	},
	{
		SoilType:     "Black Soil",
		TypicalCrops: []string{"cotton", "sugarcane", "wheat", "jowar", "sunflower", "groundnut", "pulses"},
		PHRange:      Range{7.0, 8.5},
		Ranges: EnvironmentRanges{
			N: Range{40, 80}, P: Range{20, 50}, K: Range{40, 80},
			Temperature: Range{25, 40}, Humidity: Range{50, 80},
			PH: Range{7.0, 8.5}, Rainfall: Range{50, 200},
		},
		Defaults: models.EnvironmentalParameters{
			N: 60, P: 35, K: 60, Temperature: 32.5, Humidity: 65, PH: 7.75, Rainfall: 125,
		},
	},
	{
		SoilType:     "Cinder Soil",
		TypicalCrops: []string{"coffee", "tea", "cardamom", "pepper", "coconut", "cashew"},
		PHRange:      Range{5.5, 7.0},
		Ranges: EnvironmentRanges{
			N: Range{30, 60}, P: Range{15, 40}, K: Range{20, 50},
			Temperature: Range{15, 30}, Humidity: Range{70, 95},
			PH: Range{5.5, 7.0}, Rainfall: Range{200, 400},
		},
		Defaults: models.EnvironmentalParameters{
			N: 45, P: 27.5, K: 35, Temperature: 22.5, Humidity: 82.5, PH: 6.25, Rainfall: 300,
		},
	},
	{
		SoilType:     "Clay Soil",
		TypicalCrops: []string{"rice", "wheat", "barley", "oats", "potatoes", "onions"},
		PHRange:      Range{6.5, 8.0},
		Ranges: EnvironmentRanges{
			N: Range{60, 100}, P: Range{40, 70}, K: Range{50, 90},
			Temperature: Range{15, 30}, Humidity: Range{60, 85},
			PH: Range{6.5, 8.0}, Rainfall: Range{100, 250},
		},
		Defaults: models.EnvironmentalParameters{
			N: 80, P: 55, K: 70, Temperature: 22.5, Humidity: 72.5, PH: 7.25, Rainfall: 175,
		},
	},
	{
		SoilType:     "Laterite Soil",
		TypicalCrops: []string{"cashew", "coconut", "rubber", "tea", "coffee", "cardamom"},
		PHRange:      Range{5.0, 6.5},
		Ranges: EnvironmentRanges{
			N: Range{20, 50}, P: Range{10, 30}, K: Range{15, 40},
			Temperature: Range{20, 35}, Humidity: Range{60, 90},
			PH: Range{5.0, 6.5}, Rainfall: Range{150, 300},
		},
		Defaults: models.EnvironmentalParameters{
			N: 35, P: 20, K: 27.5, Temperature: 27.5, Humidity: 75, PH: 5.75, Rainfall: 225,
		},
	},
	{
		SoilType:     "Peat Soil",
		TypicalCrops: []string{"rice", "vegetables", "fruits", "flowers", "herbs"},
		PHRange:      Range{4.0, 6.0},
		Ranges: EnvironmentRanges{
			N: Range{80, 120}, P: Range{30, 60}, K: Range{20, 50},
			Temperature: Range{10, 25}, Humidity: Range{70, 95},
			PH: Range{4.0, 6.0}, Rainfall: Range{200, 500},
		},
		Defaults: models.EnvironmentalParameters{
			N: 100, P: 45, K: 35, Temperature: 17.5, Humidity: 82.5, PH: 5.0, Rainfall: 350,
		},
	},
	{
		SoilType:     "Red Soil",
		TypicalCrops: []string{"groundnut", "potato", "rice", "ragi", "tobacco", "oilseeds", "pulses"},
		PHRange:      Range{5.5, 7.5},
		Ranges: EnvironmentRanges{
			N: Range{30, 70}, P: Range{20, 50}, K: Range{25, 60},
			Temperature: Range{20, 35}, Humidity: Range{50, 80},
			PH: Range{5.5, 7.5}, Rainfall: Range{50, 200},
		},
		Defaults: models.EnvironmentalParameters{
			N: 50, P: 35, K: 42.5, Temperature: 27.5, Humidity: 65, PH: 6.5, Rainfall: 125,
		},
	},
	{
		SoilType:     "Yellow Soil",
		TypicalCrops: []string{"wheat", "barley", "potato", "rice", "maize", "pulses"},
		PHRange:      Range{6.0, 7.5},
		Ranges: EnvironmentRanges{
			N: Range{40, 80}, P: Range{25, 55}, K: Range{30, 70},
			Temperature: Range{15, 30}, Humidity: Range{60, 85},
			PH: Range{6.0, 7.5}, Rainfall: Range{100, 300},
		},
		Defaults: models.EnvironmentalParameters{
			N: 60, P: 40, K: 50, Temperature: 22.5, Humidity: 72.5, PH: 6.75, Rainfall: 200,
		},
	},
}
