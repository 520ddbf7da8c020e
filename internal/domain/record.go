package domain

import "strconv"

// Row is one spreadsheet record: a mapping from column name to raw value.
type Row map[string]string

// Audience is the target-reader persona passed to every AI call in a batch.
type Audience string

const (
	AudienceGeneral Audience = "general"
	AudiencePatient Audience = "patient"
	AudienceHCP     Audience = "hcp"
)

// TierConfig holds the raw comma-separated media-name patterns per tier.
// Tier order defines precedence: tier1 beats tier2 beats tier3.
type TierConfig struct {
	Tier1 string `yaml:"tier1"`
	Tier2 string `yaml:"tier2"`
	Tier3 string `yaml:"tier3"`
}

// ProjectContext steers the AI rubric; constant for a whole batch.
type ProjectContext struct {
	KeyMessage  string `yaml:"keyMessage"`
	Description string `yaml:"description"`
}

// ScoreRequest carries everything the AI rubric needs for one piece of content.
type ScoreRequest struct {
	Text        string
	Audience    Audience
	KeyMessage  string
	ProjectDesc string
	MediaName   string
}

// AIAnalysis is the structured result of one AI scoring call. Sub-scores are
// nominally 0-10 but taken as returned, not clamped. Immutable once produced.
type AIAnalysis struct {
	KMScore                float64 `json:"km_score"`
	AcquisitionScore       float64 `json:"acquisition_score"`
	AudiencePrecisionScore float64 `json:"audience_precision_score"`
	Comment                string  `json:"comment"`
}

// ResultRecord is one scored row. Sub-scores keep full precision; the three
// composites are published as 2-decimal strings because downstream reporting
// re-parses the formatted values.
type ResultRecord struct {
	Title     string
	MediaName string

	VolumeQuality          float64
	TierScore              float64
	KMScore                float64
	AcquisitionScore       float64
	AudiencePrecisionScore float64

	Comment string

	VolumeTotal string
	TrueDemand  string
	TotalScore  string
}

// Total parses the formatted total score for ranking and aggregation.
func (r ResultRecord) Total() float64 {
	v, err := strconv.ParseFloat(r.TotalScore, 64)
	if err != nil {
		return 0
	}
	return v
}

// Field resolves a sortable/aggregatable field by key. The second return is
// the numeric value, valid only when numeric is true; string fields report
// their text value instead.
func (r ResultRecord) Field(key string) (text string, num float64, numeric bool) {
	switch key {
	case "title":
		return r.Title, 0, false
	case "media", "媒体名称":
		return r.MediaName, 0, false
	case "comment":
		return r.Comment, 0, false
	case "volume_quality":
		return "", r.VolumeQuality, true
	case "tier_score":
		return "", r.TierScore, true
	case "km_score":
		return "", r.KMScore, true
	case "acquisition_score":
		return "", r.AcquisitionScore, true
	case "audience_precision_score":
		return "", r.AudiencePrecisionScore, true
	case "volume_total":
		return "", parseFormatted(r.VolumeTotal), true
	case "true_demand":
		return "", parseFormatted(r.TrueDemand), true
	case "total_score":
		return "", r.Total(), true
	default:
		return "", 0, false
	}
}

func parseFormatted(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
