package scoring

import (
	"math"
	"strconv"

	"github.com/dazhuang0717-violet/aiscore/internal/domain"
)

// Fixed published rubric weights. Downstream reporting surfaces the formula
// verbatim, so these must not drift.
const (
	volumeQualityWeight = 0.6
	tierWeight          = 0.4

	kmWeight                = 0.6
	audiencePrecisionWeight = 0.4

	trueDemandWeight  = 0.5
	acquisitionWeight = 0.2
	volumeTotalWeight = 0.3
)

// BuildRecord composes the deterministic and AI-derived sub-scores into one
// batch result record. Composites are display-rounded to 2 decimals; the
// underlying sub-scores stay at full precision.
func BuildRecord(title, mediaName string, volumeQuality, tierScore float64, ai domain.AIAnalysis) domain.ResultRecord {
	volumeTotal := volumeQualityWeight*volumeQuality + tierWeight*tierScore
	trueDemand := kmWeight*ai.KMScore + audiencePrecisionWeight*ai.AudiencePrecisionScore
	total := trueDemandWeight*trueDemand + acquisitionWeight*ai.AcquisitionScore + volumeTotalWeight*volumeTotal

	return domain.ResultRecord{
		Title:     title,
		MediaName: mediaName,

		VolumeQuality:          volumeQuality,
		TierScore:              tierScore,
		KMScore:                ai.KMScore,
		AcquisitionScore:       ai.AcquisitionScore,
		AudiencePrecisionScore: ai.AudiencePrecisionScore,

		Comment: ai.Comment,

		VolumeTotal: format2(volumeTotal),
		TrueDemand:  format2(trueDemand),
		TotalScore:  format2(total),
	}
}

func format2(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', 2, 64)
}
