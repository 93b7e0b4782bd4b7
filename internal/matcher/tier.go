package matcher

// Tier is a qualitative bucket for a score.
type Tier string

const (
	TierGood   Tier = "good"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

const (
	goodThreshold   = 80
	mediumThreshold = 60
)

// TierOf buckets a score: 80 and above is good, 60 and above is medium, the rest is low.
func TierOf(score int) Tier {
	switch {
	case score >= goodThreshold:
		return TierGood
	case score >= mediumThreshold:
		return TierMedium
	default:
		return TierLow
	}
}

// Headline describes the overall score in one sentence.
func Headline(overall int) string {
	switch TierOf(overall) {
	case TierGood:
		return "Excellent match! Your resume aligns well with this job."
	case TierMedium:
		return "Good match with room for improvement."
	default:
		return "Consider updating your resume to better match this role."
	}
}

// Tiers holds the tier of every score in a Result.
type Tiers struct {
	Overall    Tier `json:"overall"`
	Skills     Tier `json:"skills"`
	Keyword    Tier `json:"keyword"`
	Experience Tier `json:"experience"`
}

// Tiers buckets every score of the result.
func (r *Result) Tiers() Tiers {
	return Tiers{
		Overall:    TierOf(r.OverallScore),
		Skills:     TierOf(r.SkillsScore),
		Keyword:    TierOf(r.KeywordScore),
		Experience: TierOf(r.ExperienceScore),
	}
}
