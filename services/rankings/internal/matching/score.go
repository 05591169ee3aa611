package matching

import (
	"math"
	"strings"

	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/model"
)

const (
	titleWeight = 0.7
	yearWeight  = 0.3

	exactBonus       = 0.1
	popularBonus     = 0.05
	popularVoteCount = 1000

	noYearScore    = 0.5
	yearScoreFloor = 0.3
)

// Candidate is a scored catalog hit.
type Candidate struct {
	CatalogID       int64
	MediaKind       model.MediaKind
	Year            int
	Title           string
	PosterPath      string
	TitleSimilarity float64
	YearScore       float64
	CombinedScore   float64
}

// Score rates a catalog hit against the normalized query. explicitYear is
// the year given in the raw title (0 when none); currentYear drives the
// recency curve used without one.
func Score(c model.CatalogCandidate, query string, explicitYear, currentYear int) Candidate {
	titleSim := math.Max(Ratio(query, c.Title), Ratio(query, c.OriginalTitle))
	yearScore := YearScore(c.Year, explicitYear, currentYear)

	combined := titleSim*titleWeight + yearScore*yearWeight
	if strings.EqualFold(c.Title, query) || strings.EqualFold(c.OriginalTitle, query) {
		combined = math.Min(1.0, combined+exactBonus)
	}
	if c.VoteCount > popularVoteCount {
		combined = math.Min(1.0, combined+popularBonus)
	}

	return Candidate{
		CatalogID:       c.ID,
		MediaKind:       c.Kind,
		Year:            c.Year,
		Title:           c.Title,
		PosterPath:      c.PosterPath,
		TitleSimilarity: titleSim,
		YearScore:       yearScore,
		CombinedScore:   combined,
	}
}

// YearScore rates how well a candidate's year fits. Zero years mean unknown.
func YearScore(candidateYear, explicitYear, currentYear int) float64 {
	if explicitYear != 0 {
		if candidateYear == explicitYear {
			return 1.0
		}
		if candidateYear == 0 {
			return noYearScore
		}
		return math.Max(yearScoreFloor, 1.0-math.Abs(float64(explicitYear-candidateYear))/20)
	}
	if candidateYear == 0 {
		return noYearScore
	}
	diff := currentYear - candidateYear
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff <= 1:
		return 1.0
	case diff <= 3:
		return 0.9
	case diff <= 5:
		return 0.8
	case diff <= 10:
		return 0.7
	default:
		return math.Max(yearScoreFloor, 1.0-float64(diff)/50)
	}
}

// round3 rounds half away from zero to three decimals.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
