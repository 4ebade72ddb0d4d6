package response

import (
	"math"

	"claimgate/src/utils/model"
)

type Statistics struct {
	Success            bool                          `json:"success"`
	Total              int64                         `json:"total"`
	StatusDistribution map[model.ClaimStatus]int64   `json:"statusDistribution"`
	StatusPercentages  map[model.ClaimStatus]float64 `json:"statusPercentages"`
	TopicDistribution  map[int64]int64               `json:"topicDistribution"`
	CompletionRate     float64                       `json:"completionRate"`
	RejectionRate      float64                       `json:"rejectionRate"`
}

func StatisticsToResponse(stats *model.ClaimRequestStatistics) *Statistics {
	out := &Statistics{
		Success:            true,
		Total:              stats.Total,
		StatusDistribution: stats.StatusDistribution,
		StatusPercentages:  make(map[model.ClaimStatus]float64, len(stats.StatusDistribution)),
		TopicDistribution:  stats.TopicDistribution,
	}

	for status, count := range stats.StatusDistribution {
		if stats.Total == 0 {
			out.StatusPercentages[status] = 0
			continue
		}
		percentage := float64(count) / float64(stats.Total) * 100
		out.StatusPercentages[status] = math.Round(percentage*100) / 100
	}

	out.CompletionRate = out.StatusPercentages[model.ClaimStatusCompleted]
	out.RejectionRate = out.StatusPercentages[model.ClaimStatusRejected]

	return out
}
