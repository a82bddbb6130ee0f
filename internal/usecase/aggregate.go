package usecase

import (
	"crowdfunding/internal/dto/response"

	"github.com/shopspring/decimal"
)

// CancelThresholdPercent is the funding level from which a campaign can no longer be canceled.
var CancelThresholdPercent = decimal.NewFromInt(25)

var hundred = decimal.NewFromInt(100)

// CampaignAggregates are derived from donations and ratings on every read.
type CampaignAggregates struct {
	CurrentAmount     decimal.Decimal
	FundingPercentage decimal.Decimal
	AverageRating     decimal.Decimal
	CanBeCanceled     bool
}

// ComputeAggregates sums donations and averages ratings. Percentages and
// averages are rounded half-up to 2 places; a zero target yields 0%.
func ComputeAggregates(target decimal.Decimal, donations []decimal.Decimal, ratings []int) CampaignAggregates {
	current := decimal.Zero
	for _, amount := range donations {
		current = current.Add(amount)
	}

	percentage := decimal.Zero
	if !target.IsZero() {
		percentage = current.Mul(hundred).DivRound(target, 2)
	}

	average := decimal.Zero
	if len(ratings) > 0 {
		sum := int64(0)
		for _, v := range ratings {
			sum += int64(v)
		}
		average = decimal.NewFromInt(sum).DivRound(decimal.NewFromInt(int64(len(ratings))), 2)
	}

	return CampaignAggregates{
		CurrentAmount:     current,
		FundingPercentage: percentage,
		AverageRating:     average,
		CanBeCanceled:     percentage.LessThan(CancelThresholdPercent),
	}
}

func (a CampaignAggregates) ToResponse() response.AggregatesResponse {
	return response.AggregatesResponse{
		CurrentAmount:     a.CurrentAmount.StringFixed(2),
		FundingPercentage: a.FundingPercentage.StringFixed(2),
		AverageRating:     a.AverageRating.StringFixed(2),
		CanBeCanceled:     a.CanBeCanceled,
	}
}
