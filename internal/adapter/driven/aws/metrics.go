package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwTypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/diillson/cloud-insights-reports/internal/domain/entity"
)

// Sampling periods in seconds.
const (
	dailyPeriodSeconds  = 900
	weeklyPeriodSeconds = 3600
)

// PeriodSeconds returns the CloudWatch sampling period for a frequency.
func PeriodSeconds(freq entity.Frequency) int32 {
	if freq.PeriodDays() > 1 {
		return weeklyPeriodSeconds
	}
	return dailyPeriodSeconds
}

// FetchDatapoints busca a estatística Average de uma métrica na janela. Cada
// chamada tem seu próprio timeout.
func (p *Provider) FetchDatapoints(ctx context.Context, spec entity.MetricSpec, region string, window entity.TimeWindow, freq entity.Frequency) ([]entity.Datapoint, error) {
	callCtx, cancel := context.WithTimeout(ctx, p.opts.MetricTimeout)
	defer cancel()

	dimensions := make([]cwTypes.Dimension, 0, len(spec.Dimensions))
	for _, d := range spec.Dimensions {
		dimensions = append(dimensions, cwTypes.Dimension{Name: aws.String(d.Name), Value: aws.String(d.Value)})
	}

	out, err := p.clients.CloudWatch(region).GetMetricStatistics(callCtx, &cloudwatch.GetMetricStatisticsInput{
		Namespace:  aws.String(spec.Namespace),
		MetricName: aws.String(spec.MetricName),
		Dimensions: dimensions,
		StartTime:  aws.Time(window.Start),
		EndTime:    aws.Time(window.End),
		Period:     aws.Int32(PeriodSeconds(freq)),
		Statistics: []cwTypes.Statistic{cwTypes.StatisticAverage},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get CloudWatch metric %s/%s: %w", spec.Namespace, spec.MetricName, err)
	}

	points := make([]entity.Datapoint, 0, len(out.Datapoints))
	for _, dp := range out.Datapoints {
		if dp.Timestamp == nil || dp.Average == nil {
			continue
		}
		points = append(points, entity.Datapoint{Timestamp: *dp.Timestamp, Value: *dp.Average})
	}
	return points, nil
}
