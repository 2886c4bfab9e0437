package aws

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbv2types "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/opsweep/opsweep/internal/models"
	"github.com/opsweep/opsweep/pkg/pricing"
)

const (
	// Window for the traffic annotation on idle load balancers.
	trafficWindowDays = 14

	namespaceALB = "AWS/ApplicationELB"
	namespaceNLB = "AWS/NetworkELB"

	metricRequestCount    = "RequestCount"
	metricActiveFlowCount = "ActiveFlowCount"
)

// GetIdleLoadBalancers returns a finding for every ALB/NLB with no target
// in the healthy state. A load balancer with zero target groups counts as
// idle. Other load balancer types are skipped.
func (r *RegionScanner) GetIdleLoadBalancers(ctx context.Context) ([]models.UnusedResource, error) {
	findings := []models.UnusedResource{}
	paginator := elbv2.NewDescribeLoadBalancersPaginator(r.elb, &elbv2.DescribeLoadBalancersInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error describing load balancers in %s: %w", r.region, err)
		}

		for _, lb := range page.LoadBalancers {
			if lb.Type != elbv2types.LoadBalancerTypeEnumApplication && lb.Type != elbv2types.LoadBalancerTypeEnumNetwork {
				continue
			}

			arn := aws.ToString(lb.LoadBalancerArn)
			healthy, err := r.healthyTargetCount(ctx, arn)
			if err != nil {
				return nil, err
			}
			if healthy > 0 {
				continue
			}

			findings = append(findings, models.UnusedResource{
				ResourceType:         models.ResourceTypeLoadBalancer,
				ResourceID:           aws.ToString(lb.LoadBalancerName),
				Region:               r.region,
				Created:              lb.CreatedTime,
				EstimatedMonthlyCost: pricing.LoadBalancerMonthly,
				Details:              "No healthy targets",
				ActivityMetric:       r.trafficMetric(ctx, arn, lb.Type),
			})
		}
	}

	return findings, nil
}

// healthyTargetCount counts targets in the healthy state across all
// target groups of a load balancer.
func (r *RegionScanner) healthyTargetCount(ctx context.Context, lbArn string) (int, error) {
	count := 0
	paginator := elbv2.NewDescribeTargetGroupsPaginator(r.elb, &elbv2.DescribeTargetGroupsInput{
		LoadBalancerArn: aws.String(lbArn),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return 0, fmt.Errorf("error describing target groups for %s: %w", lbArn, err)
		}

		for _, tg := range page.TargetGroups {
			if tg.TargetGroupArn == nil {
				continue
			}
			health, err := r.elb.DescribeTargetHealth(ctx, &elbv2.DescribeTargetHealthInput{
				TargetGroupArn: tg.TargetGroupArn,
			})
			if err != nil {
				return 0, fmt.Errorf("error describing target health for %s: %w", *tg.TargetGroupArn, err)
			}

			count += lo.CountBy(health.TargetHealthDescriptions, func(desc elbv2types.TargetHealthDescription) bool {
				return desc.TargetHealth != nil && desc.TargetHealth.State == elbv2types.TargetHealthStateEnumHealthy
			})
		}
	}
	return count, nil
}

// trafficMetric fetches the trailing traffic metric for an idle load
// balancer: RequestCount sum for ALBs, ActiveFlowCount average for NLBs.
// A metric failure only loses the annotation, never the finding.
func (r *RegionScanner) trafficMetric(ctx context.Context, lbArn string, lbType elbv2types.LoadBalancerTypeEnum) *float64 {
	namespace := namespaceALB
	metricName := metricRequestCount
	statistic := cwtypes.StatisticSum
	if lbType == elbv2types.LoadBalancerTypeEnumNetwork {
		namespace = namespaceNLB
		metricName = metricActiveFlowCount
		statistic = cwtypes.StatisticAverage
	}

	value, err := r.metricValue(ctx, lbArn, namespace, metricName, statistic)
	if err != nil {
		logrus.Debugf("CloudWatch %s unavailable for %s: %v", metricName, lbArn, err)
		return nil
	}
	return &value
}

// metricValue retrieves a single statistic over the trailing traffic
// window, using the LoadBalancer dimension extracted from the ARN.
func (r *RegionScanner) metricValue(ctx context.Context, lbArn, namespace, metricName string, statistic cwtypes.Statistic) (float64, error) {
	arnParts := strings.Split(lbArn, ":")
	if len(arnParts) < 6 {
		return 0, fmt.Errorf("invalid load balancer ARN: %s", lbArn)
	}
	resource := arnParts[5]
	if !strings.HasPrefix(resource, "loadbalancer/") {
		return 0, fmt.Errorf("unexpected load balancer ARN resource: %s", resource)
	}
	dimension := strings.TrimPrefix(resource, "loadbalancer/")

	now := time.Now()
	output, err := r.cw.GetMetricStatistics(ctx, &cloudwatch.GetMetricStatisticsInput{
		Namespace:  aws.String(namespace),
		MetricName: aws.String(metricName),
		Dimensions: []cwtypes.Dimension{
			{
				Name:  aws.String("LoadBalancer"),
				Value: aws.String(dimension),
			},
		},
		StartTime:  aws.Time(now.AddDate(0, 0, -trafficWindowDays)),
		EndTime:    aws.Time(now),
		Period:     aws.Int32(trafficWindowDays * 24 * 60 * 60),
		Statistics: []cwtypes.Statistic{statistic},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to get metric %s for %s: %w", metricName, dimension, err)
	}

	if len(output.Datapoints) == 0 {
		return 0, nil
	}
	datapoint := output.Datapoints[0]
	if statistic == cwtypes.StatisticAverage {
		return aws.ToFloat64(datapoint.Average), nil
	}
	return aws.ToFloat64(datapoint.Sum), nil
}
