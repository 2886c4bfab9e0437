package models

import "time"

// Resource type labels as they appear in reports.
const (
	ResourceTypeVolume        = "EBS Volume"
	ResourceTypeLoadBalancer  = "Load Balancer"
	ResourceTypeElasticIP     = "Elastic IP"
	ResourceTypeECRRepository = "ECR Repository"
)

// UnusedResource represents a single unused or idle resource finding
type UnusedResource struct {
	ResourceType         string
	ResourceID           string
	Region               string
	Created              *time.Time // nil when the API does not report one
	EstimatedMonthlyCost float64
	Details              string
	ActivityMetric       *float64 // load balancers only: 14d traffic metric, nil if unavailable
}
