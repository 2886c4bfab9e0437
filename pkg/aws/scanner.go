package aws

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"

	"github.com/opsweep/opsweep/internal/models"
	"github.com/opsweep/opsweep/pkg/utils"
)

// Check names as they appear in scan outcomes and warnings.
const (
	CheckVolumes       = "ebs-volumes"
	CheckLoadBalancers = "load-balancers"
	CheckElasticIPs    = "elastic-ips"
	CheckRepositories  = "ecr-repositories"
)

// checkOrder is the report order of checks within a region.
var checkOrder = []string{CheckVolumes, CheckLoadBalancers, CheckElasticIPs, CheckRepositories}

// CheckOutcome records the result of one check in one region. A failed
// check carries its error and contributes no findings; the scan continues
// with the remaining checks and regions.
type CheckOutcome struct {
	Region   string
	Check    string
	Findings []models.UnusedResource
	Err      error
}

// Failed reports whether the check ended in an error.
func (o CheckOutcome) Failed() bool {
	return o.Err != nil
}

// Scanner discovers scan regions and fans per-region scans out.
type Scanner struct {
	bootstrap EC2API
	newRegion func(ctx context.Context, region string) (*RegionScanner, error)
}

// NewScanner loads AWS configuration in the bootstrap region. An error
// here means no usable credential chain and aborts the run.
func NewScanner(ctx context.Context) (*Scanner, error) {
	cfg, err := LoadConfig(ctx, utils.GetDefaultRegion())
	if err != nil {
		return nil, err
	}
	return &Scanner{
		bootstrap: ec2.NewFromConfig(cfg),
		newRegion: NewRegionScanner,
	}, nil
}

// Regions returns the regions enabled for the account, in API order.
func (s *Scanner) Regions(ctx context.Context) ([]string, error) {
	output, err := s.bootstrap.DescribeRegions(ctx, &ec2.DescribeRegionsInput{})
	if err != nil {
		return nil, fmt.Errorf("error describing regions: %w", err)
	}

	regions := make([]string, 0, len(output.Regions))
	for _, region := range output.Regions {
		regions = append(regions, utils.SafeDeref(region.RegionName))
	}
	return regions, nil
}

// Scan runs every check in every region. Regions are scanned concurrently
// into indexed slots, so outcomes keep region order with checks in report
// order inside each region.
func (s *Scanner) Scan(ctx context.Context, regions []string) []CheckOutcome {
	perRegion := make([][]CheckOutcome, len(regions))

	var wg sync.WaitGroup
	for i, region := range regions {
		wg.Add(1)
		go func(slot int, region string) {
			defer wg.Done()
			perRegion[slot] = s.scanRegion(ctx, region)
		}(i, region)
	}
	wg.Wait()

	outcomes := make([]CheckOutcome, 0, len(regions)*len(checkOrder))
	for _, regionOutcomes := range perRegion {
		outcomes = append(outcomes, regionOutcomes...)
	}
	return outcomes
}

// scanRegion builds the region's clients and runs its checks. When the
// clients cannot be built every check is reported failed with that error.
func (s *Scanner) scanRegion(ctx context.Context, region string) []CheckOutcome {
	scanner, err := s.newRegion(ctx, region)
	if err != nil {
		outcomes := make([]CheckOutcome, 0, len(checkOrder))
		for _, check := range checkOrder {
			outcomes = append(outcomes, CheckOutcome{Region: region, Check: check, Err: err})
		}
		return outcomes
	}
	return scanner.Run(ctx)
}

// RegionScanner runs the unused resource checks for a single region.
type RegionScanner struct {
	region string
	ec2    EC2API
	elb    ELBV2API
	cw     CloudWatchAPI
	ecr    ECRAPI
}

// NewRegionScanner builds a RegionScanner backed by real service clients.
func NewRegionScanner(ctx context.Context, region string) (*RegionScanner, error) {
	cfg, err := LoadConfig(ctx, region)
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config for %s: %w", region, err)
	}
	return &RegionScanner{
		region: region,
		ec2:    ec2.NewFromConfig(cfg),
		elb:    elbv2.NewFromConfig(cfg),
		cw:     cloudwatch.NewFromConfig(cfg),
		ecr:    ecr.NewFromConfig(cfg),
	}, nil
}

// Run executes the region's checks in report order.
func (r *RegionScanner) Run(ctx context.Context) []CheckOutcome {
	checks := []struct {
		name string
		fn   func(context.Context) ([]models.UnusedResource, error)
	}{
		{CheckVolumes, r.GetUnattachedVolumes},
		{CheckLoadBalancers, r.GetIdleLoadBalancers},
		{CheckElasticIPs, r.GetUnusedAddresses},
		{CheckRepositories, r.GetStaleRepositories},
	}

	outcomes := make([]CheckOutcome, 0, len(checks))
	for _, check := range checks {
		findings, err := check.fn(ctx)
		outcomes = append(outcomes, CheckOutcome{
			Region:   r.region,
			Check:    check.name,
			Findings: findings,
			Err:      err,
		})
	}
	return outcomes
}
