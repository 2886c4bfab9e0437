package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/opsweep/opsweep/internal/models"
	"github.com/opsweep/opsweep/pkg/pricing"
	"github.com/opsweep/opsweep/pkg/utils"
)

// GetUnusedAddresses returns a finding for every Elastic IP bound to
// neither an instance nor a network interface. AWS bills these at a flat
// monthly rate.
func (r *RegionScanner) GetUnusedAddresses(ctx context.Context) ([]models.UnusedResource, error) {
	output, err := r.ec2.DescribeAddresses(ctx, &ec2.DescribeAddressesInput{})
	if err != nil {
		return nil, fmt.Errorf("error querying Elastic IPs in %s: %w", r.region, err)
	}

	findings := []models.UnusedResource{}
	for _, address := range output.Addresses {
		if utils.SafeDeref(address.InstanceId) != "" || utils.SafeDeref(address.NetworkInterfaceId) != "" {
			continue
		}

		resourceID := utils.SafeDeref(address.PublicIp)
		if resourceID == "" {
			resourceID = utils.SafeDeref(address.AllocationId)
		}

		findings = append(findings, models.UnusedResource{
			ResourceType:         models.ResourceTypeElasticIP,
			ResourceID:           resourceID,
			Region:               r.region,
			EstimatedMonthlyCost: pricing.ElasticIPMonthly,
			Details:              "Not associated",
		})
	}

	return findings, nil
}
