package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/opsweep/opsweep/internal/models"
	"github.com/opsweep/opsweep/pkg/pricing"
	"github.com/opsweep/opsweep/pkg/utils"
)

// GetUnattachedVolumes returns a finding for every EBS volume in the
// 'available' state, priced from the static per-type rate table.
func (r *RegionScanner) GetUnattachedVolumes(ctx context.Context) ([]models.UnusedResource, error) {
	input := &ec2.DescribeVolumesInput{
		Filters: []types.Filter{
			{
				Name:   aws.String("status"),
				Values: []string{"available"},
			},
		},
	}

	findings := []models.UnusedResource{}
	paginator := ec2.NewDescribeVolumesPaginator(r.ec2, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error querying EBS volumes in %s: %w", r.region, err)
		}

		for _, volume := range page.Volumes {
			volumeType := string(volume.VolumeType)
			sizeGB := utils.SafeDeref(volume.Size)

			findings = append(findings, models.UnusedResource{
				ResourceType:         models.ResourceTypeVolume,
				ResourceID:           utils.SafeDeref(volume.VolumeId),
				Region:               r.region,
				Created:              volume.CreateTime,
				EstimatedMonthlyCost: pricing.VolumeMonthlyCost(volumeType, sizeGB),
				Details:              fmt.Sprintf("%dGB %s", sizeGB, volumeType),
			})
		}
	}

	return findings, nil
}
