package aws

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	ecrtypes "github.com/aws/aws-sdk-go-v2/service/ecr/types"

	"github.com/opsweep/opsweep/internal/models"
	"github.com/opsweep/opsweep/pkg/pricing"
	"github.com/opsweep/opsweep/pkg/utils"
)

// Repositories with no push inside this window are reported stale.
const staleRepositoryDays = 90

// GetStaleRepositories returns a finding for every ECR repository that
// holds no images or has not seen a push in the staleness window, priced
// by stored size.
func (r *RegionScanner) GetStaleRepositories(ctx context.Context) ([]models.UnusedResource, error) {
	findings := []models.UnusedResource{}
	paginator := ecr.NewDescribeRepositoriesPaginator(r.ecr, &ecr.DescribeRepositoriesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error describing ECR repositories in %s: %w", r.region, err)
		}

		for _, repo := range page.Repositories {
			stats, err := r.repositoryStats(ctx, repo.RepositoryName)
			if err != nil {
				return nil, err
			}
			if !stats.stale() {
				continue
			}

			details := "No images"
			if stats.lastPush != nil {
				details = fmt.Sprintf("Last push %dd ago, %d images", utils.ElapsedDays(*stats.lastPush), stats.imageCount)
			}

			findings = append(findings, models.UnusedResource{
				ResourceType:         models.ResourceTypeECRRepository,
				ResourceID:           aws.ToString(repo.RepositoryName),
				Region:               r.region,
				Created:              repo.CreatedAt,
				EstimatedMonthlyCost: pricing.RepositoryMonthlyCost(stats.sizeBytes),
				Details:              details,
			})
		}
	}

	return findings, nil
}

type repositoryStats struct {
	lastPush   *time.Time
	imageCount int
	sizeBytes  int64
}

func (s repositoryStats) stale() bool {
	if s.lastPush == nil {
		return true
	}
	return s.lastPush.Before(time.Now().AddDate(0, 0, -staleRepositoryDays))
}

// repositoryStats walks the repository's images for the newest push time,
// image count and total stored bytes. A repository with no images at all
// is not an error.
func (r *RegionScanner) repositoryStats(ctx context.Context, repoName *string) (repositoryStats, error) {
	var stats repositoryStats
	paginator := ecr.NewDescribeImagesPaginator(r.ecr, &ecr.DescribeImagesInput{
		RepositoryName: repoName,
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			var notFound *ecrtypes.ImageNotFoundException
			if errors.As(err, &notFound) {
				return stats, nil
			}
			return stats, fmt.Errorf("error describing images for %s: %w", aws.ToString(repoName), err)
		}

		stats.imageCount += len(page.ImageDetails)
		for _, image := range page.ImageDetails {
			stats.sizeBytes += utils.SafeDeref(image.ImageSizeInBytes)
			if image.ImagePushedAt != nil && (stats.lastPush == nil || image.ImagePushedAt.After(*stats.lastPush)) {
				stats.lastPush = image.ImagePushedAt
			}
		}
	}

	return stats, nil
}
