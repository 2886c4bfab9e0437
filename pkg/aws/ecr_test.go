package aws

import (
	"context"
	"testing"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	ecrtypes "github.com/aws/aws-sdk-go-v2/service/ecr/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsweep/opsweep/internal/models"
)

func TestGetStaleRepositories(t *testing.T) {
	recent := time.Now().AddDate(0, 0, -10)
	old := time.Now().AddDate(0, 0, -120)
	created := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)

	ecrapi := &fakeECR{
		repos: []ecrtypes.Repository{
			{RepositoryName: awssdk.String("active"), CreatedAt: &created},
			{RepositoryName: awssdk.String("abandoned"), CreatedAt: &created},
			{RepositoryName: awssdk.String("empty"), CreatedAt: &created},
		},
		imagesByRepo: map[string][]ecrtypes.ImageDetail{
			"active": {
				{ImagePushedAt: &recent, ImageSizeInBytes: awssdk.Int64(100 * 1024 * 1024)},
			},
			"abandoned": {
				{ImagePushedAt: &old, ImageSizeInBytes: awssdk.Int64(5 * 1024 * 1024 * 1024)},
				{ImagePushedAt: &old, ImageSizeInBytes: awssdk.Int64(5 * 1024 * 1024 * 1024)},
			},
		},
	}
	scanner := testRegionScanner("us-east-1", nil, nil, nil, ecrapi)

	findings, err := scanner.GetStaleRepositories(context.Background())
	require.NoError(t, err)
	require.Len(t, findings, 2)

	abandoned := findings[0]
	assert.Equal(t, models.ResourceTypeECRRepository, abandoned.ResourceType)
	assert.Equal(t, "abandoned", abandoned.ResourceID)
	assert.Equal(t, &created, abandoned.Created)
	// 10GB stored at the registry storage rate.
	assert.InDelta(t, 1.0, abandoned.EstimatedMonthlyCost, 1e-9)
	assert.Equal(t, "Last push 120d ago, 2 images", abandoned.Details)

	empty := findings[1]
	assert.Equal(t, "empty", empty.ResourceID)
	assert.Zero(t, empty.EstimatedMonthlyCost)
	assert.Equal(t, "No images", empty.Details)
}

func TestGetStaleRepositoriesNoneStale(t *testing.T) {
	recent := time.Now().AddDate(0, 0, -1)
	ecrapi := &fakeECR{
		repos: []ecrtypes.Repository{{RepositoryName: awssdk.String("active")}},
		imagesByRepo: map[string][]ecrtypes.ImageDetail{
			"active": {{ImagePushedAt: &recent}},
		},
	}
	scanner := testRegionScanner("us-east-1", nil, nil, nil, ecrapi)

	findings, err := scanner.GetStaleRepositories(context.Background())
	require.NoError(t, err)
	assert.Empty(t, findings)
}
