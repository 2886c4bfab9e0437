package docker

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/opsweep/opsweep/internal/models"
	"github.com/opsweep/opsweep/pkg/utils"
)

// DefaultKeepTags protects images whose tags contain any of these terms.
var DefaultKeepTags = []string{"latest", "stable", "production"}

// RemovalFailure records one image the engine refused to remove.
type RemovalFailure struct {
	Image models.ImageInfo
	Err   error
}

// CleanupResult totals a cleanup pass. Failed removals are recorded in
// Failures and excluded from Removed and FreedMB.
type CleanupResult struct {
	Removed  int
	FreedMB  float64
	Failures []RemovalFailure
}

// Cleaner lists and removes local images through the engine API.
type Cleaner struct {
	api EngineAPI
}

// NewCleaner wraps an engine client in a Cleaner.
func NewCleaner(api EngineAPI) *Cleaner {
	return &Cleaner{api: api}
}

// ListImages returns local images at least minAgeDays old, oldest first.
// includeDangling extends the listing to untagged images.
func (c *Cleaner) ListImages(ctx context.Context, minAgeDays int, includeDangling bool) ([]models.ImageInfo, error) {
	summaries, err := c.api.ImageList(ctx, image.ListOptions{All: includeDangling})
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}

	images := make([]models.ImageInfo, 0, len(summaries))
	for _, summary := range summaries {
		created := time.Unix(summary.Created, 0).UTC()
		ageDays := utils.AgeDays(created)
		if ageDays < float64(minAgeDays) {
			continue
		}

		tags := summary.RepoTags
		if len(tags) == 0 {
			tags = []string{models.UntaggedRef}
		}

		images = append(images, models.ImageInfo{
			ID:      shortID(summary.ID),
			Tags:    tags,
			SizeMB:  float64(summary.Size) / (1024 * 1024),
			Created: created,
			AgeDays: ageDays,
		})
	}

	sort.Slice(images, func(i, j int) bool {
		return images[i].AgeDays > images[j].AgeDays
	})
	return images, nil
}

// DanglingImages returns the images carrying only the untagged sentinel.
func (c *Cleaner) DanglingImages(ctx context.Context) ([]models.ImageInfo, error) {
	images, err := c.ListImages(ctx, 0, true)
	if err != nil {
		return nil, err
	}
	return lo.Filter(images, func(img models.ImageInfo, _ int) bool {
		return img.IsDangling()
	}), nil
}

// CleanupDangling removes dangling images. In dry-run mode it only prints
// what would be removed and never touches the engine.
func (c *Cleaner) CleanupDangling(ctx context.Context, dryRun bool) (CleanupResult, error) {
	dangling, err := c.DanglingImages(ctx)
	if err != nil {
		return CleanupResult{}, err
	}

	var result CleanupResult
	for _, img := range dangling {
		if dryRun {
			fmt.Printf("[DRY RUN] Would remove: %s (%.1fMB)\n", img.ID, img.SizeMB)
			continue
		}

		if _, err := c.api.ImageRemove(ctx, img.ID, image.RemoveOptions{Force: true}); err != nil {
			logrus.Warnf("Failed to remove %s: %v", img.ID, err)
			result.Failures = append(result.Failures, RemovalFailure{Image: img, Err: err})
			continue
		}
		fmt.Printf("Removed: %s\n", img.ID)
		result.Removed++
		result.FreedMB += img.SizeMB
	}
	return result, nil
}

// CleanupOld removes images older than minAgeDays unless a tag matches the
// keep list. An empty keep list falls back to DefaultKeepTags.
func (c *Cleaner) CleanupOld(ctx context.Context, minAgeDays int, keepTags []string, dryRun bool) (CleanupResult, error) {
	if len(keepTags) == 0 {
		keepTags = DefaultKeepTags
	}

	images, err := c.ListImages(ctx, minAgeDays, true)
	if err != nil {
		return CleanupResult{}, err
	}

	var result CleanupResult
	for _, img := range images {
		if Protected(img, keepTags) {
			continue
		}

		if dryRun {
			fmt.Printf("[DRY RUN] Would remove: %s (%.1fMB, %.0f days old)\n", img.Tags[0], img.SizeMB, img.AgeDays)
			continue
		}

		if _, err := c.api.ImageRemove(ctx, img.ID, image.RemoveOptions{Force: true}); err != nil {
			logrus.Warnf("Failed to remove %s: %v", img.Tags[0], err)
			result.Failures = append(result.Failures, RemovalFailure{Image: img, Err: err})
			continue
		}
		fmt.Printf("Removed: %s\n", img.Tags[0])
		result.Removed++
		result.FreedMB += img.SizeMB
	}
	return result, nil
}

// Protected reports whether any of the image's tags contains any keep
// term as a substring.
func Protected(img models.ImageInfo, keepTags []string) bool {
	return lo.SomeBy(img.Tags, func(tag string) bool {
		return lo.SomeBy(keepTags, func(keep string) bool {
			return strings.Contains(tag, keep)
		})
	})
}

// PruneSummary aggregates one prune category.
type PruneSummary struct {
	ItemsDeleted   int
	SpaceReclaimed uint64
}

// PruneSystem prunes stopped containers, unused images, networks and
// volumes. Dry-run performs no engine call. The first failing category
// abandons the prune and yields an empty map, unlike the per-image
// cleanup paths.
func (c *Cleaner) PruneSystem(ctx context.Context, dryRun bool) map[string]PruneSummary {
	if dryRun {
		fmt.Println("[DRY RUN] Would prune: containers, images, networks, volumes")
		return map[string]PruneSummary{}
	}

	none := filters.NewArgs()

	containers, err := c.api.ContainersPrune(ctx, none)
	if err != nil {
		logrus.Errorf("Prune failed: %v", err)
		return map[string]PruneSummary{}
	}
	images, err := c.api.ImagesPrune(ctx, none)
	if err != nil {
		logrus.Errorf("Prune failed: %v", err)
		return map[string]PruneSummary{}
	}
	networks, err := c.api.NetworksPrune(ctx, none)
	if err != nil {
		logrus.Errorf("Prune failed: %v", err)
		return map[string]PruneSummary{}
	}
	volumes, err := c.api.VolumesPrune(ctx, none)
	if err != nil {
		logrus.Errorf("Prune failed: %v", err)
		return map[string]PruneSummary{}
	}

	return map[string]PruneSummary{
		"containers": {ItemsDeleted: len(containers.ContainersDeleted), SpaceReclaimed: containers.SpaceReclaimed},
		"images":     {ItemsDeleted: len(images.ImagesDeleted), SpaceReclaimed: images.SpaceReclaimed},
		"networks":   {ItemsDeleted: len(networks.NetworksDeleted)},
		"volumes":    {ItemsDeleted: len(volumes.VolumesDeleted), SpaceReclaimed: volumes.SpaceReclaimed},
	}
}

// shortID strips the digest prefix and truncates to the usual 12 chars.
func shortID(id string) string {
	id = strings.TrimPrefix(id, "sha256:")
	if len(id) > 12 {
		id = id[:12]
	}
	return id
}
