package pricing

// VolumeRates holds the per GB-month USD rate for each EBS volume type.
// Volumes of an unlisted type fall back to DefaultVolumeRate.
var VolumeRates = map[string]float64{
	"gp2":      0.10,
	"gp3":      0.08,
	"io1":      0.125,
	"io2":      0.125,
	"st1":      0.045,
	"sc1":      0.025,
	"standard": 0.05,
}

// DefaultVolumeRate applies to volume types missing from VolumeRates.
const DefaultVolumeRate = 0.10

const (
	// LoadBalancerMonthly is the flat monthly estimate for an idle ALB/NLB.
	LoadBalancerMonthly = 22.0

	// ElasticIPMonthly is the flat monthly charge for an unassociated address.
	ElasticIPMonthly = 3.60

	// RepositoryStorageRate is the ECR storage rate per GB-month.
	RepositoryStorageRate = 0.10
)

// VolumeMonthlyCost estimates the monthly cost of an EBS volume.
func VolumeMonthlyCost(volumeType string, sizeGB int32) float64 {
	rate, ok := VolumeRates[volumeType]
	if !ok {
		rate = DefaultVolumeRate
	}
	return float64(sizeGB) * rate
}

// RepositoryMonthlyCost estimates the monthly storage cost of a registry
// repository holding sizeBytes of image data.
func RepositoryMonthlyCost(sizeBytes int64) float64 {
	return float64(sizeBytes) / (1024 * 1024 * 1024) * RepositoryStorageRate
}
