package models

// PodHealthInfo represents the health snapshot of a single pod
type PodHealthInfo struct {
	Name          string
	Namespace     string
	Status        string // pod phase
	Restarts      int32  // summed across containers
	AgeHours      float64
	CPURequest    string // first container only, "N/A" when unset
	MemoryRequest string
	Issues        []string
}

// Healthy reports whether the pod is Running with no recorded issues.
func (p PodHealthInfo) Healthy() bool {
	return p.Status == "Running" && len(p.Issues) == 0
}
