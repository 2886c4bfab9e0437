package kube

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/opsweep/opsweep/internal/models"
	"github.com/opsweep/opsweep/pkg/utils"
)

// Waiting reasons that flag a container as stuck.
var stuckWaitingReasons = map[string]bool{
	"CrashLoopBackOff": true,
	"ImagePullBackOff": true,
	"ErrImagePull":     true,
}

// Checker reports pod health through the Kubernetes API.
type Checker struct {
	client kubernetes.Interface
}

// NewChecker wraps a clientset in a Checker.
func NewChecker(client kubernetes.Interface) *Checker {
	return &Checker{client: client}
}

// PodHealth returns a health snapshot for every pod in the namespace, or
// across all namespaces when namespace is empty.
func (c *Checker) PodHealth(ctx context.Context, namespace, labelSelector string) ([]models.PodHealthInfo, error) {
	pods, err := c.client.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{LabelSelector: labelSelector})
	if err != nil {
		return nil, fmt.Errorf("failed to list pods: %w", err)
	}

	infos := make([]models.PodHealthInfo, 0, len(pods.Items))
	for _, pod := range pods.Items {
		infos = append(infos, podInfo(pod))
	}
	return infos, nil
}

// UnhealthyPods returns only the pods with recorded issues or a phase
// other than Running.
func (c *Checker) UnhealthyPods(ctx context.Context, namespace string) ([]models.PodHealthInfo, error) {
	pods, err := c.PodHealth(ctx, namespace, "")
	if err != nil {
		return nil, err
	}
	return lo.Filter(pods, func(pod models.PodHealthInfo, _ int) bool {
		return !pod.Healthy()
	}), nil
}

func podInfo(pod corev1.Pod) models.PodHealthInfo {
	var restarts int32
	for _, cs := range pod.Status.ContainerStatuses {
		restarts += cs.RestartCount
	}

	ageHours := 0.0
	if pod.Status.StartTime != nil {
		ageHours = utils.AgeHours(pod.Status.StartTime.Time)
	}

	// Requests are read from the first container only.
	cpuRequest, memoryRequest := "N/A", "N/A"
	if len(pod.Spec.Containers) > 0 {
		requests := pod.Spec.Containers[0].Resources.Requests
		if cpu, ok := requests[corev1.ResourceCPU]; ok {
			cpuRequest = cpu.String()
		}
		if memory, ok := requests[corev1.ResourceMemory]; ok {
			memoryRequest = memory.String()
		}
	}

	return models.PodHealthInfo{
		Name:          pod.Name,
		Namespace:     pod.Namespace,
		Status:        string(pod.Status.Phase),
		Restarts:      restarts,
		AgeHours:      ageHours,
		CPURequest:    cpuRequest,
		MemoryRequest: memoryRequest,
		Issues:        analyzePod(pod),
	}
}

// analyzePod applies the issue checks in a fixed order so repeated runs
// report identically. Every matching check appends its own issue.
func analyzePod(pod corev1.Pod) []string {
	issues := []string{}

	if pod.Status.Phase == corev1.PodFailed || pod.Status.Phase == corev1.PodUnknown {
		issues = append(issues, fmt.Sprintf("Pod in %s state", pod.Status.Phase))
	}

	for _, cs := range pod.Status.ContainerStatuses {
		if cs.RestartCount > 5 {
			issues = append(issues, fmt.Sprintf("High restart count: %d", cs.RestartCount))
		}
		if waiting := cs.State.Waiting; waiting != nil && stuckWaitingReasons[waiting.Reason] {
			issues = append(issues, fmt.Sprintf("Container waiting: %s", waiting.Reason))
		}
		if terminated := cs.State.Terminated; terminated != nil && terminated.ExitCode != 0 {
			issues = append(issues, fmt.Sprintf("Container exited with code %d", terminated.ExitCode))
		}
	}

	for _, condition := range pod.Status.Conditions {
		if condition.Type == corev1.PodReady && condition.Status != corev1.ConditionTrue {
			issues = append(issues, fmt.Sprintf("Not ready: %s", condition.Reason))
		}
		if condition.Type == corev1.PodScheduled && condition.Status != corev1.ConditionTrue {
			issues = append(issues, fmt.Sprintf("Scheduling issue: %s", condition.Reason))
		}
	}

	return issues
}
