package kube

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"
)

func runningPod(name, namespace string) *corev1.Pod {
	start := metav1.NewTime(time.Now().Add(-2 * time.Hour))
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Spec: corev1.PodSpec{
			Containers: []corev1.Container{{Name: "app"}},
		},
		Status: corev1.PodStatus{
			Phase:     corev1.PodRunning,
			StartTime: &start,
			ContainerStatuses: []corev1.ContainerStatus{
				{Name: "app", RestartCount: 0},
			},
			Conditions: []corev1.PodCondition{
				{Type: corev1.PodReady, Status: corev1.ConditionTrue},
				{Type: corev1.PodScheduled, Status: corev1.ConditionTrue},
			},
		},
	}
}

func checkerFor(objects ...runtime.Object) *Checker {
	return NewChecker(fake.NewSimpleClientset(objects...))
}

func TestPodHealthBasicFields(t *testing.T) {
	pod := runningPod("web-1", "default")
	pod.Spec.Containers[0].Resources.Requests = corev1.ResourceList{
		corev1.ResourceCPU:    resource.MustParse("100m"),
		corev1.ResourceMemory: resource.MustParse("128Mi"),
	}
	pod.Status.ContainerStatuses = []corev1.ContainerStatus{
		{Name: "app", RestartCount: 2},
		{Name: "sidecar", RestartCount: 3},
	}

	infos, err := checkerFor(pod).PodHealth(context.Background(), "default", "")
	require.NoError(t, err)
	require.Len(t, infos, 1)

	info := infos[0]
	assert.Equal(t, "web-1", info.Name)
	assert.Equal(t, "default", info.Namespace)
	assert.Equal(t, "Running", info.Status)
	assert.Equal(t, int32(5), info.Restarts)
	assert.InDelta(t, 2.0, info.AgeHours, 0.1)
	assert.Equal(t, "100m", info.CPURequest)
	assert.Equal(t, "128Mi", info.MemoryRequest)
	assert.Empty(t, info.Issues)
}

func TestPodHealthDefaultsWithoutStartTimeAndRequests(t *testing.T) {
	pod := runningPod("web-1", "default")
	pod.Status.StartTime = nil
	pod.Status.Phase = corev1.PodPending
	pod.Status.Conditions = nil

	infos, err := checkerFor(pod).PodHealth(context.Background(), "default", "")
	require.NoError(t, err)
	require.Len(t, infos, 1)

	assert.Zero(t, infos[0].AgeHours)
	assert.Equal(t, "N/A", infos[0].CPURequest)
	assert.Equal(t, "N/A", infos[0].MemoryRequest)
}

func TestPodHealthRequestsReadFirstContainerOnly(t *testing.T) {
	pod := runningPod("web-1", "default")
	pod.Spec.Containers = []corev1.Container{
		{Name: "app"},
		{Name: "sidecar", Resources: corev1.ResourceRequirements{
			Requests: corev1.ResourceList{corev1.ResourceCPU: resource.MustParse("500m")},
		}},
	}

	infos, err := checkerFor(pod).PodHealth(context.Background(), "default", "")
	require.NoError(t, err)
	require.Len(t, infos, 1)

	assert.Equal(t, "N/A", infos[0].CPURequest)
}

func TestPodHealthIssuesAccumulate(t *testing.T) {
	pod := runningPod("web-1", "default")
	pod.Status.ContainerStatuses = []corev1.ContainerStatus{
		{Name: "app", RestartCount: 7},
	}
	pod.Status.Conditions = []corev1.PodCondition{
		{Type: corev1.PodReady, Status: corev1.ConditionFalse, Reason: "ContainersNotReady"},
	}

	infos, err := checkerFor(pod).PodHealth(context.Background(), "default", "")
	require.NoError(t, err)
	require.Len(t, infos, 1)

	assert.Equal(t, []string{
		"High restart count: 7",
		"Not ready: ContainersNotReady",
	}, infos[0].Issues)
}

func TestPodHealthIssuePredicates(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*corev1.Pod)
		want   []string
	}{
		{
			name:   "failed phase",
			mutate: func(p *corev1.Pod) { p.Status.Phase = corev1.PodFailed },
			want:   []string{"Pod in Failed state"},
		},
		{
			name:   "unknown phase",
			mutate: func(p *corev1.Pod) { p.Status.Phase = corev1.PodUnknown },
			want:   []string{"Pod in Unknown state"},
		},
		{
			name: "crash loop",
			mutate: func(p *corev1.Pod) {
				p.Status.ContainerStatuses[0].State = corev1.ContainerState{
					Waiting: &corev1.ContainerStateWaiting{Reason: "CrashLoopBackOff"},
				}
			},
			want: []string{"Container waiting: CrashLoopBackOff"},
		},
		{
			name: "image pull backoff",
			mutate: func(p *corev1.Pod) {
				p.Status.ContainerStatuses[0].State = corev1.ContainerState{
					Waiting: &corev1.ContainerStateWaiting{Reason: "ImagePullBackOff"},
				}
			},
			want: []string{"Container waiting: ImagePullBackOff"},
		},
		{
			name: "benign waiting reason ignored",
			mutate: func(p *corev1.Pod) {
				p.Status.ContainerStatuses[0].State = corev1.ContainerState{
					Waiting: &corev1.ContainerStateWaiting{Reason: "ContainerCreating"},
				}
			},
			want: []string{},
		},
		{
			name: "nonzero exit code",
			mutate: func(p *corev1.Pod) {
				p.Status.ContainerStatuses[0].State = corev1.ContainerState{
					Terminated: &corev1.ContainerStateTerminated{ExitCode: 137},
				}
			},
			want: []string{"Container exited with code 137"},
		},
		{
			name: "clean exit ignored",
			mutate: func(p *corev1.Pod) {
				p.Status.ContainerStatuses[0].State = corev1.ContainerState{
					Terminated: &corev1.ContainerStateTerminated{ExitCode: 0},
				}
			},
			want: []string{},
		},
		{
			name: "scheduling issue",
			mutate: func(p *corev1.Pod) {
				p.Status.Conditions = []corev1.PodCondition{
					{Type: corev1.PodScheduled, Status: corev1.ConditionFalse, Reason: "Unschedulable"},
				}
			},
			want: []string{"Scheduling issue: Unschedulable"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pod := runningPod("web-1", "default")
			tt.mutate(pod)

			infos, err := checkerFor(pod).PodHealth(context.Background(), "default", "")
			require.NoError(t, err)
			require.Len(t, infos, 1)
			assert.Equal(t, tt.want, infos[0].Issues)
		})
	}
}

func TestPodHealthAllNamespaces(t *testing.T) {
	infos, err := checkerFor(
		runningPod("web-1", "default"),
		runningPod("web-2", "kube-system"),
	).PodHealth(context.Background(), "", "")
	require.NoError(t, err)

	assert.Len(t, infos, 2)
}

func TestUnhealthyPodsIsExactSubset(t *testing.T) {
	healthy := runningPod("ok", "default")

	pending := runningPod("pending", "default")
	pending.Status.Phase = corev1.PodPending
	pending.Status.Conditions = nil

	restarting := runningPod("restarting", "default")
	restarting.Status.ContainerStatuses[0].RestartCount = 9

	checker := checkerFor(healthy, pending, restarting)

	all, err := checker.PodHealth(context.Background(), "default", "")
	require.NoError(t, err)
	require.Len(t, all, 3)

	unhealthy, err := checker.UnhealthyPods(context.Background(), "default")
	require.NoError(t, err)
	require.Len(t, unhealthy, 2)

	names := []string{unhealthy[0].Name, unhealthy[1].Name}
	assert.ElementsMatch(t, []string{"pending", "restarting"}, names)
	for _, pod := range unhealthy {
		assert.False(t, pod.Healthy())
	}
}
