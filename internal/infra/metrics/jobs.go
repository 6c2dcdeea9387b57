package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(workerTasksTotal) }

var workerTasksTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "worker_tasks_total",
		Help: "Background tasks run by the worker pool, labeled by kind and status.",
	},
	[]string{"kind", "status"}, // status: 'ok', 'failed', 'dropped'
)

func IncWorkerTask(kind, status string) {
	workerTasksTotal.WithLabelValues(norm(kind), norm(status)).Inc()
}
