package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	prometheus.MustRegister(schedulingRuns)
	prometheus.MustRegister(schedulingRunDuration)
	prometheus.MustRegister(bestTime)
	prometheus.MustRegister(makespan)
	prometheus.MustRegister(workloadSize)
}

var schedulingRuns = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "task_scheduler",
		Subsystem: "scheduling_runs",
		Name:      "total",
		Help:      "Number of scheduling runs by result.",
	},
	[]string{"result"},
)

var schedulingRunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
	Namespace: "task_scheduler",
	Subsystem: "scheduling_runs",
	Name:      "duration_seconds",
	Help:      "Wall clock time spent in the genetic algorithm and simulation.",
	Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
})

var bestTime = prometheus.NewGauge(prometheus.GaugeOpts{
	Namespace: "task_scheduler",
	Subsystem: "scheduling_runs",
	Name:      "best_time",
	Help:      "Estimated aggregate processing time of the latest run.",
})

var makespan = prometheus.NewGauge(prometheus.GaugeOpts{
	Namespace: "task_scheduler",
	Subsystem: "scheduling_runs",
	Name:      "makespan",
	Help:      "Simulated makespan of the latest run.",
})

var workloadSize = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: "task_scheduler",
		Subsystem: "scheduling_runs",
		Name:      "workload_size",
		Help:      "Number of tasks and resources in the latest run.",
	},
	[]string{"kind"},
)

// ObserveRun 记录一次成功的调度
func ObserveRun(duration time.Duration, numTasks, numResources int, best, span float64) {
	schedulingRuns.WithLabelValues("success").Inc()
	schedulingRunDuration.Observe(duration.Seconds())
	bestTime.Set(best)
	makespan.Set(span)
	workloadSize.WithLabelValues("tasks").Set(float64(numTasks))
	workloadSize.WithLabelValues("resources").Set(float64(numResources))
}

// ObserveFailure 记录一次失败的调度
func ObserveFailure() {
	schedulingRuns.WithLabelValues("failure").Inc()
}
