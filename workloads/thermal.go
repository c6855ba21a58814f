package workloads

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sysforge/burnin/hardware"
	"github.com/sysforge/burnin/harness"
	"github.com/sysforge/burnin/scoring"
	"github.com/sysforge/burnin/types"
)

// SensorReader returns the current thermal sensor readings. Injectable so
// tests can feed synthetic temperature curves.
type SensorReader func() []types.ThermalSensor

// ThermalMonitorTest samples every visible thermal sensor at the configured
// interval for the full test duration and scores threshold excursions. It is
// a pure observer and does not generate load itself; scheduled concurrently
// with the stress workloads it records the temperatures they provoke.
type ThermalMonitorTest struct {
	log     logrus.FieldLogger
	sensors SensorReader
}

func NewThermalMonitorTest(log logrus.FieldLogger) *ThermalMonitorTest {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ThermalMonitorTest{log: log, sensors: hardware.ProbeSensors}
}

func (t *ThermalMonitorTest) Name() string {
	return "thermal_monitor"
}

func (t *ThermalMonitorTest) DetectHardware() (*types.HardwareSnapshot, error) {
	return hardware.Probe()
}

func (t *ThermalMonitorTest) EstimateDuration(cfg *types.TestConfig) time.Duration {
	return cfg.Duration
}

func (t *ThermalMonitorTest) Execute(cfg *types.TestConfig) (*types.TestResult, error) {
	start := time.Now()

	if !cfg.ThermalMonitoring {
		return &types.TestResult{
			Name:     t.Name(),
			Status:   types.TestStatusSkipped,
			Score:    100,
			Duration: 0,
			Metrics:  map[string]any{},
		}, nil
	}

	initial := t.sensors()
	if len(initial) == 0 {
		return &types.TestResult{
			Name:     t.Name(),
			Status:   types.TestStatusSkipped,
			Score:    100,
			Duration: time.Since(start),
			Metrics: map[string]any{
				"sensors_detected": 0,
			},
			Issues: []types.TestIssue{{
				Component: "thermal",
				Severity:  types.SeverityLow,
				Message:   "No thermal sensors detected",
				Action:    "Check if your system supports thermal monitoring",
			}},
		}, nil
	}

	t.log.WithField("sensors", len(initial)).Info("starting thermal monitoring")

	interval := cfg.ThermalInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	var (
		temps     harness.MinMaxAvg
		warnings  harness.Counter
		criticals harness.Counter
	)

	// One worker: the sampling loop. Each chunk takes one full reading of
	// every sensor, then sleeps out the interval.
	chunk := func(int) {
		for _, s := range t.sensors() {
			temps.Observe(s.CurrentCelsius)
			if s.CurrentCelsius >= cfg.ThermalWarningThreshold {
				warnings.Add(1)
				if s.CurrentCelsius >= cfg.ThermalCriticalThreshold {
					criticals.Add(1)
				}
			}
		}
		time.Sleep(interval)
	}

	harness.Run(harness.Config{
		Duration: cfg.Duration,
		Workers:  1,
	}, chunk, nil)

	maxTemp := temps.Max()
	warningEvents := warnings.Value()
	criticalEvents := criticals.Value()

	card := scoring.NewScorecard()
	card.Penalize(scoring.LinearPenalty(maxTemp, cfg.ThermalWarningThreshold, cfg.ThermalCriticalThreshold, 30), 30)
	card.Penalize(int(criticalEvents)*10, 50)

	if criticalEvents > 0 {
		card.AddIssue("thermal", types.SeverityCritical,
			fmt.Sprintf("Critical temperature threshold exceeded %d times", criticalEvents),
			"Check cooling system immediately")
	} else if warningEvents > 0 {
		card.AddIssue("thermal", types.SeverityHigh,
			fmt.Sprintf("Warning temperature threshold exceeded %d times", warningEvents),
			"Improve cooling or reduce system load")
	}
	if maxTemp > 85.0 {
		card.AddIssue("thermal", types.SeverityMedium,
			fmt.Sprintf("Maximum temperature is very high: %.1f°C", maxTemp),
			"Check cooling system efficiency")
	}

	return &types.TestResult{
		Name:     t.Name(),
		Status:   card.Status(),
		Score:    card.Score(),
		Duration: time.Since(start),
		Metrics: map[string]any{
			"max_temperature_celsius": maxTemp,
			"min_temperature_celsius": temps.Min(),
			"avg_temperature_celsius": temps.Avg(),
			"temperature_readings":    temps.Count(),
			"warning_events":          warningEvents,
			"critical_events":         criticalEvents,
			"sensors_detected":        len(initial),
		},
		Issues: card.Issues(),
	}, nil
}

func (t *ThermalMonitorTest) Cleanup() error {
	return nil
}
