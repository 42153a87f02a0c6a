package resilience

import (
	"time"

	"github.com/richxcame/finsight/pkg/config"
)

const (
	defaultInterval         = time.Minute
	defaultOpenTimeout      = 30 * time.Second
	defaultFailureThreshold = 5
	defaultSuccessThreshold = 1
)

// SettingsFromConfig names a breaker and applies cfg, using the defaults for
// any knob that is zero or negative
func SettingsFromConfig(name string, cfg config.BreakerConfig) Settings {
	s := Settings{
		Name:             name,
		Interval:         defaultInterval,
		Timeout:          defaultOpenTimeout,
		FailureThreshold: defaultFailureThreshold,
		SuccessThreshold: defaultSuccessThreshold,
	}
	if cfg.IntervalSeconds > 0 {
		s.Interval = time.Duration(cfg.IntervalSeconds) * time.Second
	}
	if cfg.TimeoutSeconds > 0 {
		s.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	if cfg.FailureThreshold > 0 {
		s.FailureThreshold = uint32(cfg.FailureThreshold)
	}
	if cfg.SuccessThreshold > 0 {
		s.SuccessThreshold = uint32(cfg.SuccessThreshold)
	}
	return s
}
