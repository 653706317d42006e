//go:build !tinygo

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every variable name read by FromEnv
const EnvPrefix = "LEDMAZE_"

// FromEnv loads the given .env files (".env" when none are named) and
// applies LEDMAZE_* variables over base. Missing files are not an error.
func FromEnv(base Config, files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		log.Printf("[config] .env file not loaded: %v", err)
	}

	c := base
	var err error
	set := func(e error) {
		if err == nil && e != nil {
			err = e
		}
	}

	set(envInt64("SEED", &c.Seed))
	set(envUint32("SCAN_ROW_US", &c.ScanRowUS))
	set(envUint32("SAMPLE_MS", &c.SampleMS))
	set(envInt("STEP_BUDGET", &c.StepBudget))
	set(envUint32("DEBOUNCE_MS", &c.DebounceMS))
	set(envBool("AUTO_ADVANCE", &c.AutoAdvance))
	set(envBool("MUTE", &c.Mute))
	set(envBool("TIMING", &c.Timing))
	set(envBool("INVERT_X", &c.Joystick.InvertX))
	set(envBool("INVERT_Y", &c.Joystick.InvertY))
	c.SerialDevice = getEnvWithDefault(EnvPrefix+"SERIAL_DEVICE", c.SerialDevice)
	set(envInt("SERIAL_BAUD", &c.SerialBaud))
	if err != nil {
		return base, err
	}

	if err := c.Validate(); err != nil {
		return base, err
	}
	return c, nil
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func lookup(key string) (string, bool) {
	return os.LookupEnv(EnvPrefix + key)
}

func envInt64(key string, dst *int64) error {
	s, ok := lookup(key)
	if !ok {
		return nil
	}
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
	}
	*dst = v
	return nil
}

func envInt(key string, dst *int) error {
	v := int64(*dst)
	if err := envInt64(key, &v); err != nil {
		return err
	}
	*dst = int(v)
	return nil
}

func envUint32(key string, dst *uint32) error {
	s, ok := lookup(key)
	if !ok {
		return nil
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
	}
	*dst = uint32(v)
	return nil
}

func envBool(key string, dst *bool) error {
	s, ok := lookup(key)
	if !ok {
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
	}
	*dst = v
	return nil
}
