package doctor

import (
	"fmt"
	"os/exec"

	"github.com/mjansson/snaplink/internal/config"
)

// ConfigCheck verifies that the configuration file loads and validates.
type ConfigCheck struct {
	path string
}

var _ Check = (*ConfigCheck)(nil)

// NewConfigCheck creates a configuration check for the given file path.
// An empty path uses the default search locations.
func NewConfigCheck(path string) *ConfigCheck {
	return &ConfigCheck{path: path}
}

// Name returns the unique identifier for this check.
func (c *ConfigCheck) Name() string {
	return "config"
}

// Category returns the grouping for this check.
func (c *ConfigCheck) Category() string {
	return "config"
}

// Run executes the configuration diagnostic check.
func (c *ConfigCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
	}

	cfg, err := config.Load(c.path)
	if err != nil {
		result.Status = SeverityError
		result.Message = "configuration could not be loaded"
		result.Details = []string{err.Error()}
		result.FixHint = "Run: snaplink init"
		return result
	}

	if errs := config.Validate(cfg); len(errs) > 0 {
		result.Status = SeverityError
		result.Message = "configuration is invalid"
		for _, err := range errs {
			result.Details = append(result.Details, err.Error())
		}
		return result
	}

	if cfg.Path == "" {
		result.Status = SeverityWarning
		result.Message = "no configuration file found"
		result.FixHint = "Run: snaplink init"
		return result
	}

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("configuration %s is valid", cfg.Path)
	return result
}

// BinaryCheck verifies that a required external binary is on PATH.
type BinaryCheck struct {
	binary string
	// missing is the severity reported when the binary is absent.
	missing Severity
	hint    string
}

var _ Check = (*BinaryCheck)(nil)

// NewRsyncCheck checks for the transfer tool. Nothing works without it.
func NewRsyncCheck() *BinaryCheck {
	return &BinaryCheck{
		binary:  "rsync",
		missing: SeverityError,
		hint:    "Install rsync with your system package manager.",
	}
}

// NewSSHCheck checks for the ssh client, which only remote locations
// need.
func NewSSHCheck() *BinaryCheck {
	return &BinaryCheck{
		binary:  "ssh",
		missing: SeverityWarning,
		hint:    "Install an OpenSSH client to use ssh locations.",
	}
}

// Name returns the unique identifier for this check.
func (c *BinaryCheck) Name() string {
	return c.binary
}

// Category returns the grouping for this check.
func (c *BinaryCheck) Category() string {
	return "environment"
}

// Run executes the binary lookup check.
func (c *BinaryCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
	}

	path, err := exec.LookPath(c.binary)
	if err != nil {
		result.Status = c.missing
		result.Message = fmt.Sprintf("%s not found on PATH", c.binary)
		result.FixHint = c.hint
		return result
	}

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("%s found at %s", c.binary, path)
	return result
}

// availability is the probe surface shared by all locations.
type availability interface {
	IsAvailable() bool
}

// AvailabilityCheck probes whether a configured location is reachable.
type AvailabilityCheck struct {
	role string
	loc  availability
}

var _ Check = (*AvailabilityCheck)(nil)

// NewSourceCheck creates a reachability check for the backup source.
func NewSourceCheck(loc availability) *AvailabilityCheck {
	return &AvailabilityCheck{role: "source", loc: loc}
}

// NewTargetCheck creates a reachability check for the backup target.
func NewTargetCheck(loc availability) *AvailabilityCheck {
	return &AvailabilityCheck{role: "target", loc: loc}
}

// Name returns the unique identifier for this check.
func (c *AvailabilityCheck) Name() string {
	return c.role + "-available"
}

// Category returns the grouping for this check.
func (c *AvailabilityCheck) Category() string {
	return "locations"
}

// Run probes the location. Remote probes block for up to the SSH
// connect timeout.
func (c *AvailabilityCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
	}

	if !c.loc.IsAvailable() {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("back-up %s is not reachable", c.role)
		result.FixHint = "Check the configured path or host and try again."
		return result
	}

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("back-up %s is reachable", c.role)
	return result
}
