package config

import (
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/cockroachdb/errors"

	snaperrors "github.com/mjansson/snaplink/internal/errors"
	"github.com/mjansson/snaplink/internal/location"
	"github.com/mjansson/snaplink/internal/notify"
	"github.com/mjansson/snaplink/internal/paths"
	"github.com/mjansson/snaplink/internal/transfer"
)

// Accepted location type tags.
const (
	LocationPath = "path"
	LocationSSH  = "ssh"
)

// Accepted notification type tags.
const (
	NotifierConsole    = "console"
	NotifierCommand    = "command"
	NotifierNotifySend = "notify-send"
	NotifierLog        = "log"
)

// Configuration is the materialized form of a Config: locations,
// notifier, and transfer options ready for a runner.
type Configuration struct {
	Name     string
	Verbose  bool
	Source   location.Location
	Target   location.Target
	Notifier notify.Notifier
	Transfer transfer.Options
}

type sourceBuilder func(loc Location, logger *slog.Logger) (location.Location, error)

type targetBuilder func(loc Location, logger *slog.Logger) (location.Target, error)

type notifierBuilder func(n Notification, logger *slog.Logger) (notify.Notifier, error)

var sourceBuilders = map[string]sourceBuilder{
	LocationPath: func(loc Location, logger *slog.Logger) (location.Location, error) {
		return location.NewPathSource(paths.ExpandHome(loc.Path), logger), nil
	},
	LocationSSH: func(loc Location, logger *slog.Logger) (location.Location, error) {
		return location.NewSSHSource(newEndpoint(loc, logger)), nil
	},
}

var targetBuilders = map[string]targetBuilder{
	LocationPath: func(loc Location, logger *slog.Logger) (location.Target, error) {
		return location.NewPathTarget(paths.ExpandHome(loc.Path), logger), nil
	},
	LocationSSH: func(loc Location, logger *slog.Logger) (location.Target, error) {
		return location.NewSSHTarget(newEndpoint(loc, logger)), nil
	},
}

var notifierBuilders = map[string]notifierBuilder{
	NotifierConsole: func(Notification, *slog.Logger) (notify.Notifier, error) {
		return notify.NewConsoleForStdio(), nil
	},
	NotifierCommand: func(n Notification, logger *slog.Logger) (notify.Notifier, error) {
		return notify.NewCommand(n.State, n.Inform, n.Confirm, n.Alert, n.Fallback, logger)
	},
	NotifierNotifySend: func(_ Notification, logger *slog.Logger) (notify.Notifier, error) {
		return notify.NewNotifySend(logger), nil
	},
	NotifierLog: func(_ Notification, logger *slog.Logger) (notify.Notifier, error) {
		return notify.NewLogger(logger), nil
	},
}

// newEndpoint maps an ssh location entry onto connection parameters.
func newEndpoint(loc Location, logger *slog.Logger) *location.SSHEndpoint {
	endpoint := location.NewSSHEndpoint(loc.User, loc.Host, loc.Port, loc.Path, logger)
	endpoint.IdentityFile = loc.IdentityFile
	endpoint.KnownHostsFile = loc.KnownHostsFile
	return endpoint
}

// locationTags lists the accepted location type tags in stable order.
func locationTags() []string {
	return []string{LocationPath, LocationSSH}
}

// notifierTags lists the accepted notification type tags in stable order.
func notifierTags() []string {
	tags := make([]string, 0, len(notifierBuilders))
	for tag := range notifierBuilders {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Build validates cfg and materializes it. Targets are wrapped in a
// first-available selector in declared order; when no notification is
// configured, notifications go to the terminal.
func Build(cfg *Config, logger *slog.Logger) (*Configuration, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if errs := Validate(cfg); len(errs) > 0 {
		return nil, errors.Mark(errors.Join(errs...), snaperrors.ErrInvalidConfig)
	}

	source, err := sourceBuilders[cfg.Source.Type](cfg.Source, logger)
	if err != nil {
		return nil, errors.Wrap(err, "building source")
	}

	targets := make([]location.Target, 0, len(cfg.Targets))
	for i, raw := range cfg.Targets {
		target, err := targetBuilders[raw.Type](raw, logger)
		if err != nil {
			return nil, errors.Wrapf(err, "building targets[%d]", i)
		}
		targets = append(targets, target)
	}

	var notifiers []notify.Notifier
	for i, raw := range cfg.Notifications {
		notifier, err := notifierBuilders[raw.Type](raw, logger)
		if err != nil {
			return nil, errors.Wrapf(err, "building notifications[%d]", i)
		}
		notifiers = append(notifiers, notifier)
	}
	var notifier notify.Notifier
	if len(notifiers) == 0 {
		notifier = notify.NewConsoleForStdio()
	} else {
		notifier = notify.NewGroup(notifiers...)
	}

	return &Configuration{
		Name:     cfg.DisplayName(),
		Verbose:  cfg.Verbose,
		Source:   source,
		Target:   location.FirstAvailableOf(logger, targets...),
		Notifier: notifier,
		Transfer: transfer.Options{
			Include: cfg.Transfer.Include,
			Exclude: cfg.Transfer.Exclude,
			Verbose: cfg.Verbose,
			SSH:     sshOptions(cfg),
		},
	}, nil
}

// DisplayName returns the configured name, falling back to the
// directory holding the configuration file.
func (c *Config) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	if c.Path != "" {
		return filepath.Dir(c.Path)
	}
	return paths.AppName
}

// sshOptions derives the transfer tool's secure-shell options from the
// first ssh location in configuration order, source before targets.
func sshOptions(cfg *Config) transfer.SSHOptions {
	entries := append([]Location{cfg.Source}, cfg.Targets...)
	for _, loc := range entries {
		if loc.Type == LocationSSH {
			return transfer.SSHOptions{
				Port:           loc.Port,
				IdentityFile:   paths.ExpandHome(loc.IdentityFile),
				KnownHostsFile: paths.ExpandHome(loc.KnownHostsFile),
			}
		}
	}
	return transfer.SSHOptions{}
}
