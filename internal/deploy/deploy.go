// Package deploy validates forest deployment requests and will eventually
// provision them. Provisioning itself is not built yet: every entry point
// validates, reports what it would do, and returns ErrNotImplemented so no
// caller can mistake a plan for a deployed forest.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrNotImplemented is returned by every provisioning entry point.
var ErrNotImplemented = errors.New("forest provisioning is not implemented yet")

// TrustType is the direction of the trust relationship between two forests.
type TrustType string

const (
	TrustBidirectional TrustType = "bidirectional"
	TrustOneWayIn      TrustType = "oneway-in"
	TrustOneWayOut     TrustType = "oneway-out"
)

// ParseTrustType validates a user-supplied trust direction.
func ParseTrustType(s string) (TrustType, error) {
	switch TrustType(s) {
	case TrustBidirectional, TrustOneWayIn, TrustOneWayOut:
		return TrustType(s), nil
	default:
		return "", fmt.Errorf("unknown trust type %q (expected %s, %s or %s)",
			s, TrustBidirectional, TrustOneWayIn, TrustOneWayOut)
	}
}

// ForestSpec describes a single forest deployment request.
type ForestSpec struct {
	Domain        string
	AdminPassword string
	DNSProvider   string
}

func (s ForestSpec) Validate() error {
	if err := validateDomain(s.Domain); err != nil {
		return err
	}
	if s.AdminPassword == "" {
		return errors.New("admin password is required")
	}
	return nil
}

// Steps lists what a full deployment of this forest will perform, in order.
func (s ForestSpec) Steps() []string {
	steps := []string{
		fmt.Sprintf("create domain controller container for %s", s.Domain),
		fmt.Sprintf("provision Samba AD DC forest %s", s.Domain),
	}
	if s.DNSProvider != "" {
		steps = append(steps, fmt.Sprintf("publish DNS records via %s", s.DNSProvider))
	}
	return steps
}

// MultiForestSpec describes a two-forest deployment with a trust between
// them.
type MultiForestSpec struct {
	Primary   string
	Secondary string
	Trust     TrustType
}

func (s MultiForestSpec) Validate() error {
	if err := validateDomain(s.Primary); err != nil {
		return fmt.Errorf("primary: %w", err)
	}
	if err := validateDomain(s.Secondary); err != nil {
		return fmt.Errorf("secondary: %w", err)
	}
	if strings.EqualFold(s.Primary, s.Secondary) {
		return errors.New("primary and secondary forests must differ")
	}
	if _, err := ParseTrustType(string(s.Trust)); err != nil {
		return err
	}
	return nil
}

func (s MultiForestSpec) Steps() []string {
	return []string{
		fmt.Sprintf("create domain controller container for %s", s.Primary),
		fmt.Sprintf("create domain controller container for %s", s.Secondary),
		fmt.Sprintf("provision Samba AD DC forests %s and %s", s.Primary, s.Secondary),
		fmt.Sprintf("establish %s trust between %s and %s", s.Trust, s.Primary, s.Secondary),
	}
}

func validateDomain(domain string) error {
	if domain == "" {
		return errors.New("forest domain is required")
	}
	if strings.ContainsAny(domain, " \t") {
		return fmt.Errorf("forest domain %q must not contain whitespace", domain)
	}
	if !strings.Contains(domain, ".") {
		return fmt.Errorf("forest domain %q must be a DNS name like corp.example.com", domain)
	}
	return nil
}

// Engine is the provisioning backend.
type Engine struct {
	logger *slog.Logger
}

func NewEngine(logger *slog.Logger) *Engine {
	return &Engine{logger: logger}
}

// Deploy validates the request and refuses to pretend: until provisioning
// exists it returns ErrNotImplemented.
func (e *Engine) Deploy(ctx context.Context, spec ForestSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	e.logger.Info("forest deployment requested",
		"forest", spec.Domain, "dns_provider", spec.DNSProvider)
	return fmt.Errorf("deploy %s: %w", spec.Domain, ErrNotImplemented)
}

// DeployMulti validates the request; same contract as Deploy.
func (e *Engine) DeployMulti(ctx context.Context, spec MultiForestSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	e.logger.Info("multi-forest deployment requested",
		"primary", spec.Primary, "secondary", spec.Secondary, "trust", string(spec.Trust))
	return fmt.Errorf("deploy %s with %s: %w", spec.Primary, spec.Secondary, ErrNotImplemented)
}
