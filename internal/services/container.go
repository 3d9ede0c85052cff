/**
 * @description
 * Service Container: a dependency-ordered service registry with two-phase
 * startup (Start, then PostStart once every service has started) and
 * reverse-order shutdown. Grounded on the original source's
 * services/service_manager.py ServiceManager singleton: descriptor-based
 * registration ({name, version, requires: {dep: constraint}}), version
 * constraint parsing (==, !=, <, <=, >, >=), and per-service shutdown
 * error logging rather than propagation.
 *
 * @dependencies
 * - internal/logger
 * - standard "context", "fmt", "strconv", "strings"
 */

package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/oracle-observer/backend/internal/logger"
)

// Descriptor declares a service's identity and its dependencies, each
// constrained by a version expression such as ">=1.0.0" or "==2.1.0".
type Descriptor struct {
	Name     string
	Version  string
	Requires map[string]string
}

// Service is implemented by every domain service managed by Container.
type Service interface {
	Descriptor() Descriptor
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// PostStarter is an optional second-phase hook, run only after every
// registered service has completed Start.
type PostStarter interface {
	PostStart(ctx context.Context) error
}

// Container owns the full set of services and their lifecycle ordering.
type Container struct {
	services []Service
	byName   map[string]Service
	started  []Service
	log      *logger.Logger
}

// NewContainer constructs an empty Container.
func NewContainer() *Container {
	return &Container{byName: map[string]Service{}, log: logger.New("container")}
}

// Register adds svc to the container.
func (c *Container) Register(svc Service) {
	d := svc.Descriptor()
	c.services = append(c.services, svc)
	c.byName[d.Name] = svc
}

// resolveOrder computes a start order satisfying every Requires
// constraint via a simple dependency-first topological sort. A service
// whose dependency is unregistered or whose version doesn't satisfy the
// declared constraint is skipped (logged as a warning) rather than
// aborting the whole resolution, matching _check_dependencies in the
// original source's service_manager.py: an unmet requirement drops that
// one service, it never fails the rest of the load. A circular
// dependency is a structural error in the registration graph itself and
// still aborts resolution.
func (c *Container) resolveOrder() ([]Service, error) {
	visited := map[string]bool{}
	visiting := map[string]bool{}
	skipped := map[string]bool{}
	var order []Service

	var visit func(svc Service) error
	visit = func(svc Service) error {
		d := svc.Descriptor()
		if visited[d.Name] || skipped[d.Name] {
			return nil
		}
		if visiting[d.Name] {
			return fmt.Errorf("circular service dependency at %s", d.Name)
		}
		visiting[d.Name] = true

		for depName, constraint := range d.Requires {
			dep, ok := c.byName[depName]
			if !ok {
				c.log.Warn("skipping %s: requires unregistered service %s", d.Name, depName)
				visiting[d.Name] = false
				skipped[d.Name] = true
				return nil
			}
			depDesc := dep.Descriptor()
			satisfied, err := satisfies(depDesc.Version, constraint)
			if err != nil {
				return err
			}
			if !satisfied {
				c.log.Warn("skipping %s: requires %s%s, found %s", d.Name, depName, constraint, depDesc.Version)
				visiting[d.Name] = false
				skipped[d.Name] = true
				return nil
			}
			if err := visit(dep); err != nil {
				return err
			}
		}

		visiting[d.Name] = false
		visited[d.Name] = true
		order = append(order, svc)
		return nil
	}

	for _, svc := range c.services {
		if err := visit(svc); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// StartAll starts every service in dependency order, then runs every
// service's optional PostStart hook once all have started. Services
// skipped by resolveOrder for an unmet dependency are simply absent from
// order and never started.
func (c *Container) StartAll(ctx context.Context) error {
	order, err := c.resolveOrder()
	if err != nil {
		return err
	}

	for _, svc := range order {
		d := svc.Descriptor()
		if err := svc.Start(ctx); err != nil {
			return fmt.Errorf("starting service %s: %w", d.Name, err)
		}
		c.started = append(c.started, svc)
		c.log.Info("started %s v%s", d.Name, d.Version)
	}

	for _, svc := range order {
		if ps, ok := svc.(PostStarter); ok {
			if err := ps.PostStart(ctx); err != nil {
				return fmt.Errorf("post-starting service %s: %w", svc.Descriptor().Name, err)
			}
		}
	}

	return nil
}

// StopAll stops every started service in reverse order. Errors are logged,
// never propagated, so one service's shutdown failure never blocks the
// others.
func (c *Container) StopAll(ctx context.Context) {
	for i := len(c.started) - 1; i >= 0; i-- {
		svc := c.started[i]
		if err := svc.Stop(ctx); err != nil {
			c.log.Error("stopping service %s: %v", svc.Descriptor().Name, err)
		}
	}
}

// satisfies evaluates a "<op><major.minor.patch>" constraint against a
// concrete version string.
func satisfies(version, constraint string) (bool, error) {
	op, cver := splitConstraint(constraint)
	a, err := parseSemver(version)
	if err != nil {
		return false, err
	}
	b, err := parseSemver(cver)
	if err != nil {
		return false, err
	}
	cmp := compareSemver(a, b)
	switch op {
	case "==":
		return cmp == 0, nil
	case "!=":
		return cmp != 0, nil
	case "<=":
		return cmp <= 0, nil
	case ">=":
		return cmp >= 0, nil
	case "<":
		return cmp < 0, nil
	case ">":
		return cmp > 0, nil
	default:
		return false, fmt.Errorf("unknown version constraint operator %q", op)
	}
}

func splitConstraint(constraint string) (op, version string) {
	for _, candidate := range []string{"==", "!=", "<=", ">=", "<", ">"} {
		if strings.HasPrefix(constraint, candidate) {
			return candidate, strings.TrimSpace(strings.TrimPrefix(constraint, candidate))
		}
	}
	return "==", strings.TrimSpace(constraint)
}

type semver struct{ major, minor, patch int }

func parseSemver(s string) (semver, error) {
	parts := strings.SplitN(s, ".", 3)
	for len(parts) < 3 {
		parts = append(parts, "0")
	}
	var v semver
	var err error
	if v.major, err = strconv.Atoi(parts[0]); err != nil {
		return v, fmt.Errorf("invalid version %q: %w", s, err)
	}
	if v.minor, err = strconv.Atoi(parts[1]); err != nil {
		return v, fmt.Errorf("invalid version %q: %w", s, err)
	}
	if v.patch, err = strconv.Atoi(parts[2]); err != nil {
		return v, fmt.Errorf("invalid version %q: %w", s, err)
	}
	return v, nil
}

func compareSemver(a, b semver) int {
	if a.major != b.major {
		return a.major - b.major
	}
	if a.minor != b.minor {
		return a.minor - b.minor
	}
	return a.patch - b.patch
}
