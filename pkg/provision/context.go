package provision

import (
	"context"
	"fmt"
)

// resource is one acquired host resource with its release action.
type resource struct {
	name    string
	release func(ctx context.Context) error
}

// runContext carries everything one provisioning run has acquired so far.
// It replaces ambient state: rollback decisions are made from the recorded
// resource list, unwound in reverse on failure.
type runContext struct {
	ctid      int
	resources []resource
}

// acquire records a resource and how to release it.
func (rc *runContext) acquire(name string, release func(ctx context.Context) error) {
	rc.resources = append(rc.resources, resource{name: name, release: release})
}

// supersede removes a previously recorded resource whose ownership has been
// taken over by a later one (the created container owns its rootfs volume,
// so destroying the container releases the disk too).
func (rc *runContext) supersede(name string) {
	for i, r := range rc.resources {
		if r.name == name {
			rc.resources = append(rc.resources[:i], rc.resources[i+1:]...)
			return
		}
	}
}

// unwind releases all recorded resources in reverse acquisition order.
// Releases are best-effort: a failing release is reported but does not stop
// the remaining ones.
func (rc *runContext) unwind(ctx context.Context) []error {
	var errs []error
	for i := len(rc.resources) - 1; i >= 0; i-- {
		r := rc.resources[i]
		if err := r.release(ctx); err != nil {
			errs = append(errs, fmt.Errorf("rollback of %s: %w", r.name, err))
		}
	}
	rc.resources = nil
	return errs
}
