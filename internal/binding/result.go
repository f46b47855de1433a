package binding

import (
	"github.com/schemaitat/lab/internal/provider"
)

// Action is a backend mutation.
type Action string

// Backend mutations.
const (
	ActionAdd    Action = "add"
	ActionRemove Action = "remove"
)

// Binding identifies one backend under one BackendConfig.
type Binding struct {
	ConfigID   string `json:"config_id,omitempty"`
	ListenPort int    `json:"listen_port"`
	BackendID  string `json:"backend_id,omitempty"`
	Label      string `json:"label,omitempty"`
	Address    string `json:"address"`
	Port       int    `json:"port"`

	// AlreadyAbsent marks a removal the provider answered with not found.
	AlreadyAbsent bool `json:"already_absent,omitempty"`
}

// Endpoint returns the binding's address:port.
func (b Binding) Endpoint() string {
	return provider.Endpoint(b.Address, b.Port)
}

// Failure is a binding that could not be brought to the desired state.
type Failure struct {
	Binding Binding `json:"binding"`
	Action  Action  `json:"action"`
	Cause   string  `json:"cause"`
	Err     error   `json:"-"`
}

// Result is the outcome of one Reconcile run.
type Result struct {
	LoadBalancerID string    `json:"load_balancer_id"`
	Added          []Binding `json:"added"`
	Removed        []Binding `json:"removed"`
	Skipped        []Binding `json:"skipped"`
	Failed         []Failure `json:"failed"`
}

// Changed reports whether the run mutated the load balancer.
func (r *Result) Changed() bool {
	return len(r.Added) > 0 || len(r.Removed) > 0
}

// Err returns a *provider.PartialFailure listing every failed binding, or nil
// when every desired backend reached the desired state.
func (r *Result) Err() error {
	pf := &provider.PartialFailure{
		Operation: "bind",
		Total:     len(r.Added) + len(r.Removed) + len(r.Failed),
	}
	for _, f := range r.Failed {
		pf.Add(f.Err)
	}
	return pf.ErrOrNil()
}

func (r *Result) fail(b Binding, action Action, err error) {
	r.Failed = append(r.Failed, Failure{Binding: b, Action: action, Cause: err.Error(), Err: err})
}

func (r *Result) merge(o *Result) {
	r.Added = append(r.Added, o.Added...)
	r.Removed = append(r.Removed, o.Removed...)
	r.Skipped = append(r.Skipped, o.Skipped...)
	r.Failed = append(r.Failed, o.Failed...)
}
