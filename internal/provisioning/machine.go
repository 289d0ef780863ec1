package provisioning

import "fmt"

// State is a node of a provisioning workflow.
type State string

// Event moves a workflow from one State to the next.
type Event string

const (
	StateInit State = "init"

	StateCredentialCreated      State = "credential_created"
	StateTenantCreated          State = "tenant_created"
	StateProfileLinked          State = "profile_linked"
	StateCredentialCreateFailed State = "credential_create_failed"
	StateTenantCreateFailed     State = "tenant_create_failed"
	StateProfileLinkFailed      State = "profile_link_failed"
	StateFailed                 State = "failed"

	StateAdminLocated       State = "admin_located"
	StateTenantDeleted      State = "tenant_deleted"
	StateCredentialDeleted  State = "credential_deleted"
	StateCredentialDangling State = "credential_dangling"
	StateAborted            State = "aborted"
)

const (
	EventCredentialCreated Event = "credential_created"
	EventCredentialFailed  Event = "credential_failed"
	EventTenantCreated     Event = "tenant_created"
	EventTenantFailed      Event = "tenant_failed"
	EventProfileLinked     Event = "profile_linked"
	EventProfileFailed     Event = "profile_failed"
	EventCompensated       Event = "compensated"

	EventAdminLocated           Event = "admin_located"
	EventLookupFailed           Event = "lookup_failed"
	EventTenantDeleted          Event = "tenant_deleted"
	EventTenantMissing          Event = "tenant_missing"
	EventTenantDeleteFailed     Event = "tenant_delete_failed"
	EventCredentialDeleted      Event = "credential_deleted"
	EventNoCredential           Event = "no_credential"
	EventCredentialDeleteFailed Event = "credential_delete_failed"
)

type transitions map[State]map[Event]State

var createTransitions = transitions{
	StateInit: {
		EventCredentialCreated: StateCredentialCreated,
		EventCredentialFailed:  StateCredentialCreateFailed,
	},
	StateCredentialCreated: {
		EventTenantCreated: StateTenantCreated,
		EventTenantFailed:  StateTenantCreateFailed,
	},
	StateTenantCreated: {
		EventProfileLinked: StateProfileLinked,
		EventProfileFailed: StateProfileLinkFailed,
	},
	StateCredentialCreateFailed: {EventCompensated: StateFailed},
	StateTenantCreateFailed:     {EventCompensated: StateFailed},
	StateProfileLinkFailed:      {EventCompensated: StateFailed},
}

var deleteTransitions = transitions{
	StateInit: {
		EventAdminLocated: StateAdminLocated,
		EventLookupFailed: StateAborted,
	},
	StateAdminLocated: {
		EventTenantDeleted:      StateTenantDeleted,
		EventTenantMissing:      StateTenantDeleted,
		EventTenantDeleteFailed: StateAborted,
	},
	StateTenantDeleted: {
		EventCredentialDeleted:      StateCredentialDeleted,
		EventNoCredential:           StateCredentialDeleted,
		EventCredentialDeleteFailed: StateCredentialDangling,
	},
}

// compensations lists, per failure state, the undo actions in the order they run.
var compensations = map[State][]compensation{
	StateCredentialCreateFailed: nil,
	StateTenantCreateFailed:     {compensateCredential},
	StateProfileLinkFailed:      {compensateTenant, compensateCredential},
}

type machine struct {
	table   transitions
	state   State
	history []State
}

func newMachine(table transitions) *machine {
	return &machine{table: table, state: StateInit, history: []State{StateInit}}
}

// fire applies ev. An event with no edge from the current state is a bug in
// the workflow, not a runtime condition.
func (m *machine) fire(ev Event) error {
	next, ok := m.table[m.state][ev]
	if !ok {
		return fmt.Errorf("provisioning: no transition from %s on %s", m.state, ev)
	}
	m.state = next
	m.history = append(m.history, next)
	return nil
}

func (m *machine) must(ev Event) {
	if err := m.fire(ev); err != nil {
		panic(err)
	}
}
