package director

// State tracks where a login session has got to in the director flow. Each
// inbound request advances the flow by exactly one logical step; the three
// failure states are absorbing.
type State string

const (
	StateRoleChecked          State = "RoleChecked"
	StateMergeDecisionPending State = "MergeDecisionPending"
	StateCreating             State = "Creating"
	StateForwarded            State = "Forwarded"

	StateSessionExpired State = "SessionExpired"
	StateUnauthorised   State = "Unauthorised"
	StateErrored        State = "Errored"
)

// Branch names the single user-facing destination a decision maps to. Every
// outcome value maps to exactly one branch; display selection never depends
// on anything else.
type Branch string

const (
	// BranchForward sends the user's original request on to its destination.
	BranchForward Branch = "forward"
	// BranchProceed continues the flow to the action-request step.
	BranchProceed Branch = "proceed"
	// BranchMergePrompt shows the merge/create decision screen.
	BranchMergePrompt Branch = "merge-prompt"
	// BranchMergeRetry re-shows the merge screen with an error explaining
	// what was merged wrongly (selected by the decision's Outcome).
	BranchMergeRetry Branch = "merge-retry"
	// BranchReauthenticate clears the user down and restarts processing.
	BranchReauthenticate Branch = "reauthenticate"

	BranchGenericError   Branch = "error-generic"
	BranchSessionExpired Branch = "error-session-expired"
	BranchUnauthorised   Branch = "error-unauthorised"
	BranchRoleConflict   Branch = "error-role-conflict"
	BranchMergeError     Branch = "error-merge"
	BranchCreateError    Branch = "error-create"
	BranchHelpdesk       Branch = "error-helpdesk"
)

// Decision is the terminal result of one flow step.
type Decision struct {
	State       State
	Branch      Branch
	Outcome     string // underlying reconciliation outcome, where one applies
	RedirectURL string // set only for BranchForward
	ServiceName string // display name of the target service
}
