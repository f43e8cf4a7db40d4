package reconcile

// PreOutcome is the result of the pre-processing status check, run before any
// merge or creation action is attempted against the Tenders API.
type PreOutcome string

const (
	// ActionRequired - the user needs to be taken through merge/creation.
	ActionRequired PreOutcome = "UserPromptRequired"
	// AlreadyMerged - the account is already linked and correctly provisioned.
	AlreadyMerged PreOutcome = "UserMerged"
	// Unauthorised - the Tenders API rejected the user outright.
	Unauthorised PreOutcome = "Unauthorised"
	// Conflict - the account is in a conflicting state downstream.
	Conflict PreOutcome = "RoleMismatch"
	// PreError - an unexpected response the director cannot act on.
	PreError PreOutcome = "UnexpectedResponse"
)

// PostOutcome is the result of the post-processing check, run after a merge
// or creation action to confirm it succeeded and left the account consistent.
type PostOutcome string

const (
	// Valid - the downstream account matches what the user's roles require.
	Valid PostOutcome = "ValidState"
	// MergeFailure - the merge never completed, or left an unusable state.
	MergeFailure PostOutcome = "MergeFailed"
	// RoleConflict - the downstream account conflicts with the user's roles.
	RoleConflict PostOutcome = "RoleConflict"
	// RoleMismatch - the wrong account was merged, or permissions changed.
	RoleMismatch PostOutcome = "RoleMismatch"
	// WrongAccountType - the wrong type of account was merged (e.g. supplier
	// when a buyer account was needed).
	WrongAccountType PostOutcome = "WrongMerge"
	// EvaluatorMerged - an evaluator account was merged; the user must retry
	// the merge with a different account.
	EvaluatorMerged PostOutcome = "EvaluatorMerged"
	// NotEnoughAccounts - fewer accounts were merged than the user's role
	// setup requires.
	NotEnoughAccounts PostOutcome = "NotEnoughAccounts"
	// PostError - an unexpected response the director cannot act on.
	PostError PostOutcome = "UnexpectedResponse"
)

// CreateOutcome is the result of a user creation request to the Tenders API.
type CreateOutcome string

const (
	// UserCreated - the downstream account was created.
	UserCreated CreateOutcome = "UserCreated"
	// RoleMissing - the user lacks a role the downstream service requires.
	RoleMissing CreateOutcome = "RoleMissing"
	// CreationConflict - the account clashes with an existing downstream one.
	CreationConflict CreateOutcome = "RoleMismatch"
	// HelpdeskRequired - the account is in a state only the helpdesk can fix.
	HelpdeskRequired CreateOutcome = "HelpdeskNeeded"
	// AlreadyExists - an account already exists for this user.
	AlreadyExists CreateOutcome = "UserAlreadyExists"
	// CreateError - an unexpected response the director cannot act on.
	CreateError CreateOutcome = "UnexpectedFailure"
)
